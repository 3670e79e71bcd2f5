package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"BreakoutSentinel/internal/model"
)

// ErrCacheMiss is returned by Cache.Load when nothing has been stored.
var ErrCacheMiss = errors.New("cache miss")

// Cache persists a fetched table between runs.
type Cache interface {
	Load(ctx context.Context) (*model.Table, error)
	Store(ctx context.Context, table *model.Table) error
	Clear(ctx context.Context) error
}

const dateLayout = "2006-01-02"

var csvHeader = []string{"date", "symbol", "open", "high", "low", "close", "volume"}

// FileCache stores the table as a long-format CSV file, one row per symbol and date.
type FileCache struct {
	Path string
}

// NewFileCache creates a file cache at path.
func NewFileCache(path string) *FileCache {
	return &FileCache{Path: path}
}

func (c *FileCache) Load(_ context.Context) (*model.Table, error) {
	f, err := os.Open(c.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()
	return readCSV(f)
}

// Store writes the table atomically via a temp file in the same directory.
func (c *FileCache) Store(_ context.Context, table *model.Table) error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.Path), ".ohlcv-*.csv")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, table); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

func (c *FileCache) Clear(_ context.Context) error {
	if err := os.Remove(c.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cache: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, table *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	for _, symbol := range table.Symbols() {
		for _, b := range table.Series(symbol) {
			rec := []string{
				b.Time.Format(dateLayout),
				symbol,
				formatFloat(b.Open),
				formatFloat(b.High),
				formatFloat(b.Low),
				formatFloat(b.Close),
				formatFloat(b.Volume),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("write cache: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

func readCSV(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("read cache header: %w", err)
	}

	bars := make(map[string]model.Series)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read cache: %w", err)
		}
		bar, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("cache line %d: %w", line, err)
		}
		bars[rec[1]] = append(bars[rec[1]], bar)
	}

	table := model.NewTable()
	for symbol, s := range bars {
		table.Set(symbol, s)
	}
	return table, nil
}

func parseRecord(rec []string) (model.OHLCV, error) {
	day, err := time.Parse(dateLayout, rec[0])
	if err != nil {
		return model.OHLCV{}, fmt.Errorf("column date: %w", err)
	}
	var vals [5]float64
	for i := range vals {
		v, err := strconv.ParseFloat(rec[i+2], 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("column %s: %w", csvHeader[i+2], err)
		}
		vals[i] = v
	}
	return model.OHLCV{
		Time:   day,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
