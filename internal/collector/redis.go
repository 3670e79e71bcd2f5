package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"BreakoutSentinel/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

const defaultRedisKey = "sentinel:ohlcv"

// RedisConfig configures the Redis cache.
type RedisConfig struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
	Key      string
	TTL      time.Duration // 0 keeps the entry until cleared
}

// RedisCache stores the table as one JSON value.
type RedisCache struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

// NewRedisCache connects to Redis and pings the server.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisCache{client: client, key: key, ttl: cfg.TTL}, nil
}

func (c *RedisCache) Load(ctx context.Context) (*model.Table, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", c.key, err)
	}
	return decodeTable(raw)
}

func (c *RedisCache) Store(ctx context.Context, table *model.Table) error {
	raw, err := encodeTable(table)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", c.key, err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis DEL %s: %w", c.key, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

type redisBar struct {
	Date   string  `json:"d"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
}

func encodeTable(table *model.Table) ([]byte, error) {
	out := make(map[string][]redisBar, len(table.Bars))
	for _, symbol := range table.Symbols() {
		series := table.Series(symbol)
		bars := make([]redisBar, len(series))
		for i, b := range series {
			bars[i] = redisBar{
				Date:   b.Time.Format(dateLayout),
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: b.Volume,
			}
		}
		out[symbol] = bars
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	return raw, nil
}

func decodeTable(raw []byte) (*model.Table, error) {
	var in map[string][]redisBar
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}
	table := model.NewTable()
	for symbol, bars := range in {
		series := make(model.Series, len(bars))
		for i, b := range bars {
			day, err := time.Parse(dateLayout, b.Date)
			if err != nil {
				return nil, fmt.Errorf("decode table %s: %w", symbol, err)
			}
			series[i] = model.OHLCV{
				Time:   day,
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: b.Volume,
			}
		}
		table.Set(symbol, series)
	}
	return table, nil
}
