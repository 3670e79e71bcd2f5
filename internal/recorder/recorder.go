package recorder

import (
	"context"
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"BreakoutSentinel/internal/model"

	"github.com/oklog/ulid/v2"
)

// SignalRecord is one fired signal as stored in the run history.
type SignalRecord struct {
	RunID      string
	AsOf       time.Time
	Symbol     string
	EntryPrice float64
	Valid      bool
	Status     model.PositionStatus
}

// Recorder persists pipeline runs for later analysis.
type Recorder interface {
	RecordRun(ctx context.Context, res *model.RunResult) error
	RecentSignals(ctx context.Context, limit int) ([]SignalRecord, error)
	Close() error
}

var (
	idMu sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewRunID returns a time-sortable run identifier.
func NewRunID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), mono).String()
}
