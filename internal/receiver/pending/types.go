package pending

import (
	"errors"
	"sync"
	"time"
)

// Returned when a message id has no buffered chunks (raced with a concurrent drop)
var ErrNotFound = errors.New("no pending chunks for message id")

type slot struct {
	payload []byte
	arrival time.Time
}

// All buffered chunks of one in-flight message
type message struct {
	slots         map[int]slot // keyed by sequence number
	declaredCount int          // sequence count from the first chunk (slot zero), 0 until it arrives
	oldestArrival time.Time
	source        string // remote address, chunk zero wins
	byteSize      int
}

type shard struct {
	mu       sync.Mutex
	messages map[string]*message // keyed by message id
}

type Store struct {
	Namespace []string
	shards    []*shard
	Metrics   *MetricStorage
}

// Point-in-time view of one pending message for sweep decisions
type Info struct {
	SlotCount     int  // distinct sequence numbers buffered
	HasFirst      bool // chunk zero present
	DeclaredCount int  // total chunks per chunk zero, 0 when chunk zero absent
	OldestArrival time.Time
	Source        string
}
