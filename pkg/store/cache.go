package store

import (
	"sync"
	"time"

	"github.com/boattime/portfolio/pkg/telemetry"
)

// SnapshotCache holds the most recent successfully collected snapshot.
// It is used to serve degraded dashboards when live collection fails.
type SnapshotCache struct {
	mu       sync.RWMutex
	snapshot *telemetry.Snapshot
	storedAt time.Time
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Put replaces the cached snapshot.
func (c *SnapshotCache) Put(s *telemetry.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = s
	c.storedAt = time.Now()
}

// Get returns the cached snapshot and when it was stored. The second
// return is false when nothing has been cached yet.
func (c *SnapshotCache) Get() (*telemetry.Snapshot, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil, time.Time{}, false
	}
	return c.snapshot, c.storedAt, true
}

// Age returns how long ago the snapshot was cached, or false when empty.
func (c *SnapshotCache) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return 0, false
	}
	return time.Since(c.storedAt), true
}
