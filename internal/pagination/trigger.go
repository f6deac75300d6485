package pagination

import (
	"sync"
	"time"

	"github.com/amaumene/goanimefr/pkg/logger"
)

// Pager is the paginator surface the scroll trigger drives.
type Pager interface {
	LoadMore() error
	Loading() bool
	HasNextPage() bool
}

// Trigger converts viewport-proximity events into load-more calls. Rapid
// repeated events inside the debounce window collapse into a single call,
// and the trigger is inert while a load is in flight or when no further
// pages exist.
type Trigger struct {
	mu        sync.Mutex
	pager     Pager
	proximity float64
	debounce  time.Duration
	lastFire  time.Time
	now       func() time.Time
	logger    logger.Logger
}

// NewTrigger creates a Trigger firing when the viewport comes within
// proximityPx of the end of the list, at most once per debounce window.
func NewTrigger(pager Pager, proximityPx float64, debounce time.Duration, log logger.Logger) *Trigger {
	return &Trigger{
		pager:     pager,
		proximity: proximityPx,
		debounce:  debounce,
		now:       time.Now,
		logger:    log,
	}
}

// SetClock replaces the time source, for deterministic debounce in tests.
func (t *Trigger) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// Observe reports the current distance in pixels between the viewport and
// the end of the list. It returns true when a load-more was invoked.
func (t *Trigger) Observe(distancePx float64) bool {
	t.mu.Lock()
	if distancePx > t.proximity || t.pager.Loading() || !t.pager.HasNextPage() {
		t.mu.Unlock()
		return false
	}
	now := t.now()
	if !t.lastFire.IsZero() && now.Sub(t.lastFire) < t.debounce {
		t.mu.Unlock()
		return false
	}
	t.lastFire = now
	t.mu.Unlock()

	if err := t.pager.LoadMore(); err != nil {
		t.logger.Warnf("[Trigger] load more failed: %v", err)
	}
	return true
}
