package web

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrImportsBusy is returned when every import slot is occupied and the wait
// timeout expires. Clients should retry after a short delay.
var ErrImportsBusy = errors.New("too many concurrent imports, please try again later")

// ImportLimiter caps the number of imports running at once. Parsing and
// persisting a large CSV holds memory and a database connection for the whole
// invocation, so unbounded parallel uploads can starve the rest of the API.
type ImportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
}

// NewImportLimiter allows at most maxConcurrent simultaneous imports.
// Callers that cannot acquire a slot within maxWait get ErrImportsBusy.
func NewImportLimiter(maxConcurrent int, maxWait time.Duration) *ImportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	if maxWait <= 0 {
		maxWait = 10 * time.Second
	}
	return &ImportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire claims an import slot, waiting up to the limiter's timeout. The
// caller must Release exactly once per successful Acquire.
func (l *ImportLimiter) Acquire(ctx context.Context) error {
	wait := time.NewTimer(l.maxWait)
	defer wait.Stop()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-wait.C:
		return ErrImportsBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot claimed by Acquire.
func (l *ImportLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// Active returns the number of imports currently running.
func (l *ImportLimiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}
