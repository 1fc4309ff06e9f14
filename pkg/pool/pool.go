// Package pool adapts third-party goroutine-pool implementations
// behind one narrow interface, so the bulk processor's worker stage
// can be backed by ants, conc, or a plain
// unbounded-goroutine fallback without changing caller code.
package pool

import (
	"github.com/panjf2000/ants/v2"
	conc "github.com/sourcegraph/conc/pool"
)

// Pool submits work for concurrent execution. Submit may block if the
// underlying implementation is at capacity; it returns an error only
// if the pool itself rejects the task (e.g. already closed).
type Pool interface {
	Submit(f func()) error
}

type poolAdapter func(f func()) error

func (p poolAdapter) Submit(f func()) error { return p(f) }

// OfGoroutines returns a Pool with no concurrency limit: every Submit
// spawns a new goroutine. Useful for tests and small corpora where
// bounding is unnecessary.
func OfGoroutines() Pool {
	return poolAdapter(func(f func()) error {
		go f()
		return nil
	})
}

// OfAnts adapts a panjf2000/ants pool, the default backing for the
// bulk processor's bounded worker stage.
func OfAnts(p *ants.Pool) Pool {
	if p == nil {
		panic("ants pool is nil")
	}
	return poolAdapter(func(f func()) error {
		return p.Submit(f)
	})
}

// OfConc adapts a sourcegraph/conc pool, offered as an alternative
// backend demonstrating that Pool is not tied to ants specifically.
func OfConc(p *conc.Pool) Pool {
	if p == nil {
		panic("conc pool is nil")
	}
	return poolAdapter(func(f func()) error {
		p.Go(f)
		return nil
	})
}

// Limiter is a counting semaphore bounding how many goroutines may run
// a given section concurrently. Used by the bulk processor's
// Validation phase and anywhere a Pool's own concurrency cap isn't in
// scope.
type Limiter struct {
	slots chan struct{}
}

// NewLimiter constructs a Limiter allowing at most max concurrent
// holders. Panics if max <= 0.
func NewLimiter(max int) *Limiter {
	if max <= 0 {
		panic("pool: limiter max must be > 0")
	}
	return &Limiter{slots: make(chan struct{}, max)}
}

// Acquire blocks until a slot is available.
func (l *Limiter) Acquire() { l.slots <- struct{}{} }

// Release frees a slot acquired via Acquire.
func (l *Limiter) Release() { <-l.slots }
