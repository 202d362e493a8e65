// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces requests so that callers stay under a fixed per-second
// budget. NCBI E-utilities allows 3 requests per second anonymously and
// 10 per second with an API key; exceeding the budget draws HTTP 429s.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewPacer returns a Pacer that permits perSecond requests per second.
// A non-positive perSecond disables pacing.
func NewPacer(perSecond int) *Pacer {
	p := &Pacer{}
	if perSecond > 0 {
		p.interval = time.Second / time.Duration(perSecond)
	}
	return p
}

// Wait blocks until the next request slot is available or the context is
// cancelled. Safe for concurrent use; slots are granted in lock order.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := time.Now()
	next := p.last.Add(p.interval)
	if next.Before(now) {
		next = now
	}
	p.last = next
	p.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
