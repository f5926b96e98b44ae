// Package clock holds the context-aware waits shared by the polling loops.
package clock

import (
	"context"
	"time"
)

// Sleep waits for d unless ctx ends first, in which case ctx.Err() is returned. A non-positive d only reports
// whether ctx is already done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Backoff produces doubling delays between Initial and Max.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration

	next time.Duration
}

// Next returns the delay to wait now and doubles the following one.
func (b *Backoff) Next() time.Duration {
	if b.next <= 0 {
		b.next = b.Initial
	}
	d := b.next
	b.next *= 2
	if b.Max > 0 && b.next > b.Max {
		b.next = b.Max
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	return d
}

// Reset starts the sequence over from Initial.
func (b *Backoff) Reset() {
	b.next = 0
}

// Wait sleeps for the next delay or until ctx is done.
func (b *Backoff) Wait(ctx context.Context) error {
	return Sleep(ctx, b.Next())
}
