// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pace spaces out consecutive requests to the same site.
package pace

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer waits a duration drawn uniformly from the closed interval
// [Min, Max]. A Pacer with Min == Max waits a fixed interval.
//
// Int64N and Sleep default to math/rand/v2 and a context-aware timer.
// Tests replace them to observe the chosen delays without waiting.
type Pacer struct {
	Min time.Duration
	Max time.Duration

	// Int64N returns a value in [0, n).
	Int64N func(n int64) int64

	// Sleep blocks for d or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Uniform returns a Pacer over [min, max]. Swapped bounds are reordered.
func Uniform(min, max time.Duration) *Pacer {
	if max < min {
		min, max = max, min
	}
	return &Pacer{Min: min, Max: max}
}

// Fixed returns a Pacer that always waits d.
func Fixed(d time.Duration) *Pacer {
	return &Pacer{Min: d, Max: d}
}

// Next draws the next delay.
func (p *Pacer) Next() time.Duration {
	span := int64(p.Max - p.Min)
	if span <= 0 {
		return p.Min
	}
	int64n := p.Int64N
	if int64n == nil {
		int64n = rand.Int64N
	}
	// +1 so that Max itself can be drawn.
	return p.Min + time.Duration(int64n(span+1))
}

// Wait draws a delay and sleeps for it. It returns the delay and ctx.Err()
// if the context ends first.
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	d := p.Next()
	if d <= 0 {
		return 0, ctx.Err()
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return d, sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
