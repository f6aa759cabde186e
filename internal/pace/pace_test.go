// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pace

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_StaysWithinClosedInterval(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	p := Uniform(45*time.Second, 50*time.Second)
	p.Int64N = r.Int64N

	for i := 0; i < 10000; i++ {
		d := p.Next()
		require.GreaterOrEqual(t, d, 45*time.Second)
		require.LessOrEqual(t, d, 50*time.Second)
	}
}

func TestNext_ReachesBothBounds(t *testing.T) {
	p := Uniform(45*time.Second, 50*time.Second)

	p.Int64N = func(int64) int64 { return 0 }
	assert.Equal(t, 45*time.Second, p.Next())

	p.Int64N = func(n int64) int64 { return n - 1 }
	assert.Equal(t, 50*time.Second, p.Next())
}

func TestNext_PassesSpanToSource(t *testing.T) {
	var got int64
	p := Uniform(45*time.Second, 50*time.Second)
	p.Int64N = func(n int64) int64 {
		got = n
		return 0
	}
	p.Next()
	assert.Equal(t, int64(5*time.Second)+1, got)
}

func TestFixed(t *testing.T) {
	p := Fixed(time.Second)
	p.Int64N = func(int64) int64 {
		t.Fatal("fixed pacer should not draw")
		return 0
	}
	assert.Equal(t, time.Second, p.Next())
}

func TestUniform_SwapsBounds(t *testing.T) {
	p := Uniform(50*time.Second, 45*time.Second)
	assert.Equal(t, 45*time.Second, p.Min)
	assert.Equal(t, 50*time.Second, p.Max)
}

func TestWait_UsesInjectedSleep(t *testing.T) {
	var slept []time.Duration
	p := Uniform(45*time.Second, 50*time.Second)
	p.Int64N = func(int64) int64 { return int64(2 * time.Second) }
	p.Sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	d, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 47*time.Second, d)
	assert.Equal(t, []time.Duration{47 * time.Second}, slept)
}

func TestWait_ZeroDelayDoesNotSleep(t *testing.T) {
	p := Fixed(0)
	p.Sleep = func(context.Context, time.Duration) error {
		t.Fatal("zero delay should not sleep")
		return nil
	}
	d, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestWait_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := Fixed(time.Minute).Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWait_RealSleepShortInterval(t *testing.T) {
	start := time.Now()
	_, err := Fixed(5 * time.Millisecond).Wait(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}
