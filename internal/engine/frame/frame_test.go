package frame

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTime is a settable time source.
type fakeTime struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeTime) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeTime) set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

func TestClockElapsed(t *testing.T) {
	base := time.Unix(1000, 0)
	ft := &fakeTime{t: base}
	c := newClockWith(ft.now)
	c.Start()

	assert.Equal(t, 0.0, c.Elapsed())
	ft.set(base.Add(1500 * time.Millisecond))
	assert.InDelta(t, 1500, c.Elapsed(), 1e-9)

	// a backwards step never lowers the reading
	ft.set(base.Add(time.Second))
	assert.InDelta(t, 1500, c.Elapsed(), 1e-9)
}

func TestLoopRunsRequestedFrames(t *testing.T) {
	loop := NewLoop(nil)
	var elapsed []float64
	var tick Callback
	tick = func(ms float64) {
		elapsed = append(elapsed, ms)
		if len(elapsed) < 5 {
			loop.RequestFrame(tick)
		}
	}
	loop.RequestFrame(tick)

	require.NoError(t, loop.Run(context.Background()))
	assert.Len(t, elapsed, 5)
	assert.Equal(t, uint64(5), loop.Frames())
	for i := 1; i < len(elapsed); i++ {
		assert.GreaterOrEqual(t, elapsed[i], elapsed[i-1])
	}
}

func TestLoopDrainsQueueBetweenFrames(t *testing.T) {
	loop := NewLoop(nil)
	var events []string

	loop.Post(func() { events = append(events, "task-before-first") })
	frames := 0
	var tick Callback
	tick = func(float64) {
		frames++
		events = append(events, "frame")
		if frames == 1 {
			loop.Post(func() {
				events = append(events, "task")
				loop.Post(func() { events = append(events, "nested") })
			})
			loop.RequestFrame(tick)
		}
	}
	loop.RequestFrame(tick)

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, []string{"task-before-first", "frame", "task", "nested", "frame"}, events)
}

func TestLoopStop(t *testing.T) {
	loop := NewLoop(nil)
	count := 0
	var tick Callback
	tick = func(float64) {
		count++
		if count == 3 {
			loop.Stop()
		}
		loop.RequestFrame(tick)
	}
	loop.RequestFrame(tick)

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 3, count)
}

func TestLoopContextCancel(t *testing.T) {
	loop := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	var tick Callback
	tick = func(float64) {
		count++
		if count == 2 {
			cancel()
		}
		loop.RequestFrame(tick)
	}
	loop.RequestFrame(tick)

	err := loop.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, count)
}

func TestPostFromGoroutines(t *testing.T) {
	loop := NewLoop(nil)
	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loop.Post(func() {
				mu.Lock()
				total++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	loop.RequestFrame(func(float64) {})
	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 20, total)
}

func TestFutureResolvesOnce(t *testing.T) {
	f := NewFuture[int]()
	assert.True(t, f.Resolve(1, nil))
	assert.False(t, f.Resolve(2, errors.New("late")))

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFutureContinuationRunsOnLoop(t *testing.T) {
	loop := NewLoop(nil)
	f := NewFuture[string]()

	var got []string
	f.Then(loop, func(v string, err error) {
		require.NoError(t, err)
		got = append(got, "before:"+v)
	})
	f.Resolve("wall", nil)
	// registered after resolution: posted immediately
	f.Then(loop, func(v string, err error) {
		got = append(got, "after:"+v)
	})

	// nothing runs until the loop drains
	assert.Empty(t, got)

	loop.RequestFrame(func(float64) {})
	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, []string{"before:wall", "after:wall"}, got)
}

func TestGoPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	f := Go(func() (int, error) { return 0, boom })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, boom)

	select {
	case <-f.Done():
	default:
		t.Fatal("Done not closed after resolution")
	}
}

func TestWaitHonoursContext(t *testing.T) {
	f := NewFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
