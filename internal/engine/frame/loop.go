package frame

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/dualview/internal/logger"
)

// Callback draws one frame. elapsed is milliseconds since the loop started.
type Callback func(elapsed float64)

// Poster accepts tasks to run on the loop goroutine.
type Poster interface {
	Post(fn func())
}

// Loop runs frame callbacks one at a time on the goroutine that calls Run.
// Tasks posted from any goroutine run on that same goroutine, between
// frames, never during one.
type Loop struct {
	clock *Clock
	log   *zap.Logger

	mu      sync.Mutex
	queue   []func()
	pending []Callback
	stopped bool

	frames uint64
}

// NewLoop creates a loop timed by clock.
func NewLoop(clock *Clock) *Loop {
	if clock == nil {
		clock = NewClock()
	}
	return &Loop{clock: clock, log: logger.Named("frame")}
}

// RequestFrame schedules fn for the next frame. Every callback requested
// before a frame begins runs in that frame, in request order.
func (l *Loop) RequestFrame(fn Callback) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
}

// Post queues fn to run on the loop goroutine before the next frame.
// Safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
}

// Stop ends Run after the current frame.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
}

// Frames returns how many frames have run.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Clock returns the loop's clock.
func (l *Loop) Clock() *Clock { return l.clock }

// Run drives frames until ctx is done, Stop is called, or a frame ends
// without requesting another.
func (l *Loop) Run(ctx context.Context) error {
	l.clock.Start()
	l.log.Debug("loop started")

	for {
		if err := ctx.Err(); err != nil {
			l.log.Debug("loop cancelled", zap.Uint64("frames", l.Frames()))
			return err
		}

		l.drain()

		l.mu.Lock()
		if l.stopped {
			l.mu.Unlock()
			l.log.Debug("loop stopped", zap.Uint64("frames", l.frames))
			return nil
		}
		callbacks := l.pending
		l.pending = nil
		l.mu.Unlock()

		if len(callbacks) == 0 {
			l.log.Debug("no frame requested, loop idle", zap.Uint64("frames", l.Frames()))
			return nil
		}

		elapsed := l.clock.Elapsed()
		for _, fn := range callbacks {
			fn(elapsed)
		}

		l.mu.Lock()
		l.frames++
		l.mu.Unlock()
	}
}

// drain runs queued tasks, including any they post, until the queue is empty.
func (l *Loop) drain() {
	for {
		l.mu.Lock()
		tasks := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(tasks) == 0 {
			return
		}
		for _, task := range tasks {
			task()
		}
	}
}
