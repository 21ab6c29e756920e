package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tick rate bounds.
const (
	DefaultTPS = 60
	MaxTPS     = 1000
)

// LoopOptions configures a Loop.
type LoopOptions struct {
	// TPS is the target number of ticks per second.
	TPS int
	// DisplayRefresh throttles FPS and focal display updates.
	DisplayRefresh time.Duration
	// Focal, if set, steps the renderer's focal distance every tick.
	Focal *FocalController
	// OnFrame is called after every rendered frame on the loop goroutine.
	OnFrame func(FrameStats)
	Logger  *zap.Logger
}

// Loop drives a Renderer at a fixed rate. Every tick runs to completion on
// a single goroutine: frame timing, focal step, camera move, then frame.
// Input is applied between ticks through Post.
type Loop struct {
	renderer *Renderer
	focal    *FocalController
	clock    *FrameClock
	throttle Throttle
	period   time.Duration
	onFrame  func(FrameStats)
	log      *zap.Logger

	posts    chan func()
	done     chan struct{}
	stopOnce sync.Once
	ticks    int
}

// NewLoop creates a loop for r.
func NewLoop(r *Renderer, opts LoopOptions) *Loop {
	if opts.TPS <= 0 {
		opts.TPS = DefaultTPS
	}
	if opts.DisplayRefresh <= 0 {
		opts.DisplayRefresh = DefaultDisplayRefresh
	}
	opts.TPS = min(opts.TPS, MaxTPS)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	r.focalCtl = opts.Focal
	return &Loop{
		renderer: r,
		focal:    opts.Focal,
		clock:    NewFrameClock(time.Time{}),
		throttle: Throttle{Interval: opts.DisplayRefresh},
		period:   time.Second / time.Duration(opts.TPS),
		onFrame:  opts.OnFrame,
		log:      opts.Logger,
		posts:    make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// Clock returns the loop's frame clock.
func (l *Loop) Clock() *FrameClock { return l.clock }

// Ticks returns how many ticks have run.
func (l *Loop) Ticks() int { return l.ticks }

// Post queues fn to run on the loop goroutine before the next tick.
// It is safe to call from any goroutine and drops fn once the loop stops.
func (l *Loop) Post(fn func()) {
	select {
	case l.posts <- fn:
	case <-l.done:
	}
}

// Run ticks until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	l.log.Info("loop started", zap.Duration("period", l.period))
	defer l.log.Info("loop stopped", zap.Int("ticks", l.ticks))

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.posts:
			fn()
		case now := <-ticker.C:
			l.Step(now)
		}
	}
}

// Stop ends the loop. Further ticks do nothing. Calling Stop again is a no-op.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Step runs one tick at now. Hosts with their own scheduler call Step
// directly instead of Run. A panic inside the tick is logged and the tick
// is abandoned; the next Step proceeds normally.
func (l *Loop) Step(now time.Time) (st FrameStats, err error) {
	if l.Stopped() {
		return st, nil
	}
	l.drain()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tick %d: panic: %v", l.ticks, rec)
			l.log.Error("tick failed", zap.Error(err))
		}
	}()

	l.ticks++
	elapsed := l.clock.Tick(now)
	if l.throttle.Ready(now) {
		l.renderer.Refresh(l.clock.FPS())
	}
	if l.focal != nil {
		l.renderer.focal = l.focal.Step(l.renderer.focal)
	}
	l.renderer.Camera().Move(elapsed)

	st = l.renderer.Frame()
	if st.Failed > 0 {
		l.log.Warn("primitives dropped", zap.Int("count", st.Failed))
	}
	if l.onFrame != nil {
		l.onFrame(st)
	}
	return st, nil
}

// drain runs queued input without blocking.
func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.posts:
			fn()
		default:
			return
		}
	}
}
