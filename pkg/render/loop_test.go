package render

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestLoop(t *testing.T, opts LoopOptions) (*Loop, *Renderer, *recordingSurface) {
	t.Helper()
	r, s := newTestRenderer(t, DefaultModes(), frontTriangle())
	return NewLoop(r, opts), r, s
}

func TestLoopStepOrder(t *testing.T) {
	var fps string
	l, r, _ := newTestLoop(t, LoopOptions{})
	r.fpsDisplay = SinkFunc(func(s string) { fps = s })

	t0 := time.Unix(100, 0)
	r.Camera().SetInput(KeyState{KeyForward: t0})

	var frames []FrameStats
	l.onFrame = func(st FrameStats) { frames = append(frames, st) }

	if _, err := l.Step(t0); err != nil {
		t.Fatal(err)
	}
	// The first tick has no previous tick to measure from.
	if r.Camera().Position.Z != 0 {
		t.Errorf("camera moved on first tick: %v", r.Camera().Position)
	}
	if fps != "0" {
		t.Errorf("fps display = %q, want 0", fps)
	}

	if _, err := l.Step(t0.Add(50 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if z := r.Camera().Position.Z; z < 4.999 || z > 5.001 {
		t.Errorf("camera z = %v, want 5 after 50ms forward", z)
	}
	if len(frames) != 2 || frames[1].Drawn != 1 {
		t.Errorf("frames = %+v", frames)
	}
	if l.Ticks() != 2 || l.Clock().Cursor() != 2 {
		t.Errorf("ticks=%d cursor=%d", l.Ticks(), l.Clock().Cursor())
	}
}

func TestLoopPostAppliedBeforeTick(t *testing.T) {
	l, r, _ := newTestLoop(t, LoopOptions{})
	l.Post(func() { r.Camera().Yaw = 180 })

	st, err := l.Step(time.Unix(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if st.Culled != 1 {
		t.Errorf("stats = %+v, want the posted yaw applied before drawing", st)
	}
}

func TestLoopStopIdempotent(t *testing.T) {
	l, _, s := newTestLoop(t, LoopOptions{})
	l.Stop()
	l.Stop()
	if !l.Stopped() {
		t.Fatal("Stopped() = false")
	}

	s.reset()
	l.Step(time.Unix(1, 0))
	if len(s.calls) != 0 || l.Ticks() != 0 {
		t.Errorf("tick ran after Stop: %v", s.ops())
	}

	// Post after Stop must not block.
	done := make(chan struct{})
	go func() {
		for range 100 {
			l.Post(func() {})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post blocked after Stop")
	}
}

func TestLoopRecoversPanic(t *testing.T) {
	calls := 0
	l, _, _ := newTestLoop(t, LoopOptions{OnFrame: func(FrameStats) {
		calls++
		if calls == 1 {
			panic("boom")
		}
	}})

	if _, err := l.Step(time.Unix(1, 0)); err == nil {
		t.Error("Step() did not report the panic")
	}
	st, err := l.Step(time.Unix(2, 0))
	if err != nil {
		t.Fatalf("second Step() = %v", err)
	}
	if st.Drawn != 1 {
		t.Errorf("second tick stats = %+v", st)
	}
}

func TestLoopSurvivesBadPolygon(t *testing.T) {
	r, _ := newTestRenderer(t, Modes{Polygons: true}, frontTriangle(), nanTriangle(), frontTriangle())
	frames := 0
	l := NewLoop(r, LoopOptions{OnFrame: func(FrameStats) { frames++ }})

	for i := range 3 {
		st, err := l.Step(time.Unix(int64(i+1), 0))
		if err != nil {
			t.Fatalf("Step() = %v", err)
		}
		if st.Drawn != 2 || st.Failed != 1 {
			t.Errorf("tick %d stats = %+v", i, st)
		}
	}
	if frames != 3 {
		t.Errorf("OnFrame calls = %d, want 3", frames)
	}
}

func TestNewLoopClampsTPS(t *testing.T) {
	r, _ := newTestRenderer(t, Modes{})
	l := NewLoop(r, LoopOptions{TPS: 2_000_000_000})
	if l.period != time.Second/MaxTPS {
		t.Errorf("period = %v, want %v", l.period, time.Second/MaxTPS)
	}
}

func TestLoopFocalStep(t *testing.T) {
	f := NewFocalController(60, DefaultFocal)
	f.ToggleOscillate()
	l, r, _ := newTestLoop(t, LoopOptions{Focal: f})
	r.SetFocal(299)

	l.Step(time.Unix(1, 0))
	if r.Focal() != 301 {
		t.Errorf("Focal() = %v, want 301", r.Focal())
	}
	l.Step(time.Unix(2, 0))
	if r.Focal() != 299 {
		t.Errorf("Focal() = %v, want 299 after bouncing", r.Focal())
	}
}

func TestLoopRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticked := make(chan struct{}, 1)
	l, _, _ := newTestLoop(t, LoopOptions{
		TPS: 200,
		OnFrame: func(FrameStats) {
			select {
			case ticked <- struct{}{}:
			default:
			}
		},
	})

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s")
	}

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !l.Stopped() {
		t.Error("loop not stopped after cancel")
	}
}

func TestLoopRunStop(t *testing.T) {
	l, _, _ := newTestLoop(t, LoopOptions{TPS: 200})
	errc := make(chan error, 1)
	go func() { errc <- l.Run(context.Background()) }()

	l.Stop()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
