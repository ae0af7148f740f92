package radial_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	Rd "github.com/maroda/radial/display"
	Rf "github.com/maroda/radial/face"
	Rt "github.com/maroda/radial/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLoop(t *testing.T) {
	t.Run("Coalesces invalidates into one paint", func(t *testing.T) {
		p := &countingPainter{}
		l := makeTestLoop(t, p)

		err := l.Call(func() {
			for range 5 {
				l.Invalidate()
			}
		})
		assertError(t, err, nil)

		waitFor(t, func() bool { return p.count.Load() >= 1 })
		time.Sleep(50 * time.Millisecond)
		assertInt(t, int(p.count.Load()), 1)

		redraws := testutil.ToFloat64(l.Stats.Redraws)
		if redraws != 5 {
			t.Errorf("got %v redraw requests, want 5", redraws)
		}
	})

	t.Run("Visible interactive face arms one wake-up", func(t *testing.T) {
		l := makeTestLoop(t, &countingPainter{})
		l.SetVisible(true)

		var state Rf.SchedulerState
		var pending bool
		err := l.Call(func() {
			state = l.Engine.Scheduler().State()
			pending = l.Engine.Scheduler().Pending()
		})
		assertError(t, err, nil)
		if state != Rf.Scheduled || !pending {
			t.Errorf("got %v pending %v, want scheduled with a pending wake-up", state, pending)
		}
	})

	t.Run("Ambient drops the wake-up", func(t *testing.T) {
		l := makeTestLoop(t, &countingPainter{})
		l.SetVisible(true)
		l.SetAmbient(true)

		var pending bool
		err := l.Call(func() { pending = l.Engine.Scheduler().Pending() })
		assertError(t, err, nil)
		if pending {
			t.Errorf("ambient face should not have a pending wake-up")
		}
	})

	t.Run("Wake-ups repaint every second", func(t *testing.T) {
		p := &countingPainter{}
		l := makeTestLoop(t, p)
		l.SetVisible(true)

		// the visible transition paints once, the first wake-up at most a second later
		waitFor(t, func() bool { return p.count.Load() >= 2 })
		if got := testutil.ToFloat64(l.Stats.Wakeups); got < 1 {
			t.Errorf("expected a recorded wake-up, got %v", got)
		}
	})

	t.Run("Outputs receive every painted frame", func(t *testing.T) {
		out := &recordOutput{}
		l := makeTestLoop(t, &countingPainter{})
		l.Outputs = append(l.Outputs, out)

		l.Post(l.Invalidate)
		waitFor(t, func() bool { return out.len() >= 1 })

		f := out.last()
		assertInt(t, f.Version, Rf.FrameVersion)
	})

	t.Run("Timezone changes only reach a visible face", func(t *testing.T) {
		l := makeTestLoop(t, &countingPainter{})

		l.TimezoneChanged("Asia/Tokyo")
		assertString(t, loopZone(t, l), "UTC")

		l.SetVisible(true)
		l.TimezoneChanged("Asia/Tokyo")
		assertString(t, loopZone(t, l), "Asia/Tokyo")

		if got := testutil.ToFloat64(l.Stats.TZ); got != 1 {
			t.Errorf("got %v timezone changes, want 1", got)
		}
	})

	t.Run("Cancelled wake-up never fires", func(t *testing.T) {
		l := makeTestLoop(t, &countingPainter{})

		var fired atomic.Bool
		h := l.Schedule(20*time.Millisecond, func() { fired.Store(true) })
		h.Cancel()
		h.Cancel()

		time.Sleep(80 * time.Millisecond)
		if fired.Load() {
			t.Errorf("cancelled wake-up fired")
		}
	})

	t.Run("Call fails before start and after stop", func(t *testing.T) {
		l := Rd.NewLoop(makeTestEngineConfig(), &countingPainter{}, nil)
		err := l.Call(func() {})
		if !errors.Is(err, Rd.ErrLoopStopped) {
			t.Errorf("got %v, want ErrLoopStopped", err)
		}

		l.Start(t.Context())
		assertError(t, l.Call(func() {}), nil)

		l.Stop()
		l.Stop()
		err = l.Call(func() {})
		if !errors.Is(err, Rd.ErrLoopStopped) {
			t.Errorf("got %v, want ErrLoopStopped", err)
		}
	})

	t.Run("Stopping shuts the engine down", func(t *testing.T) {
		l := Rd.NewLoop(makeTestEngineConfig(), &countingPainter{}, nil)
		l.Start(t.Context())
		l.SetVisible(true)
		assertError(t, l.Call(func() {}), nil)

		l.Stop()
		if l.Engine.Scheduler().Pending() || l.Engine.WatchingTimezone() {
			t.Errorf("engine still holds a wake-up or timezone receiver after stop")
		}
	})
}

// Helpers //

type countingPainter struct {
	count atomic.Int32
}

func (p *countingPainter) PaintFrame(e *Rf.Engine) (Rt.Frame, error) {
	p.count.Add(1)
	return e.Frame(Rf.Bounds(100, 100)), nil
}

type recordOutput struct {
	mu     sync.Mutex
	frames []Rt.Frame
}

func (o *recordOutput) WriteFrame(f Rt.Frame) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.frames = append(o.frames, f)
	return nil
}

func (o *recordOutput) Close() error { return nil }
func (o *recordOutput) Type() string { return "record" }

func (o *recordOutput) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.frames)
}

func (o *recordOutput) last() Rt.Frame {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frames[len(o.frames)-1]
}

func makeTestLoop(t *testing.T, p Rd.Painter) *Rd.Loop {
	t.Helper()
	l := Rd.NewLoop(makeTestEngineConfig(), p, nil)
	l.Start(t.Context())
	t.Cleanup(l.Stop)
	return l
}

func loopZone(t *testing.T, l *Rd.Loop) string {
	t.Helper()
	var zone string
	assertError(t, l.Call(func() { zone = l.Engine.TimeSource().Zone() }), nil)
	return zone
}

// waitFor polls cond for up to three seconds
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}
