package radial

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	Rf "github.com/maroda/radial/face"
	Ro "github.com/maroda/radial/obvy"
	Rp "github.com/maroda/radial/plugin"
	Rt "github.com/maroda/radial/types"
	"go.opentelemetry.io/otel/attribute"
)

var ErrLoopStopped = errors.New("event loop is not running")

const eventBacklog = 64

// Painter puts one frame of the face on whatever the host displays
type Painter interface {
	PaintFrame(e *Rf.Engine) (Rt.Frame, error)
}

// Loop is the host event loop. Every engine hook, wake-up and paint
// runs on its single goroutine, so the face itself needs no locks.
type Loop struct {
	Engine  *Rf.Engine
	Painter Painter
	Stats   *Ro.StatsInternal
	Outputs []Rp.FrameOutput

	events  chan func()
	paint   chan struct{} // one slot: invalidates coalesce into one paint
	stop    chan struct{} // closed to ask the loop to exit
	done    chan struct{} // closed once it has
	once    sync.Once
	running atomic.Bool
	WG      sync.WaitGroup
	watchTZ bool // only touched on the loop goroutine
}

// NewLoop builds the engine with this loop as its host
func NewLoop(cfg Rf.EngineConfig, p Painter, stats *Ro.StatsInternal) *Loop {
	if stats == nil {
		stats = Ro.NewStatsInternal()
	}
	l := &Loop{
		Painter: p,
		Stats:   stats,
		events:  make(chan func(), eventBacklog),
		paint:   make(chan struct{}, 1),
	}
	l.Engine = Rf.NewEngine(cfg, l)
	l.Engine.Scheduler().OnWakeup = stats.RecWakeup
	return l
}

// Invalidate asks for a repaint. Requests made before the
// next paint collapse into a single frame.
func (l *Loop) Invalidate() {
	l.Stats.RecRedraw()
	select {
	case l.paint <- struct{}{}:
	default:
	}
}

// timerHandle is a wake-up backed by time.AfterFunc
type timerHandle struct {
	t *time.Timer
}

// Cancel is safe to call any number of times.
// A wake-up that already fired may still be queued on the loop,
// the scheduler discards it.
func (h *timerHandle) Cancel() {
	h.t.Stop()
}

// Schedule runs fire on the loop goroutine after d
func (l *Loop) Schedule(d time.Duration, fire func()) Rf.Handle {
	t := time.AfterFunc(d, func() { l.Post(fire) })
	return &timerHandle{t: t}
}

// WatchTimezone gates delivery of timezone changes
func (l *Loop) WatchTimezone(on bool) {
	l.watchTZ = on
	slog.Debug("Timezone receiver", slog.Bool("registered", on))
}

// Post queues f for the loop goroutine without waiting.
// Events posted after Stop are dropped.
func (l *Loop) Post(f func()) {
	select {
	case l.events <- f:
	case <-l.stopped():
	}
}

// Call runs f on the loop goroutine and waits for it.
// Never call it from the loop goroutine itself.
func (l *Loop) Call(f func()) error {
	if !l.running.Load() {
		return ErrLoopStopped
	}
	done := make(chan struct{})
	select {
	case l.events <- func() { defer close(done); f() }:
	case <-l.stopped():
		return ErrLoopStopped
	}
	select {
	case <-done:
		return nil
	case <-l.stopped():
		return ErrLoopStopped
	}
}

func (l *Loop) stopped() <-chan struct{} {
	// nil until started, never ready
	return l.done
}

// SetVisible delivers a visibility change
func (l *Loop) SetVisible(visible bool) {
	l.Post(func() { l.Engine.OnVisibilityChanged(visible) })
}

// SetAmbient delivers an ambient mode change
func (l *Loop) SetAmbient(ambient bool) {
	l.Post(func() { l.Engine.OnAmbientModeChanged(ambient) })
}

// TimezoneChanged is the timezone broadcast,
// dropped while the face has no receiver registered
func (l *Loop) TimezoneChanged(zone string) {
	l.Post(func() {
		if !l.watchTZ {
			slog.Debug("Timezone change while not watching", slog.String("zone", zone))
			return
		}
		l.Stats.RecTZ()
		l.Engine.OnTimezoneChanged(zone)
	})
}

// Start runs the loop until Stop or ctx is done
func (l *Loop) Start(ctx context.Context) {
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	l.running.Store(true)

	l.WG.Add(1)
	go func() {
		defer l.WG.Done()
		defer close(l.done)
		defer l.running.Store(false)
		l.run(ctx)
	}()
}

// Stop the Loop and wait for it to exit
func (l *Loop) Stop() {
	if l.stop == nil {
		return
	}
	l.once.Do(func() { close(l.stop) })
	l.WG.Wait()
}

func (l *Loop) run(ctx context.Context) {
	// Panic recovery and logging
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in event loop", slog.Any("panic", r))
			slog.Error("Recovered from panic", slog.String("stack", string(debug.Stack())))
		}
	}()

	l.Engine.OnCreate()
	defer l.Engine.Shutdown()

	// host minute tick, on the minute
	minute := time.NewTimer(Rf.NextDelay(time.Now(), time.Minute))
	defer minute.Stop()

	slog.Info("Starting face event loop")
	for {
		select {
		case f := <-l.events:
			f()
		case <-l.paint:
			l.paintOnce(ctx)
		case <-minute.C:
			l.Engine.OnTimeTick()
			minute.Reset(Rf.NextDelay(time.Now(), time.Minute))
		case <-l.stop:
			slog.Info("Stopping face event loop")
			return
		case <-ctx.Done():
			slog.Info("Face event loop context done", slog.Any("Error", ctx.Err()))
			return
		}
	}
}

func (l *Loop) paintOnce(ctx context.Context) {
	if l.Painter == nil {
		return
	}
	_, span := Ro.Tracer().Start(ctx, "paint")
	defer span.End()

	start := time.Now()
	frame, err := l.Painter.PaintFrame(l.Engine)
	if err != nil {
		slog.Error("Failed to paint frame", slog.Any("Error", err))
		span.RecordError(err)
		return
	}

	mode := "interactive"
	if frame.Ambient {
		mode = "ambient"
	}
	l.Stats.RecPaint(mode, time.Since(start).Seconds())
	span.SetAttributes(
		attribute.String("mode", mode),
		attribute.Int("ops", len(frame.Ops)),
		attribute.String("zone", frame.Zone),
	)

	for _, out := range l.Outputs {
		if err := out.WriteFrame(frame); err != nil {
			slog.Error("Frame output failed",
				slog.String("output", out.Type()),
				slog.Any("Error", err))
		}
	}
}
