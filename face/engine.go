package radial

import (
	"log/slog"

	Rt "github.com/maroda/radial/types"
)

// Host is everything the face needs from the runtime it is embedded in
type Host interface {
	WakeupHost

	// Invalidate requests a repaint, the host coalesces requests
	Invalidate()

	// WatchTimezone starts or stops delivery of timezone changes
	WatchTimezone(on bool)
}

// EngineConfig is the engine's share of Config
type EngineConfig struct {
	Style    Style
	Basis    Basis
	Hours12  bool
	Zone     string // empty is the system default
	Fallback ZoneFallback
	Clock    Clock // nil is the real clock
}

// Engine owns the time source, the renderer and the redraw scheduler,
// and exposes the host lifecycle hooks.
// Only ModeState and the pending wake-up survive between frames.
type Engine struct {
	cfg       EngineConfig
	host      Host
	time      *TimeSource
	renderer  *Renderer
	scheduler *RedrawScheduler
	mode      Rt.ModeState
	watchTZ   bool // timezone receiver registered
}

// NewEngine starts not visible, not ambient, with the scheduler Idle
func NewEngine(cfg EngineConfig, host Host) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	e := &Engine{
		cfg:  cfg,
		host: host,
	}
	e.time = NewTimeSource(cfg.Clock, cfg.Zone, cfg.Fallback)
	e.scheduler = NewRedrawScheduler(cfg.Clock, host, host.Invalidate)
	return e
}

// OnCreate builds the paint state once
func (e *Engine) OnCreate() {
	e.renderer = NewRenderer(e.cfg.Style, e.cfg.Basis, e.cfg.Hours12)
	slog.Info("Face created",
		slog.String("style", e.renderer.Style.Name),
		slog.String("basis", e.renderer.Basis.String()),
		slog.String("zone", e.time.Zone()))
}

// Frame renders the current time without painting it anywhere
func (e *Engine) Frame(bounds Rt.Rect) Rt.Frame {
	return e.Frames(bounds)[0]
}

// Frames renders one snapshot at several sizes, so every frame
// shows the same instant.
func (e *Engine) Frames(bounds ...Rt.Rect) []Rt.Frame {
	if e.renderer == nil {
		e.OnCreate()
	}
	snap := e.time.Snapshot()
	frames := make([]Rt.Frame, len(bounds))
	for i, b := range bounds {
		frames[i] = e.renderer.Render(snap, b, e.mode)
	}
	return frames
}

// OnDraw takes a fresh snapshot and paints it.
// Nothing changes besides the surface.
func (e *Engine) OnDraw(s Surface, bounds Rt.Rect) Rt.Frame {
	f := e.Frame(bounds)
	Paint(s, f)
	return f
}

// OnVisibilityChanged registers for timezone changes while visible.
// The zone may have been overridden while hidden so it is reset to the
// system zone on the way back.
func (e *Engine) OnVisibilityChanged(visible bool) {
	e.mode.Visible = visible

	if visible {
		e.watchTimezone(true)
		e.time.ResetZone()
	} else {
		e.watchTimezone(false)
	}

	e.scheduler.Update(e.mode)
}

func (e *Engine) watchTimezone(on bool) {
	if e.watchTZ == on {
		return
	}
	e.watchTZ = on
	e.host.WatchTimezone(on)
}

// OnAmbientModeChanged re-evaluates the timer and redraws once
func (e *Engine) OnAmbientModeChanged(ambient bool) {
	e.mode.Ambient = ambient
	e.scheduler.Update(e.mode)
	e.host.Invalidate()
}

// OnTimeTick is the host's once a minute tick, safe in ambient mode
func (e *Engine) OnTimeTick() {
	e.host.Invalidate()
}

// OnTimezoneChanged switches the active zone
func (e *Engine) OnTimezoneChanged(id string) {
	e.time.SetTimezone(id)
	e.host.Invalidate()
}

// Shutdown drops the pending wake-up and the timezone registration
func (e *Engine) Shutdown() {
	e.scheduler.Stop()
	e.watchTimezone(false)
}

func (e *Engine) Mode() Rt.ModeState { return e.mode }
func (e *Engine) Scheduler() *RedrawScheduler { return e.scheduler }
func (e *Engine) TimeSource() *TimeSource { return e.time }
func (e *Engine) WatchingTimezone() bool { return e.watchTZ }
