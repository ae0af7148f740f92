package radial

import (
	"log/slog"
	"time"

	Rt "github.com/maroda/radial/types"
)

// InteractiveUpdateRate is the redraw period while interactive
const InteractiveUpdateRate = 1000 * time.Millisecond

// Handle is a pending wake-up. Cancel is idempotent:
// cancelling a fired or already cancelled wake-up does nothing.
type Handle interface {
	Cancel()
}

// WakeupHost arranges a one-shot callback on the host event loop
type WakeupHost interface {
	Schedule(d time.Duration, fire func()) Handle
}

type SchedulerState int

const (
	Idle SchedulerState = iota
	Scheduled
)

func (s SchedulerState) String() string {
	if s == Scheduled {
		return "scheduled"
	}
	return "idle"
}

// Interactive is true when the face should redraw every second
func Interactive(m Rt.ModeState) bool {
	return m.Visible && !m.Ambient
}

// RedrawScheduler keeps at most one wake-up pending.
// While interactive it redraws and re-arms on every whole second,
// otherwise it stays Idle and the host's minute tick does the work.
// All methods run on the host event loop.
type RedrawScheduler struct {
	clock    Clock
	host     WakeupHost
	redraw   func()
	interval time.Duration
	mode     Rt.ModeState
	state    SchedulerState
	pending  Handle
	gen      uint64 // identifies the armed wake-up, stale ones are ignored
	OnWakeup func() // optional observer, called for every live wake-up
}

func NewRedrawScheduler(clock Clock, host WakeupHost, redraw func()) *RedrawScheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &RedrawScheduler{
		clock:    clock,
		host:     host,
		redraw:   redraw,
		interval: InteractiveUpdateRate,
		state:    Idle,
	}
}

// Update takes a new mode from the host and re-evaluates the timer.
// Any pending wake-up is dropped first. When interactive the face is
// redrawn right away and the next wake-up lands on the next whole second.
func (rs *RedrawScheduler) Update(mode Rt.ModeState) {
	rs.mode = mode
	rs.cancel()

	if !Interactive(mode) {
		slog.Debug("Redraw scheduler idle",
			slog.Bool("visible", mode.Visible),
			slog.Bool("ambient", mode.Ambient))
		return
	}

	rs.requestRedraw()
	rs.arm()
}

// wake is the fire-once callback for wake-up number gen
func (rs *RedrawScheduler) wake(gen uint64) {
	if gen != rs.gen || rs.state != Scheduled {
		slog.Debug("Ignoring stale wake-up", slog.Uint64("gen", gen))
		return
	}
	rs.pending = nil
	rs.state = Idle

	if rs.OnWakeup != nil {
		rs.OnWakeup()
	}
	rs.requestRedraw()

	if Interactive(rs.mode) {
		rs.arm()
	}
}

// arm computes the delay from the current time on every call,
// so scheduling jitter is corrected instead of accumulated
func (rs *RedrawScheduler) arm() {
	rs.cancel()
	rs.gen++
	gen := rs.gen
	delay := NextDelay(rs.clock.Now(), rs.interval)
	rs.pending = rs.host.Schedule(delay, func() { rs.wake(gen) })
	rs.state = Scheduled
}

func (rs *RedrawScheduler) cancel() {
	if rs.pending != nil {
		rs.pending.Cancel()
		rs.pending = nil
	}
	rs.state = Idle
}

func (rs *RedrawScheduler) requestRedraw() {
	if rs.redraw != nil {
		rs.redraw()
	}
}

// Stop cancels any pending wake-up and leaves the scheduler Idle
func (rs *RedrawScheduler) Stop() {
	rs.cancel()
}

func (rs *RedrawScheduler) State() SchedulerState { return rs.state }

// Pending reports whether a wake-up is armed
func (rs *RedrawScheduler) Pending() bool { return rs.pending != nil }
