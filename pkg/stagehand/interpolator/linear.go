// Package interpolator produces linearly changing values over a duration,
// advanced one step per scheduler frame.
//
// Step sizes are computed against a nominal 60 fps frame interval, so the
// actual speed follows the real frame rate rather than wall-clock time.
package interpolator

import (
	"math"
	"time"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/constants"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/events"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
)

// Event types emitted by Linear.
const (
	EventStart    = "start"
	EventRestart  = "restart"
	EventStep     = "step"
	EventComplete = "complete"
	EventStop     = "stop"
)

// Event is the payload of every interpolator event.
type Event struct {
	Type     string
	From     float64
	To       float64
	Value    float64
	Delta    float64 // Step * Side
	Duration time.Duration
	Target   *Linear
}

// StepFunc replaces the per-frame behavior of a Linear. Call l.Advance to get
// the default behavior.
type StepFunc func(l *Linear, now time.Duration)

// Linear moves Value from From to To in fixed per-frame steps.
type Linear struct {
	events.Emitter[Event]

	registrar   scheduler.Registrar
	duration    time.Duration
	from        float64
	to          float64
	value       float64
	side        float64
	step        float64
	isRunning   bool
	autoLoop    bool
	autoReverse bool
	stepFunc    StepFunc
}

// New creates a stopped interpolator registered with reg while running.
func New(reg scheduler.Registrar, duration time.Duration, from, to float64) *Linear {
	l := &Linear{registrar: reg}
	l.Configure(duration, from, to)
	return l
}

// Configure sets the duration and bounds and recomputes side and step.
func (l *Linear) Configure(duration time.Duration, from, to float64) {
	l.duration = duration
	l.from = from
	l.to = to
	l.side = -1
	if to > from {
		l.side = 1
	}

	durationMs := float64(duration) / float64(time.Millisecond)
	span := math.Abs(to - from)
	switch {
	case span == 0:
		l.step = 0
	case durationMs <= 0:
		l.step = math.Inf(1)
	default:
		l.step = span / (durationMs / constants.NominalFrameIntervalMs)
	}
}

// Start resets Value to From, emits "start" and registers with the scheduler.
// It is a no-op if already running.
func (l *Linear) Start() {
	if l.isRunning {
		return
	}
	l.value = l.from
	l.Trigger(EventStart, l.event(EventStart))
	l.registrar.Add(l, l)
	l.isRunning = true
}

// Restart resets Value to From and emits "restart" if running, otherwise it starts.
func (l *Linear) Restart() {
	if !l.isRunning {
		l.Start()
		return
	}
	l.value = l.from
	l.Trigger(EventRestart, l.event(EventRestart))
}

// Stop emits "stop" and deregisters. It is a no-op if not running.
func (l *Linear) Stop() {
	if !l.isRunning {
		return
	}
	l.Trigger(EventStop, l.event(EventStop))
	l.registrar.Remove(l, l)
	l.isRunning = false
}

// Tick implements scheduler.Callback. Frames still delivered from the current
// scheduler snapshot after Stop are ignored.
func (l *Linear) Tick(now time.Duration) {
	if !l.isRunning {
		return
	}
	if l.stepFunc != nil {
		l.stepFunc(l, now)
		return
	}
	l.Advance(now)
}

// Advance is the default per-frame behavior.
func (l *Linear) Advance(now time.Duration) {
	if !l.IsComplete() {
		l.value += l.step * l.side
		l.Trigger(EventStep, l.event(EventStep))
		return
	}

	switch {
	case l.autoLoop:
		if math.IsInf(l.step, 1) {
			l.value = l.from
			return
		}
		l.value = l.from + l.step - math.Abs(l.to-l.value)*l.side
	case l.autoReverse:
		l.Reverse()
	default:
		l.value = l.to
		l.Trigger(EventComplete, l.event(EventComplete))
		l.Stop()
	}
}

// IsComplete reports whether one more step would cross To.
func (l *Linear) IsComplete() bool {
	if l.step == 0 || math.IsInf(l.step, 1) {
		return true
	}
	if l.side == 1 {
		return l.value+l.step > l.to
	}
	return l.value-l.step < l.to
}

// Reverse swaps From and To and flips Side without touching Value.
func (l *Linear) Reverse() {
	l.side = -l.side
	l.from, l.to = l.to, l.from
}

// Clone returns a stopped interpolator with the same duration, bounds and step func.
// Listeners, loop and reverse policies are not copied.
func (l *Linear) Clone() *Linear {
	clone := New(l.registrar, l.duration, l.from, l.to)
	clone.stepFunc = l.stepFunc
	return clone
}

// SetStepFunc installs a custom per-frame behavior. nil restores the default.
func (l *Linear) SetStepFunc(fn StepFunc) {
	l.stepFunc = fn
}

// SetAutoLoop makes the value wrap back to From instead of completing.
// It disables auto-reverse.
func (l *Linear) SetAutoLoop(on bool) {
	l.autoLoop = on
	if on {
		l.autoReverse = false
	}
}

// SetAutoReverse makes the value bounce between the bounds instead of
// completing. It disables auto-loop.
func (l *Linear) SetAutoReverse(on bool) {
	l.autoReverse = on
	if on {
		l.autoLoop = false
	}
}

func (l *Linear) AutoLoop() bool          { return l.autoLoop }
func (l *Linear) AutoReverse() bool       { return l.autoReverse }
func (l *Linear) IsRunning() bool         { return l.isRunning }
func (l *Linear) Value() float64          { return l.value }
func (l *Linear) From() float64           { return l.from }
func (l *Linear) To() float64             { return l.to }
func (l *Linear) Side() float64           { return l.side }
func (l *Linear) Step() float64           { return l.step }
func (l *Linear) Duration() time.Duration { return l.duration }

func (l *Linear) event(eventType string) Event {
	return Event{
		Type:     eventType,
		From:     l.from,
		To:       l.to,
		Value:    l.value,
		Delta:    l.step * l.side,
		Duration: l.duration,
		Target:   l,
	}
}
