// Package timer measures elapsed scheduler time, unlike the interpolator which
// counts frames.
package timer

import (
	"math"
	"time"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/constants"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/events"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
)

const (
	EventStart    = "start"
	EventTick     = "tick"
	EventComplete = "complete"
	EventStop     = "stop"
)

// Event is the payload of every timer event.
type Event struct {
	Type     string
	Delta    time.Duration // time elapsed since BeginAt
	Duration time.Duration
	BeginAt  time.Duration
	Target   *Timer
}

// Timer completes once Duration of scheduler time has elapsed since Start,
// emitting "tick" every StepModulo frames on the way.
type Timer struct {
	events.Emitter[Event]

	registrar  scheduler.Registrar
	duration   time.Duration
	stepModulo int
	stepCount  int
	beginAt    time.Duration
	isRunning  bool
}

// New creates a stopped timer.
func New(reg scheduler.Registrar, duration time.Duration) *Timer {
	return &Timer{
		registrar:  reg,
		duration:   duration,
		stepModulo: constants.DefaultTimerStepModulo,
		beginAt:    time.Duration(math.MaxInt64),
	}
}

// SetStepModulo changes how many frames separate "tick" events. Values below 1 are ignored.
func (t *Timer) SetStepModulo(n int) {
	if n >= 1 {
		t.stepModulo = n
	}
}

func (t *Timer) Start() {
	if t.isRunning {
		return
	}
	t.beginAt = t.registrar.Now()
	t.stepCount = 0
	t.registrar.Add(t, t)
	t.isRunning = true
	t.Trigger(EventStart, t.event(EventStart))
}

func (t *Timer) Stop() {
	if !t.isRunning {
		return
	}
	t.registrar.Remove(t, t)
	t.isRunning = false
	t.Trigger(EventStop, t.event(EventStop))
}

// Restart moves BeginAt to now if running, otherwise it starts.
func (t *Timer) Restart() {
	if !t.isRunning {
		t.Start()
		return
	}
	t.beginAt = t.registrar.Now()
}

// Tick implements scheduler.Callback.
func (t *Timer) Tick(time.Duration) {
	if !t.isRunning {
		return
	}
	t.stepCount++
	if t.stepCount%t.stepModulo == 0 {
		t.Trigger(EventTick, t.event(EventTick))
	}
	if t.IsComplete() {
		t.Trigger(EventComplete, t.event(EventComplete))
		t.Stop()
	}
}

// Delta returns the scheduler time elapsed since Start. It is negative before Start.
func (t *Timer) Delta() time.Duration {
	return t.registrar.Now() - t.beginAt
}

func (t *Timer) IsComplete() bool {
	return t.Delta() >= t.duration
}

func (t *Timer) IsRunning() bool         { return t.isRunning }
func (t *Timer) Duration() time.Duration { return t.duration }

func (t *Timer) event(eventType string) Event {
	return Event{
		Type:     eventType,
		Delta:    t.Delta(),
		Duration: t.duration,
		BeginAt:  t.beginAt,
		Target:   t,
	}
}
