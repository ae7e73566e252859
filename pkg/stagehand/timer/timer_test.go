package timer_test

import (
	"testing"
	"time"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/frame"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/timer"
)

func TestTimerCompletesOnElapsedTime(t *testing.T) {
	src := frame.NewManual()
	s := scheduler.New(src)
	s.Start()
	src.Advance(time.Second)

	tm := timer.New(s, 100*time.Millisecond)
	tm.SetStepModulo(2)
	ticks, completes, stops := 0, 0, 0
	var completeDelta time.Duration
	tm.On(timer.EventTick, func(timer.Event) { ticks++ })
	tm.On(timer.EventComplete, func(e timer.Event) {
		completes++
		completeDelta = e.Delta
	})
	tm.On(timer.EventStop, func(timer.Event) { stops++ })

	tm.Start()
	for i := 0; i < 4; i++ {
		src.Advance(20 * time.Millisecond)
	}
	if completes != 0 {
		t.Fatal("completed before duration elapsed")
	}
	if ticks != 2 {
		t.Fatalf("ticks = %d, want 2", ticks)
	}

	src.Advance(20 * time.Millisecond)
	if completes != 1 || stops != 1 || tm.IsRunning() {
		t.Fatalf("completes = %d stops = %d running = %v", completes, stops, tm.IsRunning())
	}
	if completeDelta != 100*time.Millisecond {
		t.Fatalf("delta = %v, want 100ms", completeDelta)
	}
}

func TestTimerRestartMovesBeginAt(t *testing.T) {
	src := frame.NewManual()
	s := scheduler.New(src)
	s.Start()

	tm := timer.New(s, 50*time.Millisecond)
	tm.Start()
	src.Advance(40 * time.Millisecond)
	tm.Restart()
	src.Advance(40 * time.Millisecond)

	if !tm.IsRunning() {
		t.Fatal("restart should postpone completion")
	}
	src.Advance(20 * time.Millisecond)
	if tm.IsRunning() {
		t.Fatal("timer should have completed")
	}
}
