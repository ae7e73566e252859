package interpolator_test

import (
	"fmt"
	"time"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/frame"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/interpolator"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
)

// Example drives a 400ms fade value with a manual frame source.
func Example() {
	src := frame.NewManual()
	s := scheduler.New(src)
	s.Start()

	l := interpolator.New(s, 400*time.Millisecond, 0, 1)
	steps := 0
	l.On(interpolator.EventStep, func(interpolator.Event) { steps++ })
	l.On(interpolator.EventComplete, func(e interpolator.Event) {
		fmt.Printf("complete at %.2f\n", e.Value)
	})
	l.On(interpolator.EventStop, func(interpolator.Event) { fmt.Println("stopped") })

	l.Start()
	for l.IsRunning() {
		src.Step(1)
	}
	fmt.Println("steps under 30:", steps < 30)

	// Output:
	// complete at 1.00
	// stopped
	// steps under 30: true
}
