// Package frame provides frame sources for the scheduler that do not depend on
// a windowing backend: a deterministic Manual source and a wall-clock Ticker.
// Windowing backends build their own sources on Queue.
package frame

import "time"

// NominalInterval is the frame interval interpolators are tuned for, 60
// frames per second rounded down to the nanosecond.
const NominalInterval = time.Second / 60

// Manual is a frame source advanced explicitly, for tests and offline rendering.
type Manual struct {
	Queue
	now time.Duration
}

// NewManual creates a Manual source at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Advance moves the clock forward by d and fires the requests queued before
// the call. It returns the number of requests fired.
func (m *Manual) Advance(d time.Duration) int {
	m.now += d
	return m.Fire(m.now)
}

// Step advances n frames of NominalInterval each.
func (m *Manual) Step(n int) {
	for i := 0; i < n; i++ {
		m.Advance(NominalInterval)
	}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Duration {
	return m.now
}
