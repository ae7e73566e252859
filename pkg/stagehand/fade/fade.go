// Package fade wires interpolators to visual elements for show/hide transitions.
package fade

import (
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/constants"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/interpolator"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
)

// Element is a realized visual that can be faded.
type Element interface {
	SetOpacity(opacity float64)
	SetVisible(visible bool)
	Visible() bool
}

// NewIn returns a default 0 -> 1 interpolator.
func NewIn(reg scheduler.Registrar) *interpolator.Linear {
	return interpolator.New(reg, constants.DefaultAnimationDuration, 0, 1)
}

// NewOut returns a default 1 -> 0 interpolator.
func NewOut(reg scheduler.Registrar) *interpolator.Linear {
	return interpolator.New(reg, constants.DefaultAnimationDuration, 1, 0)
}

// In attaches fade-in handlers for el to l and returns l, not started.
// The element is fully shown once l stops, whether it completed or not.
func In(el Element, l *interpolator.Linear) *interpolator.Linear {
	l.On(interpolator.EventStart, func(interpolator.Event) {
		el.SetOpacity(0)
		el.SetVisible(true)
	})
	l.On(interpolator.EventStep, func(e interpolator.Event) {
		el.SetOpacity(e.Value)
	})
	l.On(interpolator.EventStop, func(interpolator.Event) {
		Show(el)
	})
	return l
}

// Out attaches fade-out handlers for el to l and returns l, not started.
// The element is hidden once l stops, whether it completed or not.
func Out(el Element, l *interpolator.Linear) *interpolator.Linear {
	l.On(interpolator.EventStart, func(interpolator.Event) {
		el.SetOpacity(1)
		el.SetVisible(true)
	})
	l.On(interpolator.EventStep, func(e interpolator.Event) {
		el.SetOpacity(e.Value)
	})
	l.On(interpolator.EventStop, func(interpolator.Event) {
		Hide(el)
	})
	return l
}

// Show makes el fully visible without animation.
func Show(el Element) {
	el.SetOpacity(1)
	el.SetVisible(true)
}

// Hide makes el invisible without animation.
func Hide(el Element) {
	el.SetOpacity(0)
	el.SetVisible(false)
}
