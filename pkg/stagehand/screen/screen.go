// Package screen defines the navigable entities animated by the manager.
package screen

import (
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/events"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/fade"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/interpolator"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
)

// Event types emitted on screens.
const (
	EventBeforeStop  = "before:stop"
	EventStop        = "stop"
	EventBeforeStart = "before:start"
	EventRestart     = "restart"
	EventStart       = "start"
	EventLoad        = "load"
	EventError       = "error"
)

// Event is the payload of screen events. Origin is the component that caused
// the event, usually the manager.
type Event struct {
	Type   string
	Target *Screen
	Origin any
	Err    error // set for EventError
}

// Host owns screens and provides the scheduler their animations run on.
type Host interface {
	Registrar() scheduler.Registrar
}

// Entity is anything the manager can navigate to.
type Entity interface {
	Screen() *Screen
}

// Deferred is an entity whose content must be loaded before it can be shown.
type Deferred interface {
	Entity
	IsFetched() bool
	Fetch()
	OnceLoad(fn func())
}

// Screen is a base screen or an overlay with an optional realized element.
// It runs at most one show/hide animation at a time.
type Screen struct {
	events.Emitter[Event]

	id        string
	overlay   bool
	element   fade.Element
	host      Host
	animation *interpolator.Linear
	disposed  bool
}

// New creates a screen. el may be nil for screens without a visual.
func New(host Host, id string, el fade.Element, overlay bool) *Screen {
	return &Screen{
		id:      id,
		overlay: overlay,
		element: el,
		host:    host,
	}
}

// Screen implements Entity.
func (s *Screen) Screen() *Screen { return s }

func (s *Screen) ID() string                      { return s.id }
func (s *Screen) IsOverlay() bool                 { return s.overlay }
func (s *Screen) Element() fade.Element           { return s.element }
func (s *Screen) IsRealized() bool                { return s.element != nil }
func (s *Screen) IsDisposed() bool                { return s.disposed }
func (s *Screen) Host() Host                      { return s.host }
func (s *Screen) Animation() *interpolator.Linear { return s.animation }

// Show fades the screen in with the default interpolator.
func (s *Screen) Show() *interpolator.Linear {
	return s.ShowWith(nil)
}

// ShowWith fades the screen in with l, or the default interpolator if l is nil.
// Any running animation is stopped first. It returns the started animation, or
// nil if the screen has no element.
func (s *Screen) ShowWith(l *interpolator.Linear) *interpolator.Linear {
	if !s.canAnimate() {
		return nil
	}
	if l == nil {
		l = fade.NewIn(s.host.Registrar())
	}
	return s.run(fade.In(s.element, l))
}

// Hide fades the screen out with the default interpolator.
func (s *Screen) Hide() *interpolator.Linear {
	return s.HideWith(nil)
}

// HideWith fades the screen out with l, or the default interpolator if l is nil.
func (s *Screen) HideWith(l *interpolator.Linear) *interpolator.Linear {
	if !s.canAnimate() {
		return nil
	}
	if l == nil {
		l = fade.NewOut(s.host.Registrar())
	}
	return s.run(fade.Out(s.element, l))
}

// ShowNow stops any animation and shows the element immediately.
func (s *Screen) ShowNow() {
	if s.element == nil {
		return
	}
	s.stopAnimation()
	fade.Show(s.element)
}

// HideNow stops any animation and hides the element immediately.
func (s *Screen) HideNow() {
	if s.element == nil {
		return
	}
	s.stopAnimation()
	fade.Hide(s.element)
}

// IsVisible reports whether the element is visible and not animating.
func (s *Screen) IsVisible() bool {
	if s.element == nil {
		return false
	}
	return s.element.Visible() && !(s.animation != nil && s.animation.IsRunning())
}

// Dispose stops the animation, drops listeners and clears every reference.
// A disposed screen no longer animates.
func (s *Screen) Dispose() {
	s.stopAnimation()
	s.Clear()
	s.id = ""
	s.element = nil
	s.host = nil
	s.overlay = false
	s.animation = nil
	s.disposed = true
}

func (s *Screen) canAnimate() bool {
	return !s.disposed && s.element != nil && s.host != nil
}

func (s *Screen) stopAnimation() {
	if s.animation != nil && s.animation.IsRunning() {
		s.animation.Stop()
	}
}

func (s *Screen) run(l *interpolator.Linear) *interpolator.Linear {
	s.stopAnimation()
	s.animation = l
	l.On(interpolator.EventStop, func(e interpolator.Event) {
		// A superseded animation must not clear the newer one.
		if s.animation == e.Target {
			s.animation = nil
		}
	})
	l.Start()
	return l
}
