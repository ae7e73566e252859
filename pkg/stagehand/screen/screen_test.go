package screen_test

import (
	"testing"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/frame"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/interpolator"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/screen"
)

type host struct {
	s *scheduler.Scheduler
}

func (h host) Registrar() scheduler.Registrar { return h.s }

type element struct {
	opacity float64
	visible bool
}

func (e *element) SetOpacity(o float64) { e.opacity = o }
func (e *element) SetVisible(v bool)    { e.visible = v }
func (e *element) Visible() bool        { return e.visible }

func setup() (host, *frame.Manual) {
	src := frame.NewManual()
	s := scheduler.New(src)
	s.Start()
	return host{s: s}, src
}

func TestShowTracksAnimationUntilStop(t *testing.T) {
	h, src := setup()
	el := &element{}
	sc := screen.New(h, "intro", el, false)

	anim := sc.Show()
	if anim == nil || sc.Animation() != anim {
		t.Fatal("Show should track the started animation")
	}
	if sc.IsVisible() {
		t.Fatal("screen should not count as visible while animating")
	}

	src.Step(40)
	if sc.Animation() != nil {
		t.Fatal("animation reference not cleared after stop")
	}
	if !sc.IsVisible() {
		t.Fatal("screen should be visible after fade-in")
	}
}

func TestAtMostOneAnimation(t *testing.T) {
	h, src := setup()
	el := &element{}
	sc := screen.New(h, "intro", el, false)

	first := sc.Show()
	src.Step(2)
	second := sc.Hide()

	if first.IsRunning() {
		t.Fatal("first animation still running after Hide")
	}
	if sc.Animation() != second {
		t.Fatal("late stop from the superseded animation clobbered the current one")
	}
	if h.s.Len() != 1 {
		t.Fatalf("scheduler registrations = %d, want 1", h.s.Len())
	}

	src.Step(40)
	if el.visible {
		t.Fatal("element should be hidden after fade-out")
	}
}

func TestShowWithCustomInterpolator(t *testing.T) {
	h, src := setup()
	el := &element{}
	sc := screen.New(h, "intro", el, false)

	custom := interpolator.New(h.s, 0, 0, 1)
	if got := sc.ShowWith(custom); got != custom {
		t.Fatal("ShowWith should use the given interpolator")
	}
	src.Step(1)
	if custom.IsRunning() || el.opacity != 1 {
		t.Fatalf("running = %v opacity = %v", custom.IsRunning(), el.opacity)
	}
}

func TestUnrealizedScreenDoesNotAnimate(t *testing.T) {
	h, _ := setup()
	sc := screen.New(h, "data-only", nil, true)

	if sc.Show() != nil || sc.Hide() != nil {
		t.Fatal("unrealized screen should not animate")
	}
	sc.ShowNow()
	sc.HideNow()
	if sc.IsVisible() || sc.IsRealized() || !sc.IsOverlay() {
		t.Fatal("unexpected unrealized screen state")
	}
}

func TestNowHelpersStopAnimation(t *testing.T) {
	h, _ := setup()
	el := &element{}
	sc := screen.New(h, "intro", el, false)

	anim := sc.Hide()
	sc.ShowNow()

	if anim.IsRunning() {
		t.Fatal("ShowNow should stop the running animation")
	}
	if !el.visible || el.opacity != 1 {
		t.Fatalf("visible = %v opacity = %v", el.visible, el.opacity)
	}
}

func TestDisposeClearsEverything(t *testing.T) {
	h, _ := setup()
	el := &element{}
	sc := screen.New(h, "intro", el, false)
	calls := 0
	sc.On(screen.EventStart, func(screen.Event) { calls++ })
	anim := sc.Show()

	sc.Dispose()

	if anim.IsRunning() {
		t.Fatal("dispose should stop the running animation")
	}
	if sc.ID() != "" || sc.Element() != nil || sc.Host() != nil || !sc.IsDisposed() {
		t.Fatal("dispose left references behind")
	}
	sc.Trigger(screen.EventStart, screen.Event{Type: screen.EventStart, Target: sc})
	if calls != 0 {
		t.Fatal("dispose should drop listeners")
	}
	if sc.Show() != nil {
		t.Fatal("disposed screen should not animate")
	}
}
