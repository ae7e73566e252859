package viewport_test

import (
	"testing"
	"time"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/frame"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/geometry"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/viewport"
)

type surface struct {
	avail   geometry.Point
	applied geometry.Point
	resizes int
}

func (s *surface) Size() geometry.Point { return s.avail }
func (s *surface) Resize(p geometry.Point) {
	s.applied = p
	s.resizes++
}

func TestUpdateSizeDesktopAndMobile(t *testing.T) {
	src := frame.NewManual()
	sched := scheduler.New(src)

	desk := &surface{avail: geometry.Pt(1024, 900)}
	v := viewport.New(sched, "game", desk, false)
	v.KeepRatio(640.0 / 1024.0)
	if want := geometry.Pt(1024, 640); desk.applied != want {
		t.Fatalf("desktop size = %v, want %v", desk.applied, want)
	}

	phone := &surface{avail: geometry.Pt(400, 800)}
	m := viewport.New(sched, "game", phone, true)
	if want := geometry.Pt(400, 800); m.Size() != want {
		t.Fatalf("mobile size = %v, want %v", m.Size(), want)
	}
}

func TestResizeIsDebounced(t *testing.T) {
	src := frame.NewManual()
	sched := scheduler.New(src)
	sched.Start()

	s := &surface{avail: geometry.Pt(800, 600)}
	v := viewport.New(sched, "game", s, false)

	var events []viewport.Event
	v.On(viewport.EventResize, func(e viewport.Event) { events = append(events, e) })

	s.avail = geometry.Pt(1000, 600)
	v.RequestResize()
	src.Advance(30 * time.Millisecond)
	v.RequestResize()
	src.Advance(30 * time.Millisecond)

	if len(events) != 0 {
		t.Fatalf("resize fired before the debounce interval: %d", len(events))
	}

	src.Advance(30 * time.Millisecond)

	if len(events) != 1 {
		t.Fatalf("resize events = %d, want 1", len(events))
	}
	if events[0].Screen != geometry.Pt(1000, 600) || events[0].Origin != v {
		t.Fatalf("unexpected event %+v", events[0])
	}
	if v.IsResizePending() {
		t.Fatal("resize still pending")
	}
}

func TestDisposeCancelsPendingResize(t *testing.T) {
	src := frame.NewManual()
	sched := scheduler.New(src)
	sched.Start()

	s := &surface{avail: geometry.Pt(800, 600)}
	v := viewport.New(sched, "game", s, false)
	before := s.resizes

	v.RequestResize()
	v.Dispose()
	src.Advance(100 * time.Millisecond)

	if sched.Len() != 0 || s.resizes != before {
		t.Fatal("disposed viewport still resized")
	}
}

func TestDisposeDuringTickSkipsFlush(t *testing.T) {
	src := frame.NewManual()
	sched := scheduler.New(src)
	sched.Start()

	s := &surface{avail: geometry.Pt(800, 600)}
	var v *viewport.Viewport

	armed := false
	sched.Add(scheduler.Func(func(time.Duration) {
		if armed {
			v.Dispose()
		}
	}), nil)

	v = viewport.New(sched, "game", s, false)
	resized := 0
	v.On(viewport.EventResize, func(viewport.Event) { resized++ })
	v.RequestResize()

	src.Advance(10 * time.Millisecond)
	armed = true
	src.Advance(100 * time.Millisecond)

	if resized != 0 {
		t.Fatalf("resize events = %d, want 0 after Dispose", resized)
	}
	if !v.IsDisposed() {
		t.Fatal("viewport not disposed")
	}
	src.Advance(100 * time.Millisecond)
}
