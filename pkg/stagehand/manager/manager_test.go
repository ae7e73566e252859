package manager_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/fade"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/frame"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/geometry"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/level"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/manager"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/screen"
)

type element struct {
	opacity float64
	visible bool
}

func (e *element) SetOpacity(o float64) { e.opacity = o }
func (e *element) SetVisible(v bool)    { e.visible = v }
func (e *element) Visible() bool        { return e.visible }

type stage map[string]*element

func (s stage) Element(id string) fade.Element {
	if el, ok := s[id]; ok {
		return el
	}
	return nil
}

type surface struct{ size geometry.Point }

func (s *surface) Size() geometry.Point  { return s.size }
func (s *surface) Resize(geometry.Point) {}

type recorder struct {
	log []string
}

func (r *recorder) watch(s *screen.Screen) {
	for _, t := range []string{screen.EventBeforeStop, screen.EventStop, screen.EventBeforeStart, screen.EventRestart, screen.EventStart} {
		s.On(t, func(e screen.Event) {
			r.log = append(r.log, e.Target.ID()+" "+e.Type)
		})
	}
}

func (r *recorder) take() string {
	out := strings.Join(r.log, ", ")
	r.log = nil
	return out
}

// takeSorted is take for events whose relative order depends on which fade
// finishes first.
func (r *recorder) takeSorted() string {
	sort.Strings(r.log)
	return r.take()
}

func setup(t *testing.T, timeline []manager.Descriptor, opts manager.Options) (*manager.Manager, *frame.Manual, stage, *recorder) {
	t.Helper()
	src := frame.NewManual()
	st := stage{}
	for _, d := range timeline {
		st[d.ScreenID] = &element{}
	}
	m := manager.New(scheduler.New(src), st, opts)
	if err := m.Initialize(timeline); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	rec := &recorder{}
	for _, e := range m.Screens() {
		rec.watch(e.Screen())
	}
	return m, src, st, rec
}

var timeline = []manager.Descriptor{
	{ScreenID: "title"},
	{ScreenID: "game"},
	{ScreenID: "pause", Overlay: true},
	{ScreenID: "help", Overlay: true},
}

func TestInitializeShowsFirstScreen(t *testing.T) {
	m, _, st, _ := setup(t, timeline, manager.Options{})

	if m.Current(manager.SlotBase) != m.ScreenByID("title").Screen() {
		t.Fatal("first timeline entry should be current")
	}
	if !st["title"].visible || st["title"].opacity != 1 {
		t.Fatal("first screen should be shown without animation")
	}
	if m.Scheduler().Len() != 0 {
		t.Fatal("initial navigation should not animate")
	}
	if !m.Scheduler().IsRunning() {
		t.Fatal("scheduler should be running after Initialize")
	}
}

func TestInitializeEmitsLoadBeforeFirstNavigation(t *testing.T) {
	src := frame.NewManual()
	m := manager.New(scheduler.New(src), nil, manager.Options{})

	var order []string
	m.On(manager.EventLoad, func(manager.Event) { order = append(order, "load") })
	m.On(manager.EventChangeScreen, func(e manager.Event) { order = append(order, "change:"+e.Screen.ID()) })

	if err := m.Initialize(timeline[:2]); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(order, " "); got != "load change:title" {
		t.Fatalf("events = %q", got)
	}
}

func TestGoToAnimatesBothScreens(t *testing.T) {
	m, src, st, rec := setup(t, timeline, manager.Options{})

	m.GoTo(m.ScreenByID("game"), manager.Navigation{})
	if got := rec.take(); got != "title before:stop, game before:start" {
		t.Fatalf("events = %q", got)
	}
	if m.Scheduler().Len() != 2 {
		t.Fatalf("running animations = %d, want 2", m.Scheduler().Len())
	}

	src.Step(40)
	if got := rec.takeSorted(); got != "game start, title stop" {
		t.Fatalf("events after fades = %q", got)
	}
	if st["title"].visible || !st["game"].visible {
		t.Fatal("title should be hidden and game shown")
	}
	if m.Last(manager.SlotBase) != m.ScreenByID("title").Screen() {
		t.Fatal("title should be the last base screen")
	}
}

func TestInterruptedNavigationSkipsAbandonedFades(t *testing.T) {
	m, src, st, rec := setup(t, timeline, manager.Options{})

	m.GoTo(m.ScreenByID("game"), manager.Navigation{})
	src.Step(5)
	if got := rec.take(); got != "title before:stop, game before:start" {
		t.Fatalf("events = %q", got)
	}

	m.GoTo(m.ScreenByID("title"), manager.Navigation{})
	if got := rec.take(); got != "game before:stop, title before:start" {
		t.Fatalf("events on interrupt = %q", got)
	}

	src.Step(40)
	if got := rec.takeSorted(); got != "game stop, title start" {
		t.Fatalf("events after fades = %q", got)
	}
	if !st["title"].visible || st["game"].visible {
		t.Fatal("title should be shown and game hidden")
	}
	if m.Current(manager.SlotBase) != m.ScreenByID("title").Screen() {
		t.Fatal("title should be current")
	}
}

func TestGoToCurrentScreenRestartsWithoutFade(t *testing.T) {
	m, src, st, rec := setup(t, timeline, manager.Options{})
	title := m.ScreenByID("title")

	for i := 0; i < 2; i++ {
		got := m.GoTo(title, manager.Navigation{})
		if got != title.Screen() {
			t.Fatal("GoTo should return the incoming screen")
		}
		if want := "title before:stop, title stop, title before:start, title restart, title start"; rec.take() != want {
			t.Fatalf("pass %d: unexpected events", i)
		}
		if m.Scheduler().Len() != 0 || title.Screen().Animation() != nil {
			t.Fatalf("pass %d: re-navigating started a fade", i)
		}
	}

	src.Step(5)
	if !st["title"].visible {
		t.Fatal("title should stay visible")
	}
}

func TestOverlayKeepsBaseScreenCurrent(t *testing.T) {
	m, src, st, rec := setup(t, timeline, manager.Options{})
	title := m.ScreenByID("title").Screen()
	pause := m.ScreenByID("pause").Screen()

	m.GoTo(pause, manager.Navigation{})
	if got := rec.take(); got != "title before:stop, title stop, pause before:start" {
		t.Fatalf("events = %q", got)
	}
	src.Step(40)
	rec.take()

	if m.Current(manager.SlotBase) != title {
		t.Fatal("opening an overlay cleared the base screen")
	}
	if !st["title"].visible {
		t.Fatal("base screen should stay drawn under the overlay")
	}
	if !m.IsOverlayActive() || !m.IsActiveScreen(pause) || m.IsActiveScreen(title) {
		t.Fatal("overlay should be the active screen")
	}

	back := m.CloseOverlay()
	if back != title {
		t.Fatal("closing the overlay should return to the base screen")
	}
	if got := rec.take(); got != "pause before:stop, title before:start, title restart, title start" {
		t.Fatalf("events = %q", got)
	}
	src.Step(40)

	if m.IsOverlayActive() || m.Last(manager.SlotOverlay) != pause {
		t.Fatal("overlay slot not swapped on close")
	}
	if st["pause"].visible {
		t.Fatal("overlay should be hidden after close")
	}
	if got := rec.take(); got != "pause stop" {
		t.Fatalf("events after close = %q", got)
	}
}

func TestOverlayOverOverlay(t *testing.T) {
	m, src, st, _ := setup(t, timeline, manager.Options{})
	pause := m.ScreenByID("pause").Screen()
	help := m.ScreenByID("help").Screen()

	m.GoTo(pause, manager.Navigation{NoAnimations: true})
	m.GoTo(help, manager.Navigation{})
	src.Step(40)

	if m.Current(manager.SlotOverlay) != help || m.Last(manager.SlotOverlay) != pause {
		t.Fatal("overlay slot should hold help as current and pause as last")
	}
	if st["pause"].visible || !st["help"].visible {
		t.Fatal("pause should fade out and help in")
	}
}

func TestNoAnimationsHidesImmediately(t *testing.T) {
	m, _, st, rec := setup(t, timeline, manager.Options{})

	m.GoTo(m.ScreenByID("game"), manager.Navigation{NoAnimations: true})

	if got := rec.take(); got != "title before:stop, title stop, game before:start, game start" {
		t.Fatalf("events = %q", got)
	}
	if st["title"].visible || !st["game"].visible {
		t.Fatal("screens should switch immediately")
	}
}

func TestAnimationDurationOption(t *testing.T) {
	m, src, _, rec := setup(t, timeline, manager.Options{AnimationDuration: 100 * time.Millisecond})

	m.GoTo(m.ScreenByID("game"), manager.Navigation{})
	rec.take()
	src.Step(8)

	if got := rec.takeSorted(); got != "game start, title stop" {
		t.Fatalf("100ms fades should be done after 8 frames, got %q", got)
	}
}

func TestNextScreen(t *testing.T) {
	m, _, _, _ := setup(t, timeline, manager.Options{})

	if next := m.NextScreen(); next == nil || next.Screen().ID() != "game" {
		t.Fatal("next of title should be game")
	}

	m.GoTo(m.ScreenByID("help"), manager.Navigation{NoAnimations: true})
	if next := m.NextScreen(); next == nil || next.Screen().ID() != "game" {
		t.Fatal("next screen follows the base screen, not the overlay")
	}

	m.Register(screen.New(m, "orphan", nil, false))
	m.GoTo(m.ScreenByID("orphan"), manager.Navigation{NoAnimations: true})
	if m.HasNextScreen() {
		t.Fatal("last screen should have no next")
	}
	if m.ScreenByID("missing") != nil {
		t.Fatal("unknown id should return nil")
	}
}

func TestDeferredLevelLoadsBeforeNavigating(t *testing.T) {
	release := make(chan struct{})
	fetcher := level.FetcherFunc(func(context.Context, string) ([]byte, error) {
		<-release
		return []byte("waves: 1"), nil
	})
	m, src, _, rec := setup(t, []manager.Descriptor{
		{ScreenID: "title"},
		{ScreenID: "forest", Type: manager.TypeLevel},
	}, manager.Options{Fetcher: fetcher})

	lvl := m.ScreenByID("forest").(*level.Level)
	if got := m.GoTo(lvl, manager.Navigation{NoAnimations: true}); got != nil {
		t.Fatal("GoTo should defer until the level loads")
	}
	if m.Current(manager.SlotBase).ID() != "title" {
		t.Fatal("state changed before load")
	}
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for m.Current(manager.SlotBase) != lvl.Screen() {
		if time.Now().After(deadline) {
			t.Fatal("level never became current")
		}
		src.Step(1)
		time.Sleep(time.Millisecond)
	}
	if got := rec.take(); got != "title before:stop, title stop, forest before:start, forest start" {
		t.Fatalf("events = %q", got)
	}
}

func TestInitializeErrors(t *testing.T) {
	src := frame.NewManual()
	sched := scheduler.New(src)
	m := manager.New(sched, nil, manager.Options{})

	err := m.Initialize([]manager.Descriptor{{ScreenID: "a", Type: "movie"}})
	if !errors.Is(err, manager.ErrUnknownScreenType) || !manager.IsNavigationError(err) {
		t.Fatalf("err = %v, want unknown screen type", err)
	}
	if sched.IsRunning() || m.Viewport() != nil || m.IsInitialized() {
		t.Fatal("a rejected timeline should leave the manager untouched")
	}

	if err := manager.NewRegistry().Check([]manager.Descriptor{{ScreenID: "a"}, {ScreenID: "b", Type: "level"}}); err != nil {
		t.Fatalf("Check = %v, want nil", err)
	}

	err = m.Initialize([]manager.Descriptor{{ScreenID: "a"}, {ScreenID: "a"}})
	if !errors.Is(err, manager.ErrDuplicateScreen) {
		t.Fatalf("err = %v, want duplicate screen", err)
	}

	fresh := manager.New(scheduler.New(src), nil, manager.Options{})
	if err := fresh.Reset(); !errors.Is(err, manager.ErrNotInitialized) {
		t.Fatalf("Reset before Initialize = %v", err)
	}
}

func TestResetReturnsToFirstScreen(t *testing.T) {
	m, _, st, _ := setup(t, timeline, manager.Options{})

	m.GoTo(m.ScreenByID("game"), manager.Navigation{NoAnimations: true})
	if err := m.Reset(); err != nil {
		t.Fatal(err)
	}

	if m.Current(manager.SlotBase).ID() != "title" || !st["title"].visible || st["game"].visible {
		t.Fatal("Reset should show the first screen again")
	}
	if len(m.Screens()) != len(timeline) {
		t.Fatal("Reset should keep the registered screens")
	}
}

func TestDimensionAdaptedToViewport(t *testing.T) {
	m, _, _, _ := setup(t, timeline, manager.Options{Surface: &surface{size: geometry.Pt(1024, 768)}})

	if got := m.Viewport().Size(); got != geometry.Pt(1024, 640) {
		t.Fatalf("viewport size = %v", got)
	}
	if got := m.DimensionAdaptedToViewport(geometry.Pt(512, 256)); got != geometry.Pt(1024, 512) {
		t.Fatalf("wide = %v", got)
	}
	if got := m.DimensionAdaptedToViewport(geometry.Pt(100, 100)); got != geometry.Pt(640, 640) {
		t.Fatalf("square = %v", got)
	}
}

func TestDispose(t *testing.T) {
	m, src, _, _ := setup(t, timeline, manager.Options{})
	title := m.ScreenByID("title").Screen()

	m.GoTo(m.ScreenByID("game"), manager.Navigation{})
	m.Dispose()
	src.Step(40)

	if m.Scheduler().IsRunning() {
		t.Fatal("scheduler still running")
	}
	if !title.IsDisposed() || m.Screens() != nil || m.Viewport() != nil {
		t.Fatal("dispose should release screens and viewport")
	}
	if m.GoTo(title, manager.Navigation{}) != nil {
		t.Fatal("GoTo on a disposed manager should do nothing")
	}
	if err := m.Initialize(nil); !errors.Is(err, manager.ErrDisposed) {
		t.Fatalf("Initialize after dispose = %v", err)
	}
}
