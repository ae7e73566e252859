// Package manager implements screen navigation: which screen enters, which
// leaves, whether the change is animated and which events fire in what order.
//
// A Manager keeps two slots, one for base screens and one for overlays. Each
// slot remembers its current and last screen. While an overlay is current it
// is the active screen; closing it returns to the base screen underneath.
package manager

import (
	"time"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/constants"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/events"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/fade"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/geometry"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/internal"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/interpolator"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/level"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/screen"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/viewport"
)

// Manager events.
const (
	EventLoad         = "load"
	EventChangeScreen = "change:screen"
)

// Slot selects the base or overlay navigation slot.
type Slot int

const (
	SlotBase Slot = iota
	SlotOverlay
)

func (s Slot) String() string {
	if s == SlotOverlay {
		return "overlay"
	}
	return "base"
}

func slotOf(s *screen.Screen) Slot {
	if s.IsOverlay() {
		return SlotOverlay
	}
	return SlotBase
}

type slot struct {
	current *screen.Screen
	last    *screen.Screen
}

// Event is emitted on the manager.
type Event struct {
	Type   string
	Target *Manager
	Screen *screen.Screen // incoming screen for change:screen
}

// Stage resolves the realized element of a screen. Returning nil leaves the
// screen unrealized: it still navigates and emits events but never animates.
type Stage interface {
	Element(screenID string) fade.Element
}

// StageFunc adapts a func to Stage.
type StageFunc func(screenID string) fade.Element

func (f StageFunc) Element(screenID string) fade.Element { return f(screenID) }

// Options configure a Manager. Zero values pick the defaults.
type Options struct {
	// KeepRatio is the height/width ratio kept by the viewport on desktop.
	KeepRatio float64
	// Mobile sizes the viewport to the full surface.
	Mobile bool
	// AnimationDuration is the length of screen fades.
	AnimationDuration time.Duration
	// Surface is measured by the viewport. Nil leaves the viewport zero-sized.
	Surface viewport.Surface
	// ViewportID names the viewport.
	ViewportID string
	// Registry builds timeline entries. Defaults to NewRegistry().
	Registry *Registry
	// Fetcher loads "level" screens.
	Fetcher level.Fetcher
	// FetchTimeout bounds a level fetch. Zero means no deadline.
	FetchTimeout time.Duration
}

// Navigation tweaks a single GoTo.
type Navigation struct {
	NoAnimations bool
}

type disposer interface {
	Dispose()
}

// Manager is the screen transition state machine. It must be used from the
// goroutine that drives its scheduler.
type Manager struct {
	events.Emitter[Event]

	sched    *scheduler.Scheduler
	stage    Stage
	opts     Options
	registry *Registry

	screens  []screen.Entity
	byID     map[string]screen.Entity
	entities map[*screen.Screen]screen.Entity
	slots    [2]slot

	viewport    *viewport.Viewport
	initialized bool
	disposed    bool
}

// New creates a Manager driving its animations with sched. stage may be nil.
func New(sched *scheduler.Scheduler, stage Stage, opts Options) *Manager {
	if opts.KeepRatio <= 0 {
		opts.KeepRatio = constants.DefaultKeepRatio
	}
	if opts.AnimationDuration <= 0 {
		opts.AnimationDuration = constants.DefaultAnimationDuration
	}
	if opts.ViewportID == "" {
		opts.ViewportID = "game-viewport"
	}
	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	return &Manager{
		sched:    sched,
		stage:    stage,
		opts:     opts,
		registry: registry,
		byID:     make(map[string]screen.Entity),
		entities: make(map[*screen.Screen]screen.Entity),
	}
}

// Registrar implements screen.Host.
func (m *Manager) Registrar() scheduler.Registrar { return m.sched }

func (m *Manager) Scheduler() *scheduler.Scheduler { return m.sched }
func (m *Manager) Registry() *Registry             { return m.registry }
func (m *Manager) Viewport() *viewport.Viewport    { return m.viewport }
func (m *Manager) IsInitialized() bool             { return m.initialized }
func (m *Manager) IsDisposed() bool                { return m.disposed }

// Initialize starts the scheduler, creates the viewport and, when timeline is
// not empty, replaces the registered screens with one entity per descriptor.
// It then shows the first screen without animation. Any descriptor that fails
// to build aborts the call before the scheduler, viewport or screens change.
func (m *Manager) Initialize(timeline []Descriptor) error {
	if m.disposed {
		return NewNavigationError("initialize", "", ErrDisposed)
	}

	var entities []screen.Entity
	if len(timeline) > 0 {
		var err error
		if entities, err = m.build(timeline); err != nil {
			return err
		}
	}

	m.sched.Start()
	m.resetViewport()

	if len(timeline) > 0 {
		m.disposeScreens()
		for _, e := range entities {
			m.register(e)
		}
	}

	m.initialized = true
	internal.GetInternalLogger().Debug("Manager initialized", "screens", len(m.screens))

	m.Trigger(EventLoad, Event{Type: EventLoad, Target: m})

	if len(m.screens) > 0 {
		m.GoTo(m.screens[0], Navigation{NoAnimations: true})
	}
	return nil
}

// Reset re-runs Initialize with the registered screens.
func (m *Manager) Reset() error {
	if m.disposed {
		return NewNavigationError("reset", "", ErrDisposed)
	}
	if !m.initialized {
		return NewNavigationError("reset", "", ErrNotInitialized)
	}
	return m.Initialize(nil)
}

func (m *Manager) build(timeline []Descriptor) ([]screen.Entity, error) {
	if err := m.registry.Check(timeline); err != nil {
		return nil, err
	}

	entities := make([]screen.Entity, 0, len(timeline))
	for _, d := range timeline {
		e, err := m.registry.Create(m, d)
		if err != nil {
			disposeAll(entities)
			internal.GetInternalLogger().Error("Failed to create screen", "id", d.ScreenID, "type", d.Type, "error", err)
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// Register adds an entity built outside the timeline.
func (m *Manager) Register(e screen.Entity) {
	if m.disposed || e == nil || e.Screen() == nil {
		return
	}
	if _, ok := m.entities[e.Screen()]; ok {
		return
	}
	m.register(e)
}

func (m *Manager) register(e screen.Entity) {
	s := e.Screen()
	m.screens = append(m.screens, e)
	m.byID[s.ID()] = e
	m.entities[s] = e
}

func (m *Manager) resetViewport() {
	if m.viewport != nil {
		m.viewport.Dispose()
	}
	m.viewport = viewport.New(m.sched, m.opts.ViewportID, m.opts.Surface, m.opts.Mobile)
	if !m.opts.Mobile {
		m.viewport.KeepRatio(m.opts.KeepRatio)
	}
}

// GoTo navigates to target and returns its screen. A deferred target that is
// not fetched yet is fetched first; GoTo then returns nil and navigation
// happens once the target loads.
func (m *Manager) GoTo(target screen.Entity, nav Navigation) *screen.Screen {
	if m.disposed || target == nil || target.Screen() == nil {
		return nil
	}

	if d, ok := target.(screen.Deferred); ok && !d.IsFetched() {
		d.OnceLoad(func() { m.GoTo(target, nav) })
		d.Fetch()
		return nil
	}

	in := target.Screen()
	inSlot := slotOf(in)
	outSlot := SlotBase
	if m.IsOverlayActive() {
		outSlot = SlotOverlay
	}
	out := m.slots[outSlot].current

	base := &m.slots[SlotBase]
	skipAnimation := in == base.current || (in == base.last && base.current == nil)
	overlayOverScreen := in.IsOverlay() && out != nil && !out.IsOverlay()

	m.slots[outSlot].last = out
	m.slots[inSlot].current = in
	if outSlot == SlotOverlay && inSlot == SlotBase {
		m.slots[SlotOverlay].current = nil
	}

	internal.GetInternalLogger().Debug("Screen transition",
		"from", screenID(out), "to", in.ID(), "slot", inSlot.String(),
		"skipAnimation", skipAnimation, "noAnimations", nav.NoAnimations)

	if out != nil {
		m.leave(out, in, nav, overlayOverScreen)
	}
	m.enter(in, nav, skipAnimation)

	m.Trigger(EventChangeScreen, Event{Type: EventChangeScreen, Target: m, Screen: in})
	return in
}

func (m *Manager) leave(out, in *screen.Screen, nav Navigation, overlayOverScreen bool) {
	m.emit(out, screen.EventBeforeStop)

	if out == in || nav.NoAnimations || overlayOverScreen {
		m.emit(out, screen.EventStop)
		// The base screen stays drawn under a new overlay.
		if out != in && !overlayOverScreen {
			out.HideNow()
		}
		return
	}

	anim := out.HideWith(m.fade(1, 0))
	if anim == nil {
		m.emit(out, screen.EventStop)
		return
	}
	onFinish(anim, func() { m.emit(out, screen.EventStop) })
}

func (m *Manager) enter(in *screen.Screen, nav Navigation, skipAnimation bool) {
	m.emit(in, screen.EventBeforeStart)

	if nav.NoAnimations || skipAnimation {
		if skipAnimation {
			m.emit(in, screen.EventRestart)
		}
		m.emit(in, screen.EventStart)
		in.ShowNow()
		return
	}

	anim := in.ShowWith(m.fade(0, 1))
	if anim == nil {
		m.emit(in, screen.EventStart)
		return
	}
	onFinish(anim, func() { m.emit(in, screen.EventStart) })
}

// onFinish runs fn after anim stops having reached its end value. A fade
// stopped early because a later navigation replaced it never calls fn.
func onFinish(anim *interpolator.Linear, fn func()) {
	completed := false
	anim.Once(interpolator.EventComplete, func(interpolator.Event) { completed = true })
	anim.Once(interpolator.EventStop, func(interpolator.Event) {
		if completed {
			fn()
		}
	})
}

func (m *Manager) fade(from, to float64) *interpolator.Linear {
	return interpolator.New(m.sched, m.opts.AnimationDuration, from, to)
}

func (m *Manager) emit(s *screen.Screen, eventType string) {
	s.Trigger(eventType, screen.Event{Type: eventType, Target: s, Origin: m})
}

// CloseOverlay returns to the current base screen, or the last one.
func (m *Manager) CloseOverlay() *screen.Screen {
	base := m.slots[SlotBase]
	target := base.current
	if target == nil {
		target = base.last
	}
	if target == nil {
		return nil
	}
	return m.GoTo(target, Navigation{})
}

// IsOverlayActive reports whether an overlay is current.
func (m *Manager) IsOverlayActive() bool {
	return m.slots[SlotOverlay].current != nil
}

// IsActiveScreen reports whether s receives interaction: the current overlay
// if there is one, the current base screen otherwise.
func (m *Manager) IsActiveScreen(s *screen.Screen) bool {
	if s == nil {
		return false
	}
	if m.IsOverlayActive() {
		return m.slots[SlotOverlay].current == s
	}
	return m.slots[SlotBase].current == s
}

// Current returns the current screen of a slot.
func (m *Manager) Current(sl Slot) *screen.Screen { return m.slots[sl].current }

// Last returns the previous screen of a slot.
func (m *Manager) Last(sl Slot) *screen.Screen { return m.slots[sl].last }

// Entity returns the entity owning s.
func (m *Manager) Entity(s *screen.Screen) screen.Entity {
	return m.entities[s]
}

// NextScreen returns the entity registered after the current base screen.
func (m *Manager) NextScreen() screen.Entity {
	idx := m.indexOf(m.slots[SlotBase].current)
	if idx < 0 || idx+1 >= len(m.screens) {
		return nil
	}
	return m.screens[idx+1]
}

func (m *Manager) HasNextScreen() bool {
	return m.NextScreen() != nil
}

func (m *Manager) indexOf(s *screen.Screen) int {
	if s == nil {
		return -1
	}
	for i, e := range m.screens {
		if e.Screen() == s {
			return i
		}
	}
	return -1
}

// ScreenByID returns the registered entity with the given id, or nil.
func (m *Manager) ScreenByID(id string) screen.Entity {
	return m.byID[id]
}

// Screens returns the registered entities in navigation order.
func (m *Manager) Screens() []screen.Entity {
	return append([]screen.Entity(nil), m.screens...)
}

// DimensionAdaptedToViewport scales size to the viewport width, or to its
// height when that would overflow.
func (m *Manager) DimensionAdaptedToViewport(size geometry.Point) geometry.Point {
	if m.viewport == nil {
		return geometry.Point{}
	}
	return geometry.FitWidth(size, m.viewport.Size())
}

// Dispose detaches listeners, stops the scheduler and disposes every screen
// and the viewport. The manager is unusable afterwards.
func (m *Manager) Dispose() {
	if m.disposed {
		return
	}
	m.Clear()
	m.sched.Stop()
	m.disposeScreens()
	if m.viewport != nil {
		m.viewport.Dispose()
	}

	m.viewport = nil
	m.stage = nil
	m.screens = nil
	m.byID = nil
	m.entities = nil
	m.disposed = true
	internal.GetInternalLogger().Debug("Manager disposed")
}

func (m *Manager) disposeScreens() {
	disposeAll(m.screens)
	m.screens = nil
	m.byID = make(map[string]screen.Entity)
	m.entities = make(map[*screen.Screen]screen.Entity)
	m.slots = [2]slot{}
}

func (m *Manager) element(id string) fade.Element {
	if m.stage == nil {
		return nil
	}
	return m.stage.Element(id)
}

func disposeAll(entities []screen.Entity) {
	for _, e := range entities {
		if d, ok := e.(disposer); ok {
			d.Dispose()
			continue
		}
		e.Screen().Dispose()
	}
}

func screenID(s *screen.Screen) string {
	if s == nil {
		return ""
	}
	return s.ID()
}
