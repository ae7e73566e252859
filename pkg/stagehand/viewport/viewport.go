// Package viewport keeps a drawing surface sized to a fixed aspect ratio.
package viewport

import (
	"time"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/constants"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/events"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/geometry"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/internal"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
)

const EventResize = "resize"

// Surface is the area the viewport measures and sizes.
type Surface interface {
	// Size reports the space available to the viewport.
	Size() geometry.Point
	// Resize applies the computed viewport size.
	Resize(size geometry.Point)
}

type Event struct {
	Type   string
	Size   geometry.Point
	Screen geometry.Point
	Origin *Viewport
}

// Viewport derives its size from the surface size and a ratio. On desktop the
// ratio is applied to (width, width); on mobile to (width, height).
type Viewport struct {
	events.Emitter[Event]

	id       string
	surface  Surface
	mobile   bool
	reg      scheduler.Registrar
	debounce time.Duration

	screen geometry.Point
	size   geometry.Point
	ratio  geometry.Point

	deadline time.Duration
	pending  bool
	poll     scheduler.Callback
	disposed bool
}

// New creates a viewport and sizes it once without emitting resize.
// A nil surface yields a zero-sized viewport.
func New(reg scheduler.Registrar, id string, surface Surface, mobile bool) *Viewport {
	v := &Viewport{
		id:       id,
		surface:  surface,
		mobile:   mobile,
		reg:      reg,
		debounce: constants.DefaultResizeDebounce,
		ratio:    geometry.Pt(1, 1),
	}
	v.poll = scheduler.Func(v.flush)
	v.UpdateSize(true)
	return v
}

func (v *Viewport) ID() string                  { return v.id }
func (v *Viewport) Size() geometry.Point        { return v.size }
func (v *Viewport) Screen() geometry.Point      { return v.screen }
func (v *Viewport) Ratio() geometry.Point       { return v.ratio }
func (v *Viewport) IsMobile() bool              { return v.mobile }
func (v *Viewport) IsResizePending() bool       { return v.pending }
func (v *Viewport) IsDisposed() bool            { return v.disposed }
func (v *Viewport) SetDebounce(d time.Duration) { v.debounce = d }

// UpdateSize re-measures the surface and resizes it.
func (v *Viewport) UpdateSize(silent bool) {
	if v.disposed || v.surface == nil {
		return
	}

	v.screen = v.surface.Size()
	if v.mobile {
		v.size = v.ratio.Scl(v.screen)
	} else {
		v.size = v.ratio.Scl(geometry.Pt(v.screen.X, v.screen.X))
	}
	v.surface.Resize(v.size)

	if !silent {
		v.Trigger(EventResize, Event{Type: EventResize, Size: v.size, Screen: v.screen, Origin: v})
	}
}

// KeepRatio sets height = ratio * width and resizes silently.
func (v *Viewport) KeepRatio(ratio float64) {
	v.ratio.SetXY(1, ratio)
	v.UpdateSize(true)
}

// RequestResize schedules an UpdateSize once no request has arrived for the
// debounce interval.
func (v *Viewport) RequestResize() {
	if v.disposed || v.reg == nil {
		return
	}
	v.deadline = v.reg.Now() + v.debounce
	if !v.pending {
		v.pending = true
		v.reg.Add(v.poll, v)
	}
}

// Dispose drops listeners and any pending resize.
func (v *Viewport) Dispose() {
	if v.pending {
		v.reg.Remove(v.poll, v)
		v.pending = false
	}
	v.Clear()
	v.surface = nil
	v.reg = nil
	v.disposed = true
}

func (v *Viewport) flush(now time.Duration) {
	// A Dispose earlier in the same tick leaves this call in the snapshot.
	if v.disposed || !v.pending || now < v.deadline {
		return
	}
	v.reg.Remove(v.poll, v)
	v.pending = false
	internal.GetInternalLogger().Debug("Viewport resize", "id", v.id, "screen", v.screen.String())
	v.UpdateSize(false)
}
