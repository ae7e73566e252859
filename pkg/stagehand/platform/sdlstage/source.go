package sdlstage

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/frame"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/internal"
)

// Source is a frame source driven by the SDL event loop. Call Pump once per
// loop iteration on the thread that owns the window.
type Source struct {
	frame.Queue

	onResize []func()
	quit     bool
}

func NewSource() *Source {
	return &Source{}
}

// OnResize registers fn to run when the window size changes, typically a
// viewport's RequestResize.
func (s *Source) OnResize(fn func()) {
	s.onResize = append(s.onResize, fn)
}

// Pump drains pending SDL events and fires queued frame requests with the
// SDL tick clock. It returns false once the window was asked to close; the
// unload hooks have run by then.
func (s *Source) Pump() bool {
	if s.quit {
		return false
	}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			internal.GetInternalLogger().Debug("SDL quit requested")
			s.quit = true
			s.Unload()
			return false
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				for _, fn := range s.onResize {
					fn()
				}
			}
		}
	}

	s.Fire(time.Duration(sdl.GetTicks64()) * time.Millisecond)
	return true
}
