// Package ebitenstage runs stagehand screens inside an Ebitengine game loop.
package ebitenstage

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/fade"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/frame"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/geometry"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/internal"
)

// Game implements ebiten.Game. Every Update delivers one frame to the queued
// requests, timed by the tick rate, and Draw draws the stage. It is also the
// viewport surface: the outside size measured in Layout is what the viewport
// sees and the viewport size becomes the logical screen size.
type Game struct {
	frame.Queue

	// OnUpdate runs after the frame callbacks, for input handling.
	// Returning an error ends the game.
	OnUpdate func() error

	sprites map[string]*Sprite
	order   []string

	now      time.Duration
	outside  geometry.Point
	logical  geometry.Point
	onResize []func()
}

// NewGame creates a game and asks Ebitengine to report window close requests
// instead of closing right away, so unload hooks can run.
func NewGame(width, height int) *Game {
	ebiten.SetWindowClosingHandled(true)
	return &Game{
		sprites: make(map[string]*Sprite),
		logical: geometry.Pt(float64(width), float64(height)),
	}
}

// OnResize registers fn to run when the outside size changes.
func (g *Game) OnResize(fn func()) {
	g.onResize = append(g.onResize, fn)
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		internal.GetInternalLogger().Debug("Ebitengine window closing")
		g.Unload()
		return ebiten.Termination
	}

	return g.step(ebiten.TPS())
}

// step advances the clock by one tick at tps ticks per second and fires the
// queued frame requests.
func (g *Game) step(tps int) error {
	if tps <= 0 {
		// SyncWithFPS
		tps = ebiten.DefaultTPS
	}
	g.now += time.Second / time.Duration(tps)
	g.Fire(g.now)

	if g.OnUpdate != nil {
		return g.OnUpdate()
	}
	return nil
}

// Now returns the game clock, advanced by one tick per Update.
func (g *Game) Now() time.Duration {
	return g.now
}

func (g *Game) Draw(screen *ebiten.Image) {
	for _, id := range g.order {
		g.sprites[id].Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	outside := geometry.Pt(float64(outsideWidth), float64(outsideHeight))
	if outside != g.outside {
		first := g.outside == geometry.Point{}
		g.outside = outside
		if !first {
			for _, fn := range g.onResize {
				fn()
			}
		}
	}
	return int(g.logical.X), int(g.logical.Y)
}

// Size implements viewport.Surface.
func (g *Game) Size() geometry.Point {
	if g.outside == (geometry.Point{}) {
		return g.logical
	}
	return g.outside
}

// Resize implements viewport.Surface.
func (g *Game) Resize(size geometry.Point) {
	if size.X > 0 && size.Y > 0 {
		g.logical = size
	}
}

// Add registers the sprite shown for a screen. Sprites added later are drawn on top.
func (g *Game) Add(screenID string, s *Sprite) {
	if _, ok := g.sprites[screenID]; !ok {
		g.order = append(g.order, screenID)
	}
	g.sprites[screenID] = s
}

// Element implements manager.Stage.
func (g *Game) Element(screenID string) fade.Element {
	if s, ok := g.sprites[screenID]; ok {
		return s
	}
	return nil
}
