package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/fade"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/geometry"
)

// Stage owns the panels of every screen and draws the visible ones centered
// in the viewport area. It implements manager.Stage and viewport.Surface.
type Stage struct {
	screen tcell.Screen
	panels map[string]*Panel
	order  []string
	area   geometry.Point
}

func NewStage(s tcell.Screen) *Stage {
	return &Stage{screen: s, panels: make(map[string]*Panel)}
}

// Add registers the panel shown for a screen. Panels added later are drawn on top.
func (st *Stage) Add(screenID string, p *Panel) {
	if _, ok := st.panels[screenID]; !ok {
		st.order = append(st.order, screenID)
	}
	st.panels[screenID] = p
}

func (st *Stage) Panel(screenID string) *Panel {
	return st.panels[screenID]
}

// Element implements manager.Stage.
func (st *Stage) Element(screenID string) fade.Element {
	if p, ok := st.panels[screenID]; ok {
		return p
	}
	return nil
}

// Size implements viewport.Surface with the terminal size in cells.
func (st *Stage) Size() geometry.Point {
	w, h := st.screen.Size()
	return geometry.Pt(float64(w), float64(h))
}

// Resize implements viewport.Surface.
func (st *Stage) Resize(size geometry.Point) {
	st.area = size
}

// Area returns the drawing rectangle: the viewport size clamped to the
// terminal and centered in it.
func (st *Stage) Area() (x, y, w, h int) {
	sw, sh := st.screen.Size()
	w, h = int(st.area.X), int(st.area.Y)
	if w <= 0 || w > sw {
		w = sw
	}
	if h <= 0 || h > sh {
		h = sh
	}
	return (sw - w) / 2, (sh - h) / 2, w, h
}

// Draw clears the screen, draws every visible panel and shows the result.
func (st *Stage) Draw() {
	st.screen.Clear()
	x, y, w, h := st.Area()
	for _, id := range st.order {
		st.panels[id].Draw(st.screen, x, y, w, h)
	}
	st.screen.Show()
}
