// Package term draws stagehand screens as panels on a tcell terminal screen.
package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/textdraw"
)

// Panel is a bordered box of text. It implements fade.Element by blending its
// foreground into its background as opacity drops, and textdraw.Surface by
// appending spans to its lines.
type Panel struct {
	Title string
	Fg    colorful.Color
	Bg    colorful.Color
	// Inset shrinks the panel inside the viewport, for overlays.
	Inset int

	lines   [][]*Span
	opacity float64
	visible bool
}

func NewPanel(title string, fg, bg colorful.Color) *Panel {
	return &Panel{Title: title, Fg: fg, Bg: bg}
}

func (p *Panel) SetOpacity(opacity float64) { p.opacity = min(max(opacity, 0), 1) }
func (p *Panel) SetVisible(visible bool)    { p.visible = visible }
func (p *Panel) Visible() bool              { return p.visible }
func (p *Panel) Opacity() float64           { return p.opacity }

// Span is a run of text on a panel line.
type Span struct {
	text string
}

func (s *Span) SetText(text string) { s.text = text }
func (s *Span) Text() string        { return s.text }

// OpenSpan implements textdraw.Surface. Segments tagged "p" or "br" start a
// new line; others continue the current one.
func (p *Panel) OpenSpan(seg textdraw.Segment) textdraw.Span {
	s := &Span{}
	if len(p.lines) == 0 || seg.Tag == "p" || seg.Tag == "br" {
		p.lines = append(p.lines, nil)
	}
	last := len(p.lines) - 1
	p.lines[last] = append(p.lines[last], s)
	return s
}

// ClearText removes every line.
func (p *Panel) ClearText() {
	p.lines = nil
}

// Lines returns the current text, one string per line.
func (p *Panel) Lines() []string {
	out := make([]string, len(p.lines))
	for i, line := range p.lines {
		for _, s := range line {
			out[i] += s.text
		}
	}
	return out
}

// Style returns the panel style at its current opacity.
func (p *Panel) Style() tcell.Style {
	fg := p.Bg.BlendLab(p.Fg, p.opacity).Clamped()
	return tcell.StyleDefault.Foreground(toTcell(fg)).Background(toTcell(p.Bg))
}

// Draw renders the panel into the x, y, w, h cell rectangle.
func (p *Panel) Draw(s tcell.Screen, x, y, w, h int) {
	if !p.visible || w < 2 || h < 2 {
		return
	}
	x, y, w, h = x+p.Inset, y+p.Inset, w-2*p.Inset, h-2*p.Inset
	if w < 2 || h < 2 {
		return
	}
	st := p.Style()

	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetContent(col, row, ' ', nil, st)
		}
	}
	for col := x + 1; col < x+w-1; col++ {
		s.SetContent(col, y, tcell.RuneHLine, nil, st)
		s.SetContent(col, y+h-1, tcell.RuneHLine, nil, st)
	}
	for row := y + 1; row < y+h-1; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, st)
		s.SetContent(x+w-1, row, tcell.RuneVLine, nil, st)
	}
	s.SetContent(x, y, tcell.RuneULCorner, nil, st)
	s.SetContent(x+w-1, y, tcell.RuneURCorner, nil, st)
	s.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, st)
	s.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, st)

	if p.Title != "" {
		drawString(s, x+2, y, w-4, " "+p.Title+" ", st)
	}
	for i, line := range p.Lines() {
		row := y + 1 + i
		if row >= y+h-1 {
			break
		}
		drawString(s, x+2, row, w-4, line, st)
	}
}

// drawString writes str grapheme by grapheme, clipped to limit cells.
func drawString(s tcell.Screen, x, y, limit int, str string, st tcell.Style) {
	col := 0
	state := -1
	for len(str) > 0 {
		var cluster string
		var width int
		cluster, str, width, state = uniseg.FirstGraphemeClusterInString(str, state)
		if col+width > limit {
			return
		}
		runes := []rune(cluster)
		s.SetContent(x+col, y, runes[0], runes[1:], st)
		col += width
	}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
