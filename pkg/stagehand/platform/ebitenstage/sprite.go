package ebitenstage

import "github.com/hajimehoshi/ebiten/v2"

// Sprite draws an image with its opacity applied through the color scale.
type Sprite struct {
	Image *ebiten.Image
	X, Y  float64

	opacity float64
	visible bool
}

func NewSprite(img *ebiten.Image, x, y float64) *Sprite {
	return &Sprite{Image: img, X: x, Y: y}
}

func (s *Sprite) SetOpacity(opacity float64) { s.opacity = min(max(opacity, 0), 1) }
func (s *Sprite) SetVisible(visible bool)    { s.visible = visible }
func (s *Sprite) Visible() bool              { return s.visible }
func (s *Sprite) Opacity() float64           { return s.opacity }

func (s *Sprite) Draw(dst *ebiten.Image) {
	if !s.visible || s.opacity == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(s.X, s.Y)
	op.ColorScale.ScaleAlpha(float32(s.opacity))
	dst.DrawImage(s.Image, op)
}
