// Package geometry holds the small amount of 2D math used for sizing.
package geometry

import (
	"fmt"
	"math"
)

// Point is a 2D vector. Operations return new values.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

// Scl multiplies component-wise.
func (p Point) Scl(o Point) Point { return Point{p.X * o.X, p.Y * o.Y} }

// Div divides component-wise. Division by zero follows IEEE 754.
func (p Point) Div(o Point) Point { return Point{p.X / o.X, p.Y / o.Y} }

func (p *Point) SetXY(x, y float64) {
	p.X = x
	p.Y = y
}

// Dst2 is the squared distance to o.
func (p Point) Dst2(o Point) float64 {
	dx, dy := o.X-p.X, o.Y-p.Y
	return dx*dx + dy*dy
}

func (p Point) Dst(o Point) float64 { return math.Sqrt(p.Dst2(o)) }

func (p Point) Floor() Point { return Point{math.Floor(p.X), math.Floor(p.Y)} }
func (p Point) Ceil() Point  { return Point{math.Ceil(p.X), math.Ceil(p.Y)} }
func (p Point) Abs() Point   { return Point{math.Abs(p.X), math.Abs(p.Y)} }

func (p Point) String() string {
	return fmt.Sprintf("{ x: %g, y: %g }", p.X, p.Y)
}

// FitWidth scales size to the width of bounds, keeping its aspect ratio, and
// falls back to fitting the height when the result would be too tall.
func FitWidth(size, bounds Point) Point {
	fit := Point{bounds.X, size.Y * (bounds.X / size.X)}
	if fit.Y > bounds.Y {
		fit.SetXY(size.X*(bounds.Y/size.Y), bounds.Y)
	}
	return fit
}
