package reel

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default node color.
var ColorWhite = Color{1, 1, 1, 1}

// Lerp interpolates each component between c and to.
func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		R: Lerp(c.R, to.R, t),
		G: Lerp(c.G, to.G, t),
		B: Lerp(c.B, to.B, t),
		A: Lerp(c.A, to.A, t),
	}
}

// Vec2 is a 2D vector used for positions and scales.
type Vec2 struct {
	X, Y float64
}

// Lerp interpolates between v and to.
func (v Vec2) Lerp(to Vec2, t float64) Vec2 {
	return Vec2{X: Lerp(v.X, to.X, t), Y: Lerp(v.Y, to.Y, t)}
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Element is anything a scene can hold for rendering. The core only needs its
// priority: elements are painted in ascending priority, insertion order
// breaking ties.
type Element interface {
	Priority() int
}
