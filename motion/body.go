package motion

import "github.com/jakecoffman/cp"

type Facing uint8

const (
	FacingRight Facing = iota
	FacingLeft
)

func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}

// Body is the sprite's physical state. Pos is the top-left corner in screen
// pixels.
type Body struct {
	Pos    cp.Vector
	Vel    cp.Vector
	W      float64
	H      float64
	Facing Facing
}

// Bounds is the usable screen area.
type Bounds struct {
	W float64
	H float64
}

// maxX and maxY are the largest top-left coordinates that keep the sprite
// fully visible. They never go below zero.
func (b Bounds) maxX(w float64) float64 {
	if b.W-w < 0 {
		return 0
	}
	return b.W - w
}

func (b Bounds) maxY(h float64) float64 {
	if b.H-h < 0 {
		return 0
	}
	return b.H - h
}

// Contains reports whether p lies within [0,W]x[0,H].
func (b Bounds) Contains(p cp.Vector) bool {
	return p.X >= 0 && p.X <= b.W && p.Y >= 0 && p.Y <= b.H
}
