package motion

import "github.com/jakecoffman/cp"

// Edge identifies one side of the screen.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
)

var edges = [...]Edge{EdgeLeft, EdgeRight, EdgeTop, EdgeBottom}

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	}
	return "none"
}

func randomEdge(r Rand) Edge {
	return edges[r.IntN(len(edges))]
}

// Selector picks wander targets for a sprite of size W x H inside Bounds.
type Selector struct {
	Bounds Bounds
	W, H   float64
	Params Params
	Rand   Rand
}

// PickRandomTarget returns a point on screen, or with OutsideTargetChance a
// point beyond a random edge so the sprite wanders off and respawns.
func (s Selector) PickRandomTarget() cp.Vector {
	r := s.Rand
	if r == nil {
		r = GlobalRand()
	}
	maxX := int(s.Bounds.maxX(s.W))
	maxY := int(s.Bounds.maxY(s.H))

	if chance(r, s.Params.OutsideTargetChance) {
		margin := s.Params.RespawnMargin + 50
		switch randomEdge(r) {
		case EdgeLeft:
			return cp.Vector{X: -margin, Y: float64(randInt(r, 0, maxY))}
		case EdgeRight:
			return cp.Vector{X: s.Bounds.W + margin, Y: float64(randInt(r, 0, maxY))}
		case EdgeTop:
			return cp.Vector{X: float64(randInt(r, 0, maxX)), Y: -margin}
		default:
			return cp.Vector{X: float64(randInt(r, 0, maxX)), Y: s.Bounds.H + margin}
		}
	}

	return cp.Vector{X: float64(randInt(r, 0, maxX)), Y: float64(randInt(r, 0, maxY))}
}

// Offscreen reports whether t lies outside the usable area.
func (s Selector) Offscreen(t cp.Vector) bool {
	return !s.Bounds.Contains(t)
}
