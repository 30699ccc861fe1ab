package motion

import (
	"math"

	"github.com/jakecoffman/cp"
)

// EdgeResult describes what ResolveEdges did to the body.
type EdgeResult struct {
	// Escaped is true when the body was respawned beyond Edge.
	Escaped bool
	Edge    Edge
	// Bounced is true when the body had left the screen and was reflected
	// back in instead of respawning.
	Bounced bool
	HitX    bool
	HitY    bool
}

func escapedBounds(b *Body, bounds Bounds) bool {
	return b.Pos.X < -b.W || b.Pos.X > bounds.W || b.Pos.Y < -b.H || b.Pos.Y > bounds.H
}

// ResolveEdges applies the escape/respawn rule and then, unless the body was
// respawned, axis-aligned collision against the screen border.
func ResolveEdges(b *Body, bounds Bounds, p Params, r Rand) EdgeResult {
	if r == nil {
		r = GlobalRand()
	}
	var res EdgeResult
	maxX := bounds.maxX(b.W)
	maxY := bounds.maxY(b.H)

	if escapedBounds(b, bounds) {
		if chance(r, p.EscapeChance) {
			res.Escaped = true
			res.Edge = respawn(b, bounds, p, r)
			return res
		}
		res.Bounced = true
		b.Vel = b.Vel.Neg()
		b.Pos = cp.Vector{
			X: math.Max(0, math.Min(maxX, b.Pos.X)),
			Y: math.Max(0, math.Min(maxY, b.Pos.Y)),
		}
	}

	if b.Pos.X <= 0 {
		b.Pos.X = 0
		b.Vel.X = math.Abs(b.Vel.X)
		res.HitX = true
	} else if b.Pos.X+b.W >= bounds.W {
		b.Pos.X = bounds.W - b.W
		b.Vel.X = -math.Abs(b.Vel.X)
		res.HitX = true
	}

	if b.Pos.Y <= 0 {
		b.Pos.Y = 0
		b.Vel.Y = math.Abs(b.Vel.Y)
		res.HitY = true
	} else if b.Pos.Y+b.H >= bounds.H {
		b.Pos.Y = bounds.H - b.H
		b.Vel.Y = -math.Abs(b.Vel.Y)
		res.HitY = true
	}

	return res
}

// respawn places the body just beyond a random edge with an entry velocity.
func respawn(b *Body, bounds Bounds, p Params, r Rand) Edge {
	maxX := int(bounds.maxX(b.W))
	maxY := int(bounds.maxY(b.H))
	edge := randomEdge(r)

	vx := p.RespawnSpeedX
	if r.IntN(2) == 0 {
		vx = -vx
	}
	switch edge {
	case EdgeLeft:
		b.Pos = cp.Vector{X: -p.RespawnMargin, Y: float64(randInt(r, 0, maxY))}
		vx = math.Abs(vx)
	case EdgeRight:
		b.Pos = cp.Vector{X: bounds.W + p.RespawnMargin, Y: float64(randInt(r, 0, maxY))}
		vx = -math.Abs(vx)
	case EdgeTop:
		b.Pos = cp.Vector{X: float64(randInt(r, 0, maxX)), Y: -p.RespawnMargin}
	default:
		b.Pos = cp.Vector{X: float64(randInt(r, 0, maxX)), Y: bounds.H + p.RespawnMargin}
	}
	b.Vel = cp.Vector{X: vx, Y: float64(randInt(r, -p.RespawnSpeedY, p.RespawnSpeedY))}
	return edge
}
