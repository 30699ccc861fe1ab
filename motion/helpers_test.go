package motion

import (
	"math/rand/v2"

	"github.com/jakecoffman/cp"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// fixedRand returns the same draw every time.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }

func (r fixedRand) IntN(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

func quietParams() Params {
	p := DefaultParams()
	p.StopChance = 0
	p.Jitter = 0
	return p
}

func newTestMachine(p Params, follow bool, r Rand) *Machine {
	return New(Session{
		Bounds:      Bounds{W: 1920, H: 1080},
		SpriteW:     100,
		SpriteH:     100,
		FollowMouse: follow,
		Params:      p,
		Rand:        r,
		Start:       cp.Vector{X: 800, Y: 500},
	})
}
