package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickRandomTargetOutsideFraction(t *testing.T) {
	s := Selector{
		Bounds: Bounds{W: 1920, H: 1080},
		W:      100,
		H:      100,
		Params: DefaultParams(),
		Rand:   seeded(7),
	}

	const draws = 10000
	outside := 0
	for i := 0; i < draws; i++ {
		tgt := s.PickRandomTarget()
		if s.Offscreen(tgt) {
			outside++
			continue
		}
		require.GreaterOrEqual(t, tgt.X, 0.0)
		require.LessOrEqual(t, tgt.X, 1820.0)
		require.GreaterOrEqual(t, tgt.Y, 0.0)
		require.LessOrEqual(t, tgt.Y, 980.0)
	}

	assert.InDelta(t, 0.4, float64(outside)/draws, 0.03)
}

func TestPickRandomTargetOutsideMargin(t *testing.T) {
	p := DefaultParams()
	p.OutsideTargetChance = 1

	for i := 0; i < 200; i++ {
		s := Selector{Bounds: Bounds{W: 800, H: 600}, W: 50, H: 50, Params: p, Rand: seeded(uint64(i))}
		tgt := s.PickRandomTarget()
		switch {
		case tgt.X == -100:
			assert.True(t, tgt.Y >= 0 && tgt.Y <= 550)
		case tgt.X == 900:
			assert.True(t, tgt.Y >= 0 && tgt.Y <= 550)
		case tgt.Y == -100:
			assert.True(t, tgt.X >= 0 && tgt.X <= 750)
		case tgt.Y == 700:
			assert.True(t, tgt.X >= 0 && tgt.X <= 750)
		default:
			t.Fatalf("target %v is not beyond an edge", tgt)
		}
	}
}

func TestPickRandomTargetSpriteLargerThanScreen(t *testing.T) {
	s := Selector{Bounds: Bounds{W: 50, H: 50}, W: 100, H: 100, Params: DefaultParams(), Rand: fixedRand{f: 0.9}}
	tgt := s.PickRandomTarget()
	assert.Equal(t, 0.0, tgt.X)
	assert.Equal(t, 0.0, tgt.Y)
}
