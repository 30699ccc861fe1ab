package motion

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestModesHaveNamesAndSpeeds(t *testing.T) {
	p := DefaultParams()
	for _, m := range Modes() {
		assert.NotEqual(t, "unknown", m.String())
		parsed, ok := ParseMode(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, parsed)
		assert.Positive(t, p.SpeedMultiplier(m), "mode %s", m)
	}
	_, ok := ParseMode("sleep")
	assert.False(t, ok)
}

func TestNewDefaults(t *testing.T) {
	m := New(Session{Bounds: Bounds{W: 1920, H: 1080}, SpriteW: 64, SpriteH: 64})

	assert.Equal(t, ModeWander, m.Mode())
	assert.Equal(t, cp.Vector{X: 200, Y: 200}, m.Body().Pos)
	assert.Equal(t, cp.Vector{X: 3, Y: 2}, m.Body().Vel)
	assert.Equal(t, FacingRight, m.Body().Facing)
	assert.Equal(t, 30*time.Millisecond, m.NextDelay())
	assert.Equal(t, DefaultParams(), m.Params())
	assert.False(t, m.Idle())
}

func TestFollowHysteresis(t *testing.T) {
	m := newTestMachine(quietParams(), true, seeded(3))

	offsets := []float64{250, 150, 50, 150}
	want := []Mode{ModeFollow, ModeFollow, ModeCurious, ModeCurious}

	for i, off := range offsets {
		pos := m.Body().Pos
		m.Tick(Pointer{X: pos.X + off, Y: pos.Y, Moved: true})
		assert.Equal(t, want[i], m.Mode(), "step %d", i)
	}
}

func TestFollowTargetTracksPointer(t *testing.T) {
	m := newTestMachine(quietParams(), true, seeded(5))

	pos := m.Body().Pos
	ptr := Pointer{X: pos.X + 400, Y: pos.Y, Moved: true}
	m.Tick(ptr)
	require.Equal(t, ModeFollow, m.Mode())

	tgt := m.Target()
	assert.InDelta(t, ptr.X, tgt.X, 80)
	assert.InDelta(t, ptr.Y, tgt.Y, 80)

	// A still pointer leaves the target alone.
	before := m.Target()
	ptr.Moved = false
	m.Tick(ptr)
	assert.Equal(t, before, m.Target())
}

func TestDisablingFollowFallsBackToWander(t *testing.T) {
	m := newTestMachine(quietParams(), true, seeded(9))
	pos := m.Body().Pos
	m.Tick(Pointer{X: pos.X + 500, Y: pos.Y, Moved: true})
	require.Equal(t, ModeFollow, m.Mode())

	m.SetFollowMouse(false)
	events := m.Tick(Pointer{X: pos.X + 500, Y: pos.Y})

	assert.Equal(t, ModeWander, m.Mode())
	assert.Contains(t, kinds(events), EventModeChanged)
}

func TestRestCycle(t *testing.T) {
	m := newTestMachine(quietParams(), false, seeded(11))
	m.mode = ModeRest
	m.restTimer = 2000
	start := m.Body().Pos

	for i := 1; i < 67; i++ {
		m.Tick(Pointer{})
		require.Equal(t, ModeRest, m.Mode(), "tick %d", i)
		require.Equal(t, start, m.Body().Pos, "rest never moves")
		require.True(t, m.Idle())
	}

	events := m.Tick(Pointer{})
	assert.Equal(t, ModeWander, m.Mode())
	assert.Contains(t, kinds(events), EventModeChanged)
	assert.Equal(t, start, m.Body().Pos)
	assert.GreaterOrEqual(t, m.targetTimer, 200)
	assert.LessOrEqual(t, m.targetTimer, 500)
}

func TestArrivalStartsRest(t *testing.T) {
	m := newTestMachine(quietParams(), false, fixedRand{f: 0.1})
	m.target = m.body.Pos
	start := m.Body().Pos

	events := m.Tick(Pointer{})

	assert.Equal(t, ModeRest, m.Mode())
	assert.Equal(t, 1000, m.restTimer)
	assert.Equal(t, start, m.Body().Pos)
	assert.Equal(t, PoseIdle, m.Pose())
	require.Len(t, events, 1)
	assert.Equal(t, ModeWander, events[0].Prev)
}

func TestArrivalWithoutRestRetargets(t *testing.T) {
	m := newTestMachine(quietParams(), false, fixedRand{f: 0.7, n: 10})
	m.target = m.body.Pos

	m.Tick(Pointer{})

	assert.Equal(t, ModeWander, m.Mode())
	assert.NotEqual(t, m.body.Pos, m.Target())
}

func TestIdlePause(t *testing.T) {
	p := quietParams()
	p.StopChance = 1
	p.StayPutChance = 0
	m := newTestMachine(p, false, seeded(13))

	events := m.Tick(Pointer{})
	require.Equal(t, []EventKind{EventIdleStarted}, kinds(events))
	assert.True(t, m.Idle())
	assert.Equal(t, PoseIdle, m.Pose())
	assert.Equal(t, ModeWander, m.Mode())

	// The body keeps moving while idle-paused.
	before := m.Body().Pos
	m.Tick(Pointer{})
	assert.NotEqual(t, before, m.Body().Pos)

	ended := false
	for i := 0; i < 300 && !ended; i++ {
		for _, e := range m.Tick(Pointer{}) {
			if e.Kind == EventIdleEnded {
				ended = true
			}
		}
	}
	assert.True(t, ended)
}

func TestIdlePauseStayPut(t *testing.T) {
	p := quietParams()
	p.StopChance = 1
	p.StayPutChance = 1
	m := newTestMachine(p, false, seeded(17))

	events := m.Tick(Pointer{})
	require.Len(t, events, 1)
	assert.True(t, events[0].StayPut)
	assert.Equal(t, PoseHold, m.Pose())
}

func TestPauseToggleRestoresState(t *testing.T) {
	m := newTestMachine(DefaultParams(), true, seeded(19))
	for i := 0; i < 50; i++ {
		m.Tick(Pointer{X: 100, Y: 100, Moved: i%3 == 0})
	}
	before := *m

	assert.True(t, m.TogglePause())
	assert.Equal(t, 100*time.Millisecond, m.NextDelay())
	assert.Equal(t, PoseIdle, m.Pose())
	events := m.Tick(Pointer{X: 900, Y: 900, Moved: true})
	assert.Equal(t, []EventKind{EventPaused}, kinds(events))

	assert.False(t, m.TogglePause())
	m.drain()

	assert.Equal(t, before, *m)
}

func TestDrag(t *testing.T) {
	m := newTestMachine(quietParams(), false, seeded(23))

	m.BeginDrag()
	assert.True(t, m.Dragging())
	assert.Equal(t, 50*time.Millisecond, m.NextDelay())
	assert.Equal(t, PoseDrag, m.Pose())

	m.DragTo(10, 20)
	events := m.Tick(Pointer{})
	assert.Equal(t, []EventKind{EventMoved}, kinds(events))
	assert.Equal(t, cp.Vector{X: 10, Y: 20}, m.Body().Pos)

	m.Tick(Pointer{})
	assert.Equal(t, cp.Vector{X: 10, Y: 20}, m.Body().Pos, "no integration while dragging")

	m.EndDrag()
	m.Tick(Pointer{})
	assert.NotEqual(t, cp.Vector{X: 10, Y: 20}, m.Body().Pos)
}

func TestDirectionFlip(t *testing.T) {
	m := newTestMachine(quietParams(), false, seeded(29))
	m.body.Vel = cp.Vector{X: -3, Y: 0}
	m.target = cp.Vector{X: 100, Y: 500}

	events := m.Tick(Pointer{})

	assert.Equal(t, FacingLeft, m.Body().Facing)
	assert.Contains(t, kinds(events), EventDirectionChanged)
}

func TestSpeedStaysBounded(t *testing.T) {
	m := newTestMachine(DefaultParams(), false, seeded(31))
	for i := 0; i < 20000; i++ {
		m.Tick(Pointer{})
		v := m.Body().Vel
		require.LessOrEqual(t, v.Length(), 9.0, "tick %d", i)
	}
}

func TestSetSpriteSizeAndBounds(t *testing.T) {
	m := newTestMachine(quietParams(), false, seeded(37))
	m.SetSpriteSize(40, 30)
	m.SetBounds(Bounds{W: 640, H: 480})

	b := m.Body()
	assert.Equal(t, 40.0, b.W)
	assert.Equal(t, 30.0, b.H)
	assert.Equal(t, Bounds{W: 640, H: 480}, m.Bounds())

	for i := 0; i < 200; i++ {
		m.Tick(Pointer{})
	}
	b = m.Body()
	assert.LessOrEqual(t, b.Pos.X, 640.0+50)
}

func TestJitterHeldBetweenRecomputes(t *testing.T) {
	p := quietParams()
	p.Jitter = 0.15
	m := newTestMachine(p, false, seeded(21))
	m.target = cp.Vector{X: 1700, Y: 900}
	m.targetTimer = 1000

	seen := make([]cp.Vector, 0, 10)
	for i := 0; i < 10; i++ {
		m.Tick(Pointer{})
		seen = append(seen, m.jitter)
	}

	for i := 0; i < 4; i++ {
		assert.Equal(t, cp.Vector{}, seen[i], "tick %d", i+1)
	}
	for i := 5; i < 9; i++ {
		assert.Equal(t, seen[4], seen[i], "tick %d holds the tick 5 value", i+1)
	}
	assert.NotEqual(t, seen[4], seen[9], "recomputed on tick 10")

	for _, j := range []cp.Vector{seen[4], seen[9]} {
		assert.NotEqual(t, cp.Vector{}, j)
		assert.InDelta(t, 0, j.X, 0.15)
		assert.InDelta(t, 0, j.Y, 0.15)
	}
}

func TestTargetCountdownExpiry(t *testing.T) {
	m := newTestMachine(quietParams(), false, seeded(13))
	far := cp.Vector{X: 1700, Y: 900}
	m.target = far
	m.targetTimer = 5

	m.Tick(Pointer{})
	assert.Equal(t, 4, m.targetTimer)
	assert.Equal(t, far, m.Target())

	m.targetTimer = 1
	m.Tick(Pointer{})
	assert.NotEqual(t, far, m.Target())
	assert.GreaterOrEqual(t, m.targetTimer, 200)
	assert.LessOrEqual(t, m.targetTimer, 500)
}
