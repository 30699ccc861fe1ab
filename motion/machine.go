package motion

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
)

// Session is the explicit context a Machine is built from.
type Session struct {
	Bounds      Bounds
	SpriteW     float64
	SpriteH     float64
	FollowMouse bool
	Params      Params
	Rand        Rand
	// Start is the initial top-left position. The zero value means (200, 200).
	Start cp.Vector
}

type Option func(*Machine)

// WithRand overrides the session's random source.
func WithRand(r Rand) Option {
	return func(m *Machine) {
		if r != nil {
			m.rand = r
		}
	}
}

func WithVelocity(v cp.Vector) Option {
	return func(m *Machine) {
		m.body.Vel = v
	}
}

// Pose is what the sprite should currently look like.
type Pose uint8

const (
	PoseMove Pose = iota
	PoseIdle
	// PoseHold keeps whatever frames are playing.
	PoseHold
	PoseDrag
)

func (p Pose) String() string {
	switch p {
	case PoseMove:
		return "move"
	case PoseIdle:
		return "idle"
	case PoseHold:
		return "hold"
	case PoseDrag:
		return "drag"
	}
	return "unknown"
}

// Machine is the autonomous motion state machine. It is not safe for
// concurrent use; all calls are expected from the update loop.
type Machine struct {
	body   Body
	bounds Bounds
	params Params
	rand   Rand
	follow bool

	mode        Mode
	target      cp.Vector
	targetTimer int
	restTimer   int

	idlePaused bool
	stayPut    bool
	idleTimer  int

	jitter   cp.Vector
	moveTick int

	paused   bool
	dragging bool

	lastX, lastY int

	events []Event
}

func New(s Session, opts ...Option) *Machine {
	p := s.Params
	if p == (Params{}) {
		p = DefaultParams()
	}
	p = p.sanitized()

	r := s.Rand
	if r == nil {
		r = GlobalRand()
	}

	start := s.Start
	if start == (cp.Vector{}) {
		start = cp.Vector{X: 200, Y: 200}
	}

	m := &Machine{
		body: Body{
			Pos:    start,
			Vel:    cp.Vector{X: p.BaseSpeedX, Y: p.BaseSpeedY},
			W:      s.SpriteW,
			H:      s.SpriteH,
			Facing: FacingRight,
		},
		bounds: s.Bounds,
		params: p,
		rand:   r,
		follow: s.FollowMouse,
		mode:   ModeWander,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.lastX, m.lastY = int(m.body.Pos.X), int(m.body.Pos.Y)
	m.retarget()
	return m
}

func (m *Machine) selector() Selector {
	return Selector{Bounds: m.bounds, W: m.body.W, H: m.body.H, Params: m.params, Rand: m.rand}
}

func (m *Machine) retarget() {
	m.target = m.selector().PickRandomTarget()
	m.targetTimer = randInt(m.rand, m.params.TargetChangeMin, m.params.TargetChangeMax)
}

func (m *Machine) emit(kind EventKind) {
	m.events = append(m.events, Event{
		Kind:   kind,
		Mode:   m.mode,
		Prev:   m.mode,
		Facing: m.body.Facing,
		Pos:    m.body.Pos,
	})
}

func (m *Machine) setMode(next Mode) {
	if next == m.mode {
		return
	}
	prev := m.mode
	m.mode = next
	m.events = append(m.events, Event{
		Kind:   EventModeChanged,
		Mode:   next,
		Prev:   prev,
		Facing: m.body.Facing,
		Pos:    m.body.Pos,
	})
}

func (m *Machine) drain() []Event {
	if len(m.events) == 0 {
		return nil
	}
	out := m.events
	m.events = nil
	return out
}

func (m *Machine) startIdle() {
	m.idlePaused = true
	m.stayPut = chance(m.rand, m.params.StayPutChance)
	m.idleTimer = randInt(m.rand, m.params.StopDurationMin, m.params.StopDurationMax)
	m.events = append(m.events, Event{
		Kind:    EventIdleStarted,
		Mode:    m.mode,
		Prev:    m.mode,
		Facing:  m.body.Facing,
		Pos:     m.body.Pos,
		StayPut: m.stayPut,
	})
}

func (m *Machine) endIdle() {
	m.idlePaused = false
	m.stayPut = false
	m.idleTimer = 0
	if m.mode == ModeWander {
		m.retarget()
	}
	m.emit(EventIdleEnded)
}

// Tick advances the machine by one step using the latest pointer sample and
// returns the events produced since the previous Tick.
func (m *Machine) Tick(ptr Pointer) []Event {
	if m.paused || m.dragging {
		return m.drain()
	}
	p := m.params

	if m.idlePaused {
		m.idleTimer -= p.TickMillis
		if m.idleTimer <= 0 {
			m.endIdle()
		}
	}

	if m.mode == ModeWander && !m.idlePaused && chance(m.rand, p.StopChance) {
		m.startIdle()
		return m.drain()
	}

	if m.mode == ModeRest {
		m.restTimer -= p.TickMillis
		if m.restTimer <= 0 {
			m.restTimer = 0
			m.setMode(ModeWander)
			m.retarget()
		}
		return m.drain()
	}

	if !m.follow && m.mode.MouseReactive() {
		m.setMode(ModeWander)
	}

	if m.follow {
		pointer := cp.Vector{X: ptr.X, Y: ptr.Y}
		dm := pointer.Distance(m.body.Pos)
		if dm > p.FollowStartDistance {
			m.setMode(ModeFollow)
		} else if dm < p.FollowStopDistance {
			m.setMode(ModeCurious)
		}
	} else if m.mode == ModeWander && m.target.Distance(m.body.Pos) < p.RestDistance {
		if chance(m.rand, p.RestChance) {
			m.setMode(ModeRest)
			m.restTimer = randInt(m.rand, p.RestDurationMin, p.RestDurationMax)
			return m.drain()
		}
		m.retarget()
	}

	if m.mode == ModeWander {
		m.targetTimer--
		if m.targetTimer <= 0 {
			m.retarget()
		}
	}

	if m.mode.MouseReactive() && ptr.Moved {
		offset := p.FollowDistance
		if m.mode == ModeCurious {
			offset = int(p.FollowStopDistance)
		}
		m.target = cp.Vector{
			X: ptr.X + float64(randInt(m.rand, -offset, offset)),
			Y: ptr.Y + float64(randInt(m.rand, -offset, offset)),
		}
	}

	m.integrate()
	return m.drain()
}

func (m *Machine) integrate() {
	p := m.params
	mul := p.SpeedMultiplier(m.mode)

	d := m.target.Sub(m.body.Pos)
	dist := math.Max(1, d.Length())
	desired := cp.Vector{
		X: d.X / dist * p.BaseSpeedX * mul,
		Y: d.Y / dist * p.BaseSpeedY * mul,
	}
	m.body.Vel = m.body.Vel.Mult(p.InertiaFactor).Add(desired.Mult(p.IntentFactor))

	m.moveTick++
	if m.moveTick%p.JitterInterval == 0 {
		m.jitter = cp.Vector{
			X: uniform(m.rand, -p.Jitter, p.Jitter),
			Y: uniform(m.rand, -p.Jitter, p.Jitter),
		}
	}
	m.body.Vel = m.body.Vel.Add(m.jitter)
	m.body.Pos = m.body.Pos.Add(m.body.Vel)

	res := ResolveEdges(&m.body, m.bounds, p, m.rand)
	if res.Escaped {
		m.events = append(m.events, Event{
			Kind:   EventRespawned,
			Mode:   m.mode,
			Prev:   m.mode,
			Facing: m.body.Facing,
			Pos:    m.body.Pos,
			Edge:   res.Edge,
		})
	} else {
		m.updateFacing()
	}

	m.notePosition()
}

func (m *Machine) updateFacing() {
	vx := m.body.Vel.X
	switch {
	case vx > m.params.FlipThreshold && m.body.Facing == FacingLeft:
		m.body.Facing = FacingRight
	case vx < -m.params.FlipThreshold && m.body.Facing == FacingRight:
		m.body.Facing = FacingLeft
	default:
		return
	}
	m.emit(EventDirectionChanged)
}

// notePosition emits EventMoved when the integer position changed.
func (m *Machine) notePosition() {
	ix, iy := int(m.body.Pos.X), int(m.body.Pos.Y)
	if ix == m.lastX && iy == m.lastY {
		return
	}
	m.lastX, m.lastY = ix, iy
	m.emit(EventMoved)
}

// NextDelay is how long the loop should wait before the next Tick.
func (m *Machine) NextDelay() time.Duration {
	switch {
	case m.paused:
		return time.Duration(m.params.PausedPollMillis) * time.Millisecond
	case m.dragging:
		return time.Duration(m.params.DragPollMillis) * time.Millisecond
	}
	return time.Duration(m.params.TickMillis) * time.Millisecond
}

func (m *Machine) TogglePause() bool {
	m.SetPaused(!m.paused)
	return m.paused
}

// SetPaused freezes or resumes the machine. Mode, timers, target and any
// idle pause are kept as they are.
func (m *Machine) SetPaused(paused bool) {
	if m.paused == paused {
		return
	}
	m.paused = paused
	if paused {
		m.emit(EventPaused)
	} else {
		m.emit(EventResumed)
	}
}

func (m *Machine) BeginDrag() {
	m.dragging = true
}

// DragTo places the sprite's top-left corner at (x, y).
func (m *Machine) DragTo(x, y float64) {
	if !m.dragging {
		return
	}
	m.body.Pos = cp.Vector{X: x, Y: y}
	m.notePosition()
}

func (m *Machine) EndDrag() {
	m.dragging = false
}

func (m *Machine) SetFollowMouse(on bool) { m.follow = on }

func (m *Machine) FollowMouse() bool { return m.follow }

func (m *Machine) SetBounds(b Bounds) { m.bounds = b }

func (m *Machine) SetSpriteSize(w, h float64) {
	m.body.W = w
	m.body.H = h
}

func (m *Machine) SetParams(p Params) {
	m.params = p.sanitized()
}

func (m *Machine) Params() Params { return m.params }

func (m *Machine) Mode() Mode { return m.mode }

// Idle reports whether the pet is resting or in an idle pause.
func (m *Machine) Idle() bool {
	return m.mode == ModeRest || m.idlePaused
}

func (m *Machine) Paused() bool { return m.paused }

func (m *Machine) Dragging() bool { return m.dragging }

// Body returns a copy of the sprite body.
func (m *Machine) Body() Body { return m.body }

func (m *Machine) Target() cp.Vector { return m.target }

func (m *Machine) Bounds() Bounds { return m.bounds }

// Pose derives the animation the host should play.
func (m *Machine) Pose() Pose {
	switch {
	case m.dragging:
		return PoseDrag
	case m.paused, m.mode == ModeRest:
		return PoseIdle
	case m.idlePaused && m.stayPut:
		return PoseHold
	case m.idlePaused:
		return PoseIdle
	}
	return PoseMove
}
