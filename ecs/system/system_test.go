package system

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/component"
	"github.com/milk9111/deskpet/ecs/entity"
	"github.com/milk9111/deskpet/feed"
	"github.com/milk9111/deskpet/motion"
)

type fakeHost struct {
	winX, winY  int
	curX, curY  int
	pressed     map[ebiten.MouseButton]bool
	released    map[ebiten.MouseButton]bool
	sizeCalls   int
	w, h        int
	passthrough bool
	screenW     int
	screenH     int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		pressed:  map[ebiten.MouseButton]bool{},
		released: map[ebiten.MouseButton]bool{},
		screenW:  1920,
		screenH:  1080,
	}
}

func (h *fakeHost) CursorPosition() (int, int)             { return h.curX, h.curY }
func (h *fakeHost) JustPressed(b ebiten.MouseButton) bool  { return h.pressed[b] }
func (h *fakeHost) JustReleased(b ebiten.MouseButton) bool { return h.released[b] }
func (h *fakeHost) WindowPosition() (int, int)             { return h.winX, h.winY }
func (h *fakeHost) SetWindowPosition(x, y int)             { h.winX, h.winY = x, y }
func (h *fakeHost) SetMousePassthrough(on bool)            { h.passthrough = on }
func (h *fakeHost) ScreenSize() (int, int)                 { return h.screenW, h.screenH }

func (h *fakeHost) SetWindowSize(w, height int) {
	h.w, h.h = w, height
	h.sizeCalls++
}

// pointAt puts the cursor at global (x, y).
func (h *fakeHost) pointAt(x, y int) {
	h.curX, h.curY = x-h.winX, y-h.winY
}

func (h *fakeHost) clear() {
	clear(h.pressed)
	clear(h.released)
}

type fakeChat struct {
	visible bool
	w, h    int
	toggles int
}

func (c *fakeChat) Toggle()          { c.toggles++; c.visible = !c.visible }
func (c *fakeChat) Visible() bool    { return c.visible }
func (c *fakeChat) Size() (int, int) { return c.w, c.h }

type fakeRand struct{ n int }

func (r fakeRand) Float64() float64 { return 0.99 }
func (r fakeRand) IntN(n int) int   { return r.n % n }

func nilFrames(n int, delay int) *component.FrameSet {
	set := &component.FrameSet{Frames: make([]*ebiten.Image, n)}
	for range n {
		set.Delays = append(set.Delays, delay)
	}
	return set
}

func testSets() map[string]*component.FrameSet {
	return map[string]*component.FrameSet{
		component.AnimMove:     nilFrames(2, 50),
		component.AnimMoveLeft: nilFrames(2, 50),
		component.AnimDrag:     nilFrames(1, 1000),
		"idle1":                nilFrames(3, 80),
		"idle2":                nilFrames(3, 80),
	}
}

type fixture struct {
	world   *ecs.World
	pet     ecs.Entity
	machine *motion.Machine
	host    *fakeHost
	chat    *fakeChat
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := motion.DefaultParams()
	p.StopChance = 0
	p.Jitter = 0
	m := motion.New(motion.Session{
		Bounds:  motion.Bounds{W: 1920, H: 1080},
		SpriteW: 100,
		SpriteH: 100,
		Params:  p,
		Rand:    rand.New(rand.NewPCG(1, 2)),
		Start:   cp.Vector{X: 800, Y: 500},
	})

	w := ecs.NewWorld()
	e, err := entity.NewPet(w, entity.PetConfig{
		Machine:      m,
		Sets:         testSets(),
		Idle:         []string{"idle1", "idle2"},
		ClickThrough: true,
	})
	require.NoError(t, err)
	return &fixture{world: w, pet: e, machine: m, host: newFakeHost(), chat: &fakeChat{w: 250, h: 120}}
}

func (f *fixture) transform() *component.Transform {
	t, _ := ecs.Get(f.world, f.pet, component.TransformComponent.Kind())
	return t
}

func (f *fixture) animation() *component.Animation {
	a, _ := ecs.Get(f.world, f.pet, component.AnimationComponent.Kind())
	return a
}

func (f *fixture) window() *component.Window {
	win, _ := ecs.Get(f.world, f.pet, component.WindowComponent.Kind())
	return win
}

func TestInputDragsPet(t *testing.T) {
	f := newFixture(t)
	in := NewInputSystem(f.host, f.chat)

	f.host.pointAt(850, 550)
	f.host.pressed[ebiten.MouseButtonLeft] = true
	in.Update(f.world)
	require.True(t, f.machine.Dragging())

	f.host.clear()
	f.host.pointAt(1000, 600)
	in.Update(f.world)
	assert.Equal(t, 950.0, f.transform().X)
	assert.Equal(t, 550.0, f.transform().Y)
	assert.Equal(t, cp.Vector{X: 950, Y: 550}, f.machine.Body().Pos)

	f.host.released[ebiten.MouseButtonLeft] = true
	in.Update(f.world)
	assert.False(t, f.machine.Dragging())
}

func TestInputIgnoresPressesOffPet(t *testing.T) {
	f := newFixture(t)
	in := NewInputSystem(f.host, f.chat)

	f.host.pointAt(100, 100)
	f.host.pressed[ebiten.MouseButtonLeft] = true
	f.host.pressed[ebiten.MouseButtonRight] = true
	in.Update(f.world)
	assert.False(t, f.machine.Dragging())
	assert.Zero(t, f.chat.toggles)
}

func TestInputRightClickTogglesChat(t *testing.T) {
	f := newFixture(t)
	in := NewInputSystem(f.host, f.chat)

	f.host.pointAt(810, 510)
	f.host.pressed[ebiten.MouseButtonRight] = true
	in.Update(f.world)
	assert.Equal(t, 1, f.chat.toggles)
}

func TestMotionTick(t *testing.T) {
	f := newFixture(t)
	sys := NewMotionSystem()

	d := sys.Task(f.world)
	assert.Equal(t, 30*time.Millisecond, d)
	assert.Equal(t, f.machine.Body().Pos.X, f.transform().X)
	assert.NotEqual(t, 800.0, f.transform().X)

	moved := 0
	f.world.Events().Each(EventMotion, func(ev ecs.Event) {
		if ev.Data.(motion.Event).Kind == motion.EventMoved {
			moved++
		}
	})
	assert.Equal(t, 1, moved)

	f.machine.SetPaused(true)
	assert.Equal(t, 100*time.Millisecond, sys.Task(f.world))
}

func TestMotionSkipsPointerWhileHeld(t *testing.T) {
	f := newFixture(t)
	sys := NewMotionSystem()
	ptr, ok := ecs.Get(f.world, f.pet, component.PointerComponent.Kind())
	require.True(t, ok)
	mot, ok := ecs.Get(f.world, f.pet, component.MotionComponent.Kind())
	require.True(t, ok)

	ptr.GlobalX, ptr.GlobalY = 100, 100
	sys.Task(f.world)
	before := mot.Tracker

	ptr.GlobalX, ptr.GlobalY = 300, 300
	f.machine.SetPaused(true)
	sys.Task(f.world)
	assert.Equal(t, before, mot.Tracker, "paused")

	f.machine.SetPaused(false)
	f.machine.BeginDrag()
	sys.Task(f.world)
	assert.Equal(t, before, mot.Tracker, "dragging")
	f.machine.EndDrag()

	sys.Task(f.world)
	assert.NotEqual(t, before, mot.Tracker)
}

func TestMotionRunsOnScheduler(t *testing.T) {
	f := newFixture(t)
	sched := ecs.NewScheduler()
	sys := NewMotionSystem()
	sched.Every("motion", 30*time.Millisecond, sys.Task)

	start := f.transform().X
	sched.Advance(f.world, 16*time.Millisecond)
	assert.Equal(t, start, f.transform().X)
	sched.Advance(f.world, 16*time.Millisecond)
	assert.NotEqual(t, start, f.transform().X)
}

func TestAnimationFollowsPose(t *testing.T) {
	f := newFixture(t)
	anim := NewAnimationSystem(60, fakeRand{n: 1})

	anim.Update(f.world)
	assert.Equal(t, component.AnimMove, f.animation().Current)

	f.machine.BeginDrag()
	anim.Update(f.world)
	assert.Equal(t, component.AnimDrag, f.animation().Current)
	assert.Equal(t, component.AnimMove, f.animation().PreDrag)

	f.machine.EndDrag()
	anim.Update(f.world)
	assert.Equal(t, component.AnimMove, f.animation().Current)
	assert.Empty(t, f.animation().PreDrag)

	f.machine.SetPaused(true)
	anim.Update(f.world)
	assert.Equal(t, "idle2", f.animation().Current)
}

func TestAnimationRestoresIdleAfterDrag(t *testing.T) {
	f := newFixture(t)
	anim := NewAnimationSystem(60, fakeRand{n: 0})

	f.machine.SetPaused(true)
	anim.Update(f.world)
	require.Equal(t, "idle1", f.animation().Current)

	f.machine.BeginDrag()
	anim.Update(f.world)
	f.machine.EndDrag()
	anim.Update(f.world)
	assert.Equal(t, "idle1", f.animation().Current)
}

func TestAnimationStepsByDelay(t *testing.T) {
	f := newFixture(t)
	anim := NewAnimationSystem(50, fakeRand{})

	anim.Update(f.world)
	assert.Equal(t, 0, f.animation().Frame, "20ms of a 50ms frame")
	anim.Update(f.world)
	assert.Equal(t, 0, f.animation().Frame)
	anim.Update(f.world)
	assert.Equal(t, 1, f.animation().Frame)
	for range 3 {
		anim.Update(f.world)
	}
	assert.Equal(t, 0, f.animation().Frame, "wraps around")
}

func TestAnimationFlipsWithFacing(t *testing.T) {
	f := newFixture(t)
	anim := NewAnimationSystem(60, fakeRand{})
	anim.Update(f.world)
	require.Equal(t, component.AnimMove, f.animation().Current)

	p := motion.DefaultParams()
	p.StopChance = 0
	p.Jitter = 0
	m := motion.New(motion.Session{
		Bounds:  motion.Bounds{W: 1920, H: 1080},
		SpriteW: 100,
		SpriteH: 100,
		Params:  p,
		Rand:    rand.New(rand.NewPCG(3, 4)),
		Start:   cp.Vector{X: 800, Y: 500},
	}, motion.WithVelocity(cp.Vector{X: -3}))
	m.Tick(motion.Pointer{})
	require.Equal(t, motion.FacingLeft, m.Body().Facing)

	mot, _ := ecs.Get(f.world, f.pet, component.MotionComponent.Kind())
	mot.Machine = m
	anim.Update(f.world)
	assert.Equal(t, component.AnimMoveLeft, f.animation().Current)
}

func TestWindowWrapsPet(t *testing.T) {
	f := newFixture(t)
	sys := NewWindowSystem(f.host, f.chat)

	sys.Update(f.world)
	win := f.window()
	assert.Equal(t, 800, win.X)
	assert.Equal(t, 500, win.Y)
	assert.Equal(t, 100, win.Width)
	assert.Equal(t, 0, win.PetX)
	assert.Equal(t, 800, f.host.winX)
	assert.Equal(t, 100, f.host.w)
	assert.True(t, f.host.passthrough)

	sys.Update(f.world)
	assert.Equal(t, 1, f.host.sizeCalls, "unchanged size is not reapplied")
}

func TestWindowMakesRoomForChat(t *testing.T) {
	f := newFixture(t)
	f.chat.visible = true
	sys := NewWindowSystem(f.host, f.chat)

	sys.Update(f.world)
	win := f.window()
	// pet centre 850 is left of 960, so the panel opens on the right
	assert.Equal(t, 800, win.X)
	assert.Equal(t, 100+10+250, win.Width)
	assert.Equal(t, 110, win.ChatX)
	assert.Equal(t, 250, win.ChatW)
	assert.False(t, f.host.passthrough, "the panel takes clicks")
}

func TestWindowPassthroughFollowsPointer(t *testing.T) {
	f := newFixture(t)
	sys := NewWindowSystem(f.host, f.chat)
	in := NewInputSystem(f.host, nil)

	f.host.pointAt(850, 550)
	in.Update(f.world)
	sys.Update(f.world)
	assert.False(t, f.host.passthrough)

	f.host.pointAt(10, 10)
	in.Update(f.world)
	sys.Update(f.world)
	assert.True(t, f.host.passthrough)

	entity.SetClickThrough(f.world, f.pet, false)
	sys.Update(f.world)
	assert.False(t, f.host.passthrough)
}

func TestWindowTracksScreenSize(t *testing.T) {
	f := newFixture(t)
	f.host.screenW, f.host.screenH = 1280, 720
	NewWindowSystem(f.host, f.chat).Update(f.world)
	assert.Equal(t, motion.Bounds{W: 1280, H: 720}, f.machine.Bounds())
}

type recorder struct{ msgs []feed.Message }

func (r *recorder) Publish(msg feed.Message) { r.msgs = append(r.msgs, msg) }

func TestFeedPublishesMotionEvents(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	sched := ecs.NewScheduler()
	sched.Every("motion", 0, NewMotionSystem().Task)
	sched.AddSystem("feed", 0, NewFeedSystem(rec))

	sched.Advance(f.world, 30*time.Millisecond)
	require.NotEmpty(t, rec.msgs)
	assert.Equal(t, "moved", rec.msgs[len(rec.msgs)-1].Type)
	assert.Zero(t, f.world.Events().Len(), "events are cleared after the pass")
}
