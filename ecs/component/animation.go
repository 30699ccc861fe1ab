package component

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultDelay is the frame delay in ms when a frame has none.
const DefaultDelay = 80

// FrameSet is one named animation: frames with per-frame delays in ms.
type FrameSet struct {
	Frames []*ebiten.Image
	Delays []int
}

func (f *FrameSet) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Frames)
}

// Delay returns the delay of frame i, falling back to DefaultDelay.
func (f *FrameSet) Delay(i int) int {
	if f == nil || i < 0 || i >= len(f.Delays) || f.Delays[i] <= 0 {
		return DefaultDelay
	}
	return f.Delays[i]
}

const (
	AnimMove     = "move"
	AnimMoveLeft = "move_left"
	AnimDrag     = "drag"
)

type Animation struct {
	Sets map[string]*FrameSet
	// Idle lists the keys of Sets that count as idle animations.
	Idle    []string
	Current string
	Frame   int
	// Elapsed is the time spent on Frame, in ms.
	Elapsed float64
	// PreDrag is the set that was playing when a drag started.
	PreDrag string
}

func (a *Animation) Set(name string) *FrameSet {
	if a == nil {
		return nil
	}
	return a.Sets[name]
}

// Play switches to name and rewinds. Unknown names are ignored.
func (a *Animation) Play(name string) bool {
	if a == nil || a.Sets[name].Len() == 0 {
		return false
	}
	a.Current = name
	a.Frame = 0
	a.Elapsed = 0
	return true
}

func (a *Animation) Image() *ebiten.Image {
	set := a.Set(a.Current)
	if set.Len() == 0 {
		return nil
	}
	if a.Frame >= set.Len() {
		a.Frame = 0
	}
	return set.Frames[a.Frame]
}

var AnimationComponent = NewComponent[Animation]()
