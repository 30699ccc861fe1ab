package entity

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/deskpet/assets"
	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/component"
	"github.com/milk9111/deskpet/motion"
)

type PetConfig struct {
	Machine *motion.Machine
	// Sets are the pet's animations; see FrameSets.
	Sets map[string]*component.FrameSet
	Idle []string

	Alpha        float64
	ClickThrough bool
}

// NewPet creates the pet entity with every component the systems expect.
func NewPet(w *ecs.World, cfg PetConfig) (ecs.Entity, error) {
	if cfg.Machine == nil {
		return 0, fmt.Errorf("new pet: missing motion machine")
	}
	alpha := cfg.Alpha
	if alpha <= 0 {
		alpha = 1
	}

	e := ecs.CreateEntity(w)
	pos := cfg.Machine.Body().Pos
	b := cfg.Machine.Bounds()

	if err := ecs.Add(w, e, component.PetTagComponent.Kind(), &component.PetTag{}); err != nil {
		return 0, fmt.Errorf("new pet: add pet tag: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return 0, fmt.Errorf("new pet: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Alpha: alpha}); err != nil {
		return 0, fmt.Errorf("new pet: add sprite: %w", err)
	}
	if err := ecs.Add(w, e, component.AnimationComponent.Kind(), &component.Animation{Sets: cfg.Sets, Idle: cfg.Idle}); err != nil {
		return 0, fmt.Errorf("new pet: add animation: %w", err)
	}
	if err := ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{Machine: cfg.Machine}); err != nil {
		return 0, fmt.Errorf("new pet: add motion: %w", err)
	}
	if err := ecs.Add(w, e, component.PointerComponent.Kind(), &component.Pointer{GlobalX: -1, GlobalY: -1}); err != nil {
		return 0, fmt.Errorf("new pet: add pointer: %w", err)
	}
	if err := ecs.Add(w, e, component.DragComponent.Kind(), &component.Drag{}); err != nil {
		return 0, fmt.Errorf("new pet: add drag: %w", err)
	}
	win := &component.Window{
		ScreenW:      int(b.W),
		ScreenH:      int(b.H),
		ClickThrough: cfg.ClickThrough,
	}
	if err := ecs.Add(w, e, component.WindowComponent.Kind(), win); err != nil {
		return 0, fmt.Errorf("new pet: add window: %w", err)
	}
	return e, nil
}

// SetSets swaps the pet's animations, for example after a scale change, and
// resizes the body to match. The current animation keeps playing from its
// first frame.
func SetSets(w *ecs.World, e ecs.Entity, sets map[string]*component.FrameSet, width, height int) {
	if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok {
		current := anim.Current
		anim.Sets = sets
		if !anim.Play(current) {
			anim.Current = ""
		}
	}
	if mot, ok := ecs.Get(w, e, component.MotionComponent.Kind()); ok && mot.Machine != nil {
		mot.Machine.SetSpriteSize(float64(width), float64(height))
	}
}

func SetAlpha(w *ecs.World, e ecs.Entity, alpha float64) {
	if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
		sprite.Alpha = alpha
	}
}

func SetClickThrough(w *ecs.World, e ecs.Entity, on bool) {
	if win, ok := ecs.Get(w, e, component.WindowComponent.Kind()); ok {
		win.ClickThrough = on
	}
}

// FrameSets uploads decoded sprites as ebiten images.
func FrameSets(sprites assets.Sprites) map[string]*component.FrameSet {
	out := make(map[string]*component.FrameSet, len(sprites))
	for name, frames := range sprites {
		set := &component.FrameSet{
			Frames: make([]*ebiten.Image, len(frames.Images)),
			Delays: append([]int(nil), frames.Delays...),
		}
		for i, img := range frames.Images {
			set.Frames[i] = ebiten.NewImageFromImage(img)
		}
		out[name] = set
	}
	return out
}
