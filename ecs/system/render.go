package system

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/component"
)

type RenderSystem struct {
	Debug bool
}

func NewRenderSystem(debug bool) *RenderSystem {
	return &RenderSystem{Debug: debug}
}

// Draw paints the pet at its place inside the window.
func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	pet, ok := findPet(w)
	if !ok {
		return
	}
	sprite, ok := ecs.Get(w, pet.entity, component.SpriteComponent.Kind())
	if !ok || sprite.Image == nil {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(pet.window.PetX), float64(pet.window.PetY))
	op.ColorScale.ScaleAlpha(float32(sprite.Alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite.Image, op)

	if r.Debug {
		m := pet.motion.Machine
		t := m.Target()
		msg := fmt.Sprintf("%s %s\ntarget %.0f,%.0f", m.Mode(), m.Pose(), t.X, t.Y)
		ebitenutil.DebugPrintAt(screen, msg, pet.window.PetX, pet.window.PetY)
	}
}
