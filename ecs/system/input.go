package system

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/component"
)

// Toggler reacts to a right click on the pet.
type Toggler interface {
	Toggle()
}

// InputSystem reads the mouse, drags the pet with the left button and
// toggles the chat with the right one.
type InputSystem struct {
	host Host
	chat Toggler
}

func NewInputSystem(host Host, chat Toggler) *InputSystem {
	return &InputSystem{host: host, chat: chat}
}

func (s *InputSystem) Update(w *ecs.World) {
	if s == nil || s.host == nil {
		return
	}
	pet, ok := findPet(w)
	if !ok {
		return
	}
	ptr, ok := ecs.Get(w, pet.entity, component.PointerComponent.Kind())
	if !ok {
		return
	}
	drag, ok := ecs.Get(w, pet.entity, component.DragComponent.Kind())
	if !ok {
		return
	}

	wx, wy := s.host.WindowPosition()
	lx, ly := s.host.CursorPosition()
	*ptr = component.Pointer{
		GlobalX:      float64(wx + lx),
		GlobalY:      float64(wy + ly),
		LocalX:       lx,
		LocalY:       ly,
		LeftPressed:  s.host.JustPressed(ebiten.MouseButtonLeft),
		LeftReleased: s.host.JustReleased(ebiten.MouseButtonLeft),
		RightPressed: s.host.JustPressed(ebiten.MouseButtonRight),
	}
	ptr.OverPet = image.Pt(int(ptr.GlobalX), int(ptr.GlobalY)).In(pet.rect())

	machine := pet.motion.Machine
	switch {
	case ptr.LeftPressed && ptr.OverPet && !drag.Active:
		drag.Active = true
		drag.OffsetX = ptr.GlobalX - pet.transform.X
		drag.OffsetY = ptr.GlobalY - pet.transform.Y
		machine.BeginDrag()
	case ptr.LeftReleased && drag.Active:
		drag.Active = false
		machine.EndDrag()
	}

	if drag.Active {
		machine.DragTo(ptr.GlobalX-drag.OffsetX, ptr.GlobalY-drag.OffsetY)
		pos := machine.Body().Pos
		pet.transform.X, pet.transform.Y = pos.X, pos.Y
	}

	if ptr.RightPressed && ptr.OverPet && s.chat != nil {
		s.chat.Toggle()
	}
}
