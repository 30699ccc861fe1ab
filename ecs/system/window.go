package system

import (
	"image"

	"github.com/milk9111/deskpet/chat"
	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/component"
	"github.com/milk9111/deskpet/motion"
)

// ChatView is what the window needs to know about the chat panel.
type ChatView interface {
	Visible() bool
	Size() (int, int)
}

// WindowSystem sizes the OS window around the pet and, when open, the chat
// panel, and keeps the machine's bounds in step with the screen.
type WindowSystem struct {
	host Host
	chat ChatView

	placed      bool
	passthrough bool
}

func NewWindowSystem(host Host, chat ChatView) *WindowSystem {
	return &WindowSystem{host: host, chat: chat}
}

func (s *WindowSystem) Update(w *ecs.World) {
	if s == nil || s.host == nil {
		return
	}
	pet, ok := findPet(w)
	if !ok {
		return
	}
	win := pet.window

	sw, sh := s.host.ScreenSize()
	if sw > 0 && sh > 0 && (sw != win.ScreenW || sh != win.ScreenH) {
		win.ScreenW, win.ScreenH = sw, sh
		pet.motion.Machine.SetBounds(motion.Bounds{W: float64(sw), H: float64(sh)})
	}

	petRect := pet.rect()
	area := petRect
	win.ChatX, win.ChatY, win.ChatW, win.ChatH = 0, 0, 0, 0
	if s.chat != nil && s.chat.Visible() {
		cw, ch := s.chat.Size()
		chatRect := chat.Place(petRect, cw, ch, image.Pt(win.ScreenW, win.ScreenH))
		area = area.Union(chatRect)
		win.ChatX = chatRect.Min.X - area.Min.X
		win.ChatY = chatRect.Min.Y - area.Min.Y
		win.ChatW, win.ChatH = cw, ch
	}
	win.PetX = petRect.Min.X - area.Min.X
	win.PetY = petRect.Min.Y - area.Min.Y

	if !s.placed || area.Dx() != win.Width || area.Dy() != win.Height {
		s.host.SetWindowSize(max(area.Dx(), 1), max(area.Dy(), 1))
	}
	if !s.placed || area.Min.X != win.X || area.Min.Y != win.Y {
		s.host.SetWindowPosition(area.Min.X, area.Min.Y)
	}
	win.X, win.Y = area.Min.X, area.Min.Y
	win.Width, win.Height = area.Dx(), area.Dy()
	s.placed = true

	s.updatePassthrough(w, pet)
}

// updatePassthrough lets clicks fall through the window unless they would
// land on the pet or the open chat panel.
func (s *WindowSystem) updatePassthrough(w *ecs.World, pet petParts) {
	on := pet.window.ClickThrough && pet.window.ChatW == 0
	if on {
		if ptr, ok := ecs.Get(w, pet.entity, component.PointerComponent.Kind()); ok && ptr.OverPet {
			on = false
		}
		if drag, ok := ecs.Get(w, pet.entity, component.DragComponent.Kind()); ok && drag.Active {
			on = false
		}
	}
	if on != s.passthrough {
		s.host.SetMousePassthrough(on)
		s.passthrough = on
	}
}
