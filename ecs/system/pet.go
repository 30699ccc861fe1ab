// Package system holds the systems that run the pet each frame: input,
// motion, animation, window placement, rendering and the event feed.
package system

import (
	"image"

	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/component"
)

// EventMotion is the world event type carrying a motion.Event.
const EventMotion = "motion"

// petParts is the pet entity with the components most systems touch.
type petParts struct {
	entity    ecs.Entity
	transform *component.Transform
	motion    *component.Motion
	window    *component.Window
}

func findPet(w *ecs.World) (petParts, bool) {
	e, ok := w.First(component.PetTagComponent.Kind())
	if !ok {
		return petParts{}, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return petParts{}, false
	}
	m, ok := ecs.Get(w, e, component.MotionComponent.Kind())
	if !ok || m.Machine == nil {
		return petParts{}, false
	}
	win, ok := ecs.Get(w, e, component.WindowComponent.Kind())
	if !ok {
		return petParts{}, false
	}
	return petParts{entity: e, transform: t, motion: m, window: win}, true
}

// rect is the pet's rectangle in screen coordinates.
func (p petParts) rect() image.Rectangle {
	b := p.motion.Machine.Body()
	x, y := int(p.transform.X), int(p.transform.Y)
	return image.Rect(x, y, x+int(b.W), y+int(b.H))
}
