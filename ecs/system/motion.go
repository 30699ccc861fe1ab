package system

import (
	"time"

	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/component"
	"github.com/milk9111/deskpet/motion"
)

// MotionSystem ticks the pet's motion machine and publishes what it emits.
// It runs as a scheduler task: the returned delay is the machine's.
type MotionSystem struct{}

func NewMotionSystem() *MotionSystem {
	return &MotionSystem{}
}

// Task adapts the system to ecs.Scheduler.Every.
func (s *MotionSystem) Task(w *ecs.World) time.Duration {
	return s.Tick(w)
}

func (s *MotionSystem) Tick(w *ecs.World) time.Duration {
	pet, ok := findPet(w)
	if !ok {
		return 0
	}
	machine := pet.motion.Machine

	// A held pet ignores the pointer, so Moved spans active ticks only.
	var p motion.Pointer
	if !machine.Paused() && !machine.Dragging() {
		if ptr, ok := ecs.Get(w, pet.entity, component.PointerComponent.Kind()); ok {
			p = pet.motion.Tracker.Poll(ptr.GlobalX, ptr.GlobalY)
		}
	}

	for _, ev := range machine.Tick(p) {
		w.Events().Push(ecs.Event{Type: EventMotion, Data: ev})
	}

	pos := machine.Body().Pos
	pet.transform.X, pet.transform.Y = pos.X, pos.Y
	return machine.NextDelay()
}
