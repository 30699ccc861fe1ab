package ecs

import (
	"github.com/milk9111/deskpet/ecs/component"
)

// System updates a world. Systems are registered with a Scheduler.
type System interface {
	Update(w *World)
}

// kindID is satisfied by every component.ComponentKind[T].
type kindID interface {
	ID() component.ComponentID
}

// World owns entities, component stores and the per-frame event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]componentStore
	events   EventQueue
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]componentStore)}
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and retires its handle.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.remove(e)
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	return w.entities.all()
}

func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Query returns live entities that have every listed component kind.
func (w *World) Query(kinds ...kindID) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}

	stores := make([]componentStore, 0, len(kinds))
	for _, k := range kinds {
		store, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		stores = append(stores, store)
	}

	smallest := stores[0]
	for _, s := range stores[1:] {
		if s.size() < smallest.size() {
			smallest = s
		}
	}

	out := make([]Entity, 0, smallest.size())
	for _, e := range smallest.entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		matched := true
		for _, s := range stores {
			if !s.has(e) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first live entity carrying kind.
func (w *World) First(kind kindID) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	store, ok := w.stores[kind.ID()]
	if !ok {
		return 0, false
	}
	for _, e := range store.entities() {
		if w.entities.isAlive(e) {
			return e, true
		}
	}
	return 0, false
}

func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
