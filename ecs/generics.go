package ecs

import "github.com/milk9111/deskpet/ecs/component"

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if existing, ok := w.stores[kind.ID()]; ok {
		if typed, ok := existing.(*sparseSet[T]); ok {
			return typed
		}
		return nil
	}
	if !create {
		return nil
	}
	s := newSparseSet[T]()
	w.stores[kind.ID()] = s
	return s
}

// Add attaches value to e, replacing any existing component of that kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	s := storeFor(w, kind, true)
	if s == nil {
		return component.ErrInvalidComponentKind
	}
	s.set(e, value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	s := storeFor(w, kind, false)
	if s == nil {
		return nil, false
	}
	return s.get(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := storeFor(w, kind, false)
	if s == nil {
		return false
	}
	return s.remove(e)
}

// First returns the first live entity with kind and its component.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, *T, bool) {
	e, ok := w.First(kind)
	if !ok {
		return 0, nil, false
	}
	v, ok := Get(w, e, kind)
	return e, v, ok
}

func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeFor(w, kind, false)
	if s == nil {
		return
	}
	// Snapshot so fn may add or remove components.
	ents := append([]Entity(nil), s.entities()...)
	for _, e := range ents {
		if !w.entities.isAlive(e) {
			continue
		}
		if v, ok := s.get(e); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(ka, kb, kc) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	for _, e := range w.Query(ka, kb, kc, kd) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		d, okD := Get(w, e, kd)
		if okA && okB && okC && okD {
			fn(e, a, b, c, d)
		}
	}
}
