package ecs

// componentStore is the type-erased view of a sparseSet the World needs for
// destruction and multi-kind queries.
type componentStore interface {
	has(e Entity) bool
	remove(e Entity) bool
	entities() []Entity
	size() int
}

// sparseSet stores one component type densely, indexed by entity slot.
type sparseSet[T any] struct {
	dense  []Entity
	values []*T
	sparse []int32
}

func newSparseSet[T any]() *sparseSet[T] {
	return &sparseSet[T]{}
}

func (s *sparseSet[T]) index(e Entity) (int, bool) {
	id := int(e.id())
	if id >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id]
	if idx < 0 || int(idx) >= len(s.dense) || s.dense[idx] != e {
		return 0, false
	}
	return int(idx), true
}

func (s *sparseSet[T]) has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

func (s *sparseSet[T]) get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

func (s *sparseSet[T]) set(e Entity, v *T) {
	if idx, ok := s.index(e); ok {
		s.values[idx] = v
		return
	}
	id := int(e.id())
	for len(s.sparse) <= id {
		s.sparse = append(s.sparse, -1)
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id] = int32(len(s.dense) - 1)
}

func (s *sparseSet[T]) remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved.id()] = int32(idx)

	s.values[last] = nil
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[e.id()] = -1
	return true
}

func (s *sparseSet[T]) entities() []Entity {
	return s.dense
}

func (s *sparseSet[T]) size() int {
	return len(s.dense)
}
