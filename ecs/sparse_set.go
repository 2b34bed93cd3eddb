package ecs

// SparseSet stores one component per entity slot. Values are kept densely for
// iteration; sparse maps a slot id to its dense index plus one so the zero
// value means absent.
type SparseSet struct {
	dense  []Entity
	values []any
	sparse []int
}

func (s *SparseSet) index(e Entity) (int, bool) {
	id := int(e.id())
	if s == nil || id <= 0 || id > len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1] - 1
	if idx < 0 || s.dense[idx] != e {
		return 0, false
	}
	return idx, true
}

func (s *SparseSet) Has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

func (s *SparseSet) Get(e Entity) (any, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

// Set inserts or replaces the value for e. A stale handle for the same slot is
// replaced as well.
func (s *SparseSet) Set(e Entity, v any) {
	id := int(e.id())
	if id <= 0 {
		return
	}
	for len(s.sparse) < id {
		s.sparse = append(s.sparse, 0)
	}
	if idx := s.sparse[id-1] - 1; idx >= 0 {
		s.dense[idx] = e
		s.values[idx] = v
		return
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense)
}

func (s *SparseSet) Remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	s.removeAt(idx)
	return true
}

// removeSlot drops whatever is stored for the slot of e, stale or not.
func (s *SparseSet) removeSlot(e Entity) {
	id := int(e.id())
	if s == nil || id <= 0 || id > len(s.sparse) {
		return
	}
	if idx := s.sparse[id-1] - 1; idx >= 0 {
		s.removeAt(idx)
	}
}

func (s *SparseSet) removeAt(idx int) {
	last := len(s.dense) - 1
	removed := s.dense[idx]
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved.id()-1] = idx + 1

	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[removed.id()-1] = 0
}

func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

func (s *SparseSet) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.dense
}
