package timeline

import (
	"cmp"
	"slices"
)

// trackSet keeps tracks per kind in insertion order plus the merged evaluation
// order produced by the last refresh.
type trackSet struct {
	byKind  [3][]*Track
	ordered []*Track
}

func (s *trackSet) add(t *Track) {
	s.byKind[t.kind] = append(s.byKind[t.kind], t)
}

func (s *trackSet) remove(t *Track) bool {
	list := s.byKind[t.kind]
	idx := slices.Index(list, t)
	if idx < 0 {
		return false
	}
	s.byKind[t.kind] = slices.Delete(list, idx, idx+1)
	if i := slices.Index(s.ordered, t); i >= 0 {
		s.ordered = slices.Delete(s.ordered, i, i+1)
	}
	return true
}

func (s *trackSet) clear() {
	for k := range s.byKind {
		s.byKind[k] = nil
	}
	s.ordered = nil
}

func (s *trackSet) contains(t *Track) bool {
	return slices.Contains(s.byKind[t.kind], t)
}

// all returns every member, kinds concatenated, regardless of refresh.
func (s *trackSet) all() []*Track {
	out := make([]*Track, 0, len(s.byKind[0])+len(s.byKind[1])+len(s.byKind[2]))
	for _, list := range s.byKind {
		out = append(out, list...)
	}
	return out
}

// refresh rebuilds the evaluation order and returns the timeline length.
func (s *trackSet) refresh() float64 {
	s.ordered = s.all()
	slices.SortStableFunc(s.ordered, compareTracks)

	var end float64
	for _, t := range s.ordered {
		if e := t.End(); e > end {
			end = e
		}
	}
	return end
}

// compareTracks orders by group, kind, start, then duration.
func compareTracks(a, b *Track) int {
	if c := cmp.Compare(a.group, b.group); c != 0 {
		return c
	}
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.start, b.start); c != 0 {
		return c
	}
	return cmp.Compare(a.duration, b.duration)
}

// restoreOrder is the evaluation order sorted by descending start. Tracks that
// start together keep their evaluation order.
func (s *trackSet) restoreOrder() []*Track {
	out := slices.Clone(s.ordered)
	slices.SortStableFunc(out, func(a, b *Track) int {
		return cmp.Compare(b.start, a.start)
	})
	return out
}

func (s *trackSet) find(kind Kind, tag string) *Track {
	if tag == "" {
		return nil
	}
	for _, t := range s.ordered {
		if t.kind == kind && t.tag == tag {
			return t
		}
	}
	return nil
}
