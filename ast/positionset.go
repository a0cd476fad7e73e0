package ast

import (
	"sort"

	"github.com/nihei9/declex/arena"
)

// PositionSet is a set of leaf positions kept in sorted order so that two
// sets covering the same positions always compare, hash, and serialize
// identically. This canonical form is what gives DFA states (themselves
// sets of leaf positions) a stable identity across a run.
type PositionSet struct {
	s      []arena.Position
	sorted bool
}

// NewPositionSet returns an empty set.
func NewPositionSet() *PositionSet {
	return &PositionSet{}
}

// NewPositionSetOf returns a set containing exactly ps.
func NewPositionSetOf(ps ...arena.Position) *PositionSet {
	s := NewPositionSet()
	for _, p := range ps {
		s.Add(p)
	}
	return s
}

// Add inserts p, returning s for chaining.
func (s *PositionSet) Add(p arena.Position) *PositionSet {
	s.s = append(s.s, p)
	s.sorted = false
	return s
}

// Merge inserts every element of t into s, returning s for chaining.
func (s *PositionSet) Merge(t *PositionSet) *PositionSet {
	if t == nil {
		return s
	}
	s.s = append(s.s, t.set()...)
	s.sorted = false
	return s
}

// Positions returns the sorted, de-duplicated contents of s.
func (s *PositionSet) Positions() []arena.Position {
	return append([]arena.Position(nil), s.set()...)
}

// Len returns the number of distinct positions in s.
func (s *PositionSet) Len() int {
	return len(s.set())
}

// Contains reports whether p is a member of s.
func (s *PositionSet) Contains(p arena.Position) bool {
	set := s.set()
	i := sort.Search(len(set), func(i int) bool { return set[i] >= p })
	return i < len(set) && set[i] == p
}

func (s *PositionSet) set() []arena.Position {
	if s.sorted {
		return s.s
	}
	sort.Slice(s.s, func(i, j int) bool { return s.s[i] < s.s[j] })
	if len(s.s) > 0 {
		next := 1
		for i := 1; i < len(s.s); i++ {
			if s.s[i] != s.s[next-1] {
				s.s[next] = s.s[i]
				next++
			}
		}
		s.s = s.s[:next]
	}
	s.sorted = true
	return s.s
}

// Hash returns a string uniquely identifying the canonical (sorted,
// de-duplicated) contents of s, suitable for use as a map key when
// identifying DFA states.
func (s *PositionSet) Hash() string {
	set := s.set()
	b := make([]byte, 4*len(set))
	for i, p := range set {
		b[4*i] = byte(p >> 24)
		b[4*i+1] = byte(p >> 16)
		b[4*i+2] = byte(p >> 8)
		b[4*i+3] = byte(p)
	}
	return string(b)
}
