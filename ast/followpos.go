package ast

import "github.com/nihei9/declex/arena"

// FollowTable maps a leaf Position to the set of positions that may
// immediately follow it in some match of the whole augmented regex. Only
// leaves appear as keys; the outer '#' leaf's entry is always empty.
type FollowTable map[Position]*PositionSet

func (f FollowTable) entry(p Position) *PositionSet {
	s, ok := f[p]
	if !ok {
		s = NewPositionSet()
		f[p] = s
	}
	return s
}

// ComputeFollowpos walks the subtree rooted at root and returns its
// followpos table. ComputeMetadata must already have populated t.Meta for
// every node in that subtree.
//
//   - Concat(L,R): for every p in lastpos(L), union firstpos(R) into followpos[p].
//   - Star(c) and Plus(c): for every p in lastpos(node), union firstpos(node) into followpos[p].
//
// Every leaf reachable from root is guaranteed a (possibly empty) entry.
func ComputeFollowpos(t *Tree, root Position) FollowTable {
	f := FollowTable{}
	var walk func(Position)
	walk = func(p Position) {
		n := t.Get(p)
		if n.IsLeaf() {
			f.entry(p)
			return
		}
		walk(n.Left)
		if n.Right != arena.PositionNil {
			walk(n.Right)
		}
		switch n.Kind {
		case Concat:
			lm := t.Meta.Get(n.Left)
			rm := t.Meta.Get(n.Right)
			for _, p := range lm.LastPos.Positions() {
				f.entry(p).Merge(rm.FirstPos)
			}
		case Star, Plus:
			m := t.Meta.Get(p)
			for _, lp := range m.LastPos.Positions() {
				f.entry(lp).Merge(m.FirstPos)
			}
		}
	}
	walk(root)
	return f
}
