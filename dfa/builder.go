// Package dfa implements the worklist DFA construction (component G) and
// its canonical JSON serialization (component H), grounded on the
// teacher's grammar/lexical/dfa/dfa.go GenDFA/genDFA worklist-over-symbol-
// positions construction, generalized from vartan's single-highest-
// -priority accepting mode to declex's sorted list of every accepting
// token name (spec.md §4.G "Accepting states").
package dfa

import (
	"sort"

	"github.com/nihei9/declex/alphabet"
	"github.com/nihei9/declex/ast"
)

// State is one DFA state: a non-empty set of leaf positions, its
// transitions keyed by concrete input byte, and whether it contains a '#'
// leaf.
type State struct {
	ID          int
	Set         *ast.PositionSet
	Accepting   bool
	Transitions map[byte]*State
}

// DFA is the built automaton: its entry state plus every state in
// discovery order (== ID order, IDs starting at 1).
type DFA struct {
	Entry  *State
	States []*State
}

// Build runs the worklist construction of spec.md §4.G over root's
// firstpos/followpos/leaf-symbol data. t.Meta must already be populated by
// ast.ComputeMetadata, and follow by ast.ComputeFollowpos, for the subtree
// rooted at root.
func Build(t *ast.Tree, root ast.Position, follow ast.FollowTable, symbols alphabet.SymbolMap) *DFA {
	d := &DFA{}
	discovered := map[string]*State{}

	getOrCreate := func(set *ast.PositionSet) (*State, bool) {
		h := set.Hash()
		if s, ok := discovered[h]; ok {
			return s, false
		}
		s := &State{ID: len(d.States) + 1, Set: set, Transitions: map[byte]*State{}}
		discovered[h] = s
		d.States = append(d.States, s)
		return s, true
	}

	rootMeta := t.Meta.Get(root)
	entry, _ := getOrCreate(ast.NewPositionSet().Merge(rootMeta.FirstPos))
	d.Entry = entry

	queue := []*State{entry}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		group := map[byte]*ast.PositionSet{}
		for _, p := range s.Set.Positions() {
			for _, sym := range symbols[p] {
				g, ok := group[sym]
				if !ok {
					g = ast.NewPositionSet()
					group[sym] = g
				}
				g.Add(p)
			}
		}

		syms := make([]byte, 0, len(group))
		for sym := range group {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

		for _, sym := range syms {
			if sym == ast.EndMarker {
				s.Accepting = true
				continue
			}
			target := ast.NewPositionSet()
			for _, p := range group[sym].Positions() {
				target.Merge(follow[p])
			}
			ts, isNew := getOrCreate(target)
			s.Transitions[sym] = ts
			if isNew {
				queue = append(queue, ts)
			}
		}
	}

	return d
}
