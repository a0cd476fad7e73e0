// Package alphabet implements the disjoint-alphabet computation (component
// F): inverting each AST leaf into the concrete set of ASCII input
// characters that select it, handling class-set negation over the 128-byte
// ASCII universe.
//
// Grounded on the class-resolution half of the teacher's
// grammar/lexical/dfa/tree.go (byteRangeNode / one-leaf-per-transition
// construction), generalized since declex's leaves reference classes by
// name rather than carrying pre-expanded byte ranges.
package alphabet

import (
	"fmt"
	"sort"

	"github.com/nihei9/declex/ast"
	"github.com/nihei9/declex/specparser"
)

// SymbolMap maps each leaf Position to the set of concrete input bytes that
// select it (spec.md §3's "Leaf→input-symbols map").
type SymbolMap map[ast.Position][]byte

// Resolve walks every leaf of t reachable from root and builds the
// SymbolMap, resolving ClassRef leaves against classes. It returns an error
// if a ClassRef names an undeclared class (a bug by the time this runs,
// since the parser already rejects undefined references, but checked again
// because this package must stand on its own per spec.md invariant 3).
func Resolve(t *ast.Tree, root ast.Position, classes *specparser.ClassTable) (SymbolMap, error) {
	m := SymbolMap{}
	for _, p := range t.Leaves(root) {
		n := t.Get(p)
		switch n.Kind {
		case ast.Character:
			m[p] = []byte{n.Char}
		case ast.ClassRef:
			entry, ok := classes.Lookup(n.Class)
			if !ok {
				return nil, fmt.Errorf("undefined character class: %q", n.Class)
			}
			m[p] = expand(entry)
		}
	}
	return m, nil
}

// expand returns the sorted, concrete byte set an entry denotes: exactly
// its declared characters for Include, or the ASCII complement for Negate.
// The synthetic '#' end-marker is never a member of either set (spec.md §9
// "Regex with class negation and '#'"): a Negate class must not accidentally
// absorb the terminator just because the user never mentioned it.
func expand(entry *specparser.ClassSetEntry) []byte {
	var out []byte
	switch entry.Operator {
	case specparser.Include:
		for c := range entry.Chars {
			if c == ast.EndMarker {
				continue
			}
			out = append(out, c)
		}
	case specparser.Negate:
		for c := 0; c <= specparser.AsciiMax; c++ {
			if byte(c) == ast.EndMarker {
				continue
			}
			if !entry.Chars[byte(c)] {
				out = append(out, byte(c))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
