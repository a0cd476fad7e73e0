package dfa

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/nihei9/declex/ast"
	"github.com/nihei9/declex/specparser"
)

// Document is the canonical JSON shape of §4.H, produced by encoding/json
// the way the teacher's spec package serializes its own compiled artifacts
// (spec/grammar.go's tagged structs).
type Document struct {
	Entry     string                       `json:"entry"`
	States    map[string]map[string]string `json:"states"`
	Accepting map[string][]string          `json:"accepting"`
	ClassSets map[string]ClassSetDocument  `json:"class_sets"`
}

// ClassSetDocument mirrors one class_sets entry: the declared characters
// (as single-byte strings, sorted) and whether the declaration was a
// Negate ('[^') class.
type ClassSetDocument struct {
	Chars   []string `json:"chars"`
	Exclude bool     `json:"exclude"`
}

// Serialize builds the canonical Document for d. accepting maps a leaf
// Position (a '#' leaf) to its token name; tokenOrder gives the
// declaration-order tie-break used to sort each state's accepting label
// list. It returns an error if d's entry state was never registered in
// d.States (a builder bug, per spec.md §4.H "Fatal if the entry state was
// not registered").
func Serialize(d *DFA, accepting map[ast.Position]string, tokenOrder []string, classes *specparser.ClassTable) (*Document, error) {
	entryFound := false
	for _, s := range d.States {
		if s == d.Entry {
			entryFound = true
			break
		}
	}
	if !entryFound {
		return nil, fmt.Errorf("dfa: entry state not registered in state table")
	}

	priority := make(map[string]int, len(tokenOrder))
	for i, name := range tokenOrder {
		priority[name] = i
	}

	doc := &Document{
		Entry:     strconv.Itoa(d.Entry.ID),
		States:    map[string]map[string]string{},
		Accepting: map[string][]string{},
		ClassSets: map[string]ClassSetDocument{},
	}

	for _, s := range d.States {
		id := strconv.Itoa(s.ID)

		trans := map[string]string{}
		for sym, target := range s.Transitions {
			trans[string(sym)] = strconv.Itoa(target.ID)
		}
		doc.States[id] = trans

		if !s.Accepting {
			continue
		}
		labels := acceptingLabels(s, accepting)
		sort.Slice(labels, func(i, j int) bool { return priority[labels[i]] < priority[labels[j]] })
		doc.Accepting[id] = labels
	}

	for _, name := range classes.Names() {
		entry, _ := classes.Lookup(name)
		chars := make([]byte, 0, len(entry.Chars))
		for c := range entry.Chars {
			chars = append(chars, c)
		}
		sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
		strs := make([]string, len(chars))
		for i, c := range chars {
			strs[i] = string(rune(c))
		}
		doc.ClassSets["["+name+"]"] = ClassSetDocument{
			Chars:   strs,
			Exclude: entry.Operator == specparser.Negate,
		}
	}

	return doc, nil
}

// acceptingLabels collects every distinct token name attached to a '#'
// leaf within s's leaf-position set. A state can list more than one
// accepting token when an input pattern overlaps another's, per spec.md
// S3.
func acceptingLabels(s *State, accepting map[ast.Position]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range s.Set.Positions() {
		name, ok := accepting[p]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
