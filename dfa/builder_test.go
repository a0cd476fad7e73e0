package dfa_test

import (
	"testing"

	"github.com/nihei9/declex/alphabet"
	"github.com/nihei9/declex/ast"
	"github.com/nihei9/declex/dfa"
	"github.com/nihei9/declex/specparser"
)

func build(t *testing.T, src string) (*dfa.DFA, *specparser.Result) {
	t.Helper()
	res, err := specparser.NewParser(src, "").Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	root := res.Tree.Root()
	ast.ComputeMetadata(res.Tree, root)
	follow := ast.ComputeFollowpos(res.Tree, root)
	symbols, err := alphabet.Resolve(res.Tree, root, res.Classes)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	return dfa.Build(res.Tree, root, follow, symbols), res
}

// TestBuildTwoDisjointTokens is scenario S1.
func TestBuildTwoDisjointTokens(t *testing.T) {
	d, res := build(t, "token A /a/\ntoken B /b/\n")
	if len(d.States) != 3 {
		t.Fatalf("got %d states, want 3", len(d.States))
	}
	if d.Entry.ID != 1 {
		t.Fatalf("entry ID = %d, want 1", d.Entry.ID)
	}
	onA, ok := d.Entry.Transitions['a']
	if !ok {
		t.Fatalf("entry has no transition on 'a'")
	}
	onB, ok := d.Entry.Transitions['b']
	if !ok {
		t.Fatalf("entry has no transition on 'b'")
	}
	if !onA.Accepting || !onB.Accepting {
		t.Fatalf("states reached by a/b must be accepting")
	}
	if len(onA.Transitions) != 0 || len(onB.Transitions) != 0 {
		t.Fatalf("accepting states for single-character tokens should have no outgoing transitions")
	}

	nameOf := func(s *dfa.State) string {
		for _, p := range s.Set.Positions() {
			if n, ok := res.Accepting[p]; ok {
				return n
			}
		}
		return ""
	}
	if nameOf(onA) != "A" {
		t.Errorf("state reached on 'a' accepts %q, want A", nameOf(onA))
	}
	if nameOf(onB) != "B" {
		t.Errorf("state reached on 'b' accepts %q, want B", nameOf(onB))
	}
}

// TestBuildAlternationAndKleene is scenario S2: (a|b)*abb.
func TestBuildAlternationAndKleene(t *testing.T) {
	d, _ := build(t, "token T /(a|b)*abb/\n")
	if len(d.States) != 4 {
		t.Fatalf("got %d reachable states, want 4", len(d.States))
	}

	var accepting []*dfa.State
	for _, s := range d.States {
		if s.Accepting {
			accepting = append(accepting, s)
		}
	}
	if len(accepting) != 1 {
		t.Fatalf("got %d accepting states, want exactly 1", len(accepting))
	}

	// Simulate the classic "aababbabb" input and confirm the accepting
	// state is reached twice, at positions 6 and 9 (1-indexed): the two
	// prefixes "aababb" and "aababbabb" are the only ones ending in "abb".
	input := "aababbabb"
	state := d.Entry
	var acceptPositions []int
	for i, c := range []byte(input) {
		next, ok := state.Transitions[c]
		if !ok {
			t.Fatalf("no transition for %q at input position %d", c, i)
		}
		state = next
		if state.Accepting {
			acceptPositions = append(acceptPositions, i+1)
		}
	}
	want := []int{6, 9}
	if len(acceptPositions) != len(want) {
		t.Fatalf("accepted at positions %v, want %v", acceptPositions, want)
	}
	for i := range want {
		if acceptPositions[i] != want[i] {
			t.Errorf("accept position %d = %d, want %d", i, acceptPositions[i], want[i])
		}
	}
}

// TestBuildRangeExpansion is scenario S4: class digit [0-9]; token N /[digit]+/.
func TestBuildRangeExpansion(t *testing.T) {
	d, _ := build(t, "class digit [0-9]\ntoken N /[digit]+/\n")
	if len(d.States) != 2 {
		t.Fatalf("got %d states, want 2", len(d.States))
	}
	if d.Entry.Accepting {
		t.Fatalf("entry state must not be accepting")
	}
	if len(d.Entry.Transitions) != 10 {
		t.Fatalf("entry has %d transitions, want 10 (one per digit)", len(d.Entry.Transitions))
	}
	for c := byte('0'); c <= '9'; c++ {
		target, ok := d.Entry.Transitions[c]
		if !ok {
			t.Fatalf("no transition on %q", c)
		}
		if !target.Accepting {
			t.Fatalf("target of %q is not accepting", c)
		}
		if len(target.Transitions) != 10 {
			t.Fatalf("accepting state loops back with %d transitions, want 10", len(target.Transitions))
		}
	}
}

// TestBuildMultiRangeClassUnion is the §6 canonical example: class alpha
// [a-zA-Z] must union both ranges into one 52-member entry, not just the
// first.
func TestBuildMultiRangeClassUnion(t *testing.T) {
	d, _ := build(t, "class alpha [a-zA-Z]\ntoken Id /[alpha]/\n")
	if len(d.Entry.Transitions) != 52 {
		t.Fatalf("entry has %d transitions, want 52 (26 lower + 26 upper)", len(d.Entry.Transitions))
	}
	for c := byte('a'); c <= 'z'; c++ {
		if _, ok := d.Entry.Transitions[c]; !ok {
			t.Errorf("no transition on lowercase %q", c)
		}
	}
	for c := byte('A'); c <= 'Z'; c++ {
		if _, ok := d.Entry.Transitions[c]; !ok {
			t.Errorf("no transition on uppercase %q", c)
		}
	}
}

// TestBuildNegateExcludesEndMarker guards against a negated class silently
// absorbing the synthetic '#' terminator: a state reached only through a
// [^0-9] leaf must not be marked accepting by a literal '#' byte, and '#'
// must still drive the real end-of-token transition.
func TestBuildNegateExcludesEndMarker(t *testing.T) {
	d, _ := build(t, "class notdigit [^0-9]\ntoken X /[notdigit]/\n")
	if _, ok := d.Entry.Transitions['#']; ok {
		t.Fatalf("entry has a transition on literal '#', want none: '#' must stay reserved for the end-marker")
	}
	target, ok := d.Entry.Transitions['a']
	if !ok {
		t.Fatalf("entry has no transition on 'a' (expected in the [^0-9] complement)")
	}
	if !target.Accepting {
		t.Fatalf("state reached after consuming the sole [notdigit] symbol must be accepting (the '#' leaf marks it so)")
	}
	if len(target.Transitions) != 0 {
		t.Fatalf("accepting state has %d outgoing transitions, want 0", len(target.Transitions))
	}
}

// TestEveryTransitionTargetIsInStateTable is universal invariant 4.
func TestEveryTransitionTargetIsInStateTable(t *testing.T) {
	d, _ := build(t, "class ws [\\ \\t\\n]\nignore /[ws]+/\ntoken Id /[ws]/\n")
	known := map[*dfa.State]bool{}
	for _, s := range d.States {
		known[s] = true
	}
	for _, s := range d.States {
		for sym, target := range s.Transitions {
			if !known[target] {
				t.Errorf("state %d's transition on %q targets an unregistered state", s.ID, sym)
			}
		}
	}
}
