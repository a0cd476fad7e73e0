// Package ast implements the shared regex abstract syntax tree that
// declex's spec parser builds (component C's output) and the
// nullable/firstpos/lastpos/followpos construction that runs over it
// (components D and E of the follow-pos DFA construction).
//
// The tree is a closed, seven-kind tagged variant stored in an append-only
// arena.Arena[Node]; interior nodes reference children by arena.Position,
// never by pointer, so metadata can be held in a parallel arena sharing the
// same indices.
package ast

import "github.com/nihei9/declex/arena"

// Position is a leaf position: a stable integer identifier equal to its
// arena index, used as a set element throughout firstpos/lastpos/followpos
// and as the basis of DFA state identity.
type Position = arena.Position

// Kind identifies which of the seven AST node variants a Node is.
type Kind uint8

const (
	Character Kind = iota
	ClassRef
	Star
	Plus
	Question
	Concat
	Union
)

func (k Kind) String() string {
	switch k {
	case Character:
		return "Character"
	case ClassRef:
		return "ClassRef"
	case Star:
		return "Star"
	case Plus:
		return "Plus"
	case Question:
		return "Question"
	case Concat:
		return "Concat"
	case Union:
		return "Union"
	default:
		return "Invalid"
	}
}

// EndMarker is the synthetic terminator character appended to every token
// and to the whole augmented regex (Aho/Sethi/Ullman's '#').
const EndMarker byte = '#'

// Node is one entry of the AST arena. Which fields are meaningful depends
// on Kind:
//
//	Character: Char
//	ClassRef:  Class
//	Star, Plus, Question: Left (the operand)
//	Concat, Union: Left, Right
type Node struct {
	Kind  Kind
	Char  byte
	Class string
	Left  arena.Position
	Right arena.Position
}

// IsLeaf reports whether n is a Character or ClassRef node, i.e. whether it
// can hold a leaf Position used as a set element throughout
// firstpos/lastpos/followpos.
func (n Node) IsLeaf() bool {
	return n.Kind == Character || n.Kind == ClassRef
}

// Tree is the arena-backed AST together with its parallel metadata arena.
// The arena's last element is the root once parsing completes.
type Tree struct {
	Nodes *arena.Arena[Node]
	Meta  *arena.Arena[Metadata]
}

// NewTree returns an empty Tree.
func NewTree() *Tree {
	return &Tree{
		Nodes: arena.New[Node](),
		Meta:  arena.New[Metadata](),
	}
}

// addNode appends a node to both the node arena and the metadata arena
// (the metadata entry is populated later by ComputeMetadata), keeping the two
// arenas' indices in lockstep.
func (t *Tree) addNode(n Node) arena.Position {
	p := t.Nodes.Add(n)
	mp := t.Meta.Add(Metadata{})
	if p != mp {
		panic("ast: node arena and metadata arena fell out of sync")
	}
	return p
}

// NewCharacter appends a Character leaf.
func (t *Tree) NewCharacter(c byte) arena.Position {
	return t.addNode(Node{Kind: Character, Char: c})
}

// NewClassRef appends a ClassRef leaf referencing the class named name.
func (t *Tree) NewClassRef(name string) arena.Position {
	return t.addNode(Node{Kind: ClassRef, Class: name})
}

// NewStar appends a Star(child) node.
func (t *Tree) NewStar(child arena.Position) arena.Position {
	return t.addNode(Node{Kind: Star, Left: child, Right: arena.PositionNil})
}

// NewPlus appends a Plus(child) node.
func (t *Tree) NewPlus(child arena.Position) arena.Position {
	return t.addNode(Node{Kind: Plus, Left: child, Right: arena.PositionNil})
}

// NewQuestion appends a Question(child) node.
func (t *Tree) NewQuestion(child arena.Position) arena.Position {
	return t.addNode(Node{Kind: Question, Left: child, Right: arena.PositionNil})
}

// NewConcat appends a Concat(left, right) node.
func (t *Tree) NewConcat(left, right arena.Position) arena.Position {
	return t.addNode(Node{Kind: Concat, Left: left, Right: right})
}

// NewUnion appends a Union(left, right) node.
func (t *Tree) NewUnion(left, right arena.Position) arena.Position {
	return t.addNode(Node{Kind: Union, Left: left, Right: right})
}

// Get returns the node stored at p.
func (t *Tree) Get(p arena.Position) Node {
	return *t.Nodes.Get(p)
}

// Root returns the position of the AST root, i.e. the arena's last
// element, once parsing has completed.
func (t *Tree) Root() arena.Position {
	return t.Nodes.Last()
}

// Leaves returns every leaf position in the subtree rooted at p, in
// ascending order.
func (t *Tree) Leaves(p arena.Position) []arena.Position {
	var out []arena.Position
	var walk func(arena.Position)
	walk = func(p arena.Position) {
		n := t.Get(p)
		if n.IsLeaf() {
			out = append(out, p)
			return
		}
		walk(n.Left)
		if n.Right != arena.PositionNil {
			walk(n.Right)
		}
	}
	walk(p)
	return out
}
