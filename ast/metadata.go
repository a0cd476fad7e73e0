package ast

// Metadata is the per-node entry of the parallel metadata arena: whether
// the subtree rooted at a node can match the empty string, and the sets of
// leaf positions that can begin/end a match of that subtree.
//
// See the recurrence table in spec.md §4.D:
//
//	Character/ClassRef (leaf at position p): nullable=false, firstpos={p}, lastpos={p}
//	Union(L,R):   nullable = nL||nR,  firstpos = fL∪fR,               lastpos = lL∪lR
//	Concat(L,R):  nullable = nL&&nR,  firstpos = nL? fL∪fR : fL,       lastpos = nR? lR∪lL : lR
//	Star(c):      nullable = true,    firstpos = fc,                  lastpos = lc
//	Plus(c):      nullable = false,   firstpos = fc,                  lastpos = lc
//	Question(c):  nullable = true,    firstpos = fc,                  lastpos = lc
type Metadata struct {
	Nullable bool
	FirstPos *PositionSet
	LastPos  *PositionSet
}

// ComputeMetadata walks the subtree rooted at root in post-order and fills
// in t.Meta for every node in that subtree. It must run before ComputeFollowpos.
func ComputeMetadata(t *Tree, root Position) {
	n := t.Get(root)
	switch n.Kind {
	case Character, ClassRef:
		t.Meta.Get(root).Nullable = false
		t.Meta.Get(root).FirstPos = NewPositionSetOf(root)
		t.Meta.Get(root).LastPos = NewPositionSetOf(root)
	case Star, Plus, Question:
		ComputeMetadata(t, n.Left)
		cm := t.Meta.Get(n.Left)
		m := t.Meta.Get(root)
		m.FirstPos = NewPositionSet().Merge(cm.FirstPos)
		m.LastPos = NewPositionSet().Merge(cm.LastPos)
		m.Nullable = n.Kind != Plus
	case Concat:
		ComputeMetadata(t, n.Left)
		ComputeMetadata(t, n.Right)
		lm := t.Meta.Get(n.Left)
		rm := t.Meta.Get(n.Right)
		m := t.Meta.Get(root)
		m.Nullable = lm.Nullable && rm.Nullable

		m.FirstPos = NewPositionSet().Merge(lm.FirstPos)
		if lm.Nullable {
			m.FirstPos.Merge(rm.FirstPos)
		}

		m.LastPos = NewPositionSet().Merge(rm.LastPos)
		if rm.Nullable {
			m.LastPos.Merge(lm.LastPos)
		}
	case Union:
		ComputeMetadata(t, n.Left)
		ComputeMetadata(t, n.Right)
		lm := t.Meta.Get(n.Left)
		rm := t.Meta.Get(n.Right)
		m := t.Meta.Get(root)
		m.Nullable = lm.Nullable || rm.Nullable
		m.FirstPos = NewPositionSet().Merge(lm.FirstPos).Merge(rm.FirstPos)
		m.LastPos = NewPositionSet().Merge(lm.LastPos).Merge(rm.LastPos)
	}
}
