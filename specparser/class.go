package specparser

// ClassOperator distinguishes a class declared with '[' (Include) from one
// declared with '[^' (Negate).
type ClassOperator int

const (
	Include ClassOperator = iota
	Negate
)

// ClassSetEntry is one entry of the class lookup table: the literal
// characters named in the declaration, plus whether the class denotes
// exactly those characters (Include) or their ASCII complement (Negate).
// AsciiMax is the inclusive upper bound of the universe Negate complements
// against (127, i.e. 7-bit ASCII).
type ClassSetEntry struct {
	Chars    map[byte]bool
	Operator ClassOperator
}

const AsciiMax = 127

// ClassTable is the class lookup table: class name -> ClassSetEntry, plus
// the declaration order needed to emit class_sets deterministically.
type ClassTable struct {
	entries map[string]*ClassSetEntry
	order   []string
}

// NewClassTable returns an empty ClassTable.
func NewClassTable() *ClassTable {
	return &ClassTable{entries: map[string]*ClassSetEntry{}}
}

// Declare inserts or overwrites the entry named name. A re-declaration
// overwrites the previous entry (last write wins) but keeps name's original
// position in iteration order, matching the prototype's HashMap::insert
// semantics (original_source/src/parser.rs).
func (t *ClassTable) Declare(name string, e *ClassSetEntry) {
	if _, ok := t.entries[name]; !ok {
		t.order = append(t.order, name)
	}
	t.entries[name] = e
}

// Lookup returns the entry named name, or nil if undeclared.
func (t *ClassTable) Lookup(name string) (*ClassSetEntry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Names returns every declared class name in declaration order.
func (t *ClassTable) Names() []string {
	return append([]string(nil), t.order...)
}
