// Package trie implements the two lookup structures the core pipeline
// shares for deduplication: a state trie (state vector -> state id) and
// a trace trie (transition-id sequence -> presence). Both are recursive
// nested maps; a leaf carries the payload, an interior node carries the
// next level of children keyed by the next vector/sequence component.
//
// Operating on []int64 rather than a named vas.Vector keeps this package
// free of any dependency on the vas package, even though vas.Vector's
// underlying type is exactly []int64.
package trie

// State is a node in the state trie. A freshly constructed State is an
// empty interior node; Insert grows it lazily.
type State struct {
	leaf     bool
	id       int
	children map[int64]*State
}

// NewState returns an empty state trie root.
func NewState() *State {
	return &State{children: make(map[int64]*State)}
}

// Insert inserts vector with the given id if no prior insertion of an
// equal vector exists, and returns (id, true). If an equal vector was
// already present, it returns the PREVIOUSLY assigned id and false: the
// new id is discarded, so two insertions of the same vector always
// yield the same id.
//
// id == 0 is reserved for the sink state; inserting with id 0 is a
// programmer error and panics rather than silently corrupting the trie.
func (s *State) Insert(vector []int64, id int) (int, bool) {
	if id == 0 {
		panic("trie: id 0 is reserved for the sink state and must not be inserted")
	}
	node := s
	for _, component := range vector {
		child, ok := node.children[component]
		if !ok {
			child = &State{children: make(map[int64]*State)}
			node.children[component] = child
		}
		node = child
	}
	if node.leaf {
		return node.id, false
	}
	node.leaf = true
	node.id = id
	return id, true
}

// Lookup reports the id previously assigned to vector, if any.
func (s *State) Lookup(vector []int64) (int, bool) {
	node := s
	for _, component := range vector {
		child, ok := node.children[component]
		if !ok {
			return 0, false
		}
		node = child
	}
	if !node.leaf {
		return 0, false
	}
	return node.id, true
}

// Trace is a node in the trace trie, keyed by transition id sequences.
type Trace struct {
	leaf     bool
	children map[int]*Trace
}

// NewTrace returns an empty trace trie root.
func NewTrace() *Trace {
	return &Trace{children: make(map[int]*Trace)}
}

// ExistsOrInsert reports whether sequence was already present, inserting
// it if not. An empty sequence is always reported present (callers
// should reject it before considering it a novel trace).
func (t *Trace) ExistsOrInsert(sequence []int) bool {
	if len(sequence) == 0 {
		return true
	}
	node := t
	for _, transitionID := range sequence {
		child, ok := node.children[transitionID]
		if !ok {
			child = &Trace{children: make(map[int]*Trace)}
			node.children[transitionID] = child
		}
		node = child
	}
	existed := node.leaf
	node.leaf = true
	return existed
}
