package vas

import "github.com/rfielding/stamina/trie"

// SinkStateID is the artificial absorbing state's reserved id.
const SinkStateID = 0

// InitialStateID is the initial state's reserved id.
const InitialStateID = 1

// ExplicitState is one materialized state in an explicit model.
type ExplicitState struct {
	ID                int
	Vector            Vector
	Label             string // "", "init", "sink", or a caller-assigned label
	TotalOutgoingRate float64
}

// ExplicitTransition is one materialized edge in an explicit model. A
// SourceTransitionID of -1 means the edge has no corresponding abstract
// transition (used for the synthetic sink edge).
type ExplicitTransition struct {
	SourceID           int
	DestID             int
	Rate               float64
	SourceTransitionID int
}

// ExplicitModel is the output of the state space builder: a dense,
// append-only table of states and transitions plus a state trie and an
// adjacency index.
//
// Invariants of the models that statespace.Build and tracegen return:
// state id 0 is the sink, id 1 is the initial state, and every non-sink
// state has exactly one outgoing edge to the sink whose rate equals that
// state's total outgoing rate minus the sum of its non-sink outgoing
// edge rates. The mutators in this package do not enforce them.
type ExplicitModel struct {
	VariableNames []string
	States        []ExplicitState
	Transitions   []ExplicitTransition
	StateTrie     *trie.State

	// Adjacency maps a state id to (destination id, index into
	// Transitions) pairs, in insertion order.
	Adjacency map[int][]Edge
}

// Edge is one entry in ExplicitModel.Adjacency.
type Edge struct {
	DestID          int
	TransitionIndex int
}

// NewExplicitModel returns an empty explicit model over the given
// variable names.
func NewExplicitModel(variableNames []string) *ExplicitModel {
	return &ExplicitModel{
		VariableNames: variableNames,
		StateTrie:     trie.NewState(),
		Adjacency:     make(map[int][]Edge),
	}
}

// State returns the state with the given id, or false.
func (m *ExplicitModel) State(id int) (ExplicitState, bool) {
	for _, s := range m.States {
		if s.ID == id {
			return s, true
		}
	}
	return ExplicitState{}, false
}

// stateIndex returns the index into m.States of the state with the
// given id, or -1.
func (m *ExplicitModel) stateIndex(id int) int {
	for i, s := range m.States {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// AddState appends a new state. Callers are responsible for inserting
// into StateTrie themselves (the builder needs to distinguish "fresh" vs
// "already present" before deciding whether to call AddState at all).
func (m *ExplicitModel) AddState(s ExplicitState) {
	m.States = append(m.States, s)
}

// HasEdge reports whether an edge from src to dest already exists.
func (m *ExplicitModel) HasEdge(src, dest int) bool {
	for _, e := range m.Adjacency[src] {
		if e.DestID == dest {
			return true
		}
	}
	return false
}

// AddEdge appends a new transition edge from src to dest at the given
// rate, attributed to sourceTransitionID (-1 for synthetic edges), and
// indexes it in Adjacency. It does not touch the sink edge's rate:
// callers adjust that separately: tracegen keeps the "total rate minus
// non-sink rates" invariant incrementally via DecrementSinkRate, while
// statespace sets every sink edge in one final pass.
func (m *ExplicitModel) AddEdge(src, dest int, rate float64, sourceTransitionID int) {
	m.Transitions = append(m.Transitions, ExplicitTransition{
		SourceID:           src,
		DestID:             dest,
		Rate:               rate,
		SourceTransitionID: sourceTransitionID,
	})
	m.Adjacency[src] = append(m.Adjacency[src], Edge{DestID: dest, TransitionIndex: len(m.Transitions) - 1})
}

// DecrementSinkRate finds src's edge to the sink and subtracts delta
// from its rate, preserving the "outgoing rates sum to total" invariant
// after a new non-sink edge has just been added with rate delta.
func (m *ExplicitModel) DecrementSinkRate(src int, delta float64) {
	for _, e := range m.Adjacency[src] {
		if e.DestID == SinkStateID {
			m.Transitions[e.TransitionIndex].Rate -= delta
			return
		}
	}
}

// SinkEdgeRate returns the current rate of src's edge to the sink, or
// (0, false) if none exists yet.
func (m *ExplicitModel) SinkEdgeRate(src int) (float64, bool) {
	for _, e := range m.Adjacency[src] {
		if e.DestID == SinkStateID {
			return m.Transitions[e.TransitionIndex].Rate, true
		}
	}
	return 0, false
}

// NextStateID returns the next unused state id (max existing id + 1).
func (m *ExplicitModel) NextStateID() int {
	max := 0
	for _, s := range m.States {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}
