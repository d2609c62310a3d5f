// Package statespace implements the state space builder: it replays
// named traces into an explicit model seeded with the reserved sink and
// initial states, then enriches that state space with commute expansion
// (splicing in universally-enabled transitions as parallel branches)
// and cycle closure (multisets of transitions whose update vectors sum
// to zero, fired in every order they can legally fire), before
// reconciling every state's sink edge to the residual of its total
// outgoing rate.
//
// Grounded on original_source/src/cycle_commute/commute.rs, adapted from
// its file-based PRISM .sta/.tra export (not carried over here: the
// explicit model is an in-memory vas.ExplicitModel, not a PRISM file
// pair) to populate a vas.ExplicitModel directly via its state trie and
// adjacency helpers.
package statespace

import (
	"github.com/rs/zerolog"

	"github.com/rfielding/stamina/vas"
)

// DefaultMaxCommuteDepth and DefaultMaxCycleLength mirror the reference
// implementation's MAX_DEPTH and MAX_CYCLE_LENGTH constants.
const (
	DefaultMaxCommuteDepth = 2
	DefaultMaxCycleLength  = 2
)

// Options configures state space construction.
type Options struct {
	MaxCommuteDepth int
	MaxCycleLength  int
	Convention      vas.RateConvention
	Log             zerolog.Logger
}

func (o Options) maxCommuteDepth() int {
	if o.MaxCommuteDepth <= 0 {
		return DefaultMaxCommuteDepth
	}
	return o.MaxCommuteDepth
}

func (o Options) maxCycleLength() int {
	if o.MaxCycleLength <= 0 {
		return DefaultMaxCycleLength
	}
	return o.MaxCycleLength
}

// pathStep is one edge along the accumulated seed path that commute
// expansion branches off of.
type pathStep struct {
	FromID       int
	ToID         int
	TransitionID int
}

// Build replays every trace (a sequence of transition names) from the
// model's initial state into a fresh explicit model, then runs commute
// expansion and cycle closure over the resulting state space, and
// finally reconciles every non-sink state's sink edge.
func Build(model *vas.Model, traces [][]string, opts Options) (*vas.ExplicitModel, error) {
	m := vas.NewExplicitModel(model.VariableNames)
	seedState(m, model, opts.Convention)

	var seedPath []pathStep
	for _, trace := range traces {
		current := model.Initial.Clone()
		currentID := vas.InitialStateID
		for _, name := range trace {
			t, ok := model.TransitionByName(name)
			if !ok {
				return nil, &vas.ValidationError{Reason: "trace references unknown transition " + name}
			}
			next := t.Fire(current)
			if next.AnyNegative() {
				return nil, &vas.ValidationError{Reason: "trace produced a negative state firing " + name}
			}
			nextID := ensureState(m, model, opts.Convention, next)
			if !m.HasEdge(currentID, nextID) {
				m.AddEdge(currentID, nextID, t.Rate(current, opts.Convention), t.ID)
				seedPath = append(seedPath, pathStep{FromID: currentID, ToID: nextID, TransitionID: t.ID})
			}
			current = next
			currentID = nextID
		}
	}

	if len(seedPath) > 0 {
		commute(model, m, opts, seedPath, 0)
	}
	addCycles(model, m, opts)
	reconcileSinkEdges(m, model, opts.Convention)

	return m, nil
}

func seedState(m *vas.ExplicitModel, model *vas.Model, conv vas.RateConvention) {
	sinkVector := make(vas.Vector, model.NumVars())
	for i := range sinkVector {
		sinkVector[i] = -1
	}
	m.StateTrie.Insert(sinkVector, vas.SinkStateID)
	m.AddState(vas.ExplicitState{ID: vas.SinkStateID, Vector: sinkVector, Label: "sink"})

	initVector := model.Initial.Clone()
	m.StateTrie.Insert(initVector, vas.InitialStateID)
	rate := totalOutgoingRate(model, conv, initVector)
	m.AddState(vas.ExplicitState{ID: vas.InitialStateID, Vector: initVector, Label: "init", TotalOutgoingRate: rate})
}

func ensureState(m *vas.ExplicitModel, model *vas.Model, conv vas.RateConvention, vector vas.Vector) int {
	candidate := m.NextStateID()
	id, existed := m.StateTrie.Insert(vector, candidate)
	if existed {
		return id
	}
	rate := totalOutgoingRate(model, conv, vector)
	m.AddState(vas.ExplicitState{ID: id, Vector: vector, TotalOutgoingRate: rate})
	return id
}

func totalOutgoingRate(model *vas.Model, conv vas.RateConvention, state vas.Vector) float64 {
	var total float64
	for _, t := range model.Transitions {
		if t.Enabled(state) {
			total += t.Rate(state, conv)
		}
	}
	return total
}

// reconcileSinkEdges gives every non-sink state a single edge to the
// sink whose rate is that state's total outgoing rate minus the sum of
// its non-sink outgoing edge rates, matching the reference
// implementation's final absorbing-transition pass.
func reconcileSinkEdges(m *vas.ExplicitModel, model *vas.Model, conv vas.RateConvention) {
	for _, s := range m.States {
		if s.ID == vas.SinkStateID {
			continue
		}
		var nonSinkTotal float64
		for _, e := range m.Adjacency[s.ID] {
			if e.DestID != vas.SinkStateID {
				nonSinkTotal += m.Transitions[e.TransitionIndex].Rate
			}
		}
		residual := s.TotalOutgoingRate - nonSinkTotal
		if idx := sinkEdgeIndex(m, s.ID); idx >= 0 {
			m.Transitions[idx].Rate = residual
		} else {
			m.AddEdge(s.ID, vas.SinkStateID, residual, -1)
		}
	}
}

func sinkEdgeIndex(m *vas.ExplicitModel, src int) int {
	for _, e := range m.Adjacency[src] {
		if e.DestID == vas.SinkStateID {
			return e.TransitionIndex
		}
	}
	return -1
}
