package tracegen

import "github.com/rfielding/stamina/vas"

// seedExplicitStates inserts the two reserved states every explicit
// model carries: the sink (id 0, a vector of -1s, per vas.SinkStateID)
// and the initial state (id 1, per vas.InitialStateID).
func seedExplicitStates(m *vas.ExplicitModel, model *vas.Model, conv vas.RateConvention) {
	sinkVector := make(vas.Vector, model.NumVars())
	for i := range sinkVector {
		sinkVector[i] = -1
	}
	m.StateTrie.Insert(sinkVector, vas.SinkStateID)
	m.AddState(vas.ExplicitState{ID: vas.SinkStateID, Vector: sinkVector, Label: "sink", TotalOutgoingRate: 0})

	initVector := model.Initial.Clone()
	m.StateTrie.Insert(initVector, vas.InitialStateID)
	initRate := totalOutgoingRate(model, conv, initVector)
	m.AddState(vas.ExplicitState{ID: vas.InitialStateID, Vector: initVector, Label: "init", TotalOutgoingRate: initRate})
	m.AddEdge(vas.InitialStateID, vas.SinkStateID, initRate, -1)
}

// ensureState returns the id for vector, inserting a fresh state (with a
// provisional all-to-sink edge) if it has never been seen before.
func ensureState(m *vas.ExplicitModel, model *vas.Model, conv vas.RateConvention, vector vas.Vector) int {
	candidate := m.NextStateID()
	id, existed := m.StateTrie.Insert(vector, candidate)
	if existed {
		return id
	}
	rate := totalOutgoingRate(model, conv, vector)
	m.AddState(vas.ExplicitState{ID: id, Vector: vector, TotalOutgoingRate: rate})
	m.AddEdge(id, vas.SinkStateID, rate, -1)
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

// storeExplicitTrace folds one generated trace (a sequence of transition
// ids) into the explicit model: every visited state is materialized with
// a provisional edge to the sink, and every real transition fired along
// the trace gets its own edge, with the corresponding amount subtracted
// back out of that state's sink edge so outgoing rates stay balanced.
func storeExplicitTrace(m *vas.ExplicitModel, model *vas.Model, conv vas.RateConvention, trace []int) {
	current := model.Initial.Clone()
	currentID := ensureState(m, model, conv, current)

	for _, transitionID := range trace {
		t, ok := model.TransitionByID(transitionID)
		if !ok {
			continue
		}
		next := t.Fire(current)
		nextID := ensureState(m, model, conv, next)

		if !m.HasEdge(currentID, nextID) {
			rate := t.Rate(current, conv)
			m.AddEdge(currentID, nextID, rate, t.ID)
			m.DecrementSinkRate(currentID, rate)
		}

		current = next
		currentID = nextID
	}
}
