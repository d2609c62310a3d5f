package statespace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rfielding/stamina/vas"
)

func twoReactionModel() *vas.Model {
	return &vas.Model{
		VariableNames: []string{"A", "B", "C"},
		Initial:       vas.Vector{1, 1, 0},
		Transitions: []vas.Transition{
			{ID: 0, Name: "consumeA", Update: vas.Vector{-1, 0, 1}, EnabledBounds: vas.Vector{1, 0, 0}, RateConst: 1.0},
			{ID: 1, Name: "consumeB", Update: vas.Vector{0, -1, 1}, EnabledBounds: vas.Vector{0, 1, 0}, RateConst: 1.0},
		},
		Target: vas.Target{VariableIndex: 2, TargetValue: 2},
	}
}

func TestBuildSeedsSinkAndInit(t *testing.T) {
	m := twoReactionModel()
	explicit, err := Build(m, nil, Options{})
	require.NoError(t, err)

	sink, ok := explicit.State(vas.SinkStateID)
	require.True(t, ok)
	require.Equal(t, "sink", sink.Label)

	init, ok := explicit.State(vas.InitialStateID)
	require.True(t, ok)
	require.Equal(t, "init", init.Label)
	require.True(t, init.Vector.Equal(vas.Vector{1, 1, 0}))
}

func TestBuildReplaysNamedTrace(t *testing.T) {
	m := twoReactionModel()
	explicit, err := Build(m, [][]string{{"consumeA"}}, Options{})
	require.NoError(t, err)

	var found bool
	for _, s := range explicit.States {
		if s.Vector.Equal(vas.Vector{0, 1, 1}) {
			found = true
		}
	}
	require.True(t, found)
}

func TestBuildCommuteSplicesIndependentTransitions(t *testing.T) {
	// From the initial state {1,1,0}, consumeA and consumeB are both
	// universally enabled along the single-edge seed trace, so commute
	// expansion should splice in the parallel branch that fires
	// consumeB directly from the initial state, {1,0,1}, even though
	// only consumeA was in the seed trace.
	m := twoReactionModel()
	explicit, err := Build(m, [][]string{{"consumeA"}}, Options{MaxCommuteDepth: 2})
	require.NoError(t, err)

	var found bool
	for _, s := range explicit.States {
		if s.Vector.Equal(vas.Vector{1, 0, 1}) {
			found = true
		}
	}
	require.True(t, found)
}

func TestBuildRejectsUnknownTransitionName(t *testing.T) {
	m := twoReactionModel()
	_, err := Build(m, [][]string{{"doesNotExist"}}, Options{})
	require.Error(t, err)
}

func TestSinkEdgesReconciled(t *testing.T) {
	m := twoReactionModel()
	explicit, err := Build(m, [][]string{{"consumeA"}}, Options{})
	require.NoError(t, err)

	for _, s := range explicit.States {
		if s.ID == vas.SinkStateID {
			continue
		}
		rate, ok := explicit.SinkEdgeRate(s.ID)
		require.True(t, ok, "state %d should have a sink edge", s.ID)
		require.GreaterOrEqual(t, rate, 0.0)
	}
}

func TestAddCyclesFindsZeroSumPair(t *testing.T) {
	// produce/consume is a 2-cycle on A: update vectors {1,0} and {-1,0}
	// sum to zero, so add_cycles should splice in the round trip from
	// the initial state.
	m := &vas.Model{
		VariableNames: []string{"A"},
		Initial:       vas.Vector{1},
		Transitions: []vas.Transition{
			{ID: 0, Name: "produce", Update: vas.Vector{1}, EnabledBounds: vas.Vector{0}, RateConst: 1.0},
			{ID: 1, Name: "consume", Update: vas.Vector{-1}, EnabledBounds: vas.Vector{1}, RateConst: 1.0},
		},
		Target: vas.Target{VariableIndex: 0, TargetValue: 5},
	}
	explicit, err := Build(m, nil, Options{MaxCycleLength: 2})
	require.NoError(t, err)

	var found2, found0 bool
	for _, s := range explicit.States {
		if s.Vector.Equal(vas.Vector{2}) {
			found2 = true
		}
		if s.Vector.Equal(vas.Vector{0}) {
			found0 = true
		}
	}
	require.True(t, found2)
	require.True(t, found0)
}
