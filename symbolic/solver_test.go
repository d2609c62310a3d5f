package symbolic

import (
	"testing"

	"github.com/rfielding/stamina/vas"
	"github.com/stretchr/testify/require"
)

func chainModel() *vas.Model {
	return &vas.Model{
		VariableNames: []string{"A", "B"},
		Initial:       vas.Vector{2, 0},
		Transitions: []vas.Transition{
			{ID: 0, Name: "r1", Update: vas.Vector{-1, 1}, EnabledBounds: vas.Vector{1, 0}, RateConst: 1.0},
		},
		Target: vas.Target{VariableIndex: 1, TargetValue: 2},
	}
}

func TestSolveFindsShortestPath(t *testing.T) {
	m := chainModel()
	res, err := Solve(m, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, res.Steps)
	require.NotEmpty(t, res.Witnesses)
	w := res.Witnesses[0]
	require.Len(t, w.States, 3)
	require.True(t, w.States[0].Equal(vas.Vector{2, 0}))
	require.True(t, w.States[len(w.States)-1].Equal(vas.Vector{0, 2}))
	require.Equal(t, []string{"r1", "r1"}, w.Transitions)
}

func TestSolveVacuousInitialTarget(t *testing.T) {
	m := chainModel()
	m.Target = vas.Target{VariableIndex: 0, TargetValue: 2}
	_, err := Solve(m, Options{})
	require.Error(t, err)
	var failure *vas.BmcFailure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, 0, failure.StepsTried)
}

func TestSolveFailsWhenUnreachable(t *testing.T) {
	m := &vas.Model{
		VariableNames: []string{"A"},
		Initial:       vas.Vector{0},
		Transitions:   nil,
		Target:        vas.Target{VariableIndex: 0, TargetValue: 1},
	}
	_, err := Solve(m, Options{MaxSteps: 5})
	require.Error(t, err)
	var failure *vas.BmcFailure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, 5, failure.StepsTried)
}

// independentCountersModel has four transitions that each increment a
// distinct, otherwise-untouched variable and are always enabled, so the
// first BFS layer contains four sibling successor states with no
// ordering relationship other than the one Solve imposes deterministically.
func independentCountersModel() *vas.Model {
	zero := vas.Vector{0, 0, 0, 0}
	return &vas.Model{
		VariableNames: []string{"A", "B", "C", "D"},
		Initial:       vas.Vector{0, 0, 0, 0},
		Transitions: []vas.Transition{
			{ID: 0, Name: "incA", Update: vas.Vector{1, 0, 0, 0}, EnabledBounds: zero, RateConst: 1.0},
			{ID: 1, Name: "incB", Update: vas.Vector{0, 1, 0, 0}, EnabledBounds: zero, RateConst: 1.0},
			{ID: 2, Name: "incC", Update: vas.Vector{0, 0, 1, 0}, EnabledBounds: zero, RateConst: 1.0},
			{ID: 3, Name: "incD", Update: vas.Vector{0, 0, 0, 1}, EnabledBounds: zero, RateConst: 1.0},
		},
		Target: vas.Target{VariableIndex: 0, TargetValue: 1},
	}
}

func TestSolveReachesTargetWithoutFrontierCap(t *testing.T) {
	m := independentCountersModel()
	res, err := Solve(m, Options{MaxSteps: 1})
	require.NoError(t, err)
	require.Equal(t, 1, res.Steps)
}

// TestSolveMaxFrontierCapDropsDeterministically pins the exact ordering
// Solve's frontier truncation uses: of the four sibling successors at
// step 1 ("1,0,0,0", "0,1,0,0", "0,0,1,0", "0,0,0,1" by encoded key),
// ascending key order keeps "0,0,0,1" (incD) and "0,0,1,0" (incC) and
// drops "0,1,0,0" (incB) and "1,0,0,0" (incA), the only branch that
// reaches the target. With MaxFrontier=2 the target is never found
// within the single step searched, deterministically.
func TestSolveMaxFrontierCapDropsDeterministically(t *testing.T) {
	m := independentCountersModel()
	_, err := Solve(m, Options{MaxSteps: 1, MaxFrontier: 2})
	require.Error(t, err)
	var failure *vas.BmcFailure
	require.ErrorAs(t, err, &failure)
}

// branchingTargetModel has three transitions that all set A to 1 (so
// all three satisfy the A==1 target in a single step) while touching a
// different second variable each, so the three resulting states are
// distinct and have no natural ordering beyond Solve's encoded-key sort.
func branchingTargetModel() *vas.Model {
	zero := vas.Vector{0, 0, 0}
	return &vas.Model{
		VariableNames: []string{"A", "B", "C"},
		Initial:       vas.Vector{0, 0, 0},
		Transitions: []vas.Transition{
			{ID: 0, Name: "incA_fast", Update: vas.Vector{1, 1, 0}, EnabledBounds: zero, RateConst: 1.0},
			{ID: 1, Name: "incA_slow", Update: vas.Vector{1, 0, 1}, EnabledBounds: zero, RateConst: 1.0},
			{ID: 2, Name: "incA_plain", Update: vas.Vector{1, 0, 0}, EnabledBounds: zero, RateConst: 1.0},
		},
		Target: vas.Target{VariableIndex: 0, TargetValue: 1},
	}
}

// TestSolveMaxWitnessesCapIsDeterministic pins which two of the three
// equally-minimal witnesses survive a MaxWitnesses=2 cap: ascending
// encoded-key order is "1,0,0" (incA_plain), "1,0,1" (incA_slow),
// "1,1,0" (incA_fast), so the cap keeps the first two and drops
// incA_fast, every time.
func TestSolveMaxWitnessesCapIsDeterministic(t *testing.T) {
	m := branchingTargetModel()
	res, err := Solve(m, Options{MaxWitnesses: 2})
	require.NoError(t, err)
	require.Len(t, res.Witnesses, 2)

	var names []string
	for _, w := range res.Witnesses {
		names = append(names, w.Transitions[0])
	}
	require.ElementsMatch(t, []string{"incA_plain", "incA_slow"}, names)
}

func TestSolveMaxWitnessesCapResultIsStableAcrossRuns(t *testing.T) {
	m := branchingTargetModel()
	res1, err := Solve(m, Options{MaxWitnesses: 2})
	require.NoError(t, err)
	res2, err := Solve(m, Options{MaxWitnesses: 2})
	require.NoError(t, err)

	require.Equal(t, res1.Witnesses[0].Transitions, res2.Witnesses[0].Transitions)
	require.Equal(t, res1.Witnesses[1].Transitions, res2.Witnesses[1].Transitions)
}
