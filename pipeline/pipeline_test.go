package pipeline

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rfielding/stamina/tracegen"
	"github.com/rfielding/stamina/vas"
)

func sirLikeModel() *vas.Model {
	return &vas.Model{
		VariableNames: []string{"A", "B"},
		Initial:       vas.Vector{3, 0},
		Transitions: []vas.Transition{
			{ID: 0, Name: "r1", Update: vas.Vector{-1, 1}, EnabledBounds: vas.Vector{1, 0}, RateConst: 1.0},
		},
		Type:   vas.ContinuousTime,
		Target: vas.Target{VariableIndex: 1, TargetValue: 3},
	}
}

func TestStaminaEndToEnd(t *testing.T) {
	m := sirLikeModel()
	trimmed, bounds, err := Stamina(m, Options{Log: zerolog.Nop()})
	require.NoError(t, err)
	require.NotNil(t, trimmed)
	require.Equal(t, vas.Value(3), bounds.LooseUpperBound[1])
}

func TestRagtimerEndToEnd(t *testing.T) {
	m := sirLikeModel()
	opts := Options{Log: zerolog.Nop(), Magic: tracegen.DefaultMagicNumbers()}
	// sirLikeModel admits exactly one distinct trace (r1 three times).
	opts.Magic.NumTraces = 1
	explicit, err := Ragtimer(m, opts)
	require.NoError(t, err)
	require.NotEmpty(t, explicit.States)
}

func TestBmcWitnessNamesFeedsCycleCommute(t *testing.T) {
	m := sirLikeModel()
	names, err := BmcWitnessNames(m, Options{Log: zerolog.Nop()})
	require.NoError(t, err)
	require.Equal(t, []string{"r1", "r1", "r1"}, names)

	explicit, err := CycleCommute(m, [][]string{names}, Options{Log: zerolog.Nop()})
	require.NoError(t, err)

	var foundTarget bool
	for _, s := range explicit.States {
		if s.Vector.Equal(vas.Vector{0, 3}) {
			foundTarget = true
		}
	}
	require.True(t, foundTarget)
}
