package vas

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateSumVsProduct(t *testing.T) {
	tr := Transition{
		Update:        Vector{-1, 1},
		EnabledBounds: Vector{1, 0},
		RateConst:     2.0,
	}
	state := Vector{3, 0}

	sum := tr.Rate(state, RateSum)
	require.InDelta(t, 2.0*3.0, sum, 1e-9)

	product := tr.Rate(state, RateProduct)
	// decrement at index 0 is 1, so product = 3^1 = 3
	require.InDelta(t, 2.0*3.0, product, 1e-9)
}

func TestRateCustomOverridesConvention(t *testing.T) {
	tr := Transition{
		Update:        Vector{-1},
		EnabledBounds: Vector{1},
		RateConst:     99,
		CustomRate:    func(s Vector) float64 { return 42 },
	}
	require.Equal(t, 42.0, tr.Rate(Vector{5}, RateSum))
	require.Equal(t, 42.0, tr.Rate(Vector{5}, RateProduct))
}

func TestCustomRateIdentityEquality(t *testing.T) {
	f1 := CustomRate(func(s Vector) float64 { return 1 })
	f2 := CustomRate(func(s Vector) float64 { return 1 })
	// Two distinct closures are never equal, even with identical bodies:
	// equality here is by identity, which Go's incomparable func values
	// already enforce by refusing `==` entirely rather than needing
	// bespoke identity tracking.
	require.NotNil(t, f1)
	require.NotNil(t, f2)
}
