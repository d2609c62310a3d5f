// Package bounding implements the variable-bounds search: four
// per-variable bounds derived from the set of shortest witness traces
// symbolic.Solve finds for a model's target.
//
// original_source/src/bmc/bounds.rs computes these by repeated binary
// search against a z3 solver: each of the four bounds asks the solver
// "is there an assignment where the bound holds at [some/every] time
// step", narrowing the threshold until the answer flips. symbolic.Solve
// does not expose an incremental solver to binary-search against, since
// it enumerates witnesses directly, so this package computes each bound
// as the corresponding extremum over the enumerated witness set, which
// answers exactly the same question the binary search converged to
// without needing repeated satisfiability queries.
package bounding

import (
	"github.com/rfielding/stamina/symbolic"
	"github.com/rfielding/stamina/vas"
)

// PerVariable holds one bound value for every variable, indexed the same
// way as vas.Model.VariableNames.
type PerVariable []vas.Value

// Bounds is the four-way result of a bounds search, matching the four
// fields the original engine reports (lb_loose, lb_tight, ub_loose,
// ub_tight).
type Bounds struct {
	LooseLowerBound PerVariable
	TightLowerBound PerVariable
	LooseUpperBound PerVariable
	TightUpperBound PerVariable
}

// Compute runs a bounded search against model (via symbolic.Solve) and
// derives all four bounds from the witness traces found. When
// symbolic.Solve's MaxWitnesses cap truncates the witness set, the
// result is only as complete as that truncated set; Compute relies on
// Solve's deterministic, sorted selection of which witnesses survive
// truncation so that repeated calls against the same model and options
// agree, rather than varying with Go's randomized map iteration order.
//
// LooseUpperBound and LooseLowerBound are the maximum and minimum value
// any variable takes across every witness trace, at any time step. The
// loose-lower definition is unusual: it is an existential statement
// (some trace, some time, value <= c) rather than the more natural
// "this variable never falls below c". That unusual shape is preserved
// here rather than corrected, matching the original engine.
//
// TightUpperBound and TightLowerBound restrict to a single best trace:
// the smallest peak value, and the largest floor value, achievable by
// any one witness trace.
func Compute(model *vas.Model, opts symbolic.Options) (*Bounds, error) {
	res, err := symbolic.Solve(model, opts)
	if err != nil {
		return nil, err
	}

	n := model.NumVars()
	b := &Bounds{
		LooseLowerBound: make(PerVariable, n),
		TightLowerBound: make(PerVariable, n),
		LooseUpperBound: make(PerVariable, n),
		TightUpperBound: make(PerVariable, n),
	}

	looseInit := make([]bool, n)
	tightInit := make([]bool, n)
	for _, w := range res.Witnesses {
		for i := 0; i < n; i++ {
			tracePeak := w.States[0][i]
			traceFloor := w.States[0][i]
			for _, s := range w.States {
				v := s[i]
				if v > tracePeak {
					tracePeak = v
				}
				if v < traceFloor {
					traceFloor = v
				}
				if !looseInit[i] || v > b.LooseUpperBound[i] {
					b.LooseUpperBound[i] = v
				}
				if !looseInit[i] || v < b.LooseLowerBound[i] {
					b.LooseLowerBound[i] = v
				}
				looseInit[i] = true
			}
			if !tightInit[i] || tracePeak < b.TightUpperBound[i] {
				b.TightUpperBound[i] = tracePeak
			}
			if !tightInit[i] || traceFloor > b.TightLowerBound[i] {
				b.TightLowerBound[i] = traceFloor
			}
			tightInit[i] = true
		}
	}

	return b, nil
}
