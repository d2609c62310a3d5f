// Package pipeline wires the individual analysis stages together: a
// model flows through the dependency graph constructor and trimmer
// before bounded model checking, and separately feeds the trace
// generator and state space builder.
//
// This is a thin library surface, not a CLI. Each conceptual operation
// (bounds, dependency-graph, ragtimer, cycle-commute, stamina) is
// exposed as one function here rather than as a subcommand.
package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/rfielding/stamina/bounding"
	"github.com/rfielding/stamina/depgraph"
	"github.com/rfielding/stamina/statespace"
	"github.com/rfielding/stamina/symbolic"
	"github.com/rfielding/stamina/tracegen"
	"github.com/rfielding/stamina/vas"
)

// Options bundles every stage's tuning knobs behind one struct, so a
// caller that only cares about a subset can still construct one value
// and pass it through.
type Options struct {
	DepthCap        int
	BmcOptions      symbolic.Options
	Magic           tracegen.MagicNumbers
	RateConvention  vas.RateConvention
	MaxCommuteDepth int
	MaxCycleLength  int
	Log             zerolog.Logger
}

// DependencyGraph builds the goal-directed dependency graph for model.
func DependencyGraph(model *vas.Model, opts Options) (*depgraph.Graph, error) {
	return depgraph.Build(model, depgraph.Options{DepthCap: opts.DepthCap, Log: opts.Log})
}

// Stamina trims model to the portion its dependency graph touches and
// computes its bounded-model-checking variable bounds: dependency
// graph, trim, then bound.
func Stamina(model *vas.Model, opts Options) (*vas.Model, *bounding.Bounds, error) {
	g, err := DependencyGraph(model, opts)
	if err != nil {
		return nil, nil, err
	}
	trimmed := depgraph.Trim(model, g)
	b, err := bounding.Compute(trimmed, opts.BmcOptions)
	if err != nil {
		return trimmed, nil, err
	}
	return trimmed, b, nil
}

// Bounds runs bounded model checking directly against model (without
// trimming first) and returns its variable bounds.
func Bounds(model *vas.Model, opts Options) (*bounding.Bounds, error) {
	return bounding.Compute(model, opts.BmcOptions)
}

// Ragtimer runs the reward-guided trace generator against model, seeding
// its rewards from model's own dependency graph, and returns the
// resulting explicit state space.
func Ragtimer(model *vas.Model, opts Options) (*vas.ExplicitModel, error) {
	g, err := DependencyGraph(model, opts)
	if err != nil {
		return nil, err
	}
	magic := opts.Magic
	if magic.NumTraces == 0 {
		magic = tracegen.DefaultMagicNumbers()
	}
	gen := tracegen.NewGenerator(model, g, magic, opts.RateConvention, opts.Log)
	return gen.GenerateTraces(), nil
}

// CycleCommute replays traces (sequences of transition names) into an
// explicit state space and enriches it with commute expansion and cycle
// closure.
func CycleCommute(model *vas.Model, traces [][]string, opts Options) (*vas.ExplicitModel, error) {
	return statespace.Build(model, traces, statespace.Options{
		MaxCommuteDepth: opts.MaxCommuteDepth,
		MaxCycleLength:  opts.MaxCycleLength,
		Convention:      opts.RateConvention,
		Log:             opts.Log,
	})
}

// BmcWitnessNames runs a bounded search for model's target and converts
// its first witness trace into a sequence of transition names, suitable
// as seed input to CycleCommute. This is how the dependency-graph and
// bounded-search stages hand a concrete trace to the state space
// builder rather than requiring a caller to already have one on hand.
func BmcWitnessNames(model *vas.Model, opts Options) ([]string, error) {
	res, err := symbolic.Solve(model, opts.BmcOptions)
	if err != nil {
		return nil, err
	}
	if len(res.Witnesses) == 0 {
		return nil, nil
	}
	return res.Witnesses[0].Transitions, nil
}
