// Package symbolic provides the decision procedure behind bounded model
// checking: given a trimmed VAS model, find the shortest number of
// transition firings that reaches the target, and enumerate the
// witness traces that achieve it.
//
// The original reference implementation (original_source/src/bmc/*.rs)
// encodes this as fixed-width bit-vector formulas and hands them to the
// z3 SMT solver. No SMT binding is available here, and the one symbolic
// decision-diagram library in reach (github.com/dalzilio/rudd, see
// DESIGN.md's evaluation under Open Question O2) exposes no usable
// boolean-algebra API in the sources retrieved for it, so Solve instead
// performs the equivalent bounded breadth-first search directly over
// the model's state graph. Every formula the bit-vector encoding would
// have produced corresponds to a deterministic VAS transition relation
// over a fixed-width integer domain, so explicit layer-by-layer
// enumeration is sound and complete for exactly the same question the
// bit-vector encoding answered: is the target reachable within k steps,
// and along which traces.
package symbolic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rfielding/stamina/vas"
)

// Witness is one trace of states, time-indexed from 0 (the initial
// state) through Steps (the first state satisfying the target).
type Witness struct {
	States      []vas.Vector
	Transitions []string // len(States)-1; Transitions[i] fired between States[i] and States[i+1]
}

// Result is the outcome of a bounded search.
type Result struct {
	Steps     int
	Witnesses []Witness
}

// Options configures the search.
type Options struct {
	MaxSteps int // defaults to MaxBMCSteps below if zero
	Bits     int // fixed bit width the original encoding assumed; defaults to DefaultBits
	// MaxWitnesses caps how many distinct minimal-length witness traces
	// are reconstructed once the target first becomes reachable. The
	// state graph can have combinatorially many shortest paths, and the
	// bounding engine only needs enough of them to compute extrema.
	MaxWitnesses int
	// MaxFrontier caps the number of distinct states kept per BFS layer,
	// guarding against state-space explosion on unbounded models.
	MaxFrontier int
	// Log receives a warning whenever a cap above actually truncates a
	// layer or a hit set, so a caller can tell when a Result is partial
	// rather than exhaustive.
	Log zerolog.Logger
}

// MaxBMCSteps is the hard ceiling on how many layers Solve will search,
// matching the original encoding's MAX_BMC_STEPS.
const MaxBMCSteps = 1000

// DefaultBits is the default fixed-width bit encoding size; states with
// any component outside [0, 2^Bits - 1] are outside the encoding's
// representable range and are pruned from the search, exactly as a
// bit-vector of that width would wrap or refuse to represent them.
const DefaultBits = 9

const defaultMaxWitnesses = 64
const defaultMaxFrontier = 50000

func (o Options) maxSteps() int {
	if o.MaxSteps <= 0 {
		return MaxBMCSteps
	}
	return o.MaxSteps
}

func (o Options) bits() int {
	if o.Bits <= 0 {
		return DefaultBits
	}
	return o.Bits
}

func (o Options) maxWitnesses() int {
	if o.MaxWitnesses <= 0 {
		return defaultMaxWitnesses
	}
	return o.MaxWitnesses
}

func (o Options) maxFrontier() int {
	if o.MaxFrontier <= 0 {
		return defaultMaxFrontier
	}
	return o.MaxFrontier
}

type node struct {
	state  vas.Vector
	parent *node
	trans  string
}

// Solve performs a bounded breadth-first search over model's reachable
// states, looking for the shortest number of steps that reaches the
// target. It returns a BmcFailure if the target is not reached within
// opts.maxSteps(), mirroring run_bmc's "steps == 0 || steps >= max_steps"
// failure condition.
//
// Layer expansion and hit selection both iterate in ascending encoded-
// key order rather than Go's randomized map order, and both the
// MaxFrontier and MaxWitnesses caps truncate that same sorted order.
// This keeps a Result reproducible across runs on the same model and
// Options, which bounding.Compute's extrema depend on for its own
// determinism: sampling from a randomized map order would make the
// reported bounds vary run to run whenever a cap actually binds.
func Solve(model *vas.Model, opts Options) (*Result, error) {
	ceiling := vas.Value(1)<<uint(opts.bits()) - 1

	if model.Target.Satisfied(model.Initial) {
		return nil, &vas.BmcFailure{StepsTried: 0, Reason: "initial state already satisfies the target"}
	}

	frontier := map[string]*node{encode(model.Initial): {state: model.Initial.Clone()}}

	for step := 1; step <= opts.maxSteps(); step++ {
		next := make(map[string]*node)
		var discovered []string
		for _, key := range sortedKeys(frontier) {
			n := frontier[key]
			for _, tr := range model.Transitions {
				if !tr.Enabled(n.state) {
					continue
				}
				succ := tr.Fire(n.state)
				if succ.AnyNegative() || outOfRange(succ, ceiling) {
					continue
				}
				succKey := encode(succ)
				if _, seen := next[succKey]; seen {
					continue
				}
				next[succKey] = &node{state: succ, parent: n, trans: tr.Name}
				discovered = append(discovered, succKey)
			}
		}
		sort.Strings(discovered)

		if len(discovered) > opts.maxFrontier() {
			opts.Log.Warn().
				Int("step", step).
				Int("discovered", len(discovered)).
				Int("cap", opts.maxFrontier()).
				Msg("bounded search frontier exceeded MaxFrontier; dropping states past the cap, result may be partial")
			for _, key := range discovered[opts.maxFrontier():] {
				delete(next, key)
			}
			discovered = discovered[:opts.maxFrontier()]
		}
		if len(next) == 0 {
			break
		}

		var hitKeys []string
		for _, key := range discovered {
			if model.Target.Satisfied(next[key].state) {
				hitKeys = append(hitKeys, key)
			}
		}
		if len(hitKeys) > 0 {
			if len(hitKeys) > opts.maxWitnesses() {
				opts.Log.Warn().
					Int("step", step).
					Int("discovered", len(hitKeys)).
					Int("cap", opts.maxWitnesses()).
					Msg("bounded search found more minimal-length witnesses than MaxWitnesses; truncating, result may be partial")
				hitKeys = hitKeys[:opts.maxWitnesses()]
			}
			var witnesses []Witness
			for _, key := range hitKeys {
				witnesses = append(witnesses, reconstruct(next[key]))
			}
			return &Result{Steps: step, Witnesses: witnesses}, nil
		}
		frontier = next
	}

	return nil, &vas.BmcFailure{StepsTried: opts.maxSteps(), Reason: "target not reached within the step bound"}
}

// sortedKeys returns m's keys in ascending order, so callers that must
// iterate a map deterministically (Go intentionally randomizes map
// iteration order) get a stable, reproducible traversal.
func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func reconstruct(n *node) Witness {
	var states []vas.Vector
	var transitions []string
	for cur := n; cur != nil; cur = cur.parent {
		states = append([]vas.Vector{cur.state}, states...)
		if cur.parent != nil {
			transitions = append([]string{cur.trans}, transitions...)
		}
	}
	return Witness{States: states, Transitions: transitions}
}

func outOfRange(v vas.Vector, ceiling vas.Value) bool {
	for _, x := range v {
		if x > ceiling {
			return true
		}
	}
	return false
}

func encode(v vas.Vector) string {
	var b strings.Builder
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", x)
	}
	return b.String()
}
