// Package tracegen implements the reward-guided (reinforcement-learning
// style) trace generator: it draws traces from the initial state toward
// the target, favoring transitions that appear in a dependency graph,
// and folds each trace into an explicit state space.
//
// Grounded on original_source/src/builder/ragtimer/rl_traces.rs: the
// magic-number defaults, the reward initialize/update/maintain cycle,
// the shuffle-then-weighted-draw transition selection, and the explicit
// trace storage procedure (including its reserved sink/init state ids)
// all follow that file's structure, translated from HashMap+panic-based
// Rust to typed Go errors and map[int]float64.
package tracegen

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rfielding/stamina/depgraph"
	"github.com/rfielding/stamina/vas"
)

// MaxTraceLength caps how many transitions a single generated trace may
// contain before generation gives up on it.
const MaxTraceLength = 10000

// MagicNumbers are the tunable constants governing reward shaping.
// DefaultMagicNumbers mirrors the reference implementation's defaults.
type MagicNumbers struct {
	NumTraces             int
	DependencyReward      float64
	BaseReward            float64
	TraceReward           float64
	SmallestHistoryWindow int
	Clamp                 float64
}

// DefaultMagicNumbers returns the reference tuning values.
func DefaultMagicNumbers() MagicNumbers {
	return MagicNumbers{
		NumTraces:             100,
		DependencyReward:      1.0,
		BaseReward:            0.1,
		TraceReward:           0.01,
		SmallestHistoryWindow: 50,
		Clamp:                 10.0,
	}
}

// Generator draws reward-guided traces against a fixed model and folds
// them into an explicit state space.
type Generator struct {
	Model       *vas.Model
	Magic       MagicNumbers
	Convention  vas.RateConvention
	Log         zerolog.Logger
	rewards     map[int]float64
	depTransIDs map[int]bool
}

// NewGenerator builds a Generator whose rewards are seeded from g: every
// transition starts at Magic.BaseReward, and transitions appearing in g
// additionally gain Magic.DependencyReward.
func NewGenerator(model *vas.Model, g *depgraph.Graph, magic MagicNumbers, conv vas.RateConvention, log zerolog.Logger) *Generator {
	gen := &Generator{
		Model:       model,
		Magic:       magic,
		Convention:  conv,
		Log:         log,
		rewards:     make(map[int]float64),
		depTransIDs: make(map[int]bool),
	}
	for _, t := range model.Transitions {
		gen.rewards[t.ID] = magic.BaseReward
	}
	for _, t := range g.Transitions() {
		gen.depTransIDs[t.ID] = true
		gen.rewards[t.ID] += magic.DependencyReward
	}
	return gen
}

func (g *Generator) availableTransitions(state vas.Vector) []vas.Transition {
	var out []vas.Transition
	for _, t := range g.Model.Transitions {
		if t.Enabled(state) {
			out = append(out, t)
		}
	}
	return out
}

func (g *Generator) totalOutgoingRate(state vas.Vector) float64 {
	var total float64
	for _, t := range g.availableTransitions(state) {
		total += t.Rate(state, g.Convention)
	}
	return total
}

// generateSingleTrace draws one trace starting from the model's initial
// state, returning the sequence of transition ids fired and the product
// of per-step SCK transition probabilities along the way.
func (g *Generator) generateSingleTrace() ([]int, float64) {
	var trace []int
	probability := 1.0
	state := g.Model.Initial.Clone()

	for len(trace) < MaxTraceLength {
		if g.Model.Target.Satisfied(state) {
			break
		}
		available := g.availableTransitions(state)
		if len(available) == 0 {
			stuck := &vas.TraceGenerationStuck{State: state}
			g.Log.Warn().Err(stuck).Msg("ending trace generation early")
			break
		}

		rand.Shuffle(len(available), func(i, j int) { available[i], available[j] = available[j], available[i] })

		var totalReward float64
		for _, t := range available {
			totalReward += g.rewards[t.ID]
		}

		for _, t := range available {
			reward := g.rewards[t.ID]
			var selectionProbability float64
			if totalReward > 0 {
				selectionProbability = reward / totalReward
			} else {
				selectionProbability = reward
			}
			if rand.Float64() < selectionProbability {
				nextState := t.Fire(state)
				stepProbability := t.Rate(state, g.Convention) / g.totalOutgoingRate(state)
				state = nextState
				trace = append(trace, t.ID)
				probability *= stepProbability
				break
			}
		}
	}

	return trace, probability
}

// updateRewards folds the outcome of one trace into rewards: a trace
// whose probability beats the recent rolling average earns a positive
// reward proportional to the clamped log-ratio; one that falls short
// earns a negative one. A trace with zero probability or length is
// skipped entirely.
func (g *Generator) updateRewards(trace []int, history []float64) {
	var latest float64
	if len(history) > 0 {
		latest = history[len(history)-1]
	}
	if len(trace) == 0 || latest <= 0 {
		return
	}

	historyLen := len(history)
	windowSize := historyLen
	if historyLen >= g.Magic.SmallestHistoryWindow {
		windowSize = int(math.Ceil(float64(historyLen) * 0.2))
	}
	if windowSize < 1 {
		windowSize = 1
	}
	start := historyLen - windowSize
	if start < 0 {
		start = 0
	}
	recent := history[start:]

	var avg float64
	if len(recent) > 0 {
		var sum float64
		for _, p := range recent {
			sum += p
		}
		avg = sum / float64(len(recent))
	}

	var logRatio float64
	if avg > 0 && latest > 0 {
		logRatio = math.Log(latest / avg)
	}
	clamped := math.Min(math.Max(logRatio, -g.Magic.Clamp), g.Magic.Clamp)
	traceReward := clamped / float64(len(trace)) * g.Magic.TraceReward

	for _, id := range trace {
		g.rewards[id] += traceReward
	}
}

// maintainRewards floors every dependency-graph transition's reward at
// Magic.DependencyReward, so that the generator never drifts away from
// transitions known to matter for reachability.
func (g *Generator) maintainRewards() {
	for id := range g.depTransIDs {
		if g.rewards[id] < g.Magic.DependencyReward {
			g.rewards[id] = g.Magic.DependencyReward
		}
	}
}

// GenerateTraces draws Magic.NumTraces distinct traces (skipping
// duplicates and empty traces) and folds each into a fresh explicit
// model, which it returns. Every call is tagged with a UUID run id in
// its log output for correlating a run's trace-generation log lines.
func (g *Generator) GenerateTraces() *vas.ExplicitModel {
	runID := uuid.New()
	log := g.Log.With().Str("run_id", runID.String()).Logger()

	explicitModel := vas.NewExplicitModel(g.Model.VariableNames)
	seedExplicitStates(explicitModel, g.Model, g.Convention)

	traceTrie := newTraceDeduper()
	var history []float64

	for i := 0; i < g.Magic.NumTraces; i++ {
		var trace []int
		var probability float64
		for {
			trace, probability = g.generateSingleTrace()
			if len(trace) == 0 {
				log.Debug().Int("trace_num", i).Msg("empty trace, retrying")
				continue
			}
			if !traceTrie.existsOrInsert(trace) {
				break
			}
			log.Debug().Int("trace_num", i).Msg("duplicate trace, retrying")
		}

		log.Debug().Int("trace_num", i).Ints("trace", trace).Float64("probability", probability).Msg("generated trace")
		history = append(history, probability)
		storeExplicitTrace(explicitModel, g.Model, g.Convention, trace)
		g.updateRewards(trace, history)
		g.maintainRewards()
	}

	return explicitModel
}
