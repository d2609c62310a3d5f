// Command stamina exercises the analysis pipeline against one small,
// hardcoded chemical reaction network, printing each stage's result. It
// is a demonstration entrypoint, not a configurable CLI, so there is
// exactly one model here and no flags.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/rfielding/stamina/pipeline"
	"github.com/rfielding/stamina/tracegen"
	"github.com/rfielding/stamina/vas"
)

// sirModel is a toy SIR-like network: S -> I consumes a susceptible and
// produces an infected, I -> R consumes an infected and produces a
// recovered. The target asks whether every individual can end up
// recovered.
func sirModel() *vas.Model {
	return &vas.Model{
		VariableNames: []string{"S", "I", "R"},
		Initial:       vas.Vector{3, 1, 0},
		Transitions: []vas.Transition{
			{ID: 0, Name: "infect", Update: vas.Vector{-1, 1, 0}, EnabledBounds: vas.Vector{1, 1, 0}, RateConst: 0.8},
			{ID: 1, Name: "recover", Update: vas.Vector{0, -1, 1}, EnabledBounds: vas.Vector{0, 1, 0}, RateConst: 0.3},
		},
		Type:   vas.ContinuousTime,
		Target: vas.Target{VariableIndex: 2, TargetValue: 4},
	}
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	model := sirModel()
	if err := model.Validate(); err != nil {
		log.Fatal().Err(err).Msg("model failed validation")
	}

	opts := pipeline.Options{Log: log, Magic: tracegen.DefaultMagicNumbers()}
	// The model admits only 9 distinct traces, and trace generation keeps
	// drawing until it has NumTraces distinct ones.
	opts.Magic.NumTraces = 5

	fmt.Println("=== dependency graph ===")
	g, err := pipeline.DependencyGraph(model, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("dependency graph construction failed")
	}
	fmt.Printf("%d transitions reachable from the target\n", len(g.Transitions()))

	fmt.Println("\n=== stamina (trim + bounds) ===")
	trimmed, bounds, err := pipeline.Stamina(model, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("stamina pipeline failed")
	}
	fmt.Printf("trimmed model: %d variables, %d transitions\n", trimmed.NumVars(), len(trimmed.Transitions))
	fmt.Printf("bounds: loose=[%v,%v] tight=[%v,%v]\n", bounds.LooseLowerBound, bounds.LooseUpperBound, bounds.TightLowerBound, bounds.TightUpperBound)

	fmt.Println("\n=== bounded model check witness ===")
	names, err := pipeline.BmcWitnessNames(model, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("bounded model check failed")
	}
	fmt.Printf("shortest witness: %v\n", names)

	fmt.Println("\n=== cycle/commute state space from the witness ===")
	explicit, err := pipeline.CycleCommute(model, [][]string{names}, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("state space construction failed")
	}
	fmt.Printf("explicit model: %d states\n", len(explicit.States))

	fmt.Println("\n=== reward-guided trace generation ===")
	explicit, err = pipeline.Ragtimer(model, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("trace generation failed")
	}
	fmt.Printf("ragtimer explicit model: %d states\n", len(explicit.States))
}
