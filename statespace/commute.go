package statespace

import "github.com/rfielding/stamina/vas"

// commute recursively splices universally-enabled transitions into path
// as parallel branches, up to opts.maxCommuteDepth(). "Universally
// enabled" means enabled at the from-state of every step of path; the
// state the last step leads to is not checked. Each such transition is
// fired from every step's from-state, adding a branch edge there.
func commute(model *vas.Model, m *vas.ExplicitModel, opts Options, path []pathStep, depth int) {
	if depth >= opts.maxCommuteDepth() || len(path) == 0 {
		return
	}

	startState, ok := m.State(path[0].FromID)
	if !ok {
		return
	}
	universal := enabledTransitions(model, startState.Vector)
	for _, step := range path {
		stateAtStep, ok := m.State(step.FromID)
		if !ok {
			continue
		}
		here := enabledTransitions(model, stateAtStep.Vector)
		universal = intersectByName(universal, here)
	}

	for i, step := range path {
		stateAtStep, ok := m.State(step.FromID)
		if !ok {
			continue
		}
		for _, t := range universal {
			next := t.Fire(stateAtStep.Vector)
			if next.AnyNegative() {
				continue
			}
			nextID := ensureState(m, model, opts.Convention, next)
			if m.HasEdge(step.FromID, nextID) {
				continue
			}
			rate := t.Rate(stateAtStep.Vector, opts.Convention)
			m.AddEdge(step.FromID, nextID, rate, t.ID)

			branch := append(append([]pathStep(nil), path[:i+1]...), pathStep{FromID: step.FromID, ToID: nextID, TransitionID: t.ID})
			commute(model, m, opts, branch, depth+1)
		}
	}
}

func enabledTransitions(model *vas.Model, state vas.Vector) []vas.Transition {
	var out []vas.Transition
	for _, t := range model.Transitions {
		if t.Enabled(state) {
			out = append(out, t)
		}
	}
	return out
}

func intersectByName(a, b []vas.Transition) []vas.Transition {
	names := make(map[string]bool)
	for _, t := range b {
		names[t.Name] = true
	}
	var out []vas.Transition
	for _, t := range a {
		if names[t.Name] {
			out = append(out, t)
		}
	}
	return out
}
