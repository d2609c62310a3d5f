package depgraph

import "github.com/rfielding/stamina/vas"

// Trim projects model onto only the variables and transitions that
// appear somewhere in g. Variable and transition indices are remapped
// to the trimmed model's own numbering; the target is remapped to the
// trimmed variable index.
//
// Grounded on original_source/src/dependency/trimmer.rs, which performs
// the same projection to shrink a model before handing it to the bounded
// model checker.
func Trim(model *vas.Model, g *Graph) *vas.Model {
	usedVars := make(map[int]bool)
	usedVars[model.Target.VariableIndex] = true

	transitions := g.Transitions()
	for _, t := range transitions {
		for i, u := range t.Update {
			if u != 0 || t.EnabledBounds[i] != 0 {
				usedVars[i] = true
			}
		}
	}

	oldToNew := make(map[int]int)
	var names []string
	var initial vas.Vector
	for i := 0; i < model.NumVars(); i++ {
		if !usedVars[i] {
			continue
		}
		oldToNew[i] = len(names)
		names = append(names, model.VariableNames[i])
		initial = append(initial, model.Initial[i])
	}

	remap := func(v vas.Vector) vas.Vector {
		out := make(vas.Vector, len(names))
		for oldIdx, newIdx := range oldToNew {
			out[newIdx] = v[oldIdx]
		}
		return out
	}

	var trimmed []vas.Transition
	for _, t := range transitions {
		trimmed = append(trimmed, vas.Transition{
			ID:            t.ID,
			Name:          t.Name,
			Update:        remap(t.Update),
			EnabledBounds: remap(t.EnabledBounds),
			RateConst:     t.RateConst,
			CustomRate:    t.CustomRate,
		})
	}

	return &vas.Model{
		VariableNames: names,
		Initial:       initial,
		Transitions:   trimmed,
		Type:          model.Type,
		Target: vas.Target{
			VariableIndex: oldToNew[model.Target.VariableIndex],
			TargetValue:   model.Target.TargetValue,
		},
	}
}
