// Package depgraph implements the backward goal-directed dependency
// graph constructor: a tree of (transition, multiplicity) pairs that
// together certify reachability of a VAS model's target from its
// initial state, and the model trimmer that projects a model onto only
// the variables and transitions the tree touches.
//
// The construction is grounded on original_source/src/dependency/graph.rs,
// adapted to idiomatic Go: recursive struct methods instead of a
// Rust `impl` block, explicit error returns instead of a logging macro
// plus best-effort continuation.
package depgraph

import (
	"github.com/rfielding/stamina/vas"
	"github.com/rs/zerolog"
)

// ArtificialName is the transition name given to the synthetic root
// node, which never corresponds to a real model transition.
const ArtificialName = "ARTIFICIAL"

// DefaultDepthCap is the safety recursion-depth limit that prevents
// runaway expansion on pathological models.
const DefaultDepthCap = 5000

// target is a residual requirement on one variable: move it by
// TargetValue, where the sign of TargetValue indicates direction
// (positive means need to produce more, negative means need to consume
// more). Same shape as vas.Target but with a signed delta rather than
// an absolute value.
type target struct {
	VariableIndex int
	TargetValue   vas.Value
}

// Node is one node in the dependency graph: a transition and the number
// of times it must fire, plus the bookkeeping needed to recurse.
type Node struct {
	Transition  vas.Transition
	Executions  vas.Value
	Children    []*Node
	Ancestors   []string // transition names from root to self, inclusive
	Init        vas.Vector
	Targets     []target
	Enabled     bool
	Decrement   bool
	isArtificial bool
}

// Graph is a dependency graph: a rooted tree whose root is an artificial
// node (Node.Transition.Name == ArtificialName).
type Graph struct {
	Root *Node
}

// Options configures graph construction.
type Options struct {
	DepthCap int // 0 means DefaultDepthCap
	Log      zerolog.Logger
}

func (o Options) depthCap() int {
	if o.DepthCap <= 0 {
		return DefaultDepthCap
	}
	return o.DepthCap
}

// Build constructs a dependency graph for model.
func Build(model *vas.Model, opts Options) (*Graph, error) {
	v := model.Target.VariableIndex
	delta := model.Target.TargetValue - model.Initial[v]
	if delta == 0 {
		return nil, &vas.DependencyGraphError{Sentinel: vas.ErrInitiallySatisfied}
	}

	multiplicity := delta
	if multiplicity < 0 {
		multiplicity = -multiplicity
	}

	root := &Node{
		Transition: vas.Transition{
			ID:            -1,
			Name:          ArtificialName,
			Update:        make(vas.Vector, model.NumVars()),
			EnabledBounds: make(vas.Vector, model.NumVars()),
		},
		Executions:   multiplicity,
		Ancestors:    []string{ArtificialName},
		Init:         model.Initial.Clone(),
		Targets:      []target{{VariableIndex: v, TargetValue: delta}},
		Decrement:    delta < 0,
		isArtificial: true,
	}

	if err := root.expand(model, 1, opts); err != nil {
		return nil, err
	}
	return &Graph{Root: root}, nil
}

// expand recursively builds node's children and propagates enabledness.
func (n *Node) expand(model *vas.Model, depth int, opts Options) error {
	if depth > opts.depthCap() {
		return &vas.DependencyGraphError{Sentinel: vas.ErrDepthLimitExceeded}
	}
	if n.Enabled {
		return nil
	}

	childInit := n.Init.Add(scale(n.Transition.Update, n.Executions))
	for i := range childInit {
		if n.Transition.Update[i]+n.Transition.EnabledBounds[i] != 0 {
			childInit[i] -= n.Transition.EnabledBounds[i]
		}
	}

	var childTargets []target
	for _, t := range n.Targets {
		reqd := t.TargetValue - n.Transition.Update[t.VariableIndex]*n.Executions
		if reqd != 0 {
			childTargets = append(childTargets, target{VariableIndex: t.VariableIndex, TargetValue: reqd})
		}
	}
	for i, v := range childInit {
		if v < 0 {
			childTargets = append(childTargets, target{VariableIndex: i, TargetValue: -v})
		}
	}

	opts.Log.Debug().Str("node", n.Transition.Name).Ints64("child_init", toInt64s(childInit)).Int("num_targets", len(childTargets)).Msg("depgraph: expanding node")

	for _, t := range childTargets {
		for _, trans := range model.Transitions {
			if containsName(n.Ancestors, trans.Name) {
				continue
			}
			update := trans.Update[t.VariableIndex]
			if update == 0 || sign(t.TargetValue) != sign(update) {
				continue
			}
			executions := t.TargetValue / update
			if executions <= 0 {
				continue
			}
			child := &Node{
				Transition: trans,
				Executions: executions,
				Ancestors:  append(append([]string(nil), n.Ancestors...), trans.Name),
				Init:       childInit,
				Targets:    []target{{VariableIndex: t.VariableIndex, TargetValue: t.TargetValue}},
				Decrement:  t.TargetValue < 0,
			}
			n.addOrReplaceChild(child)
		}
	}

	for _, child := range n.Children {
		if err := child.expand(model, depth+1, opts); err != nil {
			return err
		}
		if !child.Enabled {
			n.Enabled = false
		}
	}
	if len(n.Children) == 0 {
		n.Enabled = true
	} else {
		n.Enabled = true
		for _, child := range n.Children {
			if !child.Enabled {
				n.Enabled = false
				break
			}
		}
	}
	return nil
}

// addOrReplaceChild adds child, or replaces an existing child with the
// same transition name if child's multiplicity is larger: if two
// children share a transition name, the one with the larger
// multiplicity is retained.
func (n *Node) addOrReplaceChild(child *Node) {
	for i, existing := range n.Children {
		if existing.Transition.Name == child.Transition.Name {
			if child.Executions > existing.Executions {
				n.Children[i] = child
			}
			return
		}
	}
	n.Children = append(n.Children, child)
}

// Transitions returns the set of distinct transitions used anywhere in
// the graph, excluding the synthetic root.
func (g *Graph) Transitions() []vas.Transition {
	seen := make(map[string]bool)
	var out []vas.Transition
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.isArtificial && !seen[n.Transition.Name] {
			seen[n.Transition.Name] = true
			out = append(out, n.Transition)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(g.Root)
	return out
}

func scale(v vas.Vector, k vas.Value) vas.Vector {
	out := make(vas.Vector, len(v))
	for i, x := range v {
		out[i] = x * k
	}
	return out
}

func sign(v vas.Value) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func toInt64s(v vas.Vector) []int64 {
	out := make([]int64, len(v))
	copy(out, v)
	return out
}
