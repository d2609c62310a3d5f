package statespace

import "github.com/rfielding/stamina/vas"

// addCycles finds every multiset of transitions (of size 2 up to
// opts.maxCycleLength()) whose update vectors sum to zero, and splices
// every ordering of that multiset into every state where it can legally
// fire, checked via the minimum running-prefix test: a cycle is enabled
// at a state if, for every prefix of its transitions in the order the
// combination was discovered, the state's vector plus the most negative
// prefix sum ever reached stays non-negative.
func addCycles(model *vas.Model, m *vas.ExplicitModel, opts Options) {
	n := len(model.Transitions)
	if n == 0 {
		return
	}

	for cycleLen := 2; cycleLen <= opts.maxCycleLength(); cycleLen++ {
		for _, combo := range combinationsWithReplacement(n, cycleLen) {
			if !sumsToZero(model, combo) {
				continue
			}
			minVector := runningMinVector(model, combo)
			perms := uniquePermutations(combo)

			for _, s := range m.States {
				if s.ID == vas.SinkStateID {
					continue
				}
				if !enabledByMinVector(s.Vector, minVector) {
					continue
				}
				for _, perm := range perms {
					fireCyclePermutation(model, m, opts, s.ID, s.Vector, perm)
				}
			}
		}
	}
}

func fireCyclePermutation(model *vas.Model, m *vas.ExplicitModel, opts Options, startID int, startVector vas.Vector, perm []int) {
	current := startVector
	prevID := startID
	for _, idx := range perm {
		t := model.Transitions[idx]
		next := current.Add(t.Update)
		if next.AnyNegative() {
			return
		}
		nextID := ensureState(m, model, opts.Convention, next)
		if !m.HasEdge(prevID, nextID) {
			m.AddEdge(prevID, nextID, t.Rate(current, opts.Convention), t.ID)
		}
		current = next
		prevID = nextID
	}
}

func sumsToZero(model *vas.Model, combo []int) bool {
	sum := make(vas.Vector, model.NumVars())
	for _, idx := range combo {
		sum = sum.Add(model.Transitions[idx].Update)
	}
	for _, v := range sum {
		if v != 0 {
			return false
		}
	}
	return true
}

// runningMinVector computes, for each variable, the most negative value
// the running prefix sum of combo's update vectors ever reaches.
func runningMinVector(model *vas.Model, combo []int) vas.Vector {
	n := model.NumVars()
	minVector := make(vas.Vector, n)
	running := make(vas.Vector, n)
	copy(minVector, model.Transitions[combo[0]].Update)
	copy(running, model.Transitions[combo[0]].Update)
	for _, idx := range combo[1:] {
		running = running.Add(model.Transitions[idx].Update)
		for i := 0; i < n; i++ {
			if running[i] < minVector[i] {
				minVector[i] = running[i]
			}
		}
	}
	return minVector
}

func enabledByMinVector(state, minVector vas.Vector) bool {
	for i := range state {
		if state[i]+minVector[i] < 0 {
			return false
		}
	}
	return true
}

// combinationsWithReplacement enumerates all non-decreasing index
// sequences of length k drawn from [0, n).
func combinationsWithReplacement(n, k int) [][]int {
	var out [][]int
	combo := make([]int, k)
	var rec func(start, pos int)
	rec = func(start, pos int) {
		if pos == k {
			out = append(out, append([]int(nil), combo...))
			return
		}
		for i := start; i < n; i++ {
			combo[pos] = i
			rec(i, pos+1)
		}
	}
	rec(0, 0)
	return out
}

// uniquePermutations returns every distinct ordering of combo's elements
// (distinct in value sequence, so a repeated index does not generate
// duplicate permutations).
func uniquePermutations(combo []int) [][]int {
	seen := make(map[string]bool)
	var out [][]int
	items := append([]int(nil), combo...)
	var rec func(remaining, acc []int)
	rec = func(remaining, acc []int) {
		if len(remaining) == 0 {
			key := keyOf(acc)
			if !seen[key] {
				seen[key] = true
				out = append(out, append([]int(nil), acc...))
			}
			return
		}
		for i := range remaining {
			next := append(append([]int(nil), remaining[:i]...), remaining[i+1:]...)
			rec(next, append(acc, remaining[i]))
		}
	}
	rec(items, nil)
	return out
}

func keyOf(xs []int) string {
	b := make([]byte, 0, len(xs)*4)
	for _, x := range xs {
		b = append(b, byte(x>>24), byte(x>>16), byte(x>>8), byte(x))
	}
	return string(b)
}
