package tracegen

import "github.com/rfielding/stamina/trie"

// traceDeduper rejects traces (sequences of transition ids) already seen
// this run, via trie.Trace.
type traceDeduper struct {
	t *trie.Trace
}

func newTraceDeduper() *traceDeduper {
	return &traceDeduper{t: trie.NewTrace()}
}

func (d *traceDeduper) existsOrInsert(sequence []int) bool {
	return d.t.ExistsOrInsert(sequence)
}
