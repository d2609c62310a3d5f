package trie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateInsertIsIdempotent(t *testing.T) {
	s := NewState()

	id, fresh := s.Insert([]int64{1, 2, 3}, 7)
	require.True(t, fresh)
	require.Equal(t, 7, id)

	// Re-inserting the same vector under a different candidate id must
	// return the original id and report no growth.
	id2, fresh2 := s.Insert([]int64{1, 2, 3}, 99)
	require.False(t, fresh2)
	require.Equal(t, 7, id2)
}

func TestStateInsertDistinguishesVectors(t *testing.T) {
	s := NewState()
	_, _ = s.Insert([]int64{1, 2}, 1)
	_, fresh := s.Insert([]int64{1, 3}, 2)
	require.True(t, fresh)

	id, ok := s.Lookup([]int64{1, 3})
	require.True(t, ok)
	require.Equal(t, 2, id)

	_, ok = s.Lookup([]int64{9, 9})
	require.False(t, ok)
}

func TestStateInsertZeroIDPanics(t *testing.T) {
	s := NewState()
	require.Panics(t, func() {
		s.Insert([]int64{1}, 0)
	})
}

func TestTraceExistsOrInsert(t *testing.T) {
	tr := NewTrace()

	existed := tr.ExistsOrInsert([]int{1, 2, 3})
	require.False(t, existed)

	existed = tr.ExistsOrInsert([]int{1, 2, 3})
	require.True(t, existed)

	existed = tr.ExistsOrInsert([]int{1, 2, 4})
	require.False(t, existed)
}
