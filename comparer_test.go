package cstr

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// set is minimal hash set over Hasher.
type set[K any] struct {
	h       Hasher[K]
	buckets map[uint64][]K
}

func (s *set[K]) Add(k K) bool {
	if s.buckets == nil {
		s.buckets = map[uint64][]K{}
	}
	if s.Has(k) {
		return false
	}
	hash := s.h.Hash(k)
	s.buckets[hash] = append(s.buckets[hash], k)
	return true
}

func (s *set[K]) Has(k K) bool {
	for _, v := range s.buckets[s.h.Hash(k)] {
		if s.h.Equal(k, v) {
			return true
		}
	}
	return false
}

func TestComparer(t *testing.T) {
	c := EqualityComparer
	require.Zero(t, c.Hash(Null))
	require.True(t, c.Equal(Null, Null))

	a, b := view(t, "abc"), view(t, "abc")
	require.True(t, c.Equal(a, b))
	require.Equal(t, c.Hash(a), c.Hash(b))
	require.Equal(t, a.Hash(), c.Hash(a))
	require.False(t, c.Equal(a, Null))

	s := set[View]{h: c}
	require.True(t, s.Add(a))
	require.False(t, s.Add(b), "same content")
	require.True(t, s.Add(Null))
	require.False(t, s.Add(Null))
	require.True(t, s.Add(view(t, "")))
	require.True(t, s.Has(view(t, "abc")))
	require.False(t, s.Has(view(t, "abd")))
}

func TestComparer_Sort(t *testing.T) {
	values := []View{
		view(t, "c"),
		Null,
		view(t, "ab"),
		view(t, "abc"),
		view(t, ""),
	}
	slices.SortFunc(values, EqualityComparer.Compare)

	var got []string
	for _, v := range values {
		if v.IsNull() {
			got = append(got, "<null>")
			continue
		}
		got = append(got, v.String())
	}
	require.Equal(t, []string{"", "ab", "abc", "c", "<null>"}, got)
}
