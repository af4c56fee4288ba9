package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetBasics(t *testing.T) {
	s := New("a", "b")
	require.True(t, s.Has("a"))
	require.False(t, s.Has("c"))

	s.Add("c")
	require.True(t, s.Has("c"))

	s.Delete("a")
	require.False(t, s.Has("a"))
}

func TestSetClone(t *testing.T) {
	s := New(1, 2)
	c := s.Clone()
	c.Add(3)
	require.False(t, s.Has(3))
	require.True(t, c.Has(1))
}

func TestSetHasOnNil(t *testing.T) {
	var s Set[string]
	require.False(t, s.Has("anything"))
}

func TestSorted(t *testing.T) {
	s := New("zeta", "alpha", "mid")
	require.Equal(t, []string{"alpha", "mid", "zeta"}, Sorted(s))
	require.Empty(t, Sorted(New[string]()))
}
