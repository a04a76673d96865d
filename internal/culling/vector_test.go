package culling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorGrowsByFixedIncrement(t *testing.T) {
	v := NewVector[int](4, 0)
	for i := 0; i < 4; i++ {
		require.NoError(t, v.Add(i, nil))
	}
	require.Equal(t, 4, v.Cap())

	require.NoError(t, v.Add(4, nil))
	require.Equal(t, 8, v.Cap())

	for i := 5; i < 9; i++ {
		require.NoError(t, v.Add(i, nil))
	}
	require.Equal(t, 12, v.Cap())
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, v.Items())
}

func TestVectorDefensiveIndexing(t *testing.T) {
	v := NewVector[string](2, 0)
	require.NoError(t, v.Add("a", nil))

	require.Equal(t, "", v.At(-1))
	require.Equal(t, "", v.At(1))
	require.Equal(t, "", v.At(100))

	v.Set(1, "b")
	v.Set(-1, "b")
	require.Equal(t, []string{"a"}, v.Items())

	v.RemoveAt(5, nil)
	v.RemoveAt(-1, nil)
	require.Equal(t, 1, v.Len())
}

func TestVectorSwapRemove(t *testing.T) {
	v := NewVector[string](4, 0)
	var added []int
	for _, s := range []string{"a", "b", "c", "d"} {
		require.NoError(t, v.Add(s, func(_ string, i int) { added = append(added, i) }))
	}
	require.Equal(t, []int{0, 1, 2, 3}, added)

	var moved string
	movedTo := -1
	v.RemoveAt(1, func(s string, i int) { moved, movedTo = s, i })
	require.Equal(t, "d", moved)
	require.Equal(t, 1, movedTo)
	require.Equal(t, []string{"a", "d", "c"}, v.Items())

	// Removing the last element swaps nothing.
	called := false
	v.RemoveAt(2, func(string, int) { called = true })
	require.False(t, called)
	require.Equal(t, []string{"a", "d"}, v.Items())
}

func TestVectorClear(t *testing.T) {
	v := NewVector[int](2, 0)
	for i := 0; i < 5; i++ {
		require.NoError(t, v.Add(i, nil))
	}
	require.Equal(t, 6, v.Cap())

	v.Clear()
	require.Zero(t, v.Len())
	require.Equal(t, 2, v.Cap())
	require.Zero(t, v.At(0))
}

func TestVectorLimit(t *testing.T) {
	v := NewVector[int](2, 3)
	require.NoError(t, v.Add(1, nil))
	require.NoError(t, v.Add(2, nil))
	require.NoError(t, v.Add(3, nil))
	require.Equal(t, 3, v.Cap())

	err := v.Add(4, nil)
	require.True(t, errors.Is(err, ErrRegistryFull))
	require.Equal(t, 3, v.Len())
}
