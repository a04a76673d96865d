package culling

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestRegistryCapacityFloor(t *testing.T) {
	r := NewRegistry(4, 0)
	require.Equal(t, MinCapacity, r.Capacity())
}

func TestRegistrySwapRemoveScenario(t *testing.T) {
	r := NewRegistry(0, 0)
	a, _ := newTestObject("a", mgl32.Vec3{0, 0, 1})
	b, _ := newTestObject("b", mgl32.Vec3{0, 0, 2})
	c, _ := newTestObject("c", mgl32.Vec3{0, 0, 3})

	for i, o := range []*Object{a, b, c} {
		slot, err := r.Add(o)
		require.NoError(t, err)
		require.Equal(t, i, slot)
	}
	require.Equal(t, 3, r.Count())

	before := r.Record(2)
	r.RemoveAt(0)

	require.Equal(t, 2, r.Count())
	require.Equal(t, -1, a.Slot())
	require.Equal(t, 0, c.Slot())
	require.Equal(t, 1, b.Slot())
	require.Same(t, c, r.Get(0))
	require.Equal(t, before, r.Record(0))
}

func TestRegistryParallelArraysStayPaired(t *testing.T) {
	r := NewRegistry(0, 0)
	objs := make([]*Object, 0, 100)
	for i := 0; i < 100; i++ {
		o, _ := newTestObject("o", mgl32.Vec3{float32(i), 0, 0})
		_, err := r.Add(o)
		require.NoError(t, err)
		objs = append(objs, o)
	}
	require.Equal(t, 128, r.Capacity())

	for i := 0; i < 100; i += 3 {
		r.RemoveAt(objs[i].Slot())
	}

	r.Each(func(slot int, o *Object, rec BoundsRecord) {
		require.Equal(t, slot, o.Slot())
		require.Equal(t, o.Bounds().Center, rec.Center)
	})
	for i, o := range objs {
		if i%3 == 0 {
			require.Equal(t, -1, o.Slot())
		} else {
			require.GreaterOrEqual(t, o.Slot(), 0)
		}
	}
}

func TestRegistryAddIsIdempotent(t *testing.T) {
	r := NewRegistry(0, 0)
	o, _ := newTestObject("a", mgl32.Vec3{})
	_, err := r.Add(o)
	require.NoError(t, err)
	slot, err := r.Add(o)
	require.NoError(t, err)
	require.Equal(t, 0, slot)
	require.Equal(t, 1, r.Count())
}

func TestRegistryOutOfRange(t *testing.T) {
	r := NewRegistry(0, 0)
	require.Nil(t, r.Get(0))
	require.Nil(t, r.Get(-1))
	require.Equal(t, BoundsRecord{}, r.Record(3))

	r.ReplaceBoundsAt(0, BoundsRecord{Center: mgl32.Vec3{1, 1, 1}})
	r.RemoveAt(0)
	r.RemoveAt(-1)
	require.Zero(t, r.Count())
}

func TestRegistryReplaceBoundsKeepsVisibility(t *testing.T) {
	r := NewRegistry(0, 0)
	o, _ := newTestObject("a", mgl32.Vec3{})
	_, err := r.Add(o)
	require.NoError(t, err)
	r.Records()[0].Visible = true

	r.ReplaceBoundsAt(0, BoundsRecord{Center: mgl32.Vec3{4, 5, 6}, Extents: mgl32.Vec3{1, 1, 1}})
	rec := r.Record(0)
	require.True(t, rec.Visible)
	require.Equal(t, mgl32.Vec3{4, 5, 6}, rec.Center)
	require.Equal(t, mgl32.Vec3{1, 1, 1}, rec.Extents)
}

func TestRegistryFull(t *testing.T) {
	r := NewRegistry(MinCapacity, MinCapacity)
	for i := 0; i < MinCapacity; i++ {
		o, _ := newTestObject("o", mgl32.Vec3{})
		_, err := r.Add(o)
		require.NoError(t, err)
	}

	extra, _ := newTestObject("extra", mgl32.Vec3{})
	_, err := r.Add(extra)
	require.True(t, errors.Is(err, ErrRegistryFull))
	require.Equal(t, -1, extra.Slot())
	require.Equal(t, MinCapacity, r.Count())
	require.Equal(t, r.Count(), len(r.Records()))
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry(0, 0)
	a, _ := newTestObject("a", mgl32.Vec3{})
	b, _ := newTestObject("b", mgl32.Vec3{})
	_, _ = r.Add(a)
	_, _ = r.Add(b)

	r.Clear()
	require.Zero(t, r.Count())
	require.Equal(t, -1, a.Slot())
	require.Equal(t, -1, b.Slot())
	require.Equal(t, MinCapacity, r.Capacity())
}
