package main

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/fcsgo/fcs/internal/data"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesValidScene(t *testing.T) {
	s := generate(50, rand.New(rand.NewSource(3)))
	require.Len(t, s.Objects, 50)

	var buf bytes.Buffer
	require.NoError(t, data.EncodeScene(&buf, s))
	back, err := data.ParseScene(buf.Bytes())
	require.NoError(t, err)

	require.Equal(t, "main", back.Primary)
	require.Len(t, back.Objects, 50)
	require.Len(t, back.Spawners, 1)
	require.Equal(t, 5, back.Spawners[0].Count)

	movers := 0
	for _, o := range back.Objects {
		if o.Move != nil {
			movers++
			require.Equal(t, data.KindDynamic, o.Kind)
		}
	}
	require.Equal(t, 5, movers)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := generate(20, rand.New(rand.NewSource(9)))
	b := generate(20, rand.New(rand.NewSource(9)))
	require.Equal(t, a, b)
}
