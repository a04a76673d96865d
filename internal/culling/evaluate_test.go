package culling

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestEvaluatorChunkSize(t *testing.T) {
	e := NewEvaluator(4)
	require.Equal(t, 4, e.Workers())
	require.Equal(t, 250, e.ChunkSize(1000))
	require.Equal(t, 251, e.ChunkSize(1001))
	require.Equal(t, minChunk, e.ChunkSize(10))

	require.Positive(t, NewEvaluator(0).Workers())
}

func TestEvaluatorMatchesSerialTest(t *testing.T) {
	planes := boxFrustum()
	rnd := rand.New(rand.NewSource(3))

	records := make([]BoundsRecord, 10000)
	for i := range records {
		records[i] = BoundsRecord{
			Visible: rnd.Intn(2) == 0,
			Center:  mgl32.Vec3{rnd.Float32()*6 - 3, rnd.Float32()*6 - 3, rnd.Float32()*16 - 3},
			Extents: mgl32.Vec3{rnd.Float32(), rnd.Float32(), rnd.Float32()},
		}
	}

	for _, workers := range []int{1, 3, 8} {
		recs := append([]BoundsRecord(nil), records...)
		NewEvaluator(workers).Evaluate(&planes, recs)
		for i, r := range recs {
			require.Equal(t, TestAABB(&planes, r.Center, r.Extents), r.Visible, "record %d workers %d", i, workers)
			require.Equal(t, records[i].Center, r.Center)
		}
	}
}

func TestEvaluatorEmpty(t *testing.T) {
	planes := boxFrustum()
	NewEvaluator(4).Evaluate(&planes, nil)
}
