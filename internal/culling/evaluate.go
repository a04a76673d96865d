package culling

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps tiny batches from being split into goroutine-per-handful work.
const minChunk = 32

// Evaluator runs the AABB-vs-frustum test over packed bounds records.
// Records are independent, so a pass is split into contiguous chunks run on
// at most Workers goroutines and joined before Evaluate returns.
type Evaluator struct {
	workers int
}

// NewEvaluator sizes the pool; workers <= 0 means one per CPU.
func NewEvaluator(workers int) *Evaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Evaluator{workers: workers}
}

func (e *Evaluator) Workers() int { return e.workers }

// ChunkSize is ceil(n / workers), floored at minChunk.
func (e *Evaluator) ChunkSize(n int) int {
	chunk := (n + e.workers - 1) / e.workers
	if chunk < minChunk {
		chunk = minChunk
	}
	return chunk
}

// Evaluate writes Visible on every record. It blocks until all chunks finish.
func (e *Evaluator) Evaluate(planes *Planes, records []BoundsRecord) {
	n := len(records)
	if n == 0 {
		return
	}
	chunk := e.ChunkSize(n)
	if chunk >= n {
		evaluateRange(planes, records)
		return
	}

	p := *planes
	var g errgroup.Group
	g.SetLimit(e.workers)
	for start := 0; start < n; start += chunk {
		part := records[start:min(start+chunk, n)]
		g.Go(func() error {
			evaluateRange(&p, part)
			return nil
		})
	}
	_ = g.Wait()
}

func evaluateRange(planes *Planes, records []BoundsRecord) {
	for i := range records {
		r := &records[i]
		r.Visible = TestAABB(planes, r.Center, r.Extents)
	}
}
