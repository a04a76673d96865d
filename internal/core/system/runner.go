package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// keep their registration order.
type Runner struct {
	systems []System
	sorted  bool
	ticks   uint64
	observe func(Phase, time.Duration)
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Observe installs a callback receiving the wall time spent in each phase
// that has at least one system. Pass nil to remove it.
func (r *Runner) Observe(fn func(Phase, time.Duration)) { r.observe = fn }

// Ticks returns how many full ticks have run.
func (r *Runner) Ticks() uint64 { return r.ticks }

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	if r.observe == nil {
		for _, s := range r.systems {
			s.Update(dt)
		}
		r.ticks++
		return
	}

	i := 0
	for i < len(r.systems) {
		phase := r.systems[i].Phase()
		start := time.Now()
		for i < len(r.systems) && r.systems[i].Phase() == phase {
			r.systems[i].Update(dt)
			i++
		}
		r.observe(phase, time.Since(start))
	}
	r.ticks++
}

// TickPhase runs only the systems of one phase. Used by the host to flush
// persistence on shutdown without advancing the simulation.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
