package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r *recorder) Phase() Phase { return r.phase }

func (r *recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerPhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recorder{name: "cleanup", phase: PhaseCleanup, log: &log})
	r.Register(&recorder{name: "cull", phase: PhaseLateUpdate, log: &log})
	r.Register(&recorder{name: "move", phase: PhaseUpdate, log: &log})
	r.Register(&recorder{name: "orbit", phase: PhaseUpdate, log: &log})
	r.Register(&recorder{name: "events", phase: PhaseEvents, log: &log})

	r.Tick(16 * time.Millisecond)
	require.Equal(t, []string{"events", "move", "orbit", "cull", "cleanup"}, log)
	require.Equal(t, uint64(1), r.Ticks())
}

func TestRunnerTickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recorder{name: "journal", phase: PhasePersist, log: &log})
	r.Register(&recorder{name: "cull", phase: PhaseLateUpdate, log: &log})

	r.TickPhase(PhasePersist, 0)
	require.Equal(t, []string{"journal"}, log)
	require.Zero(t, r.Ticks())
}

func TestRunnerObserve(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recorder{name: "cull", phase: PhaseLateUpdate, log: &log})
	r.Register(&recorder{name: "move", phase: PhaseUpdate, log: &log})
	r.Register(&recorder{name: "orbit", phase: PhaseUpdate, log: &log})

	var phases []Phase
	r.Observe(func(p Phase, d time.Duration) {
		require.GreaterOrEqual(t, d, time.Duration(0))
		phases = append(phases, p)
	})
	r.Tick(time.Millisecond)
	require.Equal(t, []Phase{PhaseUpdate, PhaseLateUpdate}, phases)
	require.Equal(t, []string{"move", "orbit", "cull"}, log)

	r.Observe(nil)
	r.Tick(time.Millisecond)
	require.Len(t, phases, 2)
	require.Equal(t, uint64(2), r.Ticks())
}
