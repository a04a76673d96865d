package system

import "time"

// Phase defines execution ordering within a single tick (one display refresh).
type Phase int

const (
	PhaseEvents     Phase = iota // 0: swap + dispatch last tick's events
	PhaseUpdate                  // 1: movement, camera, spawning
	PhasePostUpdate              // 2: bounds tracking for moved objects
	PhaseLateUpdate              // 3: frustum culling cycle
	PhasePersist                 // 4: journal flush
	PhaseCleanup                 // 5: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhaseLateUpdate:
		return "late_update"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
