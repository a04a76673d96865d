package system

import (
	"time"

	coresys "github.com/fcsgo/fcs/internal/core/system"
	"github.com/fcsgo/fcs/internal/scene"
)

// TrackingSystem re-centers the bounds of dynamic objects that moved this
// tick and pushes them to the culling registry. Phase 2 (PostUpdate).
type TrackingSystem struct {
	scene  *scene.Scene
	culler scene.Culler
	moved  int
}

func NewTrackingSystem(s *scene.Scene, culler scene.Culler) *TrackingSystem {
	return &TrackingSystem{scene: s, culler: culler}
}

func (s *TrackingSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

// Moved returns how many objects were re-centered by the last update.
func (s *TrackingSystem) Moved() int { return s.moved }

func (s *TrackingSystem) Update(_ time.Duration) {
	s.moved = 0
	s.scene.Each(func(o *scene.Object) {
		if !o.Enabled() || !o.Culling.Track() {
			return
		}
		s.culler.UpdateBounds(o.Culling)
		s.moved++
	})
}
