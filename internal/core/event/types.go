package event

import "github.com/fcsgo/fcs/internal/core/ecs"

// Visibility transition events, emitted by the culling controller during
// Collect. Cycle is the controller's evaluation counter.

type BecameVisible struct {
	EntityID ecs.EntityID
	Name     string
	Cycle    uint64
}

type BecameInvisible struct {
	EntityID ecs.EntityID
	Name     string
	Cycle    uint64
}

// ViewpointChanged fires when the resolved viewpoint differs from the one
// used by the previous evaluation.
type ViewpointChanged struct {
	Name  string
	Cycle uint64
}
