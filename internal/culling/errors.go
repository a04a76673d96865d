package culling

import "errors"

var (
	// ErrRegistryFull is returned when growing the dense arrays would exceed
	// the configured capacity ceiling.
	ErrRegistryFull = errors.New("culling registry full")

	// ErrUnknownViewpointMode is returned by ParseViewpointMode.
	ErrUnknownViewpointMode = errors.New("unknown viewpoint mode")
)
