package culling

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Viewpoint is anything with a projection the controller can cull against.
type Viewpoint interface {
	Name() string
	ViewProjection() mgl32.Mat4
	// IsRuntime is false for preview/editor-only viewpoints, which are
	// never evaluated against.
	IsRuntime() bool
	IsActive() bool
}

// ViewpointSource supplies the host's primary and currently-rendering
// viewpoints. Either may return nil.
type ViewpointSource interface {
	Primary() Viewpoint
	Rendering() Viewpoint
}

// ViewpointMode selects which viewpoint the controller resolves each cycle.
type ViewpointMode uint8

const (
	ViewpointPrimary ViewpointMode = iota
	ViewpointRendering
	ViewpointExplicit
)

func (m ViewpointMode) String() string {
	switch m {
	case ViewpointRendering:
		return "rendering"
	case ViewpointExplicit:
		return "explicit"
	}
	return "primary"
}

// ParseViewpointMode accepts the config spellings primary, rendering and explicit.
func ParseViewpointMode(s string) (ViewpointMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "primary", "main":
		return ViewpointPrimary, nil
	case "rendering", "current":
		return ViewpointRendering, nil
	case "explicit", "selected":
		return ViewpointExplicit, nil
	}
	return ViewpointPrimary, fmt.Errorf("%q: %w", s, ErrUnknownViewpointMode)
}

// ProjectionMode picks a camera's projection.
type ProjectionMode uint8

const (
	Perspective ProjectionMode = iota
	Orthographic
)

// Camera is a concrete Viewpoint. Fields are read by the controller on the
// tick goroutine and must only be changed there.
type Camera struct {
	name    string
	runtime bool
	enabled bool

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	Mode      ProjectionMode
	FovY      float32 // degrees
	Aspect    float32
	Near      float32
	Far       float32
	OrthoSize float32 // half height of the orthographic volume
}

// NewCamera returns an enabled perspective camera at the origin looking down +Z.
func NewCamera(name string, runtime bool) *Camera {
	return &Camera{
		name:      name,
		runtime:   runtime,
		enabled:   true,
		Target:    mgl32.Vec3{0, 0, 1},
		Up:        mgl32.Vec3{0, 1, 0},
		FovY:      60,
		Aspect:    16.0 / 9.0,
		Near:      0.3,
		Far:       1000,
		OrthoSize: 5,
	}
}

func (c *Camera) Name() string       { return c.name }
func (c *Camera) IsRuntime() bool    { return c.runtime }
func (c *Camera) IsActive() bool     { return c.enabled }
func (c *Camera) SetEnabled(on bool) { c.enabled = on }
func (c *Camera) View() mgl32.Mat4   { return mgl32.LookAtV(c.Position, c.Target, c.Up) }
func (c *Camera) String() string     { return c.name }

func (c *Camera) Projection() mgl32.Mat4 {
	if c.Mode == Orthographic {
		h := c.OrthoSize
		w := h * c.Aspect
		return mgl32.Ortho(-w, w, -h, h, c.Near, c.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}
