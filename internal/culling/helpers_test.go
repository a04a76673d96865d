package culling

import (
	"github.com/go-gl/mathgl/mgl32"
)

// testOwner implements every owner capability and records presenter calls.
type testOwner struct {
	anchor  mgl32.Vec3
	bounds  AABB
	measure bool
	shown   []bool
}

func (o *testOwner) Anchor() mgl32.Vec3 { return o.anchor }

func (o *testOwner) CalculateBounds() (AABB, bool) { return o.bounds, o.measure }

func (o *testOwner) SetVisible(v bool) { o.shown = append(o.shown, v) }

func newTestObject(name string, center mgl32.Vec3) (*Object, *testOwner) {
	owner := &testOwner{anchor: center}
	o := NewObject(owner, ObjectOptions{Name: name})
	o.SetBounds(AABB{Center: center, Extents: mgl32.Vec3{0.5, 0.5, 0.5}})
	return o, owner
}

// boxFrustum bounds x∈[-1,1], y∈[-1,1], z∈[0,10].
func boxFrustum() Planes {
	return Planes{
		PlaneLeft:   {Normal: mgl32.Vec3{1, 0, 0}, Distance: 1},
		PlaneRight:  {Normal: mgl32.Vec3{-1, 0, 0}, Distance: 1},
		PlaneBottom: {Normal: mgl32.Vec3{0, 1, 0}, Distance: 1},
		PlaneTop:    {Normal: mgl32.Vec3{0, -1, 0}, Distance: 1},
		PlaneNear:   {Normal: mgl32.Vec3{0, 0, 1}, Distance: 0},
		PlaneFar:    {Normal: mgl32.Vec3{0, 0, -1}, Distance: 10},
	}
}

// boxCamera is an orthographic runtime camera whose frustum is boxFrustum.
func boxCamera(name string) *Camera {
	c := NewCamera(name, true)
	c.Mode = Orthographic
	c.OrthoSize = 1
	c.Aspect = 1
	c.Near = 0
	c.Far = 10
	return c
}

type testSource struct {
	primary   Viewpoint
	rendering Viewpoint
}

func (s *testSource) Primary() Viewpoint   { return s.primary }
func (s *testSource) Rendering() Viewpoint { return s.rendering }
