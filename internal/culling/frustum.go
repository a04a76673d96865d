package culling

import "github.com/go-gl/mathgl/mgl32"

// Plane is n·p + d = 0 with the frustum interior on the positive side.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// SignedDistance is positive on the inner side of the plane.
func (p Plane) SignedDistance(point mgl32.Vec3) float32 {
	return point.Dot(p.Normal) + p.Distance
}

func (p Plane) normalize() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / l), Distance: p.Distance / l}
}

// Plane order inside Planes.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Planes are the six bounding planes of a view frustum.
type Planes [6]Plane

func planeFromRow(v mgl32.Vec4) Plane {
	return Plane{Normal: v.Vec3(), Distance: v.W()}.normalize()
}

// PlanesFromMatrix extracts normalized world-space planes from a combined
// projection*view matrix (Gribb/Hartmann, OpenGL clip space).
func PlanesFromMatrix(m mgl32.Mat4) Planes {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	return Planes{
		PlaneLeft:   planeFromRow(r3.Add(r0)),
		PlaneRight:  planeFromRow(r3.Sub(r0)),
		PlaneBottom: planeFromRow(r3.Add(r1)),
		PlaneTop:    planeFromRow(r3.Sub(r1)),
		PlaneNear:   planeFromRow(r3.Add(r2)),
		PlaneFar:    planeFromRow(r3.Sub(r2)),
	}
}

// TestAABB reports whether the box may intersect the frustum. For each plane
// it tests the box corner furthest along the plane normal; the box is culled
// only when that corner lies behind some plane. Boxes that truly intersect
// are never culled.
func TestAABB(planes *Planes, center, extents mgl32.Vec3) bool {
	for i := range planes {
		n := planes[i].Normal
		corner := center
		for a := 0; a < 3; a++ {
			if n[a] >= 0 {
				corner[a] += extents[a]
			} else {
				corner[a] -= extents[a]
			}
		}
		if corner.Dot(n)+planes[i].Distance < 0 {
			return false
		}
	}
	return true
}
