package culling

import "github.com/go-gl/mathgl/mgl32"

// AABB is an axis-aligned box stored as center and half extents.
type AABB struct {
	Center  mgl32.Vec3
	Extents mgl32.Vec3
}

// NewAABB builds a box from its center and full size.
func NewAABB(center, size mgl32.Vec3) AABB {
	return AABB{Center: center, Extents: size.Mul(0.5)}
}

// AABBFromMinMax builds a box from two opposite corners.
func AABBFromMinMax(lo, hi mgl32.Vec3) AABB {
	return AABB{
		Center:  lo.Add(hi).Mul(0.5),
		Extents: hi.Sub(lo).Mul(0.5),
	}
}

func (b AABB) Min() mgl32.Vec3  { return b.Center.Sub(b.Extents) }
func (b AABB) Max() mgl32.Vec3  { return b.Center.Add(b.Extents) }
func (b AABB) Size() mgl32.Vec3 { return b.Extents.Mul(2) }

// Encapsulate returns the smallest box containing both b and o.
func (b AABB) Encapsulate(o AABB) AABB {
	lo, hi := b.Min(), b.Max()
	olo, ohi := o.Min(), o.Max()
	for i := 0; i < 3; i++ {
		lo[i] = min(lo[i], olo[i])
		hi[i] = max(hi[i], ohi[i])
	}
	return AABBFromMinMax(lo, hi)
}

// Expand grows the box's size by amount on every axis, so each face moves
// out by amount/2.
func (b AABB) Expand(amount float32) AABB {
	half := amount * 0.5
	b.Extents = b.Extents.Add(mgl32.Vec3{half, half, half})
	return b
}

// Contains reports whether point lies inside or on the box.
func (b AABB) Contains(point mgl32.Vec3) bool {
	lo, hi := b.Min(), b.Max()
	for i := 0; i < 3; i++ {
		if point[i] < lo[i] || point[i] > hi[i] {
			return false
		}
	}
	return true
}

// BoundsRecord is the packed per-slot data the Evaluator reads and writes.
// Visible holds the result of the most recently completed evaluation.
type BoundsRecord struct {
	Visible bool
	Center  mgl32.Vec3
	Extents mgl32.Vec3
}

// RecordFor returns a fresh, not-yet-evaluated record for b.
func RecordFor(b AABB) BoundsRecord {
	return BoundsRecord{Center: b.Center, Extents: b.Extents}
}

func (r BoundsRecord) Bounds() AABB {
	return AABB{Center: r.Center, Extents: r.Extents}
}
