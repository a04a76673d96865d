package system

import (
	"math"
	"time"

	coresys "github.com/fcsgo/fcs/internal/core/system"
	"github.com/fcsgo/fcs/internal/culling"
	"github.com/go-gl/mathgl/mgl32"
)

type orbit struct {
	cam    *culling.Camera
	center mgl32.Vec3
	radius float32
	height float32
	speed  float32 // radians per second
	angle  float32
}

// OrbitSystem circles cameras around a point, always looking at it.
// Phase 1 (Update).
type OrbitSystem struct {
	orbits []*orbit
}

func NewOrbitSystem() *OrbitSystem {
	return &OrbitSystem{}
}

func (s *OrbitSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Add puts cam on an orbit, starting from its current bearing to center.
func (s *OrbitSystem) Add(cam *culling.Camera, center mgl32.Vec3, radius, height, speed float32) {
	d := cam.Position.Sub(center)
	angle := float32(math.Atan2(float64(d[2]), float64(d[0])))
	o := &orbit{cam: cam, center: center, radius: radius, height: height, speed: speed, angle: angle}
	o.place()
	s.orbits = append(s.orbits, o)
}

func (s *OrbitSystem) Len() int { return len(s.orbits) }

func (s *OrbitSystem) Update(dt time.Duration) {
	step := float32(dt.Seconds())
	for _, o := range s.orbits {
		o.angle += o.speed * step
		o.place()
	}
}

func (o *orbit) place() {
	sin, cos := math.Sincos(float64(o.angle))
	o.cam.Position = o.center.Add(mgl32.Vec3{
		float32(cos) * o.radius,
		o.height,
		float32(sin) * o.radius,
	})
	o.cam.Target = o.center
}
