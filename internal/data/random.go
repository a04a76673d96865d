package data

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// RandomPoint returns a uniformly distributed point inside area.
func RandomPoint(rnd *rand.Rand, area BoxDef) mgl32.Vec3 {
	var p mgl32.Vec3
	for i := 0; i < 3; i++ {
		half := area.Size[i] * 0.5
		p[i] = area.Center[i] - half + rnd.Float32()*area.Size[i]
	}
	return p
}

// Instantiate copies template to position under name. Slices are shared
// with the template; they are never mutated after load.
func Instantiate(template ObjectDef, name string, position mgl32.Vec3) ObjectDef {
	o := template
	o.Name = name
	o.Position = position
	if template.Move != nil {
		// Keep the ping-pong leg relative to the new start.
		m := *template.Move
		m.End = position.Add(template.Move.End.Sub(template.Position))
		o.Move = &m
	}
	return o
}
