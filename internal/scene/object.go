package scene

import (
	"fmt"

	"github.com/fcsgo/fcs/internal/core/ecs"
	"github.com/fcsgo/fcs/internal/culling"
	"github.com/fcsgo/fcs/internal/data"
	"github.com/go-gl/mathgl/mgl32"
)

// BoundsSource selects what an object's bounds are measured from.
type BoundsSource uint8

const (
	SourceRenderers BoundsSource = iota
	SourceColliders
	SourceCustom
)

func (s BoundsSource) String() string {
	switch s {
	case SourceColliders:
		return data.SourceColliders
	case SourceCustom:
		return data.SourceCustom
	}
	return data.SourceRenderers
}

func ParseBoundsSource(s string) (BoundsSource, error) {
	switch s {
	case data.SourceRenderers, "":
		return SourceRenderers, nil
	case data.SourceColliders:
		return SourceColliders, nil
	case data.SourceCustom:
		return SourceCustom, nil
	}
	return SourceRenderers, fmt.Errorf("unknown bounds source %q", s)
}

// Object is a scene entity with a position and presentation elements. It is
// the owner of its culling.Object: it anchors it, measures its bounds and
// presents its visibility. All methods belong to the tick goroutine.
type Object struct {
	ID   ecs.EntityID
	Name string

	position mgl32.Vec3
	source   BoundsSource
	custom   culling.AABB
	enabled  bool

	Renderers  []*Renderer
	Colliders  []*Collider
	Behaviours []*Behaviour
	Particles  []*ParticleSystem

	Culling *culling.Object
}

func (o *Object) Anchor() mgl32.Vec3         { return o.position }
func (o *Object) Position() mgl32.Vec3       { return o.position }
func (o *Object) SetPosition(p mgl32.Vec3)   { o.position = p }
func (o *Object) BoundsSource() BoundsSource { return o.source }
func (o *Object) Enabled() bool              { return o.enabled }

// CalculateBounds encapsulates the world-space boxes of the selected source.
// Custom bounds and empty sources report false so the current bounds stay.
func (o *Object) CalculateBounds() (culling.AABB, bool) {
	var boxes []culling.AABB
	switch o.source {
	case SourceRenderers:
		for _, r := range o.Renderers {
			boxes = append(boxes, r.Local)
		}
	case SourceColliders:
		for _, c := range o.Colliders {
			boxes = append(boxes, c.Local)
		}
	default:
		return culling.AABB{}, false
	}
	if len(boxes) == 0 {
		return culling.AABB{}, false
	}
	b := boxes[0]
	for _, other := range boxes[1:] {
		b = b.Encapsulate(other)
	}
	b.Center = b.Center.Add(o.position)
	return b, true
}

// customBounds is the custom box placed at the current position.
func (o *Object) customBounds() culling.AABB {
	b := o.custom
	b.Center = b.Center.Add(o.position)
	return b
}

// SetVisible toggles every presentation element.
func (o *Object) SetVisible(visible bool) {
	for _, r := range o.Renderers {
		r.Enabled = visible
	}
	for _, b := range o.Behaviours {
		b.Enabled = visible
	}
	for _, p := range o.Particles {
		if visible {
			p.Play()
		} else {
			p.Stop()
		}
	}
}

func boxFromDef(d data.BoxDef) culling.AABB {
	return culling.NewAABB(d.Center, d.Size)
}

func newObject(id ecs.EntityID, def data.ObjectDef) (*Object, error) {
	src, err := ParseBoundsSource(def.BoundsSource)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", def.Name, err)
	}
	o := &Object{
		ID:       id,
		Name:     def.Name,
		position: def.Position,
		source:   src,
	}
	if def.Custom != nil {
		o.custom = boxFromDef(*def.Custom)
	}
	for i, r := range def.Renderers {
		o.Renderers = append(o.Renderers, &Renderer{
			Name:    fmt.Sprintf("%s/renderer-%d", def.Name, i),
			Local:   boxFromDef(r),
			Enabled: true,
		})
	}
	for _, c := range def.Colliders {
		o.Colliders = append(o.Colliders, &Collider{Local: boxFromDef(c)})
	}
	for _, name := range def.Behaviours {
		o.Behaviours = append(o.Behaviours, &Behaviour{Name: name, Enabled: true})
	}
	for _, name := range def.Particles {
		o.Particles = append(o.Particles, &ParticleSystem{Name: name, Emitting: true})
	}
	return o, nil
}
