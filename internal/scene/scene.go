package scene

import (
	"errors"
	"fmt"

	"github.com/fcsgo/fcs/internal/core/ecs"
	"github.com/fcsgo/fcs/internal/culling"
	"github.com/fcsgo/fcs/internal/data"
	"go.uber.org/zap"
)

var ErrUnknownCamera = errors.New("unknown camera")

// Culler is the part of the culling controller the scene drives.
type Culler interface {
	Register(o *culling.Object) error
	Unregister(o *culling.Object)
	UpdateBounds(o *culling.Object)
}

// Scene owns the host objects and cameras. It is the controller's
// ViewpointSource and registers objects with it as they are enabled,
// disabled and destroyed. Tick goroutine only.
type Scene struct {
	world  *ecs.World
	culler Culler
	log    *zap.Logger
	margin float32

	objects *ecs.Store[Object]
	byName  map[string]ecs.EntityID

	cameras   []*culling.Camera
	primary   *culling.Camera
	rendering *culling.Camera

	hooks []culling.BoundsHook
}

// New creates an empty scene whose objects pad their bounds by margin unless
// their definition overrides it.
func New(world *ecs.World, margin float32, log *zap.Logger) *Scene {
	s := &Scene{
		world:   world,
		log:     log,
		margin:  margin,
		objects: ecs.NewStore[Object](),
		byName:  make(map[string]ecs.EntityID),
	}
	world.Attach(s.objects)
	world.OnDestroy(s.onDestroy)
	return s
}

// Bind attaches the culler objects are registered with. Objects enabled
// before Bind are registered now.
func (s *Scene) Bind(c Culler) error {
	s.culler = c
	var errs []error
	s.objects.Each(func(_ ecs.EntityID, o *Object) {
		if o.enabled {
			errs = append(errs, c.Register(o.Culling))
		}
	})
	return errors.Join(errs...)
}

// Primary returns the primary camera. A nil interface, never a typed nil,
// when there is none.
func (s *Scene) Primary() culling.Viewpoint {
	if s.primary == nil {
		return nil
	}
	return s.primary
}

func (s *Scene) Rendering() culling.Viewpoint {
	if s.rendering == nil {
		return nil
	}
	return s.rendering
}

func (s *Scene) AddCamera(c *culling.Camera) {
	s.cameras = append(s.cameras, c)
}

func (s *Scene) Camera(name string) *culling.Camera {
	for _, c := range s.cameras {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func (s *Scene) Cameras() []*culling.Camera { return s.cameras }

// SetPrimary selects the primary camera; an empty name clears it.
func (s *Scene) SetPrimary(name string) error {
	c, err := s.lookupCamera(name)
	if err != nil {
		return err
	}
	s.primary = c
	return nil
}

// SetRendering selects the camera currently rendering; an empty name clears it.
func (s *Scene) SetRendering(name string) error {
	c, err := s.lookupCamera(name)
	if err != nil {
		return err
	}
	s.rendering = c
	return nil
}

func (s *Scene) lookupCamera(name string) (*culling.Camera, error) {
	if name == "" {
		return nil, nil
	}
	c := s.Camera(name)
	if c == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownCamera)
	}
	return c, nil
}

// AddBoundsHook installs h on every object spawned afterwards.
func (s *Scene) AddBoundsHook(h culling.BoundsHook) {
	s.hooks = append(s.hooks, h)
}

// Spawn creates an object from def, measures its bounds and enables it.
func (s *Scene) Spawn(def data.ObjectDef) (*Object, error) {
	if _, dup := s.byName[def.Name]; dup {
		return nil, fmt.Errorf("spawn %s: duplicate object name", def.Name)
	}
	kind := culling.KindStatic
	if def.Kind == data.KindDynamic {
		kind = culling.KindDynamic
	}
	margin := s.margin
	if def.Margin != nil {
		margin = *def.Margin
	}

	id := s.world.CreateEntity()
	o, err := newObject(id, def)
	if err != nil {
		s.world.Pool().Destroy(id)
		return nil, err
	}
	o.Culling = culling.NewObject(o, culling.ObjectOptions{
		ID:     id,
		Name:   def.Name,
		Kind:   kind,
		Margin: margin,
	})
	for _, h := range s.hooks {
		o.Culling.AddBoundsHook(h)
	}
	if o.source == SourceCustom {
		o.Culling.SetBounds(o.customBounds())
	} else {
		o.Culling.RecalculateBounds()
	}

	s.objects.Set(id, o)
	s.byName[o.Name] = id
	if err := s.Enable(o); err != nil {
		s.world.MarkForDestruction(id)
		return nil, fmt.Errorf("spawn %s: %w", def.Name, err)
	}
	return o, nil
}

// Enable re-derives the bounds center from the current position and
// registers the object for culling.
func (s *Scene) Enable(o *Object) error {
	if o.enabled {
		return nil
	}
	o.Culling.Recenter()
	if s.culler != nil {
		if err := s.culler.Register(o.Culling); err != nil {
			return err
		}
	}
	o.enabled = true
	return nil
}

// Disable unregisters the object. Its last visibility is left as is.
func (s *Scene) Disable(o *Object) {
	if !o.enabled {
		return
	}
	o.enabled = false
	if s.culler != nil {
		s.culler.Unregister(o.Culling)
	}
}

// Destroy queues the object for end-of-tick removal.
func (s *Scene) Destroy(o *Object) {
	s.world.MarkForDestruction(o.ID)
}

func (s *Scene) onDestroy(id ecs.EntityID) {
	o, ok := s.objects.Get(id)
	if !ok {
		return
	}
	s.Disable(o)
	delete(s.byName, o.Name)
}

// Recalculate re-measures o's bounds and pushes them to the registry.
func (s *Scene) Recalculate(o *Object) bool {
	if !o.Culling.RecalculateBounds() {
		return false
	}
	if s.culler != nil {
		s.culler.UpdateBounds(o.Culling)
	}
	return true
}

// AddRenderers appends renderers and re-measures unless bounds are custom.
func (s *Scene) AddRenderers(o *Object, rs ...*Renderer) {
	o.Renderers = append(o.Renderers, rs...)
	if o.source != SourceCustom {
		s.Recalculate(o)
	}
}

// AddColliders appends colliders and re-measures unless bounds are custom.
func (s *Scene) AddColliders(o *Object, cs ...*Collider) {
	o.Colliders = append(o.Colliders, cs...)
	if o.source != SourceCustom {
		s.Recalculate(o)
	}
}

func (s *Scene) Object(id ecs.EntityID) (*Object, bool) {
	return s.objects.Get(id)
}

func (s *Scene) Lookup(name string) (*Object, bool) {
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.objects.Get(id)
}

func (s *Scene) Each(fn func(*Object)) {
	s.objects.Each(func(_ ecs.EntityID, o *Object) { fn(o) })
}

func (s *Scene) Len() int { return s.objects.Len() }

// NewCamera builds a camera from its definition. Zero lens fields keep the
// camera defaults.
func NewCamera(def data.CameraDef) *culling.Camera {
	runtime := def.Runtime == nil || *def.Runtime
	c := culling.NewCamera(def.Name, runtime)
	c.SetEnabled(def.Enabled == nil || *def.Enabled)
	c.Position = def.Position
	c.Target = def.Target
	if def.Up.Len() > 0 {
		c.Up = def.Up
	}
	if def.Projection == data.ProjectionOrthographic {
		c.Mode = culling.Orthographic
	}
	if def.Fov > 0 {
		c.FovY = def.Fov
	}
	if def.Aspect > 0 {
		c.Aspect = def.Aspect
	}
	if def.Near > 0 {
		c.Near = def.Near
	}
	if def.Far > 0 {
		c.Far = def.Far
	}
	if def.OrthoSize > 0 {
		c.OrthoSize = def.OrthoSize
	}
	return c
}

// Load adds the cameras and spawns the objects of def. Spawn failures are
// logged and skipped; the number of spawned objects is returned.
func (s *Scene) Load(def *data.SceneDef) (int, error) {
	for _, cd := range def.Cameras {
		s.AddCamera(NewCamera(cd))
	}
	if err := s.SetPrimary(def.Primary); err != nil {
		return 0, fmt.Errorf("primary camera: %w", err)
	}
	if err := s.SetRendering(def.Rendering); err != nil {
		return 0, fmt.Errorf("rendering camera: %w", err)
	}

	n := 0
	for _, od := range def.Objects {
		if _, err := s.Spawn(od); err != nil {
			s.log.Warn("spawn failed", zap.String("object", od.Name), zap.Error(err))
			continue
		}
		n++
	}
	return n, nil
}
