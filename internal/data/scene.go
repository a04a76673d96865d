package data

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Bounds sources, object kinds and projections accepted in scene files.
const (
	SourceRenderers = "renderers"
	SourceColliders = "colliders"
	SourceCustom    = "custom"

	KindStatic  = "static"
	KindDynamic = "dynamic"

	ProjectionPerspective  = "perspective"
	ProjectionOrthographic = "orthographic"
)

// BoxDef is a box relative to its object's position.
type BoxDef struct {
	Center mgl32.Vec3 `yaml:"center"`
	Size   mgl32.Vec3 `yaml:"size"`
}

// OrbitDef moves a camera on a horizontal circle around Center, looking at it.
type OrbitDef struct {
	Center mgl32.Vec3 `yaml:"center"`
	Radius float32    `yaml:"radius"`
	Height float32    `yaml:"height"`
	Speed  float32    `yaml:"speed"` // radians per second
}

type CameraDef struct {
	Name       string     `yaml:"name"`
	Runtime    *bool      `yaml:"runtime,omitempty"` // nil = true; false marks a preview viewpoint
	Enabled    *bool      `yaml:"enabled,omitempty"` // nil = true
	Projection string     `yaml:"projection,omitempty"`
	Position   mgl32.Vec3 `yaml:"position"`
	Target     mgl32.Vec3 `yaml:"target"`
	Up         mgl32.Vec3 `yaml:"up,omitempty"`
	Fov        float32    `yaml:"fov,omitempty"`
	Aspect     float32    `yaml:"aspect,omitempty"`
	Near       float32    `yaml:"near,omitempty"`
	Far        float32    `yaml:"far,omitempty"`
	OrthoSize  float32    `yaml:"ortho_size,omitempty"`
	Orbit      *OrbitDef  `yaml:"orbit,omitempty"`
}

// MoveDef ping-pongs an object between its position and End.
type MoveDef struct {
	End   mgl32.Vec3 `yaml:"end"`
	Speed float32    `yaml:"speed"` // units per second
}

type ObjectDef struct {
	Name         string     `yaml:"name"`
	Kind         string     `yaml:"kind,omitempty"`
	Position     mgl32.Vec3 `yaml:"position"`
	BoundsSource string     `yaml:"bounds_source,omitempty"`
	Margin       *float32   `yaml:"margin,omitempty"` // nil = culling.bounds_margin
	Custom       *BoxDef    `yaml:"custom,omitempty"`
	Renderers    []BoxDef   `yaml:"renderers,omitempty"`
	Colliders    []BoxDef   `yaml:"colliders,omitempty"`
	Behaviours   []string   `yaml:"behaviours,omitempty"`
	Particles    []string   `yaml:"particles,omitempty"`
	Move         *MoveDef   `yaml:"move,omitempty"`
}

// SpawnerDef instantiates Count copies of its templates at random points
// inside Area, one every Delay seconds.
type SpawnerDef struct {
	Name      string      `yaml:"name"`
	Area      BoxDef      `yaml:"area"` // absolute, not relative
	Count     int         `yaml:"count"`
	Delay     float32     `yaml:"delay"`
	Seed      int64       `yaml:"seed,omitempty"`
	Templates []ObjectDef `yaml:"templates"`
}

// SceneDef is one scene file: the cameras, which of them is primary and
// which one renders, the objects to cull and the spawners adding more.
type SceneDef struct {
	Primary   string       `yaml:"primary"`
	Rendering string       `yaml:"rendering,omitempty"` // empty = primary
	Cameras   []CameraDef  `yaml:"cameras"`
	Objects   []ObjectDef  `yaml:"objects"`
	Spawners  []SpawnerDef `yaml:"spawners,omitempty"`
}

// LoadScene loads and validates a scene file.
func LoadScene(path string) (*SceneDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(raw)
}

func ParseScene(raw []byte) (*SceneDef, error) {
	var s SceneDef
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := s.normalize(); err != nil {
		return nil, fmt.Errorf("validate scene: %w", err)
	}
	return &s, nil
}

// EncodeScene writes s as yaml.
func EncodeScene(w io.Writer, s *SceneDef) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return enc.Close()
}

// Camera returns the camera definition named name, or nil.
func (s *SceneDef) Camera(name string) *CameraDef {
	for i := range s.Cameras {
		if s.Cameras[i].Name == name {
			return &s.Cameras[i]
		}
	}
	return nil
}

func (s *SceneDef) normalize() error {
	var errs []error

	cams := make(map[string]bool, len(s.Cameras))
	for i := range s.Cameras {
		c := &s.Cameras[i]
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("camera #%d: missing name", i))
			continue
		}
		if cams[c.Name] {
			errs = append(errs, fmt.Errorf("camera %q: duplicate name", c.Name))
		}
		cams[c.Name] = true
		c.Projection = strings.ToLower(c.Projection)
		switch c.Projection {
		case "":
			c.Projection = ProjectionPerspective
		case ProjectionPerspective, ProjectionOrthographic:
		default:
			errs = append(errs, fmt.Errorf("camera %q: unknown projection %q", c.Name, c.Projection))
		}
	}
	if s.Primary != "" && !cams[s.Primary] {
		errs = append(errs, fmt.Errorf("primary camera %q not defined", s.Primary))
	}
	if s.Rendering == "" {
		s.Rendering = s.Primary
	} else if !cams[s.Rendering] {
		errs = append(errs, fmt.Errorf("rendering camera %q not defined", s.Rendering))
	}

	objs := make(map[string]bool, len(s.Objects))
	for i := range s.Objects {
		o := &s.Objects[i]
		if o.Name == "" {
			o.Name = fmt.Sprintf("object-%d", i)
		}
		if objs[o.Name] {
			errs = append(errs, fmt.Errorf("object %q: duplicate name", o.Name))
		}
		objs[o.Name] = true
		if err := o.normalize(); err != nil {
			errs = append(errs, fmt.Errorf("object %q: %w", o.Name, err))
		}
	}

	for i := range s.Spawners {
		sp := &s.Spawners[i]
		if sp.Name == "" {
			sp.Name = fmt.Sprintf("spawner-%d", i)
		}
		if sp.Count < 0 {
			sp.Count = 0
		}
		if sp.Delay < 0 {
			sp.Delay = 0
		}
		if len(sp.Templates) == 0 {
			errs = append(errs, fmt.Errorf("spawner %q: no templates", sp.Name))
		}
		for j := range sp.Templates {
			if err := sp.Templates[j].normalize(); err != nil {
				errs = append(errs, fmt.Errorf("spawner %q template %d: %w", sp.Name, j, err))
			}
		}
	}
	return errors.Join(errs...)
}

// normalize fills defaults and validates the kind and bounds source.
func (o *ObjectDef) normalize() error {
	var errs []error

	o.Kind = strings.ToLower(o.Kind)
	switch o.Kind {
	case "":
		o.Kind = KindStatic
		if o.Move != nil {
			o.Kind = KindDynamic
		}
	case KindStatic, KindDynamic:
	default:
		errs = append(errs, fmt.Errorf("unknown kind %q", o.Kind))
	}

	o.BoundsSource = strings.ToLower(o.BoundsSource)
	switch o.BoundsSource {
	case "":
		o.BoundsSource = SourceRenderers
		if o.Custom != nil {
			o.BoundsSource = SourceCustom
		}
	case SourceRenderers, SourceColliders:
	case SourceCustom:
		if o.Custom == nil {
			errs = append(errs, errors.New("custom bounds source without custom box"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown bounds source %q", o.BoundsSource))
	}

	if o.Margin != nil && *o.Margin < 0 {
		zero := float32(0)
		o.Margin = &zero
	}
	return errors.Join(errs...)
}
