package data

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const sampleScene = `
primary: main
cameras:
  - name: main
    position: [0, 2, -10]
    target: [0, 0, 0]
    orbit:
      center: [0, 0, 0]
      radius: 10
      speed: 0.5
  - name: editor
    runtime: false
    projection: Orthographic
    position: [0, 50, 0]
    target: [0, 0, 0]
    up: [0, 0, 1]
objects:
  - name: crate
    position: [1, 0, 1]
    renderers:
      - center: [0, 0.5, 0]
        size: [1, 1, 1]
    behaviours: [animator]
  - name: mover
    position: [-5, 0, 0]
    colliders:
      - size: [2, 2, 2]
    bounds_source: colliders
    margin: -3
    move:
      end: [5, 0, 0]
      speed: 2
  - name: sign
    custom:
      center: [0, 3, 0]
      size: [4, 2, 0.2]
    particles: [sparks]
`

func TestParseScene(t *testing.T) {
	s, err := ParseScene([]byte(sampleScene))
	require.NoError(t, err)

	require.Equal(t, "main", s.Primary)
	require.Equal(t, "main", s.Rendering)
	require.Len(t, s.Cameras, 2)
	require.Equal(t, ProjectionPerspective, s.Cameras[0].Projection)
	require.Equal(t, ProjectionOrthographic, s.Cameras[1].Projection)
	require.False(t, *s.Cameras[1].Runtime)
	require.Nil(t, s.Cameras[0].Runtime)
	require.Equal(t, float32(10), s.Camera("main").Orbit.Radius)
	require.Nil(t, s.Camera("missing"))

	require.Len(t, s.Objects, 3)
	crate, mover, sign := s.Objects[0], s.Objects[1], s.Objects[2]

	require.Equal(t, KindStatic, crate.Kind)
	require.Equal(t, SourceRenderers, crate.BoundsSource)
	require.Equal(t, mgl32.Vec3{0, 0.5, 0}, crate.Renderers[0].Center)
	require.Equal(t, []string{"animator"}, crate.Behaviours)

	require.Equal(t, KindDynamic, mover.Kind)
	require.Equal(t, SourceColliders, mover.BoundsSource)
	require.Equal(t, float32(0), *mover.Margin)
	require.Equal(t, mgl32.Vec3{5, 0, 0}, mover.Move.End)

	require.Equal(t, SourceCustom, sign.BoundsSource)
	require.Equal(t, mgl32.Vec3{4, 2, 0.2}, sign.Custom.Size)
	require.Nil(t, sign.Margin)
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"bad yaml", "cameras: [", "parse scene"},
		{"unknown primary", "primary: nope\ncameras: [{name: a}]", `primary camera "nope"`},
		{"unknown rendering", "rendering: nope\ncameras: [{name: a}]", `rendering camera "nope"`},
		{"duplicate camera", "cameras: [{name: a}, {name: a}]", "duplicate name"},
		{"unnamed camera", "cameras: [{projection: perspective}]", "missing name"},
		{"bad projection", "cameras: [{name: a, projection: fisheye}]", "unknown projection"},
		{"bad kind", "objects: [{name: a, kind: floating}]", "unknown kind"},
		{"bad source", "objects: [{name: a, bounds_source: meshes}]", "unknown bounds source"},
		{"custom without box", "objects: [{name: a, bounds_source: custom}]", "without custom box"},
		{"duplicate object", "objects: [{name: a}, {name: a}]", "duplicate name"},
		{"short vector", "objects: [{name: a, position: [1, 2]}]", "parse scene"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.doc))
			require.Error(t, err)
			require.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestParseSceneNamesUnnamedObjects(t *testing.T) {
	s, err := ParseScene([]byte("objects: [{position: [0, 0, 0]}, {position: [1, 0, 0]}]"))
	require.NoError(t, err)
	require.Equal(t, "object-0", s.Objects[0].Name)
	require.Equal(t, "object-1", s.Objects[1].Name)
}

func TestEncodeSceneRoundTrip(t *testing.T) {
	s, err := ParseScene([]byte(sampleScene))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeScene(&buf, s))

	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	back, err := LoadScene(path)
	require.NoError(t, err)
	require.Equal(t, s, back)
}

func TestParseSceneSpawners(t *testing.T) {
	s, err := ParseScene([]byte(`
spawners:
  - area: {center: [0, 0, 10], size: [10, 2, 10]}
    count: -1
    delay: 0.5
    templates:
      - name: crate
        renderers: [{size: [1, 1, 1]}]
      - name: cart
        move: {end: [3, 0, 0], speed: 1}
`))
	require.NoError(t, err)
	require.Len(t, s.Spawners, 1)
	sp := s.Spawners[0]
	require.Equal(t, "spawner-0", sp.Name)
	require.Zero(t, sp.Count)
	require.Equal(t, float32(0.5), sp.Delay)
	require.Equal(t, KindStatic, sp.Templates[0].Kind)
	require.Equal(t, KindDynamic, sp.Templates[1].Kind)

	_, err = ParseScene([]byte("spawners: [{name: empty, count: 3}]"))
	require.ErrorContains(t, err, "no templates")

	_, err = ParseScene([]byte("spawners: [{templates: [{kind: wobbly}]}]"))
	require.ErrorContains(t, err, "unknown kind")
}

func TestRandomPointStaysInArea(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	area := BoxDef{Center: mgl32.Vec3{5, 0, -5}, Size: mgl32.Vec3{4, 0, 2}}
	for i := 0; i < 500; i++ {
		p := RandomPoint(rnd, area)
		require.InDelta(t, 5, p[0], 2)
		require.Equal(t, float32(0), p[1])
		require.InDelta(t, -5, p[2], 1)
	}
}

func TestInstantiateMovesPingPongLeg(t *testing.T) {
	tpl := ObjectDef{
		Name:     "cart",
		Position: mgl32.Vec3{1, 0, 0},
		Move:     &MoveDef{End: mgl32.Vec3{4, 0, 0}, Speed: 2},
	}
	o := Instantiate(tpl, "cart-7", mgl32.Vec3{10, 0, 10})
	require.Equal(t, "cart-7", o.Name)
	require.Equal(t, mgl32.Vec3{10, 0, 10}, o.Position)
	require.Equal(t, mgl32.Vec3{13, 0, 10}, o.Move.End)
	require.Equal(t, mgl32.Vec3{4, 0, 0}, tpl.Move.End)
}
