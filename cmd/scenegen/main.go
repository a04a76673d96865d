// scenegen writes a random scene file: an orbiting primary camera, a preview
// camera, static crates, ping-pong movers and a spawner.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"

	"github.com/fcsgo/fcs/internal/data"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: scenegen <output.yaml> [objects] [seed]")
		os.Exit(1)
	}

	count := 200
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n < 0 {
			fmt.Fprintf(os.Stderr, "invalid object count %q\n", os.Args[2])
			os.Exit(1)
		}
		count = n
	}
	seed := int64(1)
	if len(os.Args) > 3 {
		n, err := strconv.ParseInt(os.Args[3], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid seed %q\n", os.Args[3])
			os.Exit(1)
		}
		seed = n
	}

	s := generate(count, rand.New(rand.NewSource(seed)))

	out, err := os.Create(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "# Scene — generated by scenegen (%d objects, seed %d)\n", len(s.Objects), seed)
	if err := data.EncodeScene(out, s); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d objects to %s\n", len(s.Objects), os.Args[1])
}

// area is the region objects are scattered over.
var area = data.BoxDef{Center: mgl32.Vec3{0, 0, 0}, Size: mgl32.Vec3{200, 4, 200}}

func generate(count int, rnd *rand.Rand) *data.SceneDef {
	preview := false
	s := &data.SceneDef{
		Primary: "main",
		Cameras: []data.CameraDef{
			{
				Name:     "main",
				Position: mgl32.Vec3{60, 10, 0},
				Target:   mgl32.Vec3{0, 0, 0},
				Far:      150,
				Orbit:    &data.OrbitDef{Radius: 60, Height: 10, Speed: 0.2},
			},
			{
				Name:       "overview",
				Runtime:    &preview,
				Projection: data.ProjectionOrthographic,
				Position:   mgl32.Vec3{0, 100, 0},
				Target:     mgl32.Vec3{0, 0, 0},
				Up:         mgl32.Vec3{0, 0, 1},
				OrthoSize:  100,
				Far:        200,
			},
		},
	}

	for i := 0; i < count; i++ {
		pos := data.RandomPoint(rnd, area)
		size := 0.5 + rnd.Float32()*2
		o := data.ObjectDef{
			Name:     fmt.Sprintf("crate-%04d", i),
			Kind:     data.KindStatic,
			Position: pos,
			Renderers: []data.BoxDef{
				{Center: mgl32.Vec3{0, size / 2, 0}, Size: mgl32.Vec3{size, size, size}},
			},
		}
		switch {
		case i%10 == 0:
			o.Name = fmt.Sprintf("mover-%04d", i)
			o.Kind = data.KindDynamic
			o.Move = &data.MoveDef{
				End:   pos.Add(mgl32.Vec3{rnd.Float32()*40 - 20, 0, rnd.Float32()*40 - 20}),
				Speed: 2 + rnd.Float32()*6,
			}
			o.Behaviours = []string{"animator"}
		case i%7 == 0:
			o.Particles = []string{"smoke"}
		}
		s.Objects = append(s.Objects, o)
	}
	sort.Slice(s.Objects, func(i, j int) bool {
		return s.Objects[i].Name < s.Objects[j].Name
	})

	s.Spawners = []data.SpawnerDef{{
		Name:  "field",
		Area:  data.BoxDef{Center: mgl32.Vec3{0, 0, 0}, Size: mgl32.Vec3{100, 0, 100}},
		Count: count / 10,
		Delay: 0.5,
		Seed:  rnd.Int63(),
		Templates: []data.ObjectDef{
			{Name: "barrel", Kind: data.KindStatic, BoundsSource: data.SourceColliders,
				Colliders: []data.BoxDef{{Center: mgl32.Vec3{0, 0.6, 0}, Size: mgl32.Vec3{0.8, 1.2, 0.8}}}},
			{Name: "sign", Kind: data.KindStatic, BoundsSource: data.SourceCustom,
				Custom: &data.BoxDef{Center: mgl32.Vec3{0, 2, 0}, Size: mgl32.Vec3{3, 1.5, 0.2}}},
		},
	}}
	return s
}
