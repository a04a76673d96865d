package system

import (
	"fmt"
	"math/rand"
	"time"

	coresys "github.com/fcsgo/fcs/internal/core/system"
	"github.com/fcsgo/fcs/internal/data"
	"github.com/fcsgo/fcs/internal/scene"
	"go.uber.org/zap"
)

type spawner struct {
	def     data.SpawnerDef
	rnd     *rand.Rand
	delay   time.Duration
	timer   time.Duration
	spawned int
}

// SpawnerSystem instantiates spawner templates at random points over time,
// waiting the spawner's delay before each object. Phase 1 (Update).
type SpawnerSystem struct {
	scene    *scene.Scene
	movers   *MoverSystem
	log      *zap.Logger
	spawners []*spawner
}

func NewSpawnerSystem(s *scene.Scene, movers *MoverSystem, log *zap.Logger) *SpawnerSystem {
	return &SpawnerSystem{scene: s, movers: movers, log: log}
}

func (s *SpawnerSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Add queues def. A zero seed picks one from the clock.
func (s *SpawnerSystem) Add(def data.SpawnerDef) {
	seed := def.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.spawners = append(s.spawners, &spawner{
		def:   def,
		rnd:   rand.New(rand.NewSource(seed)),
		delay: time.Duration(float64(def.Delay) * float64(time.Second)),
	})
}

// Remaining returns how many objects are still to be spawned.
func (s *SpawnerSystem) Remaining() int {
	n := 0
	for _, sp := range s.spawners {
		n += sp.def.Count - sp.spawned
	}
	return n
}

func (s *SpawnerSystem) Update(dt time.Duration) {
	for _, sp := range s.spawners {
		if sp.spawned >= sp.def.Count || len(sp.def.Templates) == 0 {
			continue
		}
		sp.timer += dt
		for sp.spawned < sp.def.Count && sp.timer >= sp.delay {
			sp.timer -= sp.delay
			s.spawn(sp)
		}
	}
}

func (s *SpawnerSystem) spawn(sp *spawner) {
	tpl := sp.def.Templates[sp.rnd.Intn(len(sp.def.Templates))]
	name := fmt.Sprintf("%s-%s-%d", sp.def.Name, tpl.Name, sp.spawned)
	sp.spawned++

	def := data.Instantiate(tpl, name, data.RandomPoint(sp.rnd, sp.def.Area))
	o, err := s.scene.Spawn(def)
	if err != nil {
		s.log.Warn("spawn failed", zap.String("spawner", sp.def.Name), zap.Error(err))
		return
	}
	if s.movers != nil {
		s.movers.AddFromDef(o, def)
	}
	s.log.Debug("spawned object", zap.String("spawner", sp.def.Name), zap.String("object", name))
}
