package system

import (
	"time"

	"github.com/fcsgo/fcs/internal/core/ecs"
	coresys "github.com/fcsgo/fcs/internal/core/system"
	"github.com/fcsgo/fcs/internal/culling"
	"github.com/fcsgo/fcs/internal/data"
	"github.com/fcsgo/fcs/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// mover ping-pongs an object between start and end at a constant speed.
type mover struct {
	obj        *scene.Object
	start, end mgl32.Vec3
	speed      float32
	elapsed    time.Duration
	listeners  [2]culling.ListenerID
}

// MoverSystem drives ping-pong movement and logs the moving objects'
// visibility changes. Movers live in an ecs store, so destroyed objects drop
// out on their own. Phase 1 (Update).
type MoverSystem struct {
	movers *ecs.Store[mover]
	log    *zap.Logger
}

func NewMoverSystem(world *ecs.World, log *zap.Logger) *MoverSystem {
	s := &MoverSystem{movers: ecs.NewStore[mover](), log: log}
	world.Attach(s.movers)
	return s
}

func (s *MoverSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Add starts moving o from its current position towards end.
func (s *MoverSystem) Add(o *scene.Object, end mgl32.Vec3, speed float32) {
	m := &mover{obj: o, start: o.Position(), end: end, speed: speed}
	m.listeners[0] = o.Culling.OnBecameVisible(func(c *culling.Object) {
		s.log.Debug("object became visible", zap.String("object", c.Name()))
	})
	m.listeners[1] = o.Culling.OnBecameInvisible(func(c *culling.Object) {
		s.log.Debug("object became invisible", zap.String("object", c.Name()))
	})
	s.movers.Set(o.ID, m)
}

// Remove stops moving o and drops its listeners.
func (s *MoverSystem) Remove(o *scene.Object) {
	m, ok := s.movers.Get(o.ID)
	if !ok {
		return
	}
	for _, id := range m.listeners {
		o.Culling.RemoveListener(id)
	}
	s.movers.Remove(o.ID)
}

func (s *MoverSystem) Len() int { return s.movers.Len() }

func (s *MoverSystem) Update(dt time.Duration) {
	s.movers.Each(func(_ ecs.EntityID, m *mover) {
		m.elapsed += dt
		if !m.obj.Enabled() {
			return
		}
		m.obj.SetPosition(m.position())
	})
}

func (m *mover) position() mgl32.Vec3 {
	length := m.end.Sub(m.start).Len()
	if length == 0 || m.speed <= 0 {
		return m.start
	}
	covered := float32(m.elapsed.Seconds()) * m.speed
	frac := pingPong(covered, length) / length
	return m.start.Add(m.end.Sub(m.start).Mul(frac))
}

// pingPong bounces t between 0 and length.
func pingPong(t, length float32) float32 {
	period := 2 * length
	t -= period * float32(int(t/period))
	if t > length {
		return period - t
	}
	return t
}

// AddFromDef starts moving o when its definition has a move leg.
func (s *MoverSystem) AddFromDef(o *scene.Object, def data.ObjectDef) bool {
	if def.Move == nil {
		return false
	}
	s.Add(o, def.Move.End, def.Move.Speed)
	return true
}
