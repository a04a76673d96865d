package culling

import (
	"sync"
	"time"

	"github.com/fcsgo/fcs/internal/core/event"
	coresys "github.com/fcsgo/fcs/internal/core/system"
	"go.uber.org/zap"
)

// Options configures a Controller.
type Options struct {
	// RefreshInterval is the number of ticks between evaluations; 0 and 1
	// both mean every tick.
	RefreshInterval int
	// InitialCapacity sizes the registry and is also its growth increment.
	InitialCapacity int
	// MaxCapacity caps registry growth; 0 means unlimited.
	MaxCapacity int
	// Workers bounds the evaluation fan-out; 0 means one per CPU.
	Workers int
	Mode    ViewpointMode
	// Explicit is the viewpoint used in ViewpointExplicit mode.
	Explicit Viewpoint
}

type mutationOp uint8

const (
	opRegister mutationOp = iota
	opUnregister
	opUpdateBounds
)

func (op mutationOp) String() string {
	switch op {
	case opUnregister:
		return "unregister"
	case opUpdateBounds:
		return "update_bounds"
	}
	return "register"
}

type mutation struct {
	op  mutationOp
	obj *Object
}

// Controller owns the registry and runs one culling cycle per eligible tick:
// resolve viewpoint, extract planes, evaluate in parallel, then feed each
// active object's state machine.
//
// Register, Unregister, UpdateBounds and SetViewpointPolicy are safe from any
// goroutine. While a cycle is in flight they are queued and applied, in call
// order, right after Collect. Update, Enable and Disable belong to the tick
// goroutine.
type Controller struct {
	log       *zap.Logger
	bus       *event.Bus
	source    ViewpointSource
	evaluator *Evaluator
	interval  int

	mu       sync.Mutex
	registry *Registry
	busy     bool
	pending  []mutation
	mode     ViewpointMode
	explicit Viewpoint
	current  Viewpoint
	enabled  bool

	sinceLast int
	cycles    uint64
	visible   int
}

// NewController builds an enabled controller. bus may be nil.
func NewController(opts Options, source ViewpointSource, bus *event.Bus, log *zap.Logger) *Controller {
	if opts.RefreshInterval < 0 {
		opts.RefreshInterval = 0
	}
	c := &Controller{
		log:       log,
		bus:       bus,
		source:    source,
		evaluator: NewEvaluator(opts.Workers),
		interval:  opts.RefreshInterval,
		registry:  NewRegistry(opts.InitialCapacity, opts.MaxCapacity),
		mode:      opts.Mode,
		explicit:  opts.Explicit,
		enabled:   true,
		// Primed so the very first tick evaluates.
		sinceLast: opts.RefreshInterval,
	}
	instrumentRegistry(c.registry)
	return c
}

func (c *Controller) Phase() coresys.Phase { return coresys.PhaseLateUpdate }

// Update is the per-tick entry point: Idle → PlaneExtraction → Dispatch →
// Collect → Idle.
func (c *Controller) Update(_ time.Duration) {
	c.sinceLast++
	if c.sinceLast < c.interval {
		return
	}

	c.mu.Lock()
	if !c.enabled || c.registry == nil {
		c.mu.Unlock()
		return
	}
	vp, ok := c.resolveViewpointLocked()
	if !ok {
		c.mu.Unlock()
		return
	}
	c.busy = true
	c.mu.Unlock()

	planes := PlanesFromMatrix(vp.ViewProjection())

	c.sinceLast = 0
	records := c.registry.Records()
	start := time.Now()
	c.evaluator.Evaluate(&planes, records)
	evaluationSeconds.Observe(time.Since(start).Seconds())
	c.cycles++
	evaluationsTotal.Inc()

	c.visible = c.collect(records)
	visibleObjects.Set(float64(c.visible))

	c.mu.Lock()
	c.busy = false
	pending := c.pending
	c.pending = nil
	for _, m := range pending {
		c.applyLocked(m)
	}
	instrumentRegistry(c.registry)
	c.mu.Unlock()
}

// resolveViewpointLocked applies the viewpoint policy. A preview viewpoint
// leaves the previous one in place and skips the cycle.
func (c *Controller) resolveViewpointLocked() (Viewpoint, bool) {
	var vp Viewpoint
	switch c.mode {
	case ViewpointPrimary:
		if c.source != nil {
			vp = c.source.Primary()
		}
	case ViewpointRendering:
		if c.source != nil {
			vp = c.source.Rendering()
		}
	case ViewpointExplicit:
		vp = c.explicit
	}

	if vp == nil {
		c.current = nil
		instrumentSkip("no_viewpoint")
		return nil, false
	}
	if !vp.IsRuntime() {
		instrumentSkip("preview_viewpoint")
		c.log.Debug("skip cycle: preview viewpoint", zap.String("viewpoint", vp.Name()))
		return nil, false
	}
	if vp != c.current {
		c.log.Info("culling viewpoint changed",
			zap.String("viewpoint", vp.Name()),
			zap.Stringer("mode", c.mode))
		if c.bus != nil {
			event.Emit(c.bus, event.ViewpointChanged{Name: vp.Name(), Cycle: c.cycles})
		}
		c.current = vp
	}
	if !vp.IsActive() {
		instrumentSkip("inactive_viewpoint")
		return nil, false
	}
	return vp, true
}

// collect walks the registry once and drives every active object's state
// machine. Returns how many records came out visible.
func (c *Controller) collect(records []BoundsRecord) int {
	visible := 0
	for slot := range records {
		rec := records[slot]
		if rec.Visible {
			visible++
		}
		o := c.registry.Get(slot)
		if o == nil || !o.Active() {
			continue
		}
		if o.ApplyVisibility(rec.Visible) {
			c.emitTransition(o)
		}
	}
	return visible
}

func (c *Controller) emitTransition(o *Object) {
	instrumentTransition(o.state)
	if c.bus == nil {
		return
	}
	if o.state == StateVisible {
		event.Emit(c.bus, event.BecameVisible{EntityID: o.id, Name: o.name, Cycle: c.cycles})
	} else {
		event.Emit(c.bus, event.BecameInvisible{EntityID: o.id, Name: o.name, Cycle: c.cycles})
	}
}

// Register starts tracking o with state Unset and marks it active.
// Registering an already registered object does nothing. Growth failures
// are returned wrapping ErrRegistryFull; for registrations deferred past an
// in-flight cycle they are logged instead.
func (c *Controller) Register(o *Object) error {
	if o == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		c.deferLocked(opRegister, o)
		return nil
	}
	return c.registerLocked(o)
}

// Unregister stops tracking o. It is marked inactive immediately, so no
// transition reaches it even when removal is deferred.
func (c *Controller) Unregister(o *Object) {
	if o == nil {
		return
	}
	o.SetActive(false)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		c.deferLocked(opUnregister, o)
		return
	}
	c.unregisterLocked(o)
}

// UpdateBounds copies o's current bounds into its registry record.
func (c *Controller) UpdateBounds(o *Object) {
	if o == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		c.deferLocked(opUpdateBounds, o)
		return
	}
	c.updateBoundsLocked(o)
}

func (c *Controller) deferLocked(op mutationOp, o *Object) {
	c.pending = append(c.pending, mutation{op: op, obj: o})
	instrumentDeferred(op.String())
}

func (c *Controller) applyLocked(m mutation) {
	switch m.op {
	case opRegister:
		if err := c.registerLocked(m.obj); err != nil {
			c.log.Error("deferred register failed",
				zap.String("object", m.obj.name),
				zap.Error(err))
		}
	case opUnregister:
		c.unregisterLocked(m.obj)
	case opUpdateBounds:
		c.updateBoundsLocked(m.obj)
	}
}

func (c *Controller) registerLocked(o *Object) error {
	if o.Registered() {
		return nil
	}
	o.resetState()
	if _, err := c.registry.Add(o); err != nil {
		registerFailures.Inc()
		return err
	}
	o.SetActive(true)
	instrumentRegistry(c.registry)
	return nil
}

func (c *Controller) unregisterLocked(o *Object) {
	o.SetActive(false)
	slot := o.Slot()
	if slot < 0 {
		return
	}
	c.registry.RemoveAt(slot)
	instrumentRegistry(c.registry)
}

func (c *Controller) updateBoundsLocked(o *Object) {
	slot := o.Slot()
	if slot < 0 {
		return
	}
	c.registry.ReplaceBoundsAt(slot, RecordFor(o.bounds))
}

// SetViewpointPolicy switches the viewpoint mode. explicit replaces the
// explicit viewpoint only in ViewpointExplicit mode and only when non-nil.
func (c *Controller) SetViewpointPolicy(mode ViewpointMode, explicit Viewpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	if mode == ViewpointExplicit && explicit != nil {
		c.explicit = explicit
	}
}

// CurrentViewpoint is the viewpoint resolved by the latest eligible cycle.
func (c *Controller) CurrentViewpoint() Viewpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) Mode() ViewpointMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Count()
}

// Cycles is the number of completed evaluations.
func (c *Controller) Cycles() uint64 { return c.cycles }

// Visible is the visible record count of the last evaluation.
func (c *Controller) Visible() int { return c.visible }

// Workers is the evaluation fan-out.
func (c *Controller) Workers() int { return c.evaluator.Workers() }

// Disable stops evaluation and shows every registered object again.
// Registrations are kept; Enable resumes culling on the next tick.
func (c *Controller) Disable() {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return
	}
	c.enabled = false
	objs := make([]*Object, 0, c.registry.Count())
	c.registry.Each(func(_ int, o *Object, _ BoundsRecord) { objs = append(objs, o) })
	c.mu.Unlock()

	for _, o := range objs {
		if o.ApplyVisibility(true) {
			c.emitTransition(o)
		}
	}
	c.log.Info("culling disabled", zap.Int("restored", len(objs)))
}

func (c *Controller) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled {
		return
	}
	c.enabled = true
	c.sinceLast = c.interval
}

func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Clear unregisters every object.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		c.registry.Each(func(_ int, o *Object, _ BoundsRecord) {
			o.SetActive(false)
			c.deferLocked(opUnregister, o)
		})
		return
	}
	c.registry.Each(func(_ int, o *Object, _ BoundsRecord) { o.SetActive(false) })
	c.registry.Clear()
	instrumentRegistry(c.registry)
}
