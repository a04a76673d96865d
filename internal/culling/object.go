package culling

import (
	"sync/atomic"

	"github.com/fcsgo/fcs/internal/core/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind tells whether an object's anchor is expected to move.
type Kind uint8

const (
	KindStatic Kind = iota
	KindDynamic
)

func (k Kind) String() string {
	if k == KindDynamic {
		return "dynamic"
	}
	return "static"
}

// trackThreshold is how far a dynamic anchor must travel before its bounds
// are re-centered.
const trackThreshold = 0.01

// Owner capabilities. NewObject resolves them once; an owner may implement
// any subset.
type (
	Anchored interface {
		Anchor() mgl32.Vec3
	}

	BoundsSource interface {
		// CalculateBounds returns world-space bounds, or false when the
		// owner has nothing to measure.
		CalculateBounds() (AABB, bool)
	}

	Presenter interface {
		SetVisible(visible bool)
	}
)

// BoundsHook may rewrite freshly calculated bounds before the margin is applied.
type BoundsHook func(o *Object, b AABB) AABB

type ListenerID uint64

type listener struct {
	id ListenerID
	fn func(*Object)
}

// ObjectOptions configures NewObject.
type ObjectOptions struct {
	ID     ecs.EntityID
	Name   string
	Kind   Kind
	Margin float32
}

// Object is one culled entity: its bounds, its slot in the controller's
// registry, and its visibility state machine. Bounds and listeners belong to
// the tick goroutine; slot and the active flag may be read from anywhere.
type Object struct {
	id     ecs.EntityID
	name   string
	kind   Kind
	margin float32

	anchor    Anchored
	source    BoundsSource
	presenter Presenter
	hooks     []BoundsHook

	slot   atomic.Int32
	active atomic.Bool
	state  State

	bounds     AABB
	offset     mgl32.Vec3
	lastAnchor mgl32.Vec3

	nextListener ListenerID
	onVisible    []listener
	onInvisible  []listener
}

// NewObject wraps owner. Owner capabilities (Anchored, BoundsSource,
// Presenter) are looked up here and never again.
func NewObject(owner any, opts ObjectOptions) *Object {
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	o := &Object{
		id:     opts.ID,
		name:   opts.Name,
		kind:   opts.Kind,
		margin: opts.Margin,
	}
	o.slot.Store(-1)
	o.anchor, _ = owner.(Anchored)
	o.source, _ = owner.(BoundsSource)
	o.presenter, _ = owner.(Presenter)
	o.lastAnchor = o.Anchor()
	return o
}

func (o *Object) ID() ecs.EntityID { return o.id }
func (o *Object) Name() string     { return o.name }
func (o *Object) Kind() Kind       { return o.kind }
func (o *Object) Margin() float32  { return o.margin }
func (o *Object) State() State     { return o.state }
func (o *Object) Bounds() AABB     { return o.bounds }

// Offset is the bounds center minus the anchor.
func (o *Object) Offset() mgl32.Vec3 { return o.offset }

// Slot is the object's index in the registry, or -1 when unregistered.
func (o *Object) Slot() int { return int(o.slot.Load()) }

func (o *Object) setSlot(slot int) { o.slot.Store(int32(slot)) }

func (o *Object) Registered() bool { return o.Slot() >= 0 }

func (o *Object) Active() bool { return o.active.Load() }

// SetActive marks whether the owner wants visibility results. Inactive
// objects are skipped by Collect.
func (o *Object) SetActive(active bool) { o.active.Store(active) }

// Anchor is the owner's current anchor point, or the origin.
func (o *Object) Anchor() mgl32.Vec3 {
	if o.anchor == nil {
		return mgl32.Vec3{}
	}
	return o.anchor.Anchor()
}

// SetBounds replaces the bounds and re-derives the anchor offset.
func (o *Object) SetBounds(b AABB) {
	o.bounds = b
	o.offset = b.Center.Sub(o.Anchor())
}

// AddBoundsHook appends a hook run by RecalculateBounds.
func (o *Object) AddBoundsHook(h BoundsHook) {
	o.hooks = append(o.hooks, h)
}

// RecalculateBounds measures the owner, runs the bounds hooks, pads by the
// margin and stores the result. Owners without a bounds source (custom
// bounds) and owners with nothing to measure keep their current bounds.
func (o *Object) RecalculateBounds() bool {
	if o.source == nil {
		return false
	}
	b, ok := o.source.CalculateBounds()
	if !ok {
		return false
	}
	for _, h := range o.hooks {
		b = h(o, b)
	}
	o.SetBounds(b.Expand(o.margin))
	return true
}

// Recenter moves the bounds center to anchor+offset. Extents are left alone;
// only RecalculateBounds re-derives them.
func (o *Object) Recenter() bool {
	anchor := o.Anchor()
	o.lastAnchor = anchor
	center := anchor.Add(o.offset)
	if center == o.bounds.Center {
		return false
	}
	o.bounds.Center = center
	return true
}

// Track re-centers a dynamic object whose anchor moved more than
// trackThreshold since the last re-center. Static objects never track.
func (o *Object) Track() bool {
	if o.kind != KindDynamic {
		return false
	}
	if o.Anchor().Sub(o.lastAnchor).Len() <= trackThreshold {
		return false
	}
	return o.Recenter()
}

// OnBecameVisible subscribes fn to Invisible/Unset → Visible transitions.
func (o *Object) OnBecameVisible(fn func(*Object)) ListenerID {
	o.nextListener++
	o.onVisible = append(o.onVisible, listener{id: o.nextListener, fn: fn})
	return o.nextListener
}

// OnBecameInvisible subscribes fn to Visible/Unset → Invisible transitions.
func (o *Object) OnBecameInvisible(fn func(*Object)) ListenerID {
	o.nextListener++
	o.onInvisible = append(o.onInvisible, listener{id: o.nextListener, fn: fn})
	return o.nextListener
}

// RemoveListener drops a subscription made by either On* method.
func (o *Object) RemoveListener(id ListenerID) {
	o.onVisible = dropListener(o.onVisible, id)
	o.onInvisible = dropListener(o.onInvisible, id)
}

func dropListener(ls []listener, id ListenerID) []listener {
	for i := range ls {
		if ls[i].id == id {
			out := make([]listener, 0, len(ls)-1)
			out = append(out, ls[:i]...)
			return append(out, ls[i+1:]...)
		}
	}
	return ls
}

// ApplyVisibility feeds one evaluation result into the state machine. A
// result matching the current state, or any result while the object is
// inactive, does nothing. Otherwise the state flips, exactly one transition
// event fires, and the owner's presenter is toggled. Reports whether a
// transition happened.
func (o *Object) ApplyVisibility(visible bool) bool {
	if !o.Active() {
		return false
	}
	next := stateFor(visible)
	if next == o.state {
		return false
	}
	o.state = next

	ls := o.onInvisible
	if visible {
		ls = o.onVisible
	}
	for _, l := range ls {
		l.fn(o)
	}

	if o.presenter != nil {
		o.presenter.SetVisible(visible)
	}
	return true
}

func (o *Object) resetState() {
	o.state = StateUnset
}
