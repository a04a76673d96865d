package culling

import "fmt"

// MinCapacity is the floor applied to a registry's initial capacity.
const MinCapacity = 32

// Registry keeps registered objects and their bounds records in two dense
// arrays indexed by the same slot. Every structural change touches both.
// Not safe for concurrent use; the Controller serializes access.
type Registry struct {
	objects *Vector[*Object]
	records *Vector[BoundsRecord]
}

// NewRegistry allocates both arrays at capacity (floored at MinCapacity).
// A positive limit caps growth.
func NewRegistry(capacity, limit int) *Registry {
	if capacity < MinCapacity {
		capacity = MinCapacity
	}
	return &Registry{
		objects: NewVector[*Object](capacity, limit),
		records: NewVector[BoundsRecord](capacity, limit),
	}
}

// Add appends o and its current bounds, assigns its slot, and returns it.
// Objects that already hold a slot are left alone.
func (r *Registry) Add(o *Object) (int, error) {
	if s := o.Slot(); s >= 0 {
		return s, nil
	}
	if err := r.records.Add(RecordFor(o.bounds), nil); err != nil {
		return -1, fmt.Errorf("add %q: %w", o.name, err)
	}
	if err := r.objects.Add(o, func(o *Object, i int) { o.setSlot(i) }); err != nil {
		r.records.RemoveAt(r.records.Len()-1, nil)
		return -1, fmt.Errorf("add %q: %w", o.name, err)
	}
	return o.Slot(), nil
}

// RemoveAt swap-removes slot from both arrays. The object moved into slot
// gets its new index; the removed object's slot becomes -1.
func (r *Registry) RemoveAt(slot int) {
	if slot < 0 || slot >= r.Count() {
		return
	}
	removed := r.objects.At(slot)
	r.records.RemoveAt(slot, nil)
	r.objects.RemoveAt(slot, func(moved *Object, i int) { moved.setSlot(i) })
	if removed != nil {
		removed.setSlot(-1)
	}
}

// Get returns the object at slot, or nil.
func (r *Registry) Get(slot int) *Object { return r.objects.At(slot) }

// Record returns the bounds record at slot, or the zero record.
func (r *Registry) Record(slot int) BoundsRecord { return r.records.At(slot) }

// ReplaceBoundsAt rewrites center and extents at slot. The Visible flag is
// kept: it only changes when an evaluation completes.
func (r *Registry) ReplaceBoundsAt(slot int, rec BoundsRecord) {
	if slot < 0 || slot >= r.Count() {
		return
	}
	rec.Visible = r.records.At(slot).Visible
	r.records.Set(slot, rec)
}

func (r *Registry) Count() int { return r.objects.Len() }

func (r *Registry) Capacity() int { return r.objects.Cap() }

// Records exposes the live bounds records for an evaluation pass.
func (r *Registry) Records() []BoundsRecord { return r.records.Items() }

// Each visits every slot in array order.
func (r *Registry) Each(fn func(slot int, o *Object, rec BoundsRecord)) {
	objs, recs := r.objects.Items(), r.records.Items()
	for i, o := range objs {
		fn(i, o, recs[i])
	}
}

// Clear unregisters everything and shrinks back to the initial capacity.
func (r *Registry) Clear() {
	for _, o := range r.objects.Items() {
		o.setSlot(-1)
	}
	r.objects.Clear()
	r.records.Clear()
}
