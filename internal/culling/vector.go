package culling

import "fmt"

// Vector is a packed growable array. Capacity grows by a fixed increment
// (the initial capacity) instead of doubling, and removal swaps the last
// element into the hole. Indexing outside [0, Len) reads the zero value and
// ignores writes.
type Vector[T any] struct {
	items     []T
	size      int
	increment int
	limit     int
}

// NewVector allocates a vector with the given initial capacity. A positive
// limit caps the capacity growth may reach.
func NewVector[T any](capacity, limit int) *Vector[T] {
	if capacity < 1 {
		capacity = 1
	}
	if limit > 0 && capacity > limit {
		capacity = limit
	}
	return &Vector[T]{
		items:     make([]T, capacity),
		increment: capacity,
		limit:     limit,
	}
}

func (v *Vector[T]) Len() int { return v.size }

func (v *Vector[T]) Cap() int { return len(v.items) }

// Add appends item and reports its index through onAdd.
func (v *Vector[T]) Add(item T, onAdd func(T, int)) error {
	if v.size >= len(v.items) {
		if err := v.grow(); err != nil {
			return err
		}
	}
	v.items[v.size] = item
	if onAdd != nil {
		onAdd(item, v.size)
	}
	v.size++
	return nil
}

func (v *Vector[T]) grow() error {
	next := v.size + v.increment
	if v.limit > 0 && next > v.limit {
		next = v.limit
	}
	if next <= v.size {
		return fmt.Errorf("grow past %d: %w", v.size, ErrRegistryFull)
	}
	items := make([]T, next)
	copy(items, v.items[:v.size])
	v.items = items
	return nil
}

// RemoveAt swap-removes index i. onSwap receives the element moved into i,
// if any.
func (v *Vector[T]) RemoveAt(i int, onSwap func(T, int)) {
	if i < 0 || i >= v.size {
		return
	}
	v.size--
	var zero T
	if i == v.size {
		v.items[i] = zero
		return
	}
	v.items[i] = v.items[v.size]
	v.items[v.size] = zero
	if onSwap != nil {
		onSwap(v.items[i], i)
	}
}

func (v *Vector[T]) At(i int) T {
	if i < 0 || i >= v.size {
		var zero T
		return zero
	}
	return v.items[i]
}

func (v *Vector[T]) Set(i int, item T) {
	if i < 0 || i >= v.size {
		return
	}
	v.items[i] = item
}

// Items returns the live prefix. The slice aliases the backing array and is
// invalidated by the next Add, RemoveAt or Clear.
func (v *Vector[T]) Items() []T {
	return v.items[:v.size]
}

// Clear drops every element and reallocates at the initial capacity.
func (v *Vector[T]) Clear() {
	v.size = 0
	v.items = make([]T, v.increment)
}
