// Package podform holds the pod creation form state: a generic repeatable-row
// editor, the row shapes for port mappings and volume mounts, validation, and
// the conversion into a podman.PodSpec.
package podform

// Row is one entry of a List. Key is a synthetic identity assigned from a
// counter when the row is added; it is never reused and is independent of
// the row's position.
type Row[T any] struct {
	Key   int
	Value T
}

// List is an ordered sequence of rows of shape T. All operations are pure:
// they return a new List and never modify the receiver's backing array.
type List[T any] struct {
	rows []Row[T]
	next int
	def  T
}

// NewList returns an empty list whose Add appends copies of def.
func NewList[T any](def T) List[T] {
	return List[T]{def: def}
}

// Add appends a default row.
func (l List[T]) Add() List[T] {
	rows := make([]Row[T], len(l.rows), len(l.rows)+1)
	copy(rows, l.rows)
	rows = append(rows, Row[T]{Key: l.next, Value: l.def})
	return List[T]{rows: rows, next: l.next + 1, def: l.def}
}

// Remove splices out the row at index i. Out of range indexes return the
// list unchanged.
func (l List[T]) Remove(i int) List[T] {
	if i < 0 || i >= len(l.rows) {
		return l
	}
	rows := make([]Row[T], 0, len(l.rows)-1)
	rows = append(rows, l.rows[:i]...)
	rows = append(rows, l.rows[i+1:]...)
	return List[T]{rows: rows, next: l.next, def: l.def}
}

// Update replaces the value of row i with fn applied to it.
func (l List[T]) Update(i int, fn func(T) T) List[T] {
	if i < 0 || i >= len(l.rows) {
		return l
	}
	rows := make([]Row[T], len(l.rows))
	copy(rows, l.rows)
	rows[i].Value = fn(rows[i].Value)
	return List[T]{rows: rows, next: l.next, def: l.def}
}

// Len returns the number of rows.
func (l List[T]) Len() int { return len(l.rows) }

// At returns row i.
func (l List[T]) At(i int) Row[T] { return l.rows[i] }

// Rows returns a copy of the rows.
func (l List[T]) Rows() []Row[T] {
	return append([]Row[T](nil), l.rows...)
}

// Values returns the row values in order.
func (l List[T]) Values() []T {
	out := make([]T, len(l.rows))
	for i, r := range l.rows {
		out[i] = r.Value
	}
	return out
}
