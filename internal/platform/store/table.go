// Package store provides the process-local table used by the in-memory
// repositories. A Table is safe for concurrent use; values are copied in and
// out so callers never share state with the stored row.
package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/errs"
)

// Table is a mutex-guarded map of rows keyed by id.
type Table[T any] struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]T
	clone func(T) T
}

// NewTable returns an empty table. clone deep-copies a row (slices, maps);
// pass nil when T holds no reference types.
func NewTable[T any](clone func(T) T) *Table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Table[T]{rows: make(map[uuid.UUID]T), clone: clone}
}

// Insert stores v under id, overwriting any existing row.
func (t *Table[T]) Insert(id uuid.UUID, v T) {
	t.mu.Lock()
	t.rows[id] = t.clone(v)
	t.mu.Unlock()
}

// Get returns a copy of the row with the given id.
func (t *Table[T]) Get(id uuid.UUID) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, errs.ErrNotFound
	}
	return t.clone(v), nil
}

// Replace overwrites an existing row. It returns errs.ErrNotFound when id is absent.
func (t *Table[T]) Replace(id uuid.UUID, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return errs.ErrNotFound
	}
	t.rows[id] = t.clone(v)
	return nil
}

// Modify applies fn to the stored row under the write lock and stores the
// result. fn never sees a row another goroutine is changing.
func (t *Table[T]) Modify(id uuid.UUID, fn func(T) (T, error)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	v, ok := t.rows[id]
	if !ok {
		return zero, errs.ErrNotFound
	}
	updated, err := fn(t.clone(v))
	if err != nil {
		return zero, err
	}
	t.rows[id] = t.clone(updated)
	return t.clone(updated), nil
}

// Delete removes the row. Deleting a missing id is not an error.
func (t *Table[T]) Delete(id uuid.UUID) {
	t.mu.Lock()
	delete(t.rows, id)
	t.mu.Unlock()
}

// DeleteWhere removes every row matching pred and returns how many went.
func (t *Table[T]) DeleteWhere(pred func(T) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, v := range t.rows {
		if pred(v) {
			delete(t.rows, id)
			n++
		}
	}
	return n
}

// Find returns the first row matching pred.
func (t *Table[T]) Find(pred func(T) bool) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, v := range t.rows {
		if pred(v) {
			return t.clone(v), nil
		}
	}
	var zero T
	return zero, errs.ErrNotFound
}

// Select returns copies of the rows matching pred, ordered by less. A nil
// less leaves the order unspecified.
func (t *Table[T]) Select(pred func(T) bool, less func(a, b T) bool) []T {
	t.mu.RLock()
	out := make([]T, 0)
	for _, v := range t.rows {
		if pred == nil || pred(v) {
			out = append(out, t.clone(v))
		}
	}
	t.mu.RUnlock()

	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// Len reports the number of rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
