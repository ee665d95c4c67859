// Package optimistic implements the apply-locally-first mutation
// pattern shared by list screens: a delete removes the item from the
// local collection before the store call resolves and rolls the
// snapshot back on failure, a create only inserts the store-assigned
// entity after the call succeeds. No automatic retry, a failed call
// requires explicit user re-action.
package optimistic

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Collection is an ordered list of entities with an optional selected
// item, keyed by a caller-supplied id extractor. Mutations are safe to
// call from multiple goroutines, but overlapping mutations on the same
// collection race for the final state just like overlapping list
// reloads do, and callers are expected to serialize them at the
// interaction layer.
type Collection[T any] struct {
	id func(T) string

	mu       sync.Mutex
	items    []T
	selected string
}

func NewCollection[T any](id func(T) string) *Collection[T] {
	return &Collection[T]{id: id}
}

// SetItems replaces the collection wholesale, as after a list reload.
// A selection pointing at an item no longer present clears.
func (c *Collection[T]) SetItems(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
	if c.selected != "" && c.indexOf(c.selected) < 0 {
		c.selected = ""
	}
}

// Items returns a copy of the current collection in order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Select marks the item with the given id as selected. Selecting an
// absent id is a no-op.
func (c *Collection[T]) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(id) >= 0 {
		c.selected = id
	}
}

func (c *Collection[T]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
}

// SelectedId returns the selected item's id, or "" when none.
func (c *Collection[T]) SelectedId() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Selected returns the selected item when one is set and still present.
func (c *Collection[T]) Selected() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(c.selected); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Delete removes the item immediately, then runs the store call. On
// failure the pre-removal snapshot comes back in original order, and a
// selection that pointed at the item is restored with it.
func (c *Collection[T]) Delete(ctx context.Context, id string, remove func(ctx context.Context) error) error {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return errors.Errorf("item %s is not in the collection", id)
	}
	snapshot := append([]T(nil), c.items...)
	prevSelected := c.selected
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	if c.selected == id {
		c.selected = ""
	}
	c.mu.Unlock()

	if err := remove(ctx); err != nil {
		c.mu.Lock()
		c.items = snapshot
		c.selected = prevSelected
		c.mu.Unlock()
		return err
	}
	return nil
}

// Create runs the store call first, because the store assigns the id,
// and appends the returned entity only on success. On failure there is
// nothing to roll back.
func (c *Collection[T]) Create(ctx context.Context, create func(ctx context.Context) (T, error)) (T, error) {
	item, err := create(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
	return item, nil
}

// CreateFront is Create for screens that show newest first.
func (c *Collection[T]) CreateFront(ctx context.Context, create func(ctx context.Context) (T, error)) (T, error) {
	item, err := create(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.items = append([]T{item}, c.items...)
	c.mu.Unlock()
	return item, nil
}

// caller must hold c.mu
func (c *Collection[T]) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range c.items {
		if c.id(item) == id {
			return i
		}
	}
	return -1
}
