// Package collection holds the per-screen view-model state: the authoritative
// item list from the last successful fetch or mutation, and the visible subset
// derived from the current filter criteria. Mutations re-derive the visible
// set from the full collection, never from a previously filtered result.
package collection

import (
	"errors"
	"sync"

	"github.com/taskflowhq/taskflow/internal/filter"
)

var (
	// ErrStaleLoad is returned when a fetch result arrives after the
	// collection was invalidated; the late response is discarded.
	ErrStaleLoad = errors.New("stale load: collection was invalidated after the fetch started")

	// ErrMutationInFlight guards against double submission: a second
	// mutation may not begin until the first one resolves.
	ErrMutationInFlight = errors.New("a mutation is already in flight")
)

// Controller owns one screen's collection state.
type Controller[T any] struct {
	mu       sync.Mutex
	id       func(T) string
	fields   filter.Fields[T]
	criteria filter.Criteria
	all      []T
	visible  []T
	epoch    uint64
	mutating bool
}

// New creates a controller for items identified by id and filtered by fields.
func New[T any](id func(T) string, fields filter.Fields[T]) *Controller[T] {
	return &Controller[T]{id: id, fields: fields}
}

// Epoch returns the current load epoch. Callers snapshot it before starting a
// fetch and pass it to Load so late responses for an invalidated collection
// are rejected.
func (c *Controller[T]) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Invalidate bumps the epoch so in-flight fetches started earlier are
// discarded on arrival. Returns the new epoch.
func (c *Controller[T]) Invalidate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	return c.epoch
}

// Load replaces the authoritative collection with a successful fetch result.
// Returns ErrStaleLoad, leaving state untouched, when the epoch no longer
// matches.
func (c *Controller[T]) Load(epoch uint64, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		return ErrStaleLoad
	}

	c.all = make([]T, len(items))
	copy(c.all, items)
	c.refilter()
	return nil
}

// SetCriteria updates the filter criteria and re-derives the visible set from
// the full collection.
func (c *Controller[T]) SetCriteria(criteria filter.Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria
	c.refilter()
}

// Criteria returns the currently applied criteria.
func (c *Controller[T]) Criteria() filter.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// Add appends a successfully created item and re-filters.
func (c *Controller[T]) Add(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = append(c.all, item)
	c.refilter()
}

// Replace swaps the item with a matching id for its updated version.
// Reports whether a match was found; an unmatched id leaves state untouched.
func (c *Controller[T]) Replace(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.id(item)
	for i := range c.all {
		if c.id(c.all[i]) == id {
			c.all[i] = item
			c.refilter()
			return true
		}
	}
	return false
}

// Remove deletes the item with the given id and re-filters. Reports whether
// a match was found.
func (c *Controller[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.all {
		if c.id(c.all[i]) == id {
			c.all = append(c.all[:i], c.all[i+1:]...)
			c.refilter()
			return true
		}
	}
	return false
}

// Items returns a copy of the authoritative collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.all))
	copy(out, c.all)
	return out
}

// Visible returns a copy of the currently filtered view.
func (c *Controller[T]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.visible))
	copy(out, c.visible)
	return out
}

// BeginMutation marks a create/update/delete as in flight. A second call
// before EndMutation fails with ErrMutationInFlight.
func (c *Controller[T]) BeginMutation() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mutating {
		return ErrMutationInFlight
	}
	c.mutating = true
	return nil
}

// EndMutation clears the in-flight flag once the mutation resolved, whether
// it succeeded or failed.
func (c *Controller[T]) EndMutation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutating = false
}

// refilter re-derives visible from the full collection. Caller holds mu.
func (c *Controller[T]) refilter() {
	c.visible = filter.Apply(c.all, c.criteria, c.fields)
}
