// Package hooks provides ordered extension points: actions that notify
// observers and filters that let observers rewrite a value.
//
// Callbacks run synchronously, lowest priority first. Callbacks sharing a
// priority run in registration order.
package hooks

import (
	"slices"
	"sync"
)

// DefaultPriority is the priority used by callers with no ordering needs.
const DefaultPriority = 10

type entry[F any] struct {
	priority int
	seq      int
	fn       F
}

type chain[F any] struct {
	mu      sync.RWMutex
	seq     int
	entries []entry[F]
}

func (c *chain[F]) add(priority int, fn F) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.entries = append(c.entries, entry[F]{priority: priority, seq: c.seq, fn: fn})
	slices.SortStableFunc(c.entries, func(a, b entry[F]) int {
		if a.priority != b.priority {
			return a.priority - b.priority
		}
		return a.seq - b.seq
	})
}

// snapshot copies the callbacks so they can run without holding the lock;
// a callback may register further callbacks on the same chain.
func (c *chain[F]) snapshot() []F {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fns := make([]F, len(c.entries))
	for i, e := range c.entries {
		fns[i] = e.fn
	}
	return fns
}

func (c *chain[F]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Action notifies observers about a subject.
type Action[S any] struct {
	name string
	c    chain[func(S)]
}

// NewAction creates an empty action.
func NewAction[S any](name string) *Action[S] {
	return &Action[S]{name: name}
}

// Name returns the extension point name.
func (a *Action[S]) Name() string { return a.name }

// Add registers fn at the given priority.
func (a *Action[S]) Add(priority int, fn func(S)) { a.c.add(priority, fn) }

// Len returns the number of registered callbacks.
func (a *Action[S]) Len() int { return a.c.len() }

// Do runs every callback with subject.
func (a *Action[S]) Do(subject S) {
	for _, fn := range a.c.snapshot() {
		fn(subject)
	}
}

// Filter passes a value through every callback and returns the result.
type Filter[T any] struct {
	name string
	c    chain[func(T) T]
}

// NewFilter creates an empty filter.
func NewFilter[T any](name string) *Filter[T] {
	return &Filter[T]{name: name}
}

// Name returns the extension point name.
func (f *Filter[T]) Name() string { return f.name }

// Add registers fn at the given priority.
func (f *Filter[T]) Add(priority int, fn func(T) T) { f.c.add(priority, fn) }

// Len returns the number of registered callbacks.
func (f *Filter[T]) Len() int { return f.c.len() }

// Apply runs value through the chain.
func (f *Filter[T]) Apply(value T) T {
	for _, fn := range f.c.snapshot() {
		value = fn(value)
	}
	return value
}

// ScopedFilter is a Filter whose callbacks also receive a read-only subject
// the value belongs to, such as the product an URL is built for.
type ScopedFilter[T, S any] struct {
	name string
	c    chain[func(T, S) T]
}

// NewScopedFilter creates an empty scoped filter.
func NewScopedFilter[T, S any](name string) *ScopedFilter[T, S] {
	return &ScopedFilter[T, S]{name: name}
}

// Name returns the extension point name.
func (f *ScopedFilter[T, S]) Name() string { return f.name }

// Add registers fn at the given priority.
func (f *ScopedFilter[T, S]) Add(priority int, fn func(T, S) T) { f.c.add(priority, fn) }

// Len returns the number of registered callbacks.
func (f *ScopedFilter[T, S]) Len() int { return f.c.len() }

// Apply runs value through the chain.
func (f *ScopedFilter[T, S]) Apply(value T, subject S) T {
	for _, fn := range f.c.snapshot() {
		value = fn(value, subject)
	}
	return value
}
