package leocore

import (
	"fmt"
	"sync"
)

// Registry hands out integer handles for trees to hosts that cannot hold Go values.
// Every tree has its own lock, so operations on different trees run in parallel.
type Registry struct {
	entries map[int]*entry
	mu      sync.Mutex
	next    int
}

type entry struct {
	tree Tree
	mu   sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[int]*entry)}
}

// Open registers t and returns its handle. Handles are never reused.
func (r *Registry) Open(t Tree) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.entries[r.next] = &entry{tree: t}
	return r.next
}

func (r *Registry) lookup(handle int) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, found := r.entries[handle]
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, handle)
	}
	return e, nil
}

// With runs f with exclusive access to the tree behind handle.
func (r *Registry) With(handle int, f func(Tree) error) error {
	e, err := r.lookup(handle)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return f(e.tree)
}

// Drop forgets handle. A running With call on it completes normally.
func (r *Registry) Drop(handle int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.entries[handle]; !found {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, handle)
	}
	delete(r.entries, handle)
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
