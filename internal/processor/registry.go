// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package processor

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/matt-FFFFFF/ncmbatch/internal/config"
)

var (
	// ErrUnknownKind is returned when a decoder kind is not registered.
	ErrUnknownKind = errors.New("unknown decoder type")
	// ErrCreate is returned when a registered factory fails.
	ErrCreate = errors.New("failed to create decoder")
)

// Factory builds a Processor from its configuration.
type Factory func(cfg config.Decoder) (Processor, error)

// Registry maps decoder kinds to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry holds the kinds registered by the decoder packages.
var DefaultRegistry = NewRegistry()

// Register adds or replaces a kind in the DefaultRegistry.
func Register(kind string, f Factory) {
	DefaultRegistry.Register(kind, f)
}

// New creates a Processor of the given kind from the DefaultRegistry.
func New(kind string, cfg config.Decoder) (Processor, error) {
	return DefaultRegistry.New(kind, cfg)
}

// Kinds lists the kinds in the DefaultRegistry.
func Kinds() []string {
	return DefaultRegistry.Kinds()
}

// Register adds or replaces a kind.
func (r *Registry) Register(kind string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[kind] = f
}

// New creates a Processor of the given kind.
func (r *Registry) New(kind string, cfg config.Decoder) (Processor, error) {
	r.mu.RLock()
	f, ok := r.factories[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q, known types are %v", ErrUnknownKind, kind, r.Kinds())
	}

	p, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreate, kind, err)
	}

	return p, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.factories))
}
