// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package cryptosuite

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownProvider is returned (wrapped with the requested name) when
// a registry has no factory for a provider name.
var ErrUnknownProvider = errors.New("unknown crypto provider")

// Factory constructs a [Provider]. Factories are called on every
// Lookup, so they should be cheap.
type Factory func() (Provider, error)

// Registry maps provider names to factories. The composition root
// builds one at startup and selects a provider by the configured name.
// A Registry is safe for concurrent use.
type Registry struct {
	mutex     sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default returns a registry with every built-in provider registered.
func Default() *Registry {
	registry := NewRegistry()
	for name, newHash := range builtins {
		provider := NewHashProvider(name, newHash)
		registry.factories[name] = func() (Provider, error) {
			return provider, nil
		}
	}
	return registry
}

// Register adds a factory under name. Registering the same name twice
// is an error: silently replacing a provider would change fingerprints
// without any visible configuration change.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("registering crypto provider: empty name")
	}
	if factory == nil {
		return fmt.Errorf("registering crypto provider %q: nil factory", name)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("crypto provider %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Lookup constructs the provider registered under name.
func (r *Registry) Lookup(name string) (Provider, error) {
	r.mutex.RLock()
	factory, ok := r.factories[name]
	r.mutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProvider, name, r.Names())
	}

	provider, err := factory()
	if err != nil {
		return nil, fmt.Errorf("constructing crypto provider %q: %w", name, err)
	}
	return provider, nil
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MustLookup is Lookup for built-in names known to be registered. It
// panics on failure.
func (r *Registry) MustLookup(name string) Provider {
	provider, err := r.Lookup(name)
	if err != nil {
		panic("cryptosuite: " + err.Error())
	}
	return provider
}
