// Package display renders calculator values for a host.
package display

import (
	"fmt"
	"sort"
)

// Renderer turns a display value into text.
type Renderer interface {
	Name() string
	Render(v int64) string
}

var registry = map[string]func() Renderer{}

// Register adds a renderer constructor to the registry.
func Register(name string, constructor func() Renderer) {
	registry[name] = constructor
}

// Get returns a renderer by name.
func Get(name string) (Renderer, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown display: %s", name)
	}
	return ctor(), nil
}

// Names returns all registered renderer names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
