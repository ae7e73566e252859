package manager

import (
	"fmt"
	"sort"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/level"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/screen"
)

// Built-in screen types.
const (
	TypeScreen = "screen"
	TypeLevel  = "level"
)

// Descriptor describes one timeline entry.
type Descriptor struct {
	ScreenID string `toml:"id" yaml:"id"`
	Type     string `toml:"type" yaml:"type"`
	Overlay  bool   `toml:"overlay" yaml:"overlay"`
}

// Factory builds the entity for a descriptor. The manager passes itself so
// the entity can use it as its screen.Host.
type Factory func(m *Manager, d Descriptor) (screen.Entity, error)

// Registry maps screen type names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry holding the built-in "screen" and "level" types.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	return r.
		Register(TypeScreen, newScreen).
		Register(TypeLevel, newLevel)
}

// Register adds or replaces the factory for a type.
func (r *Registry) Register(typeName string, fn Factory) *Registry {
	r.factories[typeName] = fn
	return r
}

// Lookup returns the factory for a type.
func (r *Registry) Lookup(typeName string) (Factory, bool) {
	fn, ok := r.factories[typeName]
	return fn, ok
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create runs the factory registered for d.Type. An empty type means "screen".
func (r *Registry) Create(m *Manager, d Descriptor) (screen.Entity, error) {
	typeName := d.Type
	if typeName == "" {
		typeName = TypeScreen
	}

	fn, ok := r.factories[typeName]
	if !ok {
		return nil, NewNavigationError("create", d.ScreenID, fmt.Errorf("%w: %s", ErrUnknownScreenType, typeName))
	}

	entity, err := fn(m, d)
	if err != nil {
		return nil, NewNavigationError("create", d.ScreenID, err)
	}
	if entity == nil || entity.Screen() == nil {
		return nil, NewNavigationError("create", d.ScreenID, fmt.Errorf("factory for %s returned no screen", typeName))
	}
	return entity, nil
}

// Check reports the first descriptor Initialize would reject for a repeated
// id or an unregistered type, without building anything.
func (r *Registry) Check(timeline []Descriptor) error {
	seen := make(map[string]bool, len(timeline))
	for _, d := range timeline {
		if seen[d.ScreenID] {
			return NewNavigationError("initialize", d.ScreenID, ErrDuplicateScreen)
		}
		seen[d.ScreenID] = true

		typeName := d.Type
		if typeName == "" {
			typeName = TypeScreen
		}
		if _, ok := r.factories[typeName]; !ok {
			return NewNavigationError("create", d.ScreenID, fmt.Errorf("%w: %s", ErrUnknownScreenType, typeName))
		}
	}
	return nil
}

func newScreen(m *Manager, d Descriptor) (screen.Entity, error) {
	return screen.New(m, d.ScreenID, m.element(d.ScreenID), d.Overlay), nil
}

func newLevel(m *Manager, d Descriptor) (screen.Entity, error) {
	return level.New(m, d.ScreenID, m.element(d.ScreenID), d.Overlay, m.opts.Fetcher, m.opts.FetchTimeout), nil
}
