package ojapi

import (
	"errors"
	"fmt"
	"maps"
	"sync"
)

// ErrUnknownBackend is returned by Build for an unregistered backend ID.
var ErrUnknownBackend = errors.New("unknown backend")

// SettingDef describes a backend setting.
type SettingDef struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Required bool   `json:"required" yaml:"required"`
	Default  string `json:"default,omitempty" yaml:"default,omitempty"`
}

// BackendDef describes an available judge backend.
type BackendDef struct {
	ID       string                                           `json:"id" yaml:"id"`
	Name     string                                           `json:"name" yaml:"name"`
	Settings []SettingDef                                     `json:"settings" yaml:"settings"`
	Build    func(settings map[string]string) (Client, error) `json:"-" yaml:"-"`
}

var (
	registryMu sync.RWMutex
	registry   []BackendDef
)

// Register adds a backend definition to the registry.
// Called from init() in backend implementation files. Registering the same ID twice panics.
func Register(b BackendDef) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, existing := range registry {
		if existing.ID == b.ID {
			panic("ojapi: backend registered twice: " + b.ID)
		}
	}
	registry = append(registry, b)
}

// Backends returns all registered backend definitions.
func Backends() []BackendDef {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return append([]BackendDef(nil), registry...)
}

// Lookup returns the backend definition registered under id.
func Lookup(id string) (BackendDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, b := range registry {
		if b.ID == id {
			return b, true
		}
	}
	return BackendDef{}, false
}

// Build creates a Client from a backend ID and settings.
// Missing optional settings are filled from their defaults; the caller's map is not modified.
func Build(id string, settings map[string]string) (Client, error) {
	def, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, id)
	}

	resolved := make(map[string]string, len(settings)+len(def.Settings))
	maps.Copy(resolved, settings)
	for _, s := range def.Settings {
		if resolved[s.ID] == "" && s.Default != "" {
			resolved[s.ID] = s.Default
		}
		if s.Required && resolved[s.ID] == "" {
			return nil, fmt.Errorf("%s is required", s.Name)
		}
	}
	return def.Build(resolved)
}
