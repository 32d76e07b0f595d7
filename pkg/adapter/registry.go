package adapter

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Factory builds an unconnected sink.
type Factory func(*slog.Logger) Adapter

// Info describes a registered sink.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type entry struct {
	info    Info
	factory Factory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]entry)
)

// Register adds a sink factory under name. Sinks call it from init.
// Registering the same name twice replaces the earlier factory.
func Register(name, description string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = entry{info: Info{Name: name, Description: description}, factory: factory}
}

// Get returns the factory registered under name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[name]
	return e.factory, ok
}

// IsRegistered reports whether a sink is registered under name.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// NewAdapter creates an unconnected sink for cfg.Type. A nil logger
// discards.
func NewAdapter(cfg Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("sink type not specified")
	}

	factory, ok := Get(strings.ToLower(cfg.Type))
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return factory(logger), nil
}

// ListAdapters returns the registered sink names, sorted.
func ListAdapters() []string {
	infos := Registered()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// Registered returns every registered sink, sorted by name.
func Registered() []Info {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Info, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UnknownAdapterError is returned when no sink is registered for a type.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown sink type %q\nAvailable sinks: %v\nHint: Check export.type in secom.yaml", e.Type, e.Available)
}
