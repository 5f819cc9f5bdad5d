package plugins

import "sync"

// ConfigStore maps plugin identifiers to opaque configuration values. It is
// independent of the registry: configuration survives deactivation and may be
// set for plugins that were never activated. The backing map is created
// lazily on first use.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore creates an empty config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

// Set stores a configuration value for a plugin. The value's shape is owned
// by the plugin and is not validated.
func (s *ConfigStore) Set(id string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[id] = value
}

// Get returns the configuration value for a plugin, or false when none has
// been set.
func (s *ConfigStore) Get(id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[id]
	return value, ok
}
