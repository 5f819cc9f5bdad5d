package plugins

import (
	"fmt"
	"sort"
	"sync"
)

// UnitMap is the bidirectional association between plugin identifiers and the
// build units implementing them. The forward direction drives activation; the
// reverse direction drives unload cascades. It is reset at the start of every
// discovery pass and is read-only between passes.
type UnitMap struct {
	mu      sync.RWMutex
	forward map[string]string // plugin ID -> build unit
	reverse map[string]string // build unit -> plugin ID
}

// NewUnitMap creates an empty unit map.
func NewUnitMap() *UnitMap {
	return &UnitMap{
		forward: make(map[string]string),
		reverse: make(map[string]string),
	}
}

// Bind associates a plugin identifier with a build unit. At most one unit per
// plugin and one plugin per unit may be bound at any time; violating either
// side is an error.
func (m *UnitMap) Bind(pluginID, unit string) error {
	if pluginID == "" || unit == "" {
		return fmt.Errorf("cannot bind empty plugin ID or unit")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.forward[pluginID]; ok {
		return fmt.Errorf("plugin %s already bound to unit %s", pluginID, existing)
	}
	if existing, ok := m.reverse[unit]; ok {
		return fmt.Errorf("unit %s already bound to plugin %s", unit, existing)
	}

	m.forward[pluginID] = unit
	m.reverse[unit] = pluginID
	return nil
}

// UnitFor returns the build unit implementing a plugin.
func (m *UnitMap) UnitFor(pluginID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	unit, ok := m.forward[pluginID]
	return unit, ok
}

// PluginFor returns the plugin identifier implemented by a build unit.
func (m *UnitMap) PluginFor(unit string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pluginID, ok := m.reverse[unit]
	return pluginID, ok
}

// Has reports whether a plugin identifier is already mapped.
func (m *UnitMap) Has(pluginID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.forward[pluginID]
	return ok
}

// Units returns the build units of all mapped plugins, sorted.
func (m *UnitMap) Units() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	units := make([]string, 0, len(m.reverse))
	for unit := range m.reverse {
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}

// Len returns the number of mapped plugins.
func (m *UnitMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.forward)
}

// Reset clears both directions of the map.
func (m *UnitMap) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forward = make(map[string]string)
	m.reverse = make(map[string]string)
}
