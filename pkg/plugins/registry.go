package plugins

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/alexander-naumov/wookie/pkg/observability"
)

// Registry tracks the currently active plugins. A plugin identifier is
// present if and only if that plugin is active; the registry is fully torn
// down at the start of every discovery pass.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]*Entry
	unloading map[string]struct{}

	enabled EnabledSet
	units   *UnitMap
	tool    BuildTool
	log     *logrus.Logger
	metrics *observability.Metrics
}

// NewRegistry creates a registry for the given enabled set, unit map and
// build tool. Metrics may be nil.
func NewRegistry(enabled EnabledSet, units *UnitMap, tool BuildTool, log *logrus.Logger, metrics *observability.Metrics) *Registry {
	if log == nil {
		log = logrus.New()
	}

	return &Registry{
		entries:   make(map[string]*Entry),
		unloading: make(map[string]struct{}),
		enabled:   enabled,
		units:     units,
		tool:      tool,
		log:       log,
		metrics:   metrics,
	}
}

// Register activates a plugin: it stores an entry and invokes init
// synchronously, but only when id is in the enabled set and not already
// registered. Re-registration attempts and disabled plugins are silent
// no-ops. If init fails the entry is removed again and the error returned.
func (r *Registry) Register(id string, init InitFunc, teardown TeardownFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled.Contains(id) {
		r.log.Debugf("Plugin %s is not enabled, skipping registration", id)
		return nil
	}
	if _, exists := r.entries[id]; exists {
		r.log.Debugf("Plugin %s already registered, skipping", id)
		return nil
	}

	if teardown == nil {
		teardown = func() error { return nil }
	}

	r.entries[id] = &Entry{ID: id, init: init, teardown: teardown}

	if init != nil {
		if err := init(); err != nil {
			delete(r.entries, id)
			return fmt.Errorf("failed to initialize plugin %s: %w", id, err)
		}
	}

	if r.metrics != nil {
		r.metrics.PluginsRegisteredTotal.Inc()
		r.metrics.ActivePlugins.Set(float64(len(r.entries)))
	}
	r.log.Infof("Registered plugin: %s", id)

	return nil
}

// Unload deactivates a plugin: its teardown hook runs, its entry is removed,
// and the plugins its build unit declares as dependencies are unloaded
// recursively. Unloading an absent plugin skips the teardown step but still
// runs the cascade. A teardown failure propagates and aborts the remainder
// of the cascade, leaving the registry in the partially-unloaded state it
// reached.
func (r *Registry) Unload(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.unload(ctx, id)
}

func (r *Registry) unload(ctx context.Context, id string) error {
	// Guards against cycles in the declared dependency graph: the cascade
	// runs even for absent entries, so the presence check alone does not
	// terminate a cycle.
	if _, busy := r.unloading[id]; busy {
		return nil
	}
	r.unloading[id] = struct{}{}
	defer delete(r.unloading, id)

	if entry, exists := r.entries[id]; exists {
		if err := entry.teardown(); err != nil {
			return fmt.Errorf("failed to tear down plugin %s: %w", id, err)
		}
		delete(r.entries, id)

		if r.metrics != nil {
			r.metrics.PluginsUnloadedTotal.Inc()
			r.metrics.ActivePlugins.Set(float64(len(r.entries)))
		}
		r.log.Infof("Unloaded plugin: %s", id)
	} else {
		r.log.Debugf("Plugin %s not registered, nothing to tear down", id)
	}

	return r.cascade(ctx, id)
}

// cascade unloads the plugins backing the build units that the target
// plugin's own unit declares as direct dependencies. Plugins with no build
// unit (registered by hand rather than discovered) end the cascade here.
func (r *Registry) cascade(ctx context.Context, id string) error {
	unit, ok := r.units.UnitFor(id)
	if !ok {
		return nil
	}

	deps, err := r.tool.DeclareDependencies(ctx, unit)
	if err != nil {
		return fmt.Errorf("failed to query dependencies of unit %s: %w", unit, err)
	}

	for _, dep := range deps {
		pluginID, ok := r.units.PluginFor(dep)
		if !ok {
			continue // dependency unit is not plugin-backed
		}
		if err := r.unload(ctx, pluginID); err != nil {
			return err
		}
	}

	return nil
}

// Has reports whether a plugin is currently active.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.entries[id]
	return exists
}

// Active returns the identifiers of all active plugins, sorted.
func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of active plugins.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}
