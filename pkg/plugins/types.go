package plugins

import "context"

// InitFunc is a plugin's activation hook, invoked synchronously exactly once
// when the plugin is registered.
type InitFunc func() error

// TeardownFunc is a plugin's deactivation hook, invoked when the plugin is
// unloaded. A nil teardown is replaced with a no-op.
type TeardownFunc func() error

// Entry holds the registry's record of an active plugin. Entries are created
// on registration and destroyed on unload.
type Entry struct {
	ID       string
	init     InitFunc
	teardown TeardownFunc
}

// BuildTool is the external tool that compiles, links and loads the build
// units implementing plugins. Implementations are provided by the host.
type BuildTool interface {
	// DeclareDependencies returns the direct (non-transitive) dependency
	// build units declared by a single unit.
	DeclareDependencies(ctx context.Context, unit string) ([]string, error)

	// Activate loads the given build units together, resolving and
	// activating the transitive dependency closure of the whole batch.
	// Each unit's registration entry point is expected to call back into
	// Registry.Register as a side effect. Implementations must suppress
	// their own diagnostic output.
	Activate(ctx context.Context, units []string) error
}

// EnabledSet is the externally configured allow-list of plugin identifiers
// that may activate. It is a read-only input; the core never mutates it.
type EnabledSet map[string]struct{}

// NewEnabledSet builds an EnabledSet from a list of plugin identifiers.
func NewEnabledSet(ids ...string) EnabledSet {
	s := make(EnabledSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is allowed to activate.
func (s EnabledSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}
