package plugins

// Tests for registry.go covering registration gating, idempotency, unload
// cascades, teardown failure propagation and cycle termination.

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBuildTool implements BuildTool for testing. Activate loads the
// transitive closure of the requested units depth-first (dependencies before
// dependents) and invokes each unit's registration entry point, the way the
// real tool does.
type fakeBuildTool struct {
	mu          sync.Mutex
	deps        map[string][]string
	entryPoints map[string]func()
	activations [][]string
	activateErr error
	depsErr     error
}

func newFakeBuildTool() *fakeBuildTool {
	return &fakeBuildTool{
		deps:        make(map[string][]string),
		entryPoints: make(map[string]func()),
	}
}

func (t *fakeBuildTool) DeclareDependencies(ctx context.Context, unit string) ([]string, error) {
	if t.depsErr != nil {
		return nil, t.depsErr
	}
	return t.deps[unit], nil
}

func (t *fakeBuildTool) Activate(ctx context.Context, units []string) error {
	t.mu.Lock()
	t.activations = append(t.activations, units)
	t.mu.Unlock()

	if t.activateErr != nil {
		return t.activateErr
	}

	loaded := make(map[string]bool)
	var load func(unit string)
	load = func(unit string) {
		if loaded[unit] {
			return
		}
		loaded[unit] = true
		for _, dep := range t.deps[unit] {
			load(dep)
		}
		if entryPoint := t.entryPoints[unit]; entryPoint != nil {
			entryPoint()
		}
	}
	for _, unit := range units {
		load(unit)
	}

	return nil
}

func (t *fakeBuildTool) activationBatches() [][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activations
}

func newTestRegistry(t *testing.T, enabled ...string) (*Registry, *UnitMap, *fakeBuildTool) {
	t.Helper()

	units := NewUnitMap()
	tool := newFakeBuildTool()
	registry := NewRegistry(NewEnabledSet(enabled...), units, tool, testLogger(), nil)
	return registry, units, tool
}

func TestRegistry_Register(t *testing.T) {
	registry, _, _ := newTestRegistry(t, "audit")

	initCalls := 0
	err := registry.Register("audit", func() error {
		initCalls++
		return nil
	}, nil)

	require.NoError(t, err)
	assert.True(t, registry.Has("audit"))
	assert.Equal(t, 1, initCalls)
	assert.Equal(t, []string{"audit"}, registry.Active())
}

func TestRegistry_Register_NotEnabled(t *testing.T) {
	registry, _, _ := newTestRegistry(t, "audit")

	initCalls := 0
	err := registry.Register("metrics", func() error {
		initCalls++
		return nil
	}, nil)

	require.NoError(t, err)
	assert.False(t, registry.Has("metrics"))
	assert.Zero(t, initCalls, "init must never run for plugins outside the enabled set")
}

func TestRegistry_Register_Idempotent(t *testing.T) {
	registry, _, _ := newTestRegistry(t, "audit")

	initCalls := 0
	init := func() error {
		initCalls++
		return nil
	}

	require.NoError(t, registry.Register("audit", init, nil))
	require.NoError(t, registry.Register("audit", init, nil))
	require.NoError(t, registry.Register("audit", func() error {
		t.Fatal("re-registration must not invoke a new init callback")
		return nil
	}, nil))

	assert.Equal(t, 1, initCalls, "init runs at most once per activation")
	assert.Equal(t, 1, registry.Count())
}

func TestRegistry_Register_InitError(t *testing.T) {
	registry, _, _ := newTestRegistry(t, "audit")

	err := registry.Register("audit", func() error {
		return errors.New("boom")
	}, nil)

	require.Error(t, err)
	assert.False(t, registry.Has("audit"), "a plugin that failed init is not active")
}

func TestRegistry_Unload_Absent(t *testing.T) {
	registry, _, _ := newTestRegistry(t, "audit")
	require.NoError(t, registry.Register("audit", nil, nil))

	err := registry.Unload(context.Background(), "ghost")

	require.NoError(t, err)
	assert.True(t, registry.Has("audit"), "unrelated plugins stay registered")
}

func TestRegistry_Unload_TeardownRuns(t *testing.T) {
	registry, _, _ := newTestRegistry(t, "audit")

	teardownCalls := 0
	require.NoError(t, registry.Register("audit", nil, func() error {
		teardownCalls++
		return nil
	}))

	require.NoError(t, registry.Unload(context.Background(), "audit"))
	assert.Equal(t, 1, teardownCalls)
	assert.False(t, registry.Has("audit"))
}

func TestRegistry_Unload_ManuallyRegistered(t *testing.T) {
	// A plugin with no build unit was never resolved by the build tool;
	// its cascade ends immediately.
	registry, _, tool := newTestRegistry(t, "inproc")
	tool.depsErr = errors.New("DeclareDependencies must not be called for unmapped plugins")

	require.NoError(t, registry.Register("inproc", nil, nil))
	require.NoError(t, registry.Unload(context.Background(), "inproc"))
	assert.False(t, registry.Has("inproc"))
}

func TestRegistry_Unload_Cascade(t *testing.T) {
	registry, units, tool := newTestRegistry(t, "x", "y", "z")
	require.NoError(t, units.Bind("x", "ux"))
	require.NoError(t, units.Bind("y", "uy"))
	require.NoError(t, units.Bind("z", "uz"))
	tool.deps["ux"] = []string{"uy", "libc"} // libc is not plugin-backed

	require.NoError(t, registry.Register("x", nil, nil))
	require.NoError(t, registry.Register("y", nil, nil))
	require.NoError(t, registry.Register("z", nil, nil))

	require.NoError(t, registry.Unload(context.Background(), "x"))

	assert.False(t, registry.Has("x"))
	assert.False(t, registry.Has("y"), "dependency plugins are unloaded with their dependent")
	assert.True(t, registry.Has("z"), "plugins outside the cascade closure stay registered")
}

func TestRegistry_Unload_CascadeTransitive(t *testing.T) {
	registry, units, tool := newTestRegistry(t, "a", "b", "c")
	require.NoError(t, units.Bind("a", "ua"))
	require.NoError(t, units.Bind("b", "ub"))
	require.NoError(t, units.Bind("c", "uc"))
	tool.deps["ua"] = []string{"ub"}
	tool.deps["ub"] = []string{"uc"}

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, registry.Register(id, nil, nil))
	}

	require.NoError(t, registry.Unload(context.Background(), "a"))
	assert.Zero(t, registry.Count())
}

func TestRegistry_Unload_CascadeCycle(t *testing.T) {
	registry, units, tool := newTestRegistry(t, "a", "b")
	require.NoError(t, units.Bind("a", "ua"))
	require.NoError(t, units.Bind("b", "ub"))
	tool.deps["ua"] = []string{"ub"}
	tool.deps["ub"] = []string{"ua"}

	require.NoError(t, registry.Register("a", nil, nil))
	require.NoError(t, registry.Register("b", nil, nil))

	require.NoError(t, registry.Unload(context.Background(), "a"))
	assert.Zero(t, registry.Count(), "a declared dependency cycle still terminates")
}

func TestRegistry_Unload_TeardownErrorAbortsCascade(t *testing.T) {
	registry, units, tool := newTestRegistry(t, "x", "y", "z")
	require.NoError(t, units.Bind("x", "ux"))
	require.NoError(t, units.Bind("y", "uy"))
	require.NoError(t, units.Bind("z", "uz"))
	tool.deps["ux"] = []string{"uy"}
	tool.deps["uy"] = []string{"uz"}

	require.NoError(t, registry.Register("x", nil, nil))
	require.NoError(t, registry.Register("y", nil, func() error {
		return errors.New("teardown failed")
	}))
	require.NoError(t, registry.Register("z", nil, nil))

	err := registry.Unload(context.Background(), "x")

	require.Error(t, err)
	assert.False(t, registry.Has("x"), "the target was unloaded before the cascade failed")
	assert.True(t, registry.Has("y"), "the failing plugin stays in place")
	assert.True(t, registry.Has("z"), "the rest of the cascade is aborted")
}

func TestRegistry_Unload_DependencyQueryError(t *testing.T) {
	registry, units, tool := newTestRegistry(t, "x")
	require.NoError(t, units.Bind("x", "ux"))
	tool.depsErr = errors.New("tool unavailable")

	require.NoError(t, registry.Register("x", nil, nil))

	err := registry.Unload(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, registry.Has("x"))
}
