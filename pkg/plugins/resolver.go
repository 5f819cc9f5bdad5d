package plugins

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/alexander-naumov/wookie/pkg/observability"
)

// Resolver materializes the enabled plugins: it collects the build units of
// every enabled plugin present in the unit map and hands the whole batch to
// the build tool, which resolves the transitive dependency closure and
// triggers each unit's registration entry point.
type Resolver struct {
	enabled EnabledSet
	units   *UnitMap
	tool    BuildTool
	log     *logrus.Logger
}

// NewResolver creates a resolver for the given enabled set, unit map and
// build tool.
func NewResolver(enabled EnabledSet, units *UnitMap, tool BuildTool, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
	}

	return &Resolver{
		enabled: enabled,
		units:   units,
		tool:    tool,
		log:     log,
	}
}

// Activate loads the build units of all enabled, mapped plugins as one
// batch. An activation failure is fatal to the caller's discovery pass; no
// partial rollback is attempted.
func (r *Resolver) Activate(ctx context.Context) error {
	units := r.pending()
	if len(units) == 0 {
		r.log.Debug("No enabled plugins to activate")
		return nil
	}

	ctx, span := observability.Tracer().Start(ctx, "plugins.Activate")
	span.SetAttributes(attribute.Int("plugins.units", len(units)))
	defer span.End()

	r.log.Infof("Activating %d build units", len(units))

	if err := r.tool.Activate(ctx, units); err != nil {
		span.RecordError(err)
		return fmt.Errorf("build tool activation failed: %w", err)
	}

	return nil
}

// pending returns the build units of enabled plugins with a known unit,
// sorted for deterministic activation batches.
func (r *Resolver) pending() []string {
	units := make([]string, 0, len(r.enabled))
	for id := range r.enabled {
		if unit, ok := r.units.UnitFor(id); ok {
			units = append(units, unit)
		}
	}
	sort.Strings(units)
	return units
}
