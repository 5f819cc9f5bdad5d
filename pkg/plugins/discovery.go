package plugins

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alexander-naumov/wookie/pkg/observability"
)

// Discoverer walks an ordered list of plugin folders, maps each candidate
// plugin to the build unit its manifest declares, and activates the enabled
// ones. Each pass starts from a clean slate: the registry is fully torn down
// and the unit map reset before any folder is read.
type Discoverer struct {
	folders  []string
	registry *Registry
	units    *UnitMap
	resolver *Resolver
	log      *logrus.Logger
	metrics  *observability.Metrics
}

// NewDiscoverer creates a discoverer over the given ordered folder list.
// Metrics may be nil.
func NewDiscoverer(folders []string, registry *Registry, units *UnitMap, resolver *Resolver, log *logrus.Logger, metrics *observability.Metrics) *Discoverer {
	if log == nil {
		log = logrus.New()
	}

	return &Discoverer{
		folders:  folders,
		registry: registry,
		units:    units,
		resolver: resolver,
		log:      log,
		metrics:  metrics,
	}
}

// Discover runs a full discovery pass: tear down the registry, reset the
// unit map, scan every folder in order, then activate all enabled plugins
// that were mapped. The first folder to yield a candidate identifier wins;
// later folders never override earlier ones. Directories without a readable
// manifest are logged and skipped. Activation failure aborts the pass.
func (d *Discoverer) Discover(ctx context.Context) error {
	ctx, span := observability.Tracer().Start(ctx, "plugins.Discover")
	defer span.End()

	start := time.Now()

	for _, id := range d.registry.Active() {
		if err := d.registry.Unload(ctx, id); err != nil {
			return fmt.Errorf("failed to reset plugin registry: %w", err)
		}
	}
	d.units.Reset()

	for _, folder := range d.folders {
		entries, err := os.ReadDir(folder)
		if err != nil {
			d.log.Debugf("Plugin folder not readable, skipping: %s", folder)
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			d.scanCandidate(folder, entry.Name())
		}
	}

	if err := d.resolver.Activate(ctx); err != nil {
		span.RecordError(err)
		if d.metrics != nil {
			d.metrics.DiscoveryFailuresTotal.Inc()
		}
		return fmt.Errorf("failed to activate plugins: %w", err)
	}

	if d.metrics != nil {
		d.metrics.DiscoveryPassesTotal.Inc()
		d.metrics.DiscoveryDuration.Observe(time.Since(start).Seconds())
	}
	d.log.Infof("Plugin discovery complete: %d mapped, %d active", d.units.Len(), d.registry.Count())

	return nil
}

// scanCandidate derives a candidate identifier from a plugin subdirectory
// and binds the build unit its manifest declares. The candidate identifier
// is passed into the manifest step explicitly rather than through any
// process-wide "current plugin" state.
func (d *Discoverer) scanCandidate(folder, name string) {
	id := strings.ToLower(name)
	dir := filepath.Join(folder, name)

	if d.units.Has(id) {
		d.log.Debugf("Plugin %s already discovered, ignoring %s", id, dir)
		return
	}

	manifest, err := LoadManifestFromDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.log.Infof("No %s in %s, skipping", ManifestFileName, dir)
		} else {
			d.log.Warnf("Failed to load manifest from %s: %v", dir, err)
		}
		if d.metrics != nil {
			d.metrics.ManifestSkipsTotal.Inc()
		}
		return
	}

	if validationErrors := ValidateManifest(manifest); len(validationErrors) > 0 {
		d.log.Warnf("Invalid manifest in %s: %v", dir, validationErrors)
		if d.metrics != nil {
			d.metrics.ManifestSkipsTotal.Inc()
		}
		return
	}

	if err := d.units.Bind(id, manifest.Unit); err != nil {
		d.log.Warnf("Failed to map plugin %s: %v", id, err)
		return
	}

	d.log.Debugf("Discovered plugin %s (unit %s) in %s", id, manifest.Unit, dir)
}
