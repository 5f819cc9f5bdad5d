package plugins

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the reloader waits after the last filesystem
// event before running a discovery pass, so that a burst of writes (an
// install or upgrade touching several files) triggers a single reload.
const DefaultDebounce = 500 * time.Millisecond

// Reloader triggers discovery passes when plugin folders change on disk and,
// optionally, on a cron schedule.
type Reloader struct {
	folders    []string
	discoverer *Discoverer
	schedule   string // cron spec, empty disables periodic reloads
	debounce   time.Duration
	log        *logrus.Logger

	watcher *fsnotify.Watcher
	cron    *cron.Cron
}

// NewReloader creates a reloader over the same folder list the discoverer
// scans. schedule is a cron spec such as "@every 10m"; pass "" to disable
// periodic rediscovery.
func NewReloader(folders []string, discoverer *Discoverer, schedule string, log *logrus.Logger) *Reloader {
	if log == nil {
		log = logrus.New()
	}

	return &Reloader{
		folders:    folders,
		discoverer: discoverer,
		schedule:   schedule,
		debounce:   DefaultDebounce,
		log:        log,
	}
}

// Start begins watching the plugin folders and, when a schedule is set,
// starts the periodic rediscovery job. It returns once the watcher goroutine
// is running; Close stops everything.
func (r *Reloader) Start(ctx context.Context) error {
	if r.schedule != "" {
		r.cron = cron.New()
		_, err := r.cron.AddFunc(r.schedule, func() { r.reload(context.Background()) })
		if err != nil {
			return fmt.Errorf("invalid reload schedule %q: %w", r.schedule, err)
		}
		r.cron.Start()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	r.watcher = watcher

	for _, folder := range r.folders {
		if _, err := os.Stat(folder); err != nil {
			r.log.Debugf("Not watching missing plugin folder: %s", folder)
			continue
		}
		if err := watcher.Add(folder); err != nil {
			r.log.Warnf("Failed to watch plugin folder %s: %v", folder, err)
		}
	}

	go r.loop(ctx)

	return nil
}

// Close stops the filesystem watcher and the periodic job.
func (r *Reloader) Close() error {
	if r.cron != nil {
		r.cron.Stop()
	}
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}

func (r *Reloader) loop(ctx context.Context) {
	debounce := time.NewTimer(r.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			r.log.Debugf("Plugin folder changed: %s", event.Name)
			debounce.Reset(r.debounce)

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.Warnf("Plugin folder watch error: %v", err)

		case <-debounce.C:
			r.reload(ctx)

		case <-ctx.Done():
			return
		}
	}
}

func (r *Reloader) reload(ctx context.Context) {
	r.log.Info("Plugin folders changed, rediscovering")
	if err := r.discoverer.Discover(ctx); err != nil {
		r.log.Errorf("Plugin rediscovery failed: %v", err)
	}
}
