package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/xray7224/p/internal/domain/entities"
	"github.com/xray7224/p/internal/domain/interfaces"
)

// watchedFiles trigger a rebuild when written, created or replaced
var watchedFiles = map[string]bool{
	"setup.yml":  true,
	"setup.yaml": true,
	"setup.hcl":  true,
}

type descriptorBuildFunc func(ctx context.Context) (*entities.Descriptor, error)

// readmeFunc returns the readme path the current manifest names
type readmeFunc func(ctx context.Context) string

func runWatch(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	common := addCommonFlags(fs)
	debounce := fs.Duration("debounce", 500*time.Millisecond, "Delay before rebuilding after a change")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: psetup watch [options]

Rebuild the descriptor whenever the manifest or README changes.
Stops on interrupt.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	logger := common.logger("watch")
	builder := newDescriptorBuilder(logger)
	projectDir := *common.projectDir

	build := func(ctx context.Context) (*entities.Descriptor, error) {
		return builder.Build(ctx, projectDir)
	}
	report := func(desc *entities.Descriptor, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return
		}
		fmt.Printf("✅ %s (%d dependencies)\n", desc.DistName(), len(desc.Dependencies))
	}

	readme := func(ctx context.Context) string {
		m, err := builder.LoadManifest(ctx, projectDir)
		if err != nil {
			return entities.DefaultReadmeFile
		}
		return m.Readme()
	}

	if err := watchProject(ctx, projectDir, readme, *debounce, build, report, logger); err != nil {
		fail(err)
	}
}

// watchProject reports an initial build, then one build per burst of changes
// to the manifest or readme, until ctx is done. The readme is looked up again
// before every build so a manifest that names a new one is followed.
func watchProject(
	ctx context.Context,
	projectDir string,
	readme readmeFunc,
	debounce time.Duration,
	build descriptorBuildFunc,
	report func(*entities.Descriptor, error),
	logger interfaces.Logger,
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	//nolint:errcheck // Close error is irrelevant once watching stops
	defer watcher.Close()

	// Watch directories rather than files so editors that replace files are seen
	watched := make(map[string]bool)
	watchDir := func(dir string) error {
		dir = filepath.Clean(dir)
		if watched[dir] {
			return nil
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		watched[dir] = true
		return nil
	}
	if err := watchDir(projectDir); err != nil {
		return err
	}

	var readmePath string
	rebuild := func() {
		path := filepath.Clean(filepath.Join(projectDir, readme(ctx)))
		if path != readmePath {
			// A readme directory that does not exist yet is picked up on a later rebuild
			if err := watchDir(filepath.Dir(path)); err != nil {
				logger.Warn("readme not watched", interfaces.F("path", path), interfaces.F("error", err))
			} else {
				readmePath = path
			}
		}
		report(build(ctx))
	}

	rebuild()
	logger.Info("watching for changes", interfaces.F("project", projectDir))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, projectDir, readmePath) {
				continue
			}
			logger.Debug("file changed", interfaces.F("path", event.Name), interfaces.F("op", event.Op.String()))
			pending = time.After(debounce)

		case <-pending:
			pending = nil
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", interfaces.F("error", err))
		}
	}
}

func relevant(event fsnotify.Event, projectDir, readmePath string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == readmePath {
		return true
	}
	return filepath.Dir(name) == filepath.Clean(projectDir) && watchedFiles[filepath.Base(name)]
}
