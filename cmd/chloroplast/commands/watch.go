package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/chloroplast/internal/build"
	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
	"git.home.luguber.info/inful/chloroplast/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Out              string        `short:"o" help:"Output directory, overriding output_folder" type:"path"`
	FullRebuildEvery time.Duration `name:"full-rebuild-every" help:"Also rebuild everything at this interval (overrides serve.full_rebuild_every)"`
}

func (w *WatchCmd) Run(root *CLI) error {
	bc, err := root.buildContext(build.Options{OutputDir: w.Out})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	every, err := fullRebuildInterval(bc, w.FullRebuildEvery)
	if err != nil {
		return err
	}
	return watchSite(ctx, build.NewBuilder(bc), every)
}

// fullRebuildInterval picks the flag when set, else the configured value.
func fullRebuildInterval(bc *build.Context, flag time.Duration) (time.Duration, error) {
	if flag > 0 {
		return flag, nil
	}
	raw := bc.Config.Serve.FullRebuild
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, foundation.ConfigError("invalid serve.full_rebuild_every").WithCause(err).Build()
	}
	return d, nil
}

// watchRoots lists every area source and the templates folder.
func watchRoots(bc *build.Context) ([]string, error) {
	areas, err := bc.Areas()
	if err != nil {
		return nil, err
	}
	roots := make([]string, 0, len(areas)+1)
	for _, a := range areas {
		roots = append(roots, a.SourcePath())
	}
	return append(roots, bc.Config.TemplatesPath()), nil
}

// watchSite runs an initial build, then rebuilds on changes until ctx ends.
// A failed initial build is reported but does not stop watching.
func watchSite(ctx context.Context, builder *build.Builder, every time.Duration) error {
	bc := builder.Context()
	if _, err := builder.Build(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		slog.Warn("Initial build failed; waiting for changes", logfields.Error(err))
	}

	roots, err := watchRoots(bc)
	if err != nil {
		return err
	}
	rebuilder := watch.NewRebuilder(builder, bc.Recorder)
	watcher, err := watch.New(roots, bc.OutputDir, rebuilder)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if every > 0 {
		scheduler, err := watch.NewScheduler(rebuilder)
		if err != nil {
			return err
		}
		if _, err := scheduler.Every(ctx, every); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	return watcher.Run(ctx)
}
