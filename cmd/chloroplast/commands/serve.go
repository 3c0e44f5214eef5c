package commands

import (
	"context"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/chloroplast/internal/build"
	"git.home.luguber.info/inful/chloroplast/internal/metrics"
	"git.home.luguber.info/inful/chloroplast/internal/server"
)

// ServeCmd implements the 'serve' command. URLs are built without the base
// path so the site works from the server root.
type ServeCmd struct {
	Out              string        `short:"o" help:"Output directory, overriding output_folder" type:"path"`
	Host             string        `help:"Interface to listen on" default:"localhost"`
	Port             int           `short:"p" help:"First port to try (overrides serve.port)"`
	NoWatch          bool          `name:"no-watch" help:"Build once, then serve without watching for changes"`
	FullRebuildEvery time.Duration `name:"full-rebuild-every" help:"Also rebuild everything at this interval (overrides serve.full_rebuild_every)"`
}

func (s *ServeCmd) Run(root *CLI) error {
	reg := prom.NewRegistry()
	bc, err := root.buildContext(build.Options{
		OutputDir:       s.Out,
		DisableBasePath: true,
		Recorder:        metrics.NewPrometheusRecorder(reg),
	})
	if err != nil {
		return err
	}
	every, err := fullRebuildInterval(bc, s.FullRebuildEvery)
	if err != nil {
		return err
	}

	port := bc.Config.Serve.Port
	if s.Port > 0 {
		port = s.Port
	}

	ctx, cancel := signalContext()
	defer cancel()

	ln, got, err := server.Listen(ctx, s.Host, port, bc.Config.Serve.PortAttempts)
	if err != nil {
		return err
	}
	fmt.Printf("Serving %s at http://%s:%d/\n", bc.OutputDir, s.Host, got)

	srv := server.New(server.Options{Fs: bc.DestFs, OutputDir: bc.OutputDir, Registry: reg})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(gctx, ln) })
	builder := build.NewBuilder(bc)
	g.Go(func() error {
		if s.NoWatch {
			_, err := builder.Build(gctx)
			return ignoreCancel(gctx, err)
		}
		return watchSite(gctx, builder, every)
	})
	return g.Wait()
}

func ignoreCancel(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}
