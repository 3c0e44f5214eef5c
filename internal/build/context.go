package build

import (
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/chloroplast/internal/config"
	"git.home.luguber.info/inful/chloroplast/internal/metrics"
	"git.home.luguber.info/inful/chloroplast/internal/urlpath"
)

// Options tune a Context beyond what the site configuration says.
type Options struct {
	// OutputDir overrides the configured output folder.
	OutputDir string
	// DisableBasePath drops the base path from URLs, for local preview.
	DisableBasePath bool
	SourceFs        afero.Fs
	DestFs          afero.Fs
	Recorder        metrics.Recorder
}

// Context is everything a build reads. It is created once per process and
// not mutated by builds; per-build state lives in the Result.
type Context struct {
	Config    *config.Config
	Resolver  *urlpath.Resolver
	OutputDir string
	SourceFs  afero.Fs
	DestFs    afero.Fs
	Recorder  metrics.Recorder
	Workers   int
}

// NewContext derives the build context from a loaded configuration.
func NewContext(cfg *config.Config, opts Options) *Context {
	c := &Context{
		Config:    cfg,
		OutputDir: cfg.OutputPath(opts.OutputDir),
		SourceFs:  opts.SourceFs,
		DestFs:    opts.DestFs,
		Recorder:  opts.Recorder,
		Workers:   cfg.Build.Workers,
		Resolver: urlpath.NewResolver(urlpath.Options{
			BasePath:        cfg.BasePath,
			BaseURL:         cfg.BaseURL,
			DefaultLocale:   cfg.DefaultLocale,
			DisableBasePath: opts.DisableBasePath,
		}),
	}
	if c.SourceFs == nil {
		c.SourceFs = afero.NewOsFs()
	}
	if c.DestFs == nil {
		c.DestFs = c.SourceFs
	}
	if c.Recorder == nil {
		c.Recorder = metrics.NoopRecorder{}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// newBuildVersion identifies one build; templates use it for cache busting.
func newBuildVersion() string {
	return uuid.NewString()
}
