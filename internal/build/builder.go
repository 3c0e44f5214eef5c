package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/chloroplast/internal/content"
	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
	"git.home.luguber.info/inful/chloroplast/internal/metadata"
	"git.home.luguber.info/inful/chloroplast/internal/metrics"
	"git.home.luguber.info/inful/chloroplast/internal/nav"
	"git.home.luguber.info/inful/chloroplast/internal/observability"
	"git.home.luguber.info/inful/chloroplast/internal/pathutil"
	"git.home.luguber.info/inful/chloroplast/internal/render"
	"git.home.luguber.info/inful/chloroplast/internal/sitemap"
	"git.home.luguber.info/inful/chloroplast/internal/validation"
)

// Builder runs builds for one Context. Build and BuildFile must not run
// concurrently with each other; the watch loop guarantees that.
type Builder struct {
	bc *Context

	mu      sync.Mutex
	version string
}

// NewBuilder creates a builder.
func NewBuilder(bc *Context) *Builder {
	return &Builder{bc: bc}
}

// Context returns the build context.
func (b *Builder) Context() *Context { return b.bc }

// Build renders the whole site. The returned error is non-nil only for fatal
// failures; per-file failures are in Result.Errors with StatusPartial.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	version := newBuildVersion()
	b.mu.Lock()
	b.version = version
	b.mu.Unlock()

	res := newResult(version)
	ctx = observability.WithBuildVersion(ctx, version)
	observability.InfoContext(ctx, "Starting build", logfields.Target(b.bc.OutputDir))
	b.bc.Recorder.SetWorkers(b.bc.Workers)

	renderer, s, err := b.setup(ctx, res)
	if err != nil {
		return b.fail(ctx, res, err)
	}

	stageStart := time.Now()
	b.process(observability.WithStage(ctx, "render"), renderer, s, s.nodes, res)
	b.bc.Recorder.ObserveStageDuration("render", time.Since(stageStart))
	if ctx.Err() != nil {
		return b.cancelled(ctx, res)
	}

	if b.bc.Config.SitemapEnabled() {
		if err := b.writeSitemap(observability.WithStage(ctx, "sitemap"), s, res); err != nil {
			res.Errors.Add(filepath.Join(b.bc.OutputDir, sitemap.FileName), err)
		}
	}

	if b.bc.Config.Build.Validate {
		stageStart = time.Now()
		res.Validation = validation.Validate(ctx, b.bc.DestFs, b.bc.OutputDir, b.bc.Resolver.BasePath())
		res.Validation.Log(observability.WithStage(ctx, "validate"), slog.Default())
		b.bc.Recorder.ObserveStageDuration("validate", time.Since(stageStart))
	}

	return b.complete(ctx, res), nil
}

// BuildFile rebuilds the output of a single source file. Template changes
// rebuild everything. Preparation still covers every area so that menus,
// inherited metadata and translations stay correct.
func (b *Builder) BuildFile(ctx context.Context, path string) (*Result, error) {
	abs := pathutil.NormalizePath(path, false)
	templates := b.bc.Config.TemplatesPath()
	if abs == templates || strings.HasPrefix(abs, templates+string(filepath.Separator)) {
		observability.InfoContext(ctx, "Template changed, rebuilding site", logfields.Path(abs))
		return b.Build(ctx)
	}

	b.mu.Lock()
	version := b.version
	b.mu.Unlock()
	if version == "" {
		return b.Build(ctx)
	}

	res := newResult(version)
	ctx = observability.WithBuildVersion(ctx, version)

	renderer, s, err := b.setup(ctx, res)
	if err != nil {
		return b.fail(ctx, res, err)
	}

	var target *content.Node
	for _, n := range s.nodes {
		if n.Source.Path() == abs {
			target = n
			break
		}
	}
	if target == nil {
		res.finish(StatusFailed)
		return res, ErrOutsideSite.WithContext("path", abs)
	}

	ctx = observability.WithArea(ctx, target.Area.SourcePath())
	b.process(observability.WithStage(ctx, "render"), renderer, s, []*content.Node{target}, res)
	return b.complete(ctx, res), nil
}

func (b *Builder) setup(ctx context.Context, res *Result) (*render.Renderer, *site, error) {
	stageStart := time.Now()
	cfg := b.bc.Config
	renderer, err := render.New(render.Options{
		Fs:           b.bc.SourceFs,
		TemplatesDir: cfg.TemplatesPath(),
		Minify:       cfg.Build.Minify,
		Markdown: render.MarkdownOptions{
			HighlightStyle: cfg.Markdown.HighlightStyle,
			Math:           cfg.Markdown.Math,
		},
	})
	if err != nil {
		return nil, nil, err
	}
	b.bc.Recorder.ObserveStageDuration("templates", time.Since(stageStart))

	stageStart = time.Now()
	s, err := b.prepare(ctx, res)
	if err != nil {
		return nil, nil, err
	}
	b.bc.Recorder.ObserveStageDuration("prepare", time.Since(stageStart))
	return renderer, s, nil
}

// process fans the nodes out to the worker pool and waits for all of them.
func (b *Builder) process(ctx context.Context, renderer *render.Renderer, s *site, nodes []*content.Node, res *Result) {
	var g errgroup.Group
	g.SetLimit(b.bc.Workers)
	for _, n := range nodes {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			label, err := b.processNode(ctx, renderer, s, n, res.BuildVersion)
			if err != nil {
				res.Errors.Add(n.Source.Path(), err)
				observability.DebugContext(ctx, "File failed", logfields.Path(n.Source.Path()), logfields.Error(err))
			}
			res.count(label)
			b.bc.Recorder.IncFileResult(label)
			return nil
		})
	}
	_ = g.Wait()
}

func (b *Builder) processNode(ctx context.Context, renderer *render.Renderer, s *site, n *content.Node, version string) (metrics.ResultLabel, error) {
	if !n.IsContent() {
		return b.copyAsset(n)
	}
	if s.broken[n] {
		// already reported by the front-matter pass
		return metrics.ResultFailed, nil
	}

	page := render.NewPage(n, b.metadataFor(n), b.bc.Resolver, version)
	page.Nav = nav.Build(s.roots[n.Locale], b.bc.Resolver, n)

	doc, err := renderer.Render(page, n.Body)
	if err != nil {
		return metrics.ResultFailed, err
	}
	doc, err = b.bc.Resolver.RewriteHTML(doc, n.Locale)
	if err != nil {
		return metrics.ResultFailed, foundation.RenderError("rewrite links").WithCause(err).Build()
	}
	if err := n.Target.WriteAllText(doc); err != nil {
		return metrics.ResultFailed, fileError("write target", n.Target.Path(), err)
	}
	observability.DebugContext(ctx, "Rendered page", logfields.Path(n.RelativeSource), logfields.Target(n.Target.Path()))
	return metrics.ResultRendered, nil
}

// copyAsset copies a pass-through file unless the target is up to date.
func (b *Builder) copyAsset(n *content.Node) (metrics.ResultLabel, error) {
	if n.Target.Exists() && !n.Source.NewerThan(n.Target) {
		return metrics.ResultSkipped, nil
	}
	if err := n.Source.CopyTo(n.Target); err != nil {
		return metrics.ResultFailed, fileError("copy asset", n.Target.Path(), err)
	}
	return metrics.ResultCopied, nil
}

// metadataFor stacks site, area, ancestors (root first) and the page.
func (b *Builder) metadataFor(n *content.Node) *metadata.Config {
	layers := []*metadata.Layer{b.bc.Config.Layer()}
	if n.Area != nil {
		layers = append(layers, n.Area.Config())
	}
	for _, a := range n.Ancestors() {
		layers = append(layers, a.Meta)
	}
	layers = append(layers, n.Meta)
	return metadata.New(layers...)
}

func (b *Builder) writeSitemap(ctx context.Context, s *site, res *Result) error {
	stageStart := time.Now()
	var pages []*content.Node
	for _, n := range s.nodes {
		if n.IsContent() && !s.broken[n] {
			pages = append(pages, n)
		}
	}
	entries := sitemap.Collect(pages, b.bc.Resolver)
	written, err := sitemap.Write(b.bc.DestFs, b.bc.OutputDir, entries, b.bc.Config.Sitemap.MaxURLsPerFile, b.bc.Resolver)
	res.Sitemaps = written
	b.bc.Recorder.ObserveStageDuration("sitemap", time.Since(stageStart))
	if err != nil {
		return foundation.FileSystemError("write sitemap").WithCause(err).Build()
	}
	observability.DebugContext(ctx, "Wrote sitemap", slog.Int("urls", len(entries)), slog.Int("files", len(written)))
	return nil
}

func (b *Builder) complete(ctx context.Context, res *Result) *Result {
	status := StatusSuccess
	if res.Errors.HasErrors() {
		status = StatusPartial
		res.Errors.Log(ctx, slog.Default())
	}
	res.finish(status)
	b.bc.Recorder.IncBuildOutcome(status.outcome())
	b.bc.Recorder.ObserveBuildDuration(res.Duration)
	observability.InfoContext(ctx, "Build finished",
		slog.String("status", string(status)),
		logfields.Pages(res.Rendered),
		logfields.Assets(res.Copied),
		slog.Int("skipped", res.Skipped),
		logfields.Failures(res.Failed),
		logfields.DurationMS(float64(res.Duration)/float64(time.Millisecond)))
	return res
}

func (b *Builder) fail(ctx context.Context, res *Result, err error) (*Result, error) {
	res.finish(StatusFailed)
	b.bc.Recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	observability.ErrorContext(ctx, "Build failed", logfields.Error(err))
	return res, err
}

func (b *Builder) cancelled(ctx context.Context, res *Result) (*Result, error) {
	res.finish(StatusCancelled)
	b.bc.Recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	return res, foundation.RuntimeError("build cancelled").WithCause(ctx.Err()).Build()
}

func fileError(op, path string, err error) error {
	return foundation.FileSystemError(fmt.Sprintf("%s %s", op, filepath.Base(path))).
		WithCause(err).WithContext("path", path).Build()
}

func parseError(path string, err error) error {
	return foundation.ParseError("invalid front matter").WithCause(err).WithContext("path", path).Build()
}
