// Package config loads SiteConfig.yml: the site-wide settings, the content
// areas and the ambient build/serve options.
package config

import (
	"git.home.luguber.info/inful/chloroplast/internal/metadata"
	"git.home.luguber.info/inful/chloroplast/internal/pathutil"
)

// DefaultFileName is looked up in the site root when no path is given.
const DefaultFileName = "SiteConfig.yml"

// Config is the decoded site configuration.
type Config struct {
	Title           string         `yaml:"title"`
	BaseURL         string         `yaml:"base_url"`
	BasePath        string         `yaml:"base_path"`
	DefaultLocale   string         `yaml:"default_locale"`
	TemplatesFolder string         `yaml:"templates_folder"`
	OutputFolder    string         `yaml:"output_folder"`
	NormalizePaths  bool           `yaml:"normalize_paths"`
	Areas           []AreaConfig   `yaml:"areas"`
	Build           BuildConfig    `yaml:"build"`
	Sitemap         SitemapConfig  `yaml:"sitemap"`
	Serve           ServeConfig    `yaml:"serve"`
	Markdown        MarkdownConfig `yaml:"markdown"`

	// Root is the directory holding the configuration file; relative paths
	// resolve against it.
	Root string `yaml:"-"`

	layer *metadata.Layer
}

// AreaConfig describes one content area. Exactly one of SourceFile or
// SourceFolder is set.
type AreaConfig struct {
	SourceFile   string `yaml:"source_file"`
	SourceFolder string `yaml:"source_folder"`
	OutputFolder string `yaml:"output_folder"`
	OutputFile   string `yaml:"output_file"`
	Locale       string `yaml:"locale"`
	// NormalizePaths overrides the site setting when present.
	NormalizePaths *bool `yaml:"normalize_paths"`

	layer *metadata.Layer
}

// BuildConfig controls the render fan-out.
type BuildConfig struct {
	// Workers bounds concurrent render tasks; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// Validate runs the output validator after every full build.
	Validate bool `yaml:"validate"`
	// Minify compresses rendered HTML before it is written.
	Minify bool `yaml:"minify"`
}

// MarkdownConfig tunes the Markdown converter.
type MarkdownConfig struct {
	// HighlightStyle names the chroma style used for fenced code blocks;
	// "none" disables highlighting.
	HighlightStyle string `yaml:"highlight_style"`
	// Math keeps $...$ and $$...$$ spans verbatim for client-side rendering.
	Math bool `yaml:"math"`
}

// SitemapConfig controls sitemap generation.
type SitemapConfig struct {
	Enabled        *bool `yaml:"enabled"`
	MaxURLsPerFile int   `yaml:"max_urls_per_file"`
}

// ServeConfig controls the preview server.
type ServeConfig struct {
	Port         int    `yaml:"port"`
	PortAttempts int    `yaml:"port_attempts"`
	FullRebuild  string `yaml:"full_rebuild_every"`
}

// SitemapEnabled reports whether sitemaps are written; the default is on.
func (c *Config) SitemapEnabled() bool {
	return c.Sitemap.Enabled == nil || *c.Sitemap.Enabled
}

// Layer returns the whole document flattened into a metadata layer.
func (c *Config) Layer() *metadata.Layer {
	if c.layer == nil {
		return metadata.NewLayer(DefaultFileName)
	}
	return c.layer
}

// Layer returns the area's mapping flattened into a metadata layer.
func (a *AreaConfig) Layer() *metadata.Layer {
	if a.layer == nil {
		return metadata.NewLayer("area")
	}
	return a.layer
}

// IsGroup reports whether the area maps a directory.
func (a *AreaConfig) IsGroup() bool {
	return a.SourceFolder != ""
}

// Normalize resolves the effective path normalization for the area.
func (a *AreaConfig) Normalize(site bool) bool {
	if a.NormalizePaths != nil {
		return *a.NormalizePaths
	}
	return site
}

// ResolvePath resolves p against the configuration root. Absolute paths are
// kept; a leading "~" expands to the home directory.
func (c *Config) ResolvePath(p string) string {
	if p == "" {
		return c.Root
	}
	if p == "~" || len(p) > 1 && p[0] == '~' && (p[1] == '/' || p[1] == '\\') {
		return pathutil.NormalizePath(p, false)
	}
	return pathutil.NormalizePath(pathutil.CombinePath(c.Root, p), false)
}

// TemplatesPath is the absolute templates directory.
func (c *Config) TemplatesPath() string {
	return c.ResolvePath(c.TemplatesFolder)
}

// OutputPath is the absolute output directory; override wins when set.
func (c *Config) OutputPath(override string) string {
	if override != "" {
		return pathutil.NormalizePath(override, false)
	}
	return c.ResolvePath(c.OutputFolder)
}
