package config

import (
	"runtime"
	"strings"
)

const (
	DefaultLocale          = "en"
	DefaultTemplatesFolder = "templates"
	DefaultOutputFolder    = "out"
	DefaultSitemapMaxURLs  = 50000
	DefaultServePort       = 5000
	DefaultPortAttempts    = 10
	DefaultHighlightStyle  = "github"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		&siteDefaultApplier{},
		&areaDefaultApplier{},
		&buildDefaultApplier{},
		&sitemapDefaultApplier{},
		&serveDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers() {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

type siteDefaultApplier struct{}

func (siteDefaultApplier) Domain() string { return "site" }

func (siteDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.DefaultLocale = strings.TrimSpace(cfg.DefaultLocale)
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = DefaultLocale
	}
	if strings.TrimSpace(cfg.TemplatesFolder) == "" {
		cfg.TemplatesFolder = DefaultTemplatesFolder
	}
	if strings.TrimSpace(cfg.OutputFolder) == "" {
		cfg.OutputFolder = DefaultOutputFolder
	}
	return nil
}

type areaDefaultApplier struct{}

func (areaDefaultApplier) Domain() string { return "areas" }

func (areaDefaultApplier) ApplyDefaults(cfg *Config) error {
	for i := range cfg.Areas {
		a := &cfg.Areas[i]
		if strings.TrimSpace(a.OutputFolder) == "" {
			a.OutputFolder = "/"
		}
		if strings.TrimSpace(a.Locale) == "" {
			a.Locale = cfg.DefaultLocale
		}
	}
	return nil
}

type buildDefaultApplier struct{}

func (buildDefaultApplier) Domain() string { return "build" }

func (buildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Build.Workers <= 0 {
		cfg.Build.Workers = runtime.NumCPU()
	}
	if strings.TrimSpace(cfg.Markdown.HighlightStyle) == "" {
		cfg.Markdown.HighlightStyle = DefaultHighlightStyle
	}
	return nil
}

type sitemapDefaultApplier struct{}

func (sitemapDefaultApplier) Domain() string { return "sitemap" }

func (sitemapDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Sitemap.MaxURLsPerFile <= 0 {
		cfg.Sitemap.MaxURLsPerFile = DefaultSitemapMaxURLs
	}
	return nil
}

type serveDefaultApplier struct{}

func (serveDefaultApplier) Domain() string { return "serve" }

func (serveDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Serve.Port <= 0 {
		cfg.Serve.Port = DefaultServePort
	}
	if cfg.Serve.PortAttempts <= 0 {
		cfg.Serve.PortAttempts = DefaultPortAttempts
	}
	return nil
}
