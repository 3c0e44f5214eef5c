package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateConfig checks a defaulted configuration.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	for _, check := range []func() error{
		v.validateAreas,
		v.validateBaseURL,
		v.validateSitemap,
		v.validateServe,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validateAreas() error {
	if len(cv.config.Areas) == 0 {
		return errors.New("at least one area must be configured")
	}
	for i, a := range cv.config.Areas {
		hasFile := strings.TrimSpace(a.SourceFile) != ""
		hasFolder := strings.TrimSpace(a.SourceFolder) != ""
		switch {
		case hasFile && hasFolder:
			return fmt.Errorf("areas[%d]: source_file and source_folder are mutually exclusive", i)
		case !hasFile && !hasFolder:
			return fmt.Errorf("areas[%d]: one of source_file or source_folder is required", i)
		case hasFolder && a.OutputFile != "":
			return fmt.Errorf("areas[%d]: output_file only applies to source_file areas", i)
		}
	}
	return nil
}

func (cv *configurationValidator) validateBaseURL() error {
	raw := strings.TrimSpace(cv.config.BaseURL)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL: %q", raw)
	}
	return nil
}

func (cv *configurationValidator) validateSitemap() error {
	if cv.config.Sitemap.MaxURLsPerFile > DefaultSitemapMaxURLs {
		return fmt.Errorf("sitemap.max_urls_per_file must not exceed %d", DefaultSitemapMaxURLs)
	}
	return nil
}

func (cv *configurationValidator) validateServe() error {
	s := cv.config.Serve
	if s.Port > 65535 {
		return fmt.Errorf("serve.port out of range: %d", s.Port)
	}
	if s.FullRebuild != "" {
		d, err := time.ParseDuration(s.FullRebuild)
		if err != nil {
			return fmt.Errorf("serve.full_rebuild_every: %w", err)
		}
		if d < time.Second {
			return fmt.Errorf("serve.full_rebuild_every must be at least 1s")
		}
	}
	return nil
}
