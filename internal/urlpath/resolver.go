// Package urlpath turns output-relative paths into site URLs: base path
// prefixing for sites hosted below a domain root, locale prefixes and
// pretty-URL collapsing.
package urlpath

import (
	"net/url"
	"strings"
)

// Options configure a Resolver.
type Options struct {
	// BasePath, when set, wins over the path component of BaseURL.
	BasePath string
	BaseURL  string
	// DefaultLocale gets no locale prefix.
	DefaultLocale string
	// DisableBasePath forces an empty base path (local preview).
	DisableBasePath bool
}

// Resolver is an immutable per-build value; it is safe for concurrent use.
type Resolver struct {
	basePath      string
	origin        string
	defaultLocale string
}

// NewResolver derives the base path once from opts.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{defaultLocale: strings.TrimSpace(opts.DefaultLocale)}

	var fromURL string
	if u, err := url.Parse(strings.TrimSpace(opts.BaseURL)); err == nil && u.Host != "" {
		r.origin = u.Scheme + "://" + u.Host
		fromURL = u.Path
	}

	switch {
	case opts.DisableBasePath:
		r.basePath = ""
	case strings.TrimSpace(opts.BasePath) != "":
		r.basePath = NormalizeBasePath(opts.BasePath)
	default:
		r.basePath = NormalizeBasePath(fromURL)
	}
	return r
}

// NormalizeBasePath returns "" for empty or "/" input, otherwise the value
// with exactly one leading slash and no trailing slash.
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// BasePath returns the derived base path.
func (r *Resolver) BasePath() string { return r.basePath }

// DefaultLocale returns the locale that is served without a prefix.
func (r *Resolver) DefaultLocale() string { return r.defaultLocale }

// IsDefaultLocale reports whether locale maps to unprefixed URLs. An empty
// locale is the default.
func (r *Resolver) IsDefaultLocale(locale string) bool {
	locale = strings.TrimSpace(locale)
	return locale == "" || strings.EqualFold(locale, r.defaultLocale)
}

// ApplyBasePath prefixes a site-relative path with the base path. Absolute
// URLs and fragment-only references are returned unchanged.
func (r *Resolver) ApplyBasePath(p string) string {
	if passThrough(p) {
		return p
	}
	return r.basePath + ensureLeadingSlash(p)
}

// ApplyLocalePath is ApplyBasePath with "/<locale>" inserted after the base
// path for non-default locales.
func (r *Resolver) ApplyLocalePath(p, locale string) string {
	if passThrough(p) {
		return p
	}
	return r.basePath + localePrefix(r, locale) + ensureLeadingSlash(p)
}

// NavURL converts an output-relative file path into the public pretty URL
// for locale, base path included.
func (r *Resolver) NavURL(rel, locale string) string {
	return r.basePath + PrettyPath(rel, locale, r.defaultLocale)
}

// AbsoluteURL prefixes a rooted site path with the configured origin. Without
// an origin the path is returned as is.
func (r *Resolver) AbsoluteURL(p string) string {
	if passThrough(p) {
		return p
	}
	return r.origin + ensureLeadingSlash(p)
}

func localePrefix(r *Resolver, locale string) string {
	if r.IsDefaultLocale(locale) {
		return ""
	}
	return "/" + strings.Trim(strings.TrimSpace(locale), "/")
}

func passThrough(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(p, "#")
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
