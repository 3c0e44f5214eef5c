package render

import (
	"html/template"
	"strings"

	"git.home.luguber.info/inful/chloroplast/internal/content"
	"git.home.luguber.info/inful/chloroplast/internal/metadata"
	"git.home.luguber.info/inful/chloroplast/internal/nav"
	"git.home.luguber.info/inful/chloroplast/internal/urlpath"
)

// Page is the data handed to templates. It belongs to a single render task.
type Page struct {
	Title   string
	Locale  string
	Content template.HTML
	// Meta is the merged metadata chain: site, area, ancestors, page.
	Meta         *metadata.Config
	Node         *content.Node
	Nav          []nav.Item
	BuildVersion string

	resolver *urlpath.Resolver
}

// NewPage prepares the template data for node.
func NewPage(node *content.Node, meta *metadata.Config, resolver *urlpath.Resolver, buildVersion string) *Page {
	p := &Page{
		Node:         node,
		Meta:         meta,
		BuildVersion: buildVersion,
		resolver:     resolver,
	}
	if node != nil {
		p.Locale = node.Locale
		p.Title = nav.Title(node)
	}
	return p
}

// with returns a shallow copy whose metadata has layer on top.
func (p *Page) with(layer *metadata.Layer) *Page {
	cp := *p
	cp.Meta = p.Meta.With(layer)
	return &cp
}

// Get resolves a metadata key; missing keys and nulls are "".
func (p *Page) Get(key string) string {
	if p.Meta == nil {
		return ""
	}
	return p.Meta.Get(key)
}

// Has reports whether key resolves to a non-null value.
func (p *Page) Has(key string) bool {
	return p.Meta != nil && p.Meta.Has(key) && !p.Meta.IsNull(key)
}

// URL links a site-rooted path for the page's locale.
func (p *Page) URL(path string) string {
	return p.resolver.ApplyLocalePath(path, p.Locale)
}

// Asset links a static file with a cache-busting query for this build.
func (p *Page) Asset(path string) string {
	u := p.resolver.ApplyBasePath(path)
	if p.BuildVersion == "" || strings.Contains(u, "://") {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "v=" + p.BuildVersion
}

// Permalink is the public URL of the page itself.
func (p *Page) Permalink() string {
	if p.Node == nil {
		return p.resolver.ApplyBasePath("/")
	}
	return p.resolver.NavURL(p.Node.SitePath(), p.Node.Locale)
}

// TranslationURL links the page's translation for locale, or "" if none.
func (p *Page) TranslationURL(locale string) string {
	if p.Node == nil {
		return ""
	}
	if strings.EqualFold(locale, p.Node.Locale) {
		return p.Permalink()
	}
	for l, tr := range p.Node.Translations {
		if strings.EqualFold(l, locale) {
			return p.resolver.NavURL(tr.SitePath(), tr.Locale)
		}
	}
	return ""
}
