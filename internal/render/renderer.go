// Package render converts a page's Markdown to HTML and places it in the
// site's templates.
package render

import (
	"html/template"

	"github.com/spf13/afero"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
)

// Options configure a Renderer.
type Options struct {
	Fs           afero.Fs
	TemplatesDir string
	Markdown     MarkdownOptions
	// Minify compresses the final HTML.
	Minify bool
}

// Renderer is shared read-only by all render tasks of a build.
type Renderer struct {
	md        *Markdown
	templates *Templates
	minifier  *minify.M
}

// New loads the template set. A broken template set is fatal for the build.
func New(opts Options) (*Renderer, error) {
	md := NewMarkdown(opts.Markdown)
	tpl, err := LoadTemplates(opts.Fs, opts.TemplatesDir, md)
	if err != nil {
		return nil, err
	}
	if !tpl.Has(DefaultTemplate) {
		return nil, foundation.NewError(foundation.CategoryNotFound, "templates folder has no "+DefaultTemplate+" template").
			WithContext("path", opts.TemplatesDir).Fatal().UserAction().Build()
	}
	r := &Renderer{md: md, templates: tpl}
	if opts.Minify {
		r.minifier = minify.New()
		r.minifier.AddFunc("text/html", minhtml.Minify)
	}
	return r, nil
}

// Templates exposes the loaded set.
func (r *Renderer) Templates() *Templates { return r.templates }

// Markdown exposes the converter.
func (r *Renderer) Markdown() *Markdown { return r.md }

// Render produces the final document for p from the Markdown body. The page
// template comes from the "template" metadata key; SiteFrame, when present,
// wraps the result with the page output as Content.
func (r *Renderer) Render(p *Page, body string) (string, error) {
	html, err := r.md.Convert(body)
	if err != nil {
		return "", foundation.RenderError("convert markdown").WithCause(err).Build()
	}
	p.Content = html

	name := DefaultTemplate
	if p.Meta != nil {
		name = p.Meta.GetOr(TemplateKey, DefaultTemplate)
	}
	out, err := r.templates.Execute(name, p)
	if err != nil {
		return "", err
	}

	if name != FrameTemplate && r.templates.Has(FrameTemplate) {
		p.Content = out
		if out, err = r.templates.Execute(FrameTemplate, p); err != nil {
			return "", err
		}
	}

	return r.minify(out)
}

func (r *Renderer) minify(doc template.HTML) (string, error) {
	if r.minifier == nil {
		return string(doc), nil
	}
	s, err := r.minifier.String("text/html", string(doc))
	if err != nil {
		return "", foundation.RenderError("minify html").WithCause(err).Build()
	}
	return s, nil
}
