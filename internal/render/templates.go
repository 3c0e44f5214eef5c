package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	texttemplate "text/template"

	"github.com/spf13/afero"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/frontmatter"
	"git.home.luguber.info/inful/chloroplast/internal/metadata"
)

// Well-known template names.
const (
	DefaultTemplate = "Default"
	FrameTemplate   = "SiteFrame"
	// TemplateKey selects the page template in front matter.
	TemplateKey = "template"
)

// markdownPartial is a Markdown file in the templates folder. Its front
// matter is stacked over the caller's metadata when it runs.
type markdownPartial struct {
	meta *metadata.Layer
	body *texttemplate.Template
}

// Templates is the parsed template set of a site. Every *.html file becomes a
// template named after its base name without extension; every *.md file
// becomes a Markdown partial of the same naming. Safe for concurrent use once
// loaded.
type Templates struct {
	dir      string
	set      *template.Template
	partials map[string]*markdownPartial
	md       *Markdown
}

// LoadTemplates parses every template below dir on fsys.
func LoadTemplates(fsys afero.Fs, dir string, md *Markdown) (*Templates, error) {
	if md == nil {
		md = NewMarkdown(MarkdownOptions{})
	}
	t := &Templates{
		dir:      dir,
		partials: make(map[string]*markdownPartial),
		md:       md,
	}
	t.set = template.New("").Funcs(t.funcs())

	var files []string
	err := afero.Walk(fsys, dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != dir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".html", ".htm", ".md", ".markdown":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryBuild, "read templates folder").
			WithContext("path", dir).Fatal().Build()
	}
	sort.Strings(files)

	for _, p := range files {
		if err := t.load(fsys, p); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Templates) load(fsys afero.Fs, p string) error {
	raw, err := afero.ReadFile(fsys, p)
	if err != nil {
		return foundation.FileSystemError("read template").WithCause(err).WithContext("path", p).Build()
	}
	base := filepath.Base(p)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if t.Has(name) {
		return foundation.ParseError(fmt.Sprintf("duplicate template name %q", name)).
			WithContext("path", p).Fatal().Build()
	}

	switch strings.ToLower(filepath.Ext(p)) {
	case ".md", ".markdown":
		doc, err := frontmatter.Parse(base, string(raw))
		if err != nil {
			return foundation.ParseError("parse partial front matter").WithCause(err).WithContext("path", p).Fatal().Build()
		}
		body, err := texttemplate.New(name).Funcs(texttemplate.FuncMap(t.funcs())).Option("missingkey=zero").Parse(doc.Body)
		if err != nil {
			return parseFailure(p, err)
		}
		t.partials[name] = &markdownPartial{meta: doc.Meta, body: body}
	default:
		if _, err := t.set.New(name).Parse(string(raw)); err != nil {
			return parseFailure(p, err)
		}
	}
	return nil
}

func parseFailure(path string, err error) error {
	return foundation.ParseError("parse template: " + foundation.Summarize(err.Error())).
		WithCause(err).WithContext("path", path).Fatal().Build()
}

// Has reports whether a template or partial called name exists.
func (t *Templates) Has(name string) bool {
	if _, ok := t.partials[name]; ok {
		return true
	}
	return t.set.Lookup(name) != nil
}

// Names lists the loaded template and partial names, sorted.
func (t *Templates) Names() []string {
	var names []string
	for _, tpl := range t.set.Templates() {
		if tpl.Name() != "" {
			names = append(names, tpl.Name())
		}
	}
	for n := range t.partials {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dir is the folder the set was loaded from.
func (t *Templates) Dir() string { return t.dir }

// Execute runs the template name with p as data.
func (t *Templates) Execute(name string, p *Page) (template.HTML, error) {
	out, err := t.partial(name, p)
	if err != nil {
		return "", foundation.RenderError(fmt.Sprintf("execute template %s", name)).WithCause(err).Build()
	}
	return out, nil
}

func (t *Templates) funcs() template.FuncMap {
	return template.FuncMap{
		"partial":  t.partial,
		"markdown": t.md.Convert,
		"lower":    strings.ToLower,
		"upper":    strings.ToUpper,
	}
}

// partial renders a named template or Markdown partial. Markdown partials run
// with their own front matter stacked over the caller's metadata.
func (t *Templates) partial(name string, p *Page) (template.HTML, error) {
	if mp, ok := t.partials[name]; ok {
		var buf bytes.Buffer
		if err := mp.body.Execute(&buf, p.with(mp.meta)); err != nil {
			return "", err
		}
		return t.md.Convert(buf.String())
	}
	if t.set.Lookup(name) == nil {
		return "", fmt.Errorf("template %q not found in %s", name, t.dir)
	}
	var buf bytes.Buffer
	if err := t.set.ExecuteTemplate(&buf, name, p); err != nil {
		return "", err
	}
	// #nosec G203 -- html/template output is already escaped
	return template.HTML(buf.String()), nil
}
