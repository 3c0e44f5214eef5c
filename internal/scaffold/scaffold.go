// Package scaffold writes a starter site: configuration, templates and a first page.
package scaffold

import (
	"bytes"
	"embed"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/chloroplast/internal/config"
	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/frontmatter"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
)

//go:embed site
var siteFS embed.FS

const (
	siteRoot  = "site"
	indexPage = "source/index.md"
)

// Options describe the site to create.
type Options struct {
	Dir      string
	Title    string
	Locale   string
	BasePath string
	// Force overwrites existing files.
	Force bool
}

// Init writes the starter site into opts.Dir and returns the written paths,
// relative to it. Nothing is written when any target exists and Force is unset.
func Init(fsys afero.Fs, opts Options) ([]string, error) {
	if opts.Title == "" {
		opts.Title = "My Site"
	}
	if opts.Locale == "" {
		opts.Locale = config.DefaultLocale
	}

	files, err := render(opts)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	if !opts.Force {
		for _, name := range names {
			target := filepath.Join(opts.Dir, filepath.FromSlash(name))
			if ok, _ := afero.Exists(fsys, target); ok {
				return nil, foundation.ValidationError("refusing to overwrite existing file").
					WithContext("path", target).
					UserAction().
					Build()
			}
		}
	}

	for _, name := range names {
		target := filepath.Join(opts.Dir, filepath.FromSlash(name))
		if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, writeError(target, err)
		}
		if err := afero.WriteFile(fsys, target, files[name], 0o644); err != nil {
			return nil, writeError(target, err)
		}
		slog.Debug("Wrote starter file", logfields.Path(target))
	}
	return names, nil
}

func render(opts Options) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := fs.WalkDir(siteFS, siteRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := siteFS.ReadFile(p)
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(p, siteRoot+"/")
		if rel == config.DefaultFileName {
			if data, err = expand(rel, data, opts); err != nil {
				return err
			}
		}
		files[rel] = data
		return nil
	})
	if err != nil {
		return nil, foundation.InternalError("read starter site").WithCause(err).Build()
	}

	page, err := frontmatter.Compose(map[string]any{"title": opts.Title},
		"Welcome to "+opts.Title+".\n\nEdit `"+indexPage+"` and run `chloroplast watch` to see changes.\n")
	if err != nil {
		return nil, foundation.InternalError("compose starter page").WithCause(err).Build()
	}
	files[indexPage] = []byte(page)
	return files, nil
}

func expand(name string, data []byte, opts Options) ([]byte, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(string(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeError(path string, err error) error {
	return foundation.FileSystemError("write starter file").WithCause(err).WithContext("path", path).Build()
}
