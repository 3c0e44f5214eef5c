// Package sitemap writes sitemaps.org XML for the rendered pages.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/chloroplast/internal/content"
	"git.home.luguber.info/inful/chloroplast/internal/urlpath"
	"git.home.luguber.info/inful/chloroplast/internal/util/sets"
)

const (
	// Namespace is the sitemaps.org schema namespace.
	Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	// DefaultMaxURLs is the protocol limit of entries per file.
	DefaultMaxURLs = 50000
	// FileName is the single sitemap or the index when chunked.
	FileName = "sitemap.xml"

	lastModLayout = "2006-01-02T15:04:05Z"
)

// Entry is one <url> element.
type Entry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []Entry  `xml:"url"`
}

type sitemapRef struct {
	Loc string `xml:"loc"`
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []sitemapRef `xml:"sitemap"`
}

// Collect returns one entry per rendered page, sorted by location. Assets
// are skipped. lastmod is the source modification time in UTC and is
// omitted when unknown.
func Collect(nodes []*content.Node, resolver *urlpath.Resolver) []Entry {
	entries := make([]Entry, 0, len(nodes))
	seen := make(sets.Set[string], len(nodes))
	for _, n := range nodes {
		if n == nil || !n.IsContent() || !strings.HasSuffix(n.RelativeTarget, ".html") {
			continue
		}
		loc := resolver.AbsoluteURL(resolver.NavURL(n.SitePath(), n.Locale))
		if !seen.Add(loc) {
			continue
		}
		e := Entry{Loc: loc}
		if n.Source != nil && !n.Source.LastUpdated().IsZero() {
			e.LastMod = FormatLastMod(n.Source.LastUpdated())
		}
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Loc, b.Loc) })
	return entries
}

// FormatLastMod renders t in the W3C datetime form used for lastmod.
func FormatLastMod(t time.Time) string {
	return t.UTC().Format(lastModLayout)
}

// Write stores entries under outDir. Up to maxPerFile entries go into a
// single sitemap.xml; above that, sitemap1.xml..sitemapN.xml are written and
// sitemap.xml becomes an index of them. It returns the written file paths.
func Write(fsys afero.Fs, outDir string, entries []Entry, maxPerFile int, resolver *urlpath.Resolver) ([]string, error) {
	if maxPerFile <= 0 {
		maxPerFile = DefaultMaxURLs
	}
	if err := fsys.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create sitemap directory: %w", err)
	}

	if len(entries) <= maxPerFile {
		p := filepath.Join(outDir, FileName)
		if err := writeXML(fsys, p, urlSet{Xmlns: Namespace, URLs: entries}); err != nil {
			return nil, err
		}
		return []string{p}, nil
	}

	var (
		written []string
		index   = sitemapIndex{Xmlns: Namespace}
	)
	for i, chunk := 1, entries; len(chunk) > 0; i++ {
		n := min(maxPerFile, len(chunk))
		name := fmt.Sprintf("sitemap%d.xml", i)
		p := filepath.Join(outDir, name)
		if err := writeXML(fsys, p, urlSet{Xmlns: Namespace, URLs: chunk[:n]}); err != nil {
			return written, err
		}
		written = append(written, p)
		index.Sitemaps = append(index.Sitemaps, sitemapRef{Loc: resolver.AbsoluteURL(resolver.ApplyBasePath(name))})
		chunk = chunk[n:]
	}
	p := filepath.Join(outDir, FileName)
	if err := writeXML(fsys, p, index); err != nil {
		return written, err
	}
	return append(written, p), nil
}

func writeXML(fsys afero.Fs, path string, v any) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	buf.WriteByte('\n')
	if err := afero.WriteFile(fsys, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
