package sitemap

import (
	"encoding/xml"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/chloroplast/internal/content"
	"git.home.luguber.info/inful/chloroplast/internal/urlpath"
)

func resolver() *urlpath.Resolver {
	return urlpath.NewResolver(urlpath.Options{BaseURL: "https://example.test/docs", DefaultLocale: "en"})
}

func TestCollect_PagesOnly(t *testing.T) {
	fsys := afero.NewMemMapFs()
	mod := time.Date(2025, 6, 1, 10, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	require.NoError(t, afero.WriteFile(fsys, "/src/index.md", []byte("# hi"), 0o644))
	require.NoError(t, fsys.Chtimes("/src/index.md", mod, mod))

	nodes := []*content.Node{
		{RelativeSource: "index.md", RelativeTarget: "index.html", Locale: "en", Source: content.NewFile(fsys, "/src/index.md")},
		{RelativeSource: "guide.md", RelativeTarget: "guide.html", Locale: "es", Source: content.NewFile(fsys, "/src/guide.md")},
		{RelativeSource: "logo.png", RelativeTarget: "logo.png", Locale: "en"},
	}

	entries := Collect(nodes, resolver())
	require.Equal(t, []Entry{
		{Loc: "https://example.test/docs/", LastMod: "2025-06-01T08:30:00Z"},
		{Loc: "https://example.test/docs/es/guide"},
	}, entries)
}

func TestWrite_SingleFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	paths, err := Write(fsys, "/out", []Entry{{Loc: "https://example.test/docs/"}}, 10, resolver())
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join("/out", "sitemap.xml")}, paths)

	b, err := afero.ReadFile(fsys, paths[0])
	require.NoError(t, err)
	require.Contains(t, string(b), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	require.Contains(t, string(b), "<loc>https://example.test/docs/</loc>")
}

func TestWrite_ChunksAboveLimit(t *testing.T) {
	fsys := afero.NewMemMapFs()
	var entries []Entry
	for _, p := range []string{"a", "b", "c", "d", "e"} {
		entries = append(entries, Entry{Loc: "https://example.test/docs/" + p})
	}

	paths, err := Write(fsys, "/out", entries, 2, resolver())
	require.NoError(t, err)
	require.Len(t, paths, 4)

	b, err := afero.ReadFile(fsys, filepath.Join("/out", "sitemap.xml"))
	require.NoError(t, err)
	var idx sitemapIndex
	require.NoError(t, xml.Unmarshal(b, &idx))
	require.Equal(t, []sitemapRef{
		{Loc: "https://example.test/docs/sitemap1.xml"},
		{Loc: "https://example.test/docs/sitemap2.xml"},
		{Loc: "https://example.test/docs/sitemap3.xml"},
	}, idx.Sitemaps)

	b, err = afero.ReadFile(fsys, filepath.Join("/out", "sitemap3.xml"))
	require.NoError(t, err)
	var last urlSet
	require.NoError(t, xml.Unmarshal(b, &last))
	require.Equal(t, []Entry{{Loc: "https://example.test/docs/e"}}, last.URLs)
}
