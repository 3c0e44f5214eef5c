package nav

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/chloroplast/internal/content"
	"git.home.luguber.info/inful/chloroplast/internal/metadata"
	"git.home.luguber.info/inful/chloroplast/internal/urlpath"
)

func page(rel, title string, meta map[string]string) *content.Node {
	n := &content.Node{
		RelativeSource: filepath.FromSlash(rel),
		RelativeTarget: strings.TrimSuffix(rel, ".md") + ".html",
		Title:          title,
		Locale:         "en",
	}
	if meta != nil {
		n.Meta = metadata.FromMap(rel, meta)
	}
	return n
}

func forest(t *testing.T, nodes ...*content.Node) []*content.Node {
	t.Helper()
	roots, err := content.BuildHierarchy(nodes)
	require.NoError(t, err)
	return roots
}

func TestBuild_MarksActivePath(t *testing.T) {
	guide := page("guide/index.md", "Guide", nil)
	install := page("guide/setup/install.md", "Install", nil)
	roots := forest(t, page("index.md", "Home", nil), guide, install)
	resolver := urlpath.NewResolver(urlpath.Options{BasePath: "/docs", DefaultLocale: "en"})

	items := Build(roots, resolver, install)
	require.Len(t, items, 1)
	home := items[0]
	require.Equal(t, "Home", home.Title)
	require.Equal(t, "/docs/", home.URL)
	require.True(t, home.Active)
	require.False(t, home.Current)

	require.Len(t, home.Children, 1)
	g := home.Children[0]
	require.Equal(t, "/docs/guide/", g.URL)
	require.True(t, g.Active)
	require.Equal(t, []string{"Install"}, []string{g.Children[0].Title})
	require.True(t, g.Children[0].Current)
	require.Equal(t, "/docs/guide/setup/install", g.Children[0].URL)
}

func TestBuild_WeightHiddenAndMenuPath(t *testing.T) {
	roots := forest(t,
		page("a.md", "A", map[string]string{"weight": "3"}),
		page("b.md", "B", map[string]string{"weight": "1"}),
		page("c.md", "C", map[string]string{"nav_hidden": "true"}),
		page("d.md", "D", map[string]string{"weight": "1"}),
	)
	roots[0].MenuPath = "https://example.test/a"

	resolver := urlpath.NewResolver(urlpath.Options{DefaultLocale: "en"})
	items := Build(roots, resolver, nil)
	var titles []string
	for _, it := range items {
		titles = append(titles, it.Title)
		require.False(t, it.Active)
	}
	require.Equal(t, []string{"B", "D", "A"}, titles)
	require.Equal(t, "https://example.test/a", items[2].URL)
}

func TestBuild_LocalePrefix(t *testing.T) {
	n := page("guide.md", "Guía", nil)
	n.Locale = "es"
	resolver := urlpath.NewResolver(urlpath.Options{DefaultLocale: "en"})
	require.Equal(t, "/es/guide", Build([]*content.Node{n}, resolver, n)[0].URL)

	n.MenuPath = "/guia/"
	require.Equal(t, "/es/guia/", URL(n, resolver))
}

func TestTitle_Fallbacks(t *testing.T) {
	require.Equal(t, "Getting Started", Title(page("getting-started.md", "", nil)))
	require.Equal(t, "Api Reference", Title(page("api_reference/index.md", "", nil)))
	require.Equal(t, "Index", Title(page("index.md", "", nil)))
	require.Equal(t, "Custom", Title(page("x.md", "  Custom ", nil)))
}
