package content

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/chloroplast/internal/metadata"
)

func writeTree(t *testing.T, fsys afero.Fs, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, fsys.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fsys, p, []byte(body), 0o644))
	}
}

func newGroup(fsys afero.Fs, normalize bool) *GroupArea {
	return NewGroupArea(AreaOptions{
		SourcePath:       "/site/source",
		TargetPath:       "/site/out/docs",
		RootRelativePath: "/docs",
		NormalizePaths:   normalize,
		Locale:           "en",
		Config:           metadata.NewLayer("area"),
		SourceFs:         fsys,
		TargetFs:         fsys,
	})
}

func TestGroupArea_ContentNodes(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/site/source", map[string]string{
		"index.md":           "# Home",
		"Guide/Intro.md":     "# Intro",
		"Guide/img/Logo.png": "png",
		".hidden/secret.md":  "x",
		"Guide/.draft.md":    "x",
		"css/site.css":       "body{}",
	})

	area := newGroup(fsys, false)
	nodes, err := area.ContentNodes()
	require.NoError(t, err)

	byRel := map[string]*Node{}
	for _, n := range nodes {
		byRel[filepath.ToSlash(n.RelativeSource)] = n
	}
	require.Len(t, byRel, 4)

	intro := byRel["Guide/Intro.md"]
	require.NotNil(t, intro)
	require.True(t, intro.IsContent())
	require.Equal(t, "Guide", intro.Slug)
	require.Equal(t, "Guide/Intro.html", intro.RelativeTarget)
	require.Equal(t, filepath.FromSlash("/site/out/docs/Guide/Intro.html"), intro.Target.Path())
	require.Equal(t, filepath.FromSlash("/site/source/Guide/Intro.md"), intro.Source.Path())
	require.Equal(t, "docs/Guide/Intro.html", intro.SitePath())
	require.Equal(t, "en", intro.Locale)
	require.True(t, intro.Source.Exists())
	require.False(t, intro.Target.Exists())

	logo := byRel["Guide/img/Logo.png"]
	require.False(t, logo.IsContent())
	require.Equal(t, "Guide/img/Logo.png", logo.RelativeTarget)

	again, err := area.ContentNodes()
	require.NoError(t, err)
	require.Equal(t, nodes, again)
}

func TestGroupArea_NormalizePathsLowercasesTargetsAndSlugs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/site/source", map[string]string{
		"Guide/Intro.md": "# Intro",
	})
	nodes, err := newGroup(fsys, true).ContentNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, "guide", nodes[0].Slug)
	require.Equal(t, "guide/intro.html", nodes[0].RelativeTarget)
	require.Equal(t, filepath.FromSlash("/site/out/docs/guide/intro.html"), nodes[0].Target.Path())
	require.Equal(t, filepath.FromSlash("Guide/Intro.md"), nodes[0].RelativeSource)
}

func TestGroupArea_NormalizePathsDropsCollidingTargets(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/site/source", map[string]string{
		"A.md": "first",
		"a.md": "second",
	})
	nodes, err := newGroup(fsys, true).ContentNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, "A.md", nodes[0].RelativeSource)
}

func TestGroupArea_Hierarchy(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/site/source", map[string]string{
		"index.md":           "# Home",
		"cli/index.md":       "# CLI",
		"templates/index.md": "# Templates",
		"img/x.png":          "png",
	})
	area := newGroup(fsys, false)
	roots, err := area.BuildHierarchy()
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 2)

	again, err := area.Hierarchy()
	require.NoError(t, err)
	require.Equal(t, roots, again)
	require.Len(t, again[0].Children, 2)
}

func TestGroupArea_MissingSourceIsFatal(t *testing.T) {
	_, err := newGroup(afero.NewMemMapFs(), false).ContentNodes()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSourceMissing))
}

func TestGroupArea_Contains(t *testing.T) {
	area := newGroup(afero.NewMemMapFs(), false)
	require.True(t, area.Contains("/site/source/guide/x.md"))
	require.True(t, area.Contains("/site/source"))
	require.False(t, area.Contains("/site/source2/x.md"))
}

func TestIndividualArea_ContentNodes(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/site", map[string]string{"README.md": "# Readme"})

	area := NewIndividualArea(AreaOptions{
		SourcePath:       "/site/README.md",
		TargetPath:       "/site/out",
		RootRelativePath: "/",
		OutputFile:       "readme.html",
		SourceFs:         fsys,
		TargetFs:         fsys,
	})
	first, err := area.ContentNodes()
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, "readme.html", first[0].RelativeTarget)
	require.Equal(t, filepath.FromSlash("/site/out/readme.html"), first[0].Target.Path())
	require.Equal(t, "", first[0].Slug)
	require.True(t, area.Contains("/site/README.md"))

	second, err := area.ContentNodes()
	require.NoError(t, err)
	require.NotSame(t, first[0], second[0])

	roots, err := area.Hierarchy()
	require.NoError(t, err)
	require.Len(t, roots, 1)
}

func TestFile_ReadWriteCopy(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/src", map[string]string{"a.txt": "hello"})

	src := NewFile(fsys, "/src/a.txt")
	require.True(t, src.Exists())
	require.False(t, src.LastUpdated().IsZero())

	dst := NewFile(fsys, "/out/nested/dir/a.txt")
	require.False(t, dst.Exists())
	require.True(t, dst.LastUpdated().Equal(time.Time{}))
	require.True(t, src.NewerThan(dst))

	require.NoError(t, src.CopyTo(dst))
	got, err := NewFile(fsys, "/out/nested/dir/a.txt").ReadAllText()
	require.NoError(t, err)
	require.Equal(t, "hello", got)

	page := NewFile(fsys, "/out/deep/page.html")
	require.NoError(t, page.WriteAllText("<p>x</p>"))
	text, err := page.ReadAllText()
	require.NoError(t, err)
	require.Equal(t, "<p>x</p>", text)

	_, err = NewFile(fsys, "/missing").ReadAllText()
	require.True(t, IsNotExist(err))
}

func TestNode_AncestorsAndTranslations(t *testing.T) {
	root := &Node{RelativeSource: "index.md", Locale: "en"}
	mid := &Node{RelativeSource: filepath.FromSlash("a/index.md"), Parent: root, Locale: "en"}
	leaf := &Node{RelativeSource: filepath.FromSlash("a/b/x.md"), Parent: mid, Locale: "en"}
	require.Equal(t, []*Node{root, mid}, leaf.Ancestors())
	require.Empty(t, root.Ancestors())

	es := &Node{RelativeSource: filepath.FromSlash("a/b/x.md"), Locale: "es"}
	leaf.AddTranslation(es)
	require.Same(t, es, leaf.Translations["es"])
	require.Same(t, leaf, es.Translations["en"])

	leaf.AddTranslation(leaf)
	require.Len(t, leaf.Translations, 1)
}
