package content

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
)

func nodesFor(paths ...string) []*Node {
	out := make([]*Node, 0, len(paths))
	for _, p := range paths {
		out = append(out, &Node{RelativeSource: filepath.FromSlash(p)})
	}
	return out
}

func names(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, filepath.ToSlash(n.RelativeSource))
	}
	return out
}

func assertDepthInvariant(t *testing.T, roots []*Node) {
	t.Helper()
	for _, r := range roots {
		require.Nil(t, r.Parent)
		r.Walk(func(n *Node) bool {
			for _, c := range n.Children {
				require.Same(t, n, c.Parent)
				require.Greater(t, c.Depth(), n.Depth(), "%s under %s", c.RelativeSource, n.RelativeSource)
			}
			return true
		})
	}
}

func TestBuildHierarchy_FolderWithSiblingPage(t *testing.T) {
	roots, err := BuildHierarchy(nodesFor("one/two.md", "one/three.md", "one/four.md", "one.md"))
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Equal(t, "one.md", filepath.ToSlash(roots[0].RelativeSource))
	require.Equal(t, []string{"one/two.md", "one/three.md", "one/four.md"}, names(roots[0].Children))
	for _, c := range roots[0].Children {
		require.Empty(t, c.Children)
	}
}

func TestBuildHierarchy_DuplicatesCollapse(t *testing.T) {
	roots, err := BuildHierarchy(nodesFor("index.md", "index.md", "cli/index.md", "cli/index.md", "templates/index.md"))
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Equal(t, []string{"cli/index.md", "templates/index.md"}, names(roots[0].Children))
}

func TestBuildHierarchy_DuplicateKeepsFirst(t *testing.T) {
	input := nodesFor("index.md", "guide/a.md", "guide/a.md")
	first := input[1]
	roots, err := BuildHierarchy(input)
	require.NoError(t, err)
	require.Len(t, roots[0].Children, 1)
	require.Same(t, first, roots[0].Children[0])
}

func TestBuildHierarchy_SkipsAssets(t *testing.T) {
	roots, err := BuildHierarchy(nodesFor("index.md", "img/logo.png", "css/site.css", "guide/intro.markdown"))
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Equal(t, []string{"guide/intro.markdown"}, names(roots[0].Children))
}

func TestBuildHierarchy_DeepNesting(t *testing.T) {
	roots, err := BuildHierarchy(nodesFor(
		"index.md",
		"guide/index.md",
		"guide/setup/index.md",
		"guide/setup/linux/install.md",
		"api/index.md",
	))
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assertDepthInvariant(t, roots)

	root := roots[0]
	require.Equal(t, []string{"api/index.md", "guide/index.md"}, names(root.Children))
	guide := root.Children[1]
	require.Equal(t, []string{"guide/setup/index.md"}, names(guide.Children))
	require.Equal(t, []string{"guide/setup/linux/install.md"}, names(guide.Children[0].Children))
}

func TestBuildHierarchy_DeeperNodeGoesUnderPrevious(t *testing.T) {
	roots, err := BuildHierarchy(nodesFor("a.md", "b.md", "a/x.md"))
	require.NoError(t, err)
	require.Equal(t, []string{"a.md", "b.md"}, names(roots))
	require.Empty(t, roots[0].Children)
	require.Equal(t, []string{"a/x.md"}, names(roots[1].Children))

	// the last page of a directory receives the next subdirectory's pages
	roots, err = BuildHierarchy(nodesFor("index.md", "guide/index.md", "guide/usage.md", "guide/setup/a.md"))
	require.NoError(t, err)
	guide := roots[0].Children
	require.Equal(t, []string{"guide/index.md", "guide/usage.md"}, names(guide))
	require.Empty(t, guide[0].Children)
	require.Equal(t, []string{"guide/setup/a.md"}, names(guide[1].Children))
}

func TestBuildHierarchy_MultiLevelAscent(t *testing.T) {
	roots, err := BuildHierarchy(nodesFor(
		"index.md",
		"a/index.md",
		"a/b/index.md",
		"a/b/c/leaf.md",
		"d/index.md",
	))
	require.NoError(t, err)
	assertDepthInvariant(t, roots)
	require.Len(t, roots, 1)
	require.Equal(t, []string{"a/index.md", "d/index.md"}, names(roots[0].Children))
}

func TestBuildHierarchy_TopLevelSiblingsAreRoots(t *testing.T) {
	roots, err := BuildHierarchy(nodesFor("index.md", "about.md", "docs/intro.md", "docs/more.md"))
	require.NoError(t, err)
	require.Equal(t, []string{"index.md", "about.md"}, names(roots))
	require.Empty(t, roots[0].Children)
	require.Equal(t, []string{"docs/intro.md", "docs/more.md"}, names(roots[1].Children))
}

func TestBuildHierarchy_SiblingFoldersAtTopDepthAreRoots(t *testing.T) {
	roots, err := BuildHierarchy(nodesFor("docs/x.md", "docs2/y.md"))
	require.NoError(t, err)
	require.Equal(t, []string{"docs/x.md", "docs2/y.md"}, names(roots))
	assertDepthInvariant(t, roots)
}

func TestBuildHierarchy_SegmentOrdering(t *testing.T) {
	roots, err := BuildHierarchy(nodesFor("a-b/x.md", "a/b/y.md", "a/index.md"))
	require.NoError(t, err)
	assertDepthInvariant(t, roots)
	require.Equal(t, []string{"a/index.md", "a-b/x.md"}, names(roots))
	require.Equal(t, []string{"a/b/y.md"}, names(roots[0].Children))
}

func TestBuildHierarchy_RandomTreesHoldDepthInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dirs := []string{"", "a", "a/b", "a/b/c", "b", "b/x", "b/x/y/z", "c"}
	for round := 0; round < 50; round++ {
		var paths []string
		for i := 0; i < 12; i++ {
			d := dirs[rng.Intn(len(dirs))]
			p := fmt.Sprintf("f%d.md", rng.Intn(4))
			if d != "" {
				p = d + "/" + p
			}
			paths = append(paths, p)
		}
		// a top-level page keeps every ascent inside the forest
		paths = append(paths, "index.md")
		roots, err := BuildHierarchy(nodesFor(paths...))
		require.NoError(t, err, "%v", paths)
		assertDepthInvariant(t, roots)

		count := 0
		unique := map[string]struct{}{}
		for _, r := range roots {
			r.Walk(func(n *Node) bool {
				count++
				unique[n.RelativeSource] = struct{}{}
				return true
			})
		}
		require.Equal(t, len(unique), count, "%v", paths)
	}
}

func TestBuildHierarchy_UnderflowIsClassified(t *testing.T) {
	roots, err := BuildHierarchy(nodesFor("docs/guide/x.md", "docs2/y.md"))
	require.Nil(t, roots)
	require.ErrorIs(t, err, ErrHierarchyUnderflow)

	ce, ok := foundation.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, foundation.CategoryInternal, ce.Category())
	path, _ := ce.Context().StringValue("path")
	require.Equal(t, filepath.FromSlash("docs2/y.md"), path)
}
