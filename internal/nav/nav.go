// Package nav turns the content forest into menu trees for templates.
package nav

import (
	"path"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/chloroplast/internal/content"
	"git.home.luguber.info/inful/chloroplast/internal/metadata"
	"git.home.luguber.info/inful/chloroplast/internal/urlpath"
)

// Item is one menu entry.
type Item struct {
	Title string
	URL   string
	// Active is set on the item for the current page and on its ancestors.
	Active bool
	// Current is set only on the item for the current page.
	Current  bool
	Weight   int
	Children []Item
}

// Front-matter keys read by the menu builder.
const (
	WeightKey = "weight"
	HiddenKey = "nav_hidden"
)

var titleCaser = cases.Title(language.Und)

// Build produces the menu for roots. Items follow discovery order, stable
// sorted by the optional front-matter weight (ascending). Nodes marked with
// nav_hidden are left out together with their subtree. active may be nil.
func Build(roots []*content.Node, resolver *urlpath.Resolver, active *content.Node) []Item {
	items, _ := build(roots, resolver, active)
	return items
}

func build(nodes []*content.Node, resolver *urlpath.Resolver, active *content.Node) ([]Item, bool) {
	items := make([]Item, 0, len(nodes))
	anyActive := false
	for _, n := range nodes {
		if hidden(n) {
			continue
		}
		children, childActive := build(n.Children, resolver, active)
		it := Item{
			Title:    Title(n),
			URL:      URL(n, resolver),
			Current:  n == active,
			Weight:   weight(n),
			Children: children,
		}
		it.Active = it.Current || childActive
		anyActive = anyActive || it.Active
		items = append(items, it)
	}
	slices.SortStableFunc(items, func(a, b Item) int { return a.Weight - b.Weight })
	return items, anyActive
}

// Title returns the node title, falling back to a title-cased name derived
// from the file (or, for index pages, the containing directory).
func Title(n *content.Node) string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	rel := strings.ReplaceAll(n.RelativeSource, "\\", "/")
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if strings.EqualFold(name, "index") || strings.EqualFold(name, "readme") {
		if dir := path.Dir(rel); dir != "." {
			name = path.Base(dir)
		} else if n.Area != nil && n.Area.RootRelativePath() != "" {
			name = path.Base(n.Area.RootRelativePath())
		}
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return titleCaser.String(name)
}

// URL returns the public link for n. A menu_path override is used verbatim
// apart from base path and locale prefixing.
func URL(n *content.Node, resolver *urlpath.Resolver) string {
	if mp := strings.TrimSpace(n.MenuPath); mp != "" {
		return resolver.ApplyLocalePath(mp, n.Locale)
	}
	return resolver.NavURL(n.SitePath(), n.Locale)
}

func hidden(n *content.Node) bool {
	return n.Meta != nil && metadata.New(n.Meta).Bool(HiddenKey)
}

func weight(n *content.Node) int {
	if n.Meta == nil {
		return 0
	}
	return metadata.New(n.Meta).Int(WeightKey, 0)
}
