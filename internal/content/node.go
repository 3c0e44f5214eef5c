package content

import (
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/chloroplast/internal/metadata"
	"git.home.luguber.info/inful/chloroplast/internal/pathutil"
)

var contentExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
}

// IsContentPath reports whether p names a renderable Markdown file.
func IsContentPath(p string) bool {
	_, ok := contentExtensions[strings.ToLower(filepath.Ext(p))]
	return ok
}

// Node is one file of the site: a Markdown page or a pass-through asset.
// Parent is a non-owning back reference; ownership flows through Children.
type Node struct {
	Slug   string
	Title  string
	Locale string

	// RelativeSource is the source path relative to the area's source root,
	// with native separators.
	RelativeSource string
	// RelativeTarget is the target path relative to the area's target root,
	// in URL form.
	RelativeTarget string

	Source *File
	Target *File

	Parent   *Node
	Children []*Node
	Area     Area

	MenuPath     string
	Translations map[string]*Node

	// Meta holds the node's own front matter; Body is the Markdown after it.
	// Both are populated by the metadata pass of a build.
	Meta *metadata.Layer
	Body string
}

// IsContent reports whether the node is rendered rather than copied.
func (n *Node) IsContent() bool {
	return IsContentPath(n.RelativeSource)
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// Depth is the number of separators in the relative source path.
func (n *Node) Depth() int {
	return pathutil.Depth(n.RelativeSource)
}

// Dir returns the directory portion of the relative source path, "" at the area root.
func (n *Node) Dir() string {
	d := filepath.Dir(n.RelativeSource)
	if d == "." {
		return ""
	}
	return d
}

// Ancestors returns the parent chain ordered root first, excluding n.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// SitePath returns the target path relative to the site output root in URL
// form, locale prefix excluded.
func (n *Node) SitePath() string {
	prefix := ""
	if n.Area != nil {
		prefix = n.Area.RootRelativePath()
	}
	return pathutil.NormalizeURLSegment(path.Join(prefix, n.RelativeTarget), false)
}

// Walk visits n and its descendants depth first, stopping when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// AddTranslation links n and other both ways under their locales.
func (n *Node) AddTranslation(other *Node) {
	if other == nil || other == n || other.Locale == n.Locale {
		return
	}
	if n.Translations == nil {
		n.Translations = make(map[string]*Node)
	}
	if other.Translations == nil {
		other.Translations = make(map[string]*Node)
	}
	n.Translations[other.Locale] = other
	other.Translations[n.Locale] = n
}
