package content

import (
	"path/filepath"
	"slices"
	"strings"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/util/sets"
)

// ErrHierarchyUnderflow is returned when a shallower node needs an ancestor
// above the forest root, e.g. "docs/guide/x.md" followed by "docs2/y.md"
// with no top-level page.
var ErrHierarchyUnderflow = foundation.InternalError("hierarchy parent walk exceeded available ancestors").Build()

// BuildHierarchy nests content nodes into a forest by directory depth and
// returns the roots in discovery order.
//
// Non-content nodes are dropped and repeated relative source paths keep their
// first occurrence. Nodes are stably sorted by directory (segment-wise), then
// walked once:
//   - the first node, and any same-or-shallower node at the top-level depth,
//     starts a new root;
//   - a deeper node is placed under the node just before it;
//   - a node at the same depth joins the current parent;
//   - a shallower node climbs until its parent is strictly shallower than
//     itself, failing with ErrHierarchyUnderflow when it runs out of ancestors.
//
// The input nodes' Parent and Children fields are overwritten.
func BuildHierarchy(nodes []*Node) ([]*Node, error) {
	items := make([]*Node, 0, len(nodes))
	seen := make(sets.Set[string], len(nodes))
	for _, n := range nodes {
		if n == nil || !n.IsContent() || !seen.Add(n.RelativeSource) {
			continue
		}
		n.Parent = nil
		n.Children = nil
		items = append(items, n)
	}

	slices.SortStableFunc(items, func(a, b *Node) int {
		return compareDirs(a.Dir(), b.Dir())
	})

	var (
		roots         []*Node
		registry      = make(sets.Set[string])
		currentParent *Node
		previous      *Node
		nestDepth     int
		topDepth      int
	)

	for _, node := range items {
		depth := node.Depth()

		if previous == nil || (depth <= nestDepth && depth == topDepth) {
			currentParent = node
			nestDepth, topDepth = depth, depth
			if registry.Add(node.RelativeSource) {
				roots = append(roots, node)
			}
			previous = node
			continue
		}

		switch {
		case depth > nestDepth:
			currentParent = previous
		case depth < nestDepth:
			for currentParent != nil && currentParent.Depth() >= depth {
				currentParent = currentParent.Parent
			}
			if currentParent == nil {
				return nil, ErrHierarchyUnderflow.WithContext("path", node.RelativeSource)
			}
		}

		node.Parent = currentParent
		currentParent.Children = append(currentParent.Children, node)
		nestDepth = depth
		previous = node
	}

	return roots, nil
}

// compareDirs orders relative directories segment by segment so a directory
// is immediately followed by its own subdirectories.
func compareDirs(a, b string) int {
	as := splitDir(a)
	bs := splitDir(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := strings.Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return len(as) - len(bs)
}

func splitDir(d string) []string {
	if d == "" {
		return nil
	}
	return strings.Split(filepath.ToSlash(d), "/")
}
