package build

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/chloroplast/internal/content"
	"git.home.luguber.info/inful/chloroplast/internal/frontmatter"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
	"git.home.luguber.info/inful/chloroplast/internal/metadata"
	"git.home.luguber.info/inful/chloroplast/internal/observability"
)

// Front-matter keys the build itself interprets.
const (
	titleKey    = "title"
	menuPathKey = "menu_path"
)

// site is the prepared, read-only view of all areas for one build.
type site struct {
	areas []content.Area
	// nodes holds every node once: content in forest order, then assets.
	nodes []*content.Node
	// roots groups the forests of all areas by locale, for menus.
	roots map[string][]*content.Node
	// broken marks nodes whose front matter failed to parse.
	broken map[*content.Node]bool
}

// prepare enumerates and nests every area, drops duplicate targets, links
// translations and parses front matter. Only a missing or unreadable content
// root is returned as an error; per-file problems go to res.Errors.
func (b *Builder) prepare(ctx context.Context, res *Result) (*site, error) {
	ctx = observability.WithStage(ctx, "enumerate")
	areas, err := b.bc.Areas()
	if err != nil {
		return nil, err
	}

	s := &site{
		areas:  areas,
		roots:  make(map[string][]*content.Node),
		broken: make(map[*content.Node]bool),
	}
	targets := make(map[string]*content.Node)
	keep := func(n *content.Node) bool {
		key := n.Target.Path()
		if first, dup := targets[key]; dup {
			observability.WarnContext(ctx, "Skipping file with duplicate target",
				logfields.Path(n.Source.Path()),
				slog.String("first", first.Source.Path()),
				logfields.Target(key))
			return false
		}
		targets[key] = n
		return true
	}

	var assets []*content.Node
	for _, area := range areas {
		roots, err := area.Hierarchy()
		if err != nil {
			return nil, err
		}
		var kept []*content.Node
		for _, r := range roots {
			if keep(r) {
				kept = append(kept, r)
				pruneDuplicates(r, keep)
			}
		}
		s.roots[area.Locale()] = append(s.roots[area.Locale()], kept...)
		for _, r := range kept {
			r.Walk(func(n *content.Node) bool {
				s.nodes = append(s.nodes, n)
				return true
			})
		}

		all, err := area.ContentNodes()
		if err != nil {
			return nil, err
		}
		for _, n := range all {
			if !n.IsContent() && keep(n) {
				assets = append(assets, n)
			}
		}
	}
	s.nodes = append(s.nodes, assets...)

	linkTranslations(s.nodes)
	b.parseFrontMatter(observability.WithStage(ctx, "metadata"), s, res)
	return s, nil
}

// pruneDuplicates removes descendants of n whose target was already claimed
// by another area, together with their subtrees.
func pruneDuplicates(n *content.Node, keep func(*content.Node) bool) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if keep(c) {
			kept = append(kept, c)
			pruneDuplicates(c, keep)
		} else {
			c.Parent = nil
		}
	}
	n.Children = kept
}

// linkTranslations pairs content nodes of different locales that share a
// site path.
func linkTranslations(nodes []*content.Node) {
	bySitePath := make(map[string][]*content.Node)
	for _, n := range nodes {
		if n.IsContent() {
			key := strings.ToLower(n.SitePath())
			bySitePath[key] = append(bySitePath[key], n)
		}
	}
	for _, group := range bySitePath {
		for i, a := range group {
			for _, c := range group[i+1:] {
				a.AddTranslation(c)
			}
		}
	}
}

// parseFrontMatter fills Meta, Body, Title and MenuPath of every content node.
func (b *Builder) parseFrontMatter(ctx context.Context, s *site, res *Result) {
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(b.bc.Workers)
	for _, n := range s.nodes {
		if !n.IsContent() {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := readFrontMatter(n); err != nil {
				res.Errors.Add(n.Source.Path(), err)
				mu.Lock()
				s.broken[n] = true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
}

func readFrontMatter(n *content.Node) error {
	text, err := n.Source.ReadAllText()
	if err != nil {
		return fileError("read source", n.Source.Path(), err)
	}
	doc, err := frontmatter.Parse(n.RelativeSource, text)
	if err != nil {
		return parseError(n.Source.Path(), err)
	}
	n.Meta = doc.Meta
	n.Body = doc.Body

	meta := metadata.New(doc.Meta)
	if t := strings.TrimSpace(meta.Get(titleKey)); t != "" {
		n.Title = t
	}
	n.MenuPath = strings.TrimSpace(meta.Get(menuPathKey))
	return nil
}
