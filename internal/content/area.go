package content

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
	"git.home.luguber.info/inful/chloroplast/internal/metadata"
	"git.home.luguber.info/inful/chloroplast/internal/pathutil"
)

const renderedExt = ".html"

// Area is a configured region of the source tree mapped to a region of the output tree.
type Area interface {
	SourcePath() string
	TargetPath() string
	RootRelativePath() string
	NormalizePaths() bool
	Locale() string
	// Config is the area's own configuration layer.
	Config() *metadata.Layer
	// ContentNodes enumerates the area's files as unlinked nodes.
	ContentNodes() ([]*Node, error)
	// Hierarchy returns the area's content nodes nested into a forest.
	Hierarchy() ([]*Node, error)
	// Contains reports whether the absolute source path belongs to the area.
	Contains(path string) bool
}

// AreaOptions configures either area kind. Paths must already be normalized.
type AreaOptions struct {
	SourcePath       string
	TargetPath       string
	RootRelativePath string
	// OutputFile overrides the target file name of an individual area.
	OutputFile     string
	NormalizePaths bool
	Locale         string
	Config         *metadata.Layer
	SourceFs       afero.Fs
	TargetFs       afero.Fs
}

type areaBase struct {
	opts AreaOptions
}

func (a *areaBase) SourcePath() string { return a.opts.SourcePath }
func (a *areaBase) TargetPath() string { return a.opts.TargetPath }
func (a *areaBase) RootRelativePath() string {
	return pathutil.NormalizeURLSegment(a.opts.RootRelativePath, a.opts.NormalizePaths)
}
func (a *areaBase) NormalizePaths() bool    { return a.opts.NormalizePaths }
func (a *areaBase) Locale() string          { return a.opts.Locale }
func (a *areaBase) Config() *metadata.Layer { return a.opts.Config }

// newNode builds a node for a source file given its area-relative path.
func (a *areaBase) newNode(self Area, rel string) *Node {
	targetRel := rel
	if IsContentPath(rel) {
		targetRel = strings.TrimSuffix(rel, filepath.Ext(rel)) + renderedExt
	}
	slug := filepath.Dir(rel)
	if slug == "." {
		slug = ""
	}
	lower := a.opts.NormalizePaths
	targetRel = pathutil.NormalizeURLSegment(targetRel, lower)
	slug = pathutil.NormalizeURLSegment(slug, lower)

	return &Node{
		Slug:           slug,
		Locale:         a.opts.Locale,
		RelativeSource: rel,
		RelativeTarget: targetRel,
		Source:         NewFile(a.opts.SourceFs, pathutil.CombinePath(a.opts.SourcePath, rel)),
		Target:         NewFile(a.opts.TargetFs, pathutil.CombinePath(a.opts.TargetPath, filepath.FromSlash(targetRel))),
		Area:           self,
	}
}

// IndividualArea maps a single source file to a single target.
type IndividualArea struct {
	areaBase
}

// NewIndividualArea creates an area for one file. SourcePath is the file itself.
func NewIndividualArea(opts AreaOptions) *IndividualArea {
	return &IndividualArea{areaBase{opts: opts}}
}

// ContentNodes returns a fresh single-node list on every call.
func (a *IndividualArea) ContentNodes() ([]*Node, error) {
	ok, err := afero.Exists(a.opts.SourceFs, a.opts.SourcePath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, sourceMissing(a.opts.SourcePath)
	}

	n := a.newNode(a, filepath.Base(a.opts.SourcePath))
	if a.opts.OutputFile != "" {
		n.RelativeTarget = pathutil.NormalizeURLSegment(a.opts.OutputFile, a.opts.NormalizePaths)
		n.Target = NewFile(a.opts.TargetFs, pathutil.CombinePath(a.opts.TargetPath, filepath.FromSlash(n.RelativeTarget)))
	}
	return []*Node{n}, nil
}

// Hierarchy returns the single node as the only root.
func (a *IndividualArea) Hierarchy() ([]*Node, error) {
	nodes, err := a.ContentNodes()
	if err != nil {
		return nil, err
	}
	return BuildHierarchy(nodes)
}

// Contains reports whether path is the area's file.
func (a *IndividualArea) Contains(path string) bool {
	return pathutil.NormalizePath(path, false) == a.opts.SourcePath
}

// GroupArea maps a source directory to an output directory. Its file listing
// and hierarchy are computed once and reused for the lifetime of the value.
type GroupArea struct {
	areaBase

	listOnce sync.Once
	nodes    []*Node
	listErr  error

	treeOnce sync.Once
	roots    []*Node
	treeErr  error
}

// NewGroupArea creates an area for a directory tree.
func NewGroupArea(opts AreaOptions) *GroupArea {
	return &GroupArea{areaBase: areaBase{opts: opts}}
}

// ContentNodes enumerates every non-hidden file below the source directory.
func (g *GroupArea) ContentNodes() ([]*Node, error) {
	g.listOnce.Do(func() {
		g.nodes, g.listErr = g.enumerate()
	})
	return g.nodes, g.listErr
}

func (g *GroupArea) enumerate() ([]*Node, error) {
	root := g.opts.SourcePath
	info, err := g.opts.SourceFs.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, sourceMissing(root)
	}

	var nodes []*Node
	targets := make(map[string]string)
	err = afero.Walk(g.opts.SourceFs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if path != root && strings.HasPrefix(name, ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		rel := pathutil.RelativePath(path, root, false)
		node := g.newNode(g, rel)
		if first, clash := targets[node.RelativeTarget]; clash {
			slog.Warn("Skipping file with duplicate target",
				logfields.Path(rel),
				slog.String("first", first),
				logfields.Target(node.RelativeTarget))
			return nil
		}
		targets[node.RelativeTarget] = rel
		nodes = append(nodes, node)
		return nil
	})
	if err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryFileSystem, "enumerate content area").
			WithContext("path", root).
			Build()
	}
	return nodes, nil
}

// Hierarchy nests the content nodes. Computed once.
func (g *GroupArea) Hierarchy() ([]*Node, error) {
	g.treeOnce.Do(func() {
		nodes, err := g.ContentNodes()
		if err != nil {
			g.treeErr = err
			return
		}
		g.roots, g.treeErr = BuildHierarchy(nodes)
	})
	return g.roots, g.treeErr
}

// BuildHierarchy is Hierarchy under its conventional name.
func (g *GroupArea) BuildHierarchy() ([]*Node, error) {
	return g.Hierarchy()
}

// Contains reports whether path lies below the area's source directory.
func (g *GroupArea) Contains(path string) bool {
	p := pathutil.NormalizePath(path, false)
	root := g.opts.SourcePath
	return p == root || strings.HasPrefix(p, root+string(filepath.Separator))
}

// ErrSourceMissing is the sentinel for a configured source that does not exist.
var ErrSourceMissing = foundation.BuildError("content source does not exist").Build()

func sourceMissing(path string) error {
	return ErrSourceMissing.WithContext("path", path)
}
