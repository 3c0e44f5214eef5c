package build

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/chloroplast/internal/config"
	"git.home.luguber.info/inful/chloroplast/internal/content"
	"git.home.luguber.info/inful/chloroplast/internal/pathutil"
)

// Areas instantiates the configured content areas. Each call returns fresh
// areas, so file listings are never stale across builds.
func (c *Context) Areas() ([]content.Area, error) {
	cfg := c.Config
	if len(cfg.Areas) == 0 {
		return nil, ErrNoAreas
	}

	areas := make([]content.Area, 0, len(cfg.Areas))
	for i := range cfg.Areas {
		ac := &cfg.Areas[i]
		normalize := ac.Normalize(cfg.NormalizePaths)
		rootRel := strings.Trim(path.Clean("/"+strings.ReplaceAll(ac.OutputFolder, "\\", "/")), "/")
		opts := content.AreaOptions{
			// the on-disk folder must match the case used in URLs
			RootRelativePath: pathutil.NormalizeURLSegment(rootRel, normalize),
			OutputFile:       ac.OutputFile,
			NormalizePaths:   normalize,
			Locale:           ac.Locale,
			Config:           ac.Layer(),
			SourceFs:         c.SourceFs,
			TargetFs:         c.DestFs,
		}
		opts.TargetPath = c.areaTarget(ac, opts.RootRelativePath)

		if ac.IsGroup() {
			opts.SourcePath = cfg.ResolvePath(ac.SourceFolder)
			areas = append(areas, content.NewGroupArea(opts))
		} else {
			opts.SourcePath = cfg.ResolvePath(ac.SourceFile)
			areas = append(areas, content.NewIndividualArea(opts))
		}
	}
	return areas, nil
}

// areaTarget places non-default locales under "<out>/<locale>".
func (c *Context) areaTarget(ac *config.AreaConfig, rootRel string) string {
	segments := []string{c.OutputDir}
	if !c.Resolver.IsDefaultLocale(ac.Locale) {
		segments = append(segments, strings.Trim(ac.Locale, "/"))
	}
	if rootRel != "" {
		segments = append(segments, rootRel)
	}
	return pathutil.CombinePath(segments[0], segments[1:]...)
}
