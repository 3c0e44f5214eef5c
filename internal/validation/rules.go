package validation

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

const indexFile = "index.html"

// OutputDirectoryRule requires the output directory and indexes its files.
type OutputDirectoryRule struct{}

func (OutputDirectoryRule) Name() string { return "output_directory" }

func (OutputDirectoryRule) Validate(_ context.Context, vctx *Context) Result {
	fi, err := vctx.Fs.Stat(vctx.OutDir)
	if err != nil || !fi.IsDir() {
		return Result{Stop: true, Issues: []Issue{{
			Severity: SeverityError,
			Category: CategoryOutput,
			Message:  fmt.Sprintf("output directory %s does not exist", vctx.OutDir),
		}}}
	}

	vctx.Files = make(map[string]bool)
	vctx.Pages = vctx.Pages[:0]
	err = afero.Walk(vctx.Fs, vctx.OutDir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, rerr := filepath.Rel(vctx.OutDir, p)
		if rerr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		vctx.Files[rel] = info.IsDir()
		if !info.IsDir() && strings.EqualFold(path.Ext(rel), ".html") {
			vctx.Pages = append(vctx.Pages, rel)
		}
		return nil
	})
	if err != nil {
		return Result{Stop: true, Issues: []Issue{{
			Severity: SeverityError,
			Category: CategoryOutput,
			Message:  "scan output directory: " + err.Error(),
		}}}
	}
	slices.Sort(vctx.Pages)
	return Result{}
}

// HTMLPresenceRule requires at least one HTML page.
type HTMLPresenceRule struct{}

func (HTMLPresenceRule) Name() string { return "html_presence" }

func (HTMLPresenceRule) Validate(_ context.Context, vctx *Context) Result {
	if len(vctx.Pages) > 0 {
		return Result{}
	}
	return Result{Issues: []Issue{{
		Severity: SeverityError,
		Category: CategoryOutput,
		Message:  "output contains no HTML files",
	}}}
}

// ReferenceRule parses every page and checks its internal references:
// stylesheets and scripts must exist (error), media should exist (warning),
// and anchors should lead to a page (warning).
type ReferenceRule struct{}

func (ReferenceRule) Name() string { return "references" }

func (ReferenceRule) Validate(ctx context.Context, vctx *Context) Result {
	var issues []Issue
	for _, page := range vctx.Pages {
		if ctx.Err() != nil {
			break
		}
		f, err := vctx.Fs.Open(filepath.Join(vctx.OutDir, filepath.FromSlash(page)))
		if err != nil {
			issues = append(issues, Issue{Severity: SeverityWarning, Category: CategoryOutput, File: page, Message: "unreadable: " + err.Error()})
			continue
		}
		links, err := ExtractLinks(f)
		_ = f.Close()
		if err != nil {
			issues = append(issues, Issue{Severity: SeverityWarning, Category: CategoryOutput, File: page, Message: err.Error()})
			continue
		}
		for _, l := range links {
			if issue, ok := checkLink(vctx, page, l); !ok {
				issues = append(issues, issue)
			}
		}
	}
	return Result{Issues: issues}
}

func checkLink(vctx *Context, page string, l *Link) (Issue, bool) {
	if !shouldVerify(l.URL) {
		return Issue{}, true
	}
	target, ok := vctx.outputPath(page, l.URL)
	if !ok {
		return Issue{}, true
	}
	issue := Issue{File: page}

	switch {
	case l.Tag == "script" || l.IsStylesheet():
		if vctx.isFile(target) {
			return Issue{}, true
		}
		issue.Severity, issue.Category = SeverityError, CategoryAsset
		issue.Message = fmt.Sprintf("missing %s asset %s", assetKind(l), l.URL)
	case l.Tag == "a":
		return vctx.checkPageLink(issue, target, l.URL)
	case l.Tag == "link":
		return Issue{}, true
	default:
		if vctx.isFile(target) {
			return Issue{}, true
		}
		issue.Severity, issue.Category = SeverityWarning, CategoryAsset
		issue.Message = fmt.Sprintf("missing image or media %s", l.URL)
	}
	return issue, false
}

func (vctx *Context) checkPageLink(issue Issue, target, raw string) (Issue, bool) {
	issue.Severity, issue.Category = SeverityWarning, CategoryLink
	dirLink := target == "" || strings.HasSuffix(target, "/")
	target = strings.TrimSuffix(target, "/")

	if !dirLink && (vctx.isFile(target) || vctx.isFile(target+".html")) {
		return Issue{}, true
	}
	if isDir, ok := vctx.Files[target]; (ok && isDir) || target == "" {
		if vctx.isFile(path.Join(target, indexFile)) {
			return Issue{}, true
		}
		issue.Message = fmt.Sprintf("link %s points to a directory without %s", raw, indexFile)
		return issue, false
	}
	issue.Message = fmt.Sprintf("broken link %s", raw)
	return issue, false
}

// outputPath maps a reference in page to an output-relative path. A trailing
// slash is kept to mark directory links. ok is false for references outside
// the site's base path.
func (vctx *Context) outputPath(page, ref string) (string, bool) {
	p := linkPath(ref)
	if p == "" {
		return "", false
	}
	trailing := strings.HasSuffix(p, "/")

	if strings.HasPrefix(p, "/") {
		if base := vctx.BasePath; base != "" {
			if p != base && !strings.HasPrefix(p, base+"/") {
				return "", false
			}
			p = strings.TrimPrefix(p, base)
		}
	} else {
		p = path.Join(path.Dir(page), p)
	}

	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if trailing && p != "" {
		p += "/"
	}
	return p, true
}

func (vctx *Context) isFile(rel string) bool {
	isDir, ok := vctx.Files[rel]
	return ok && !isDir
}

func assetKind(l *Link) string {
	if l.Tag == "script" {
		return "script"
	}
	return "stylesheet"
}
