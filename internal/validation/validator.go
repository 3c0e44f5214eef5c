package validation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/chloroplast/internal/logfields"
	"git.home.luguber.info/inful/chloroplast/internal/urlpath"
)

// Report holds every finding of a run.
type Report struct {
	OutDir string
	Pages  int
	Issues []Issue
}

// DefaultRules is the standard chain.
func DefaultRules() *RuleChain {
	return NewRuleChain(
		OutputDirectoryRule{},
		HTMLPresenceRule{},
		ReferenceRule{},
	)
}

// Validate checks the output tree at outDir. Site-rooted references are
// expected to carry basePath.
func Validate(ctx context.Context, fsys afero.Fs, outDir, basePath string) *Report {
	vctx := &Context{
		Fs:       fsys,
		OutDir:   outDir,
		BasePath: urlpath.NormalizeBasePath(basePath),
		Logger:   slog.Default(),
	}
	issues := DefaultRules().Validate(ctx, vctx)
	return &Report{OutDir: outDir, Pages: len(vctx.Pages), Issues: issues}
}

// Errors returns the error-severity issues.
func (r *Report) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the warning-severity issues.
func (r *Report) Warnings() []Issue { return r.filter(SeverityWarning) }

// HasErrors reports whether any issue is an error.
func (r *Report) HasErrors() bool { return len(r.Errors()) > 0 }

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Summary is a one-line account of the report.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d page(s) checked, %d error(s), %d warning(s)", r.Pages, len(r.Errors()), len(r.Warnings()))
}

// WriteTo prints the report, errors first.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	b.WriteString(r.Summary())
	b.WriteByte('\n')
	for _, group := range [][]Issue{r.Errors(), r.Warnings()} {
		for _, i := range group {
			loc := i.File
			if loc == "" {
				loc = r.OutDir
			}
			fmt.Fprintf(&b, "%-7s %-6s %s: %s\n", i.Severity, i.Category, loc, i.Message)
		}
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Log emits each issue at a level matching its severity.
func (r *Report) Log(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, i := range r.Issues {
		level := slog.LevelWarn
		if i.Severity == SeverityError {
			level = slog.LevelError
		}
		logger.LogAttrs(ctx, level, i.Message,
			logfields.Path(i.File),
			slog.String("category", i.Category))
	}
	logger.InfoContext(ctx, "Validation finished", slog.String("summary", r.Summary()))
}
