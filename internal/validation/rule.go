// Package validation inspects a built output tree for structural problems:
// missing pages, missing assets and dead internal links. Findings are
// reported, never returned as errors.
package validation

import (
	"context"
	"log/slog"

	"github.com/spf13/afero"
)

// Severity grades an Issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue categories.
const (
	CategoryOutput = "output"
	CategoryAsset  = "asset"
	CategoryLink   = "link"
)

// Issue is one finding.
type Issue struct {
	Severity Severity
	Category string
	// File is relative to the output directory; empty for site-wide findings.
	File    string
	Message string
}

// Context is shared by every rule of one validation run. Pages and Files are
// filled in by the output directory rule.
type Context struct {
	Fs       afero.Fs
	OutDir   string
	BasePath string
	Logger   *slog.Logger

	// Pages lists output-relative HTML files in URL form, sorted.
	Pages []string
	// Files indexes every output-relative file and directory in URL form.
	Files map[string]bool
}

// Result is what a rule found. Stop halts the chain.
type Result struct {
	Issues []Issue
	Stop   bool
}

// Rule is a single check over the output tree.
type Rule interface {
	Name() string
	Validate(ctx context.Context, vctx *Context) Result
}

// RuleChain runs rules in order, collecting issues until a rule stops it or
// the context is cancelled.
type RuleChain struct {
	rules []Rule
}

// NewRuleChain creates a chain of rules.
func NewRuleChain(rules ...Rule) *RuleChain {
	return &RuleChain{rules: rules}
}

// Validate runs the chain.
func (rc *RuleChain) Validate(ctx context.Context, vctx *Context) []Issue {
	var issues []Issue
	for _, rule := range rc.rules {
		if ctx.Err() != nil {
			break
		}
		result := rule.Validate(ctx, vctx)
		if vctx.Logger != nil && len(result.Issues) > 0 {
			vctx.Logger.Debug("Validation rule reported issues",
				slog.String("rule", rule.Name()),
				slog.Int("issues", len(result.Issues)))
		}
		issues = append(issues, result.Issues...)
		if result.Stop {
			break
		}
	}
	return issues
}
