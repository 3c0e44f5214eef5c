package build

import (
	"sync"
	"time"

	"git.home.luguber.info/inful/chloroplast/internal/metrics"
	"git.home.luguber.info/inful/chloroplast/internal/report"
	"git.home.luguber.info/inful/chloroplast/internal/validation"
)

// Status is the outcome of a build.
type Status string

const (
	StatusSuccess Status = "success"
	// StatusPartial means the build finished with per-file errors.
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Result describes one build or single-file rebuild.
type Result struct {
	Status       Status
	BuildVersion string
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration

	Rendered int
	Copied   int
	Skipped  int
	Failed   int

	// Sitemaps lists written sitemap files; empty for single-file rebuilds.
	Sitemaps []string
	// Validation is set when output validation ran.
	Validation *validation.Report
	Errors     *report.ErrorReport

	mu sync.Mutex
}

func newResult(version string) *Result {
	return &Result{
		BuildVersion: version,
		StartTime:    time.Now(),
		Errors:       report.New(),
	}
}

func (r *Result) count(label metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch label {
	case metrics.ResultRendered:
		r.Rendered++
	case metrics.ResultCopied:
		r.Copied++
	case metrics.ResultSkipped:
		r.Skipped++
	case metrics.ResultFailed:
		r.Failed++
	}
}

func (r *Result) finish(status Status) {
	r.Status = status
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

func (s Status) outcome() metrics.BuildOutcomeLabel {
	switch s {
	case StatusSuccess:
		return metrics.BuildOutcomeSuccess
	case StatusPartial:
		return metrics.BuildOutcomeWarning
	default:
		return metrics.BuildOutcomeFailed
	}
}
