package metrics

import "time"

// ResultLabel enumerates per-file task outcomes.
type ResultLabel string

const (
	ResultRendered ResultLabel = "rendered"
	ResultCopied   ResultLabel = "copied"
	ResultSkipped  ResultLabel = "skipped"
	ResultFailed   ResultLabel = "failed"
)

// BuildOutcomeLabel enumerates the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess BuildOutcomeLabel = "success"
	BuildOutcomeWarning BuildOutcomeLabel = "warning" // finished with per-file errors
	BuildOutcomeFailed  BuildOutcomeLabel = "failed"
)

// Recorder defines observability hooks for builds and the watch loop.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncFileResult(result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	IncRebuildDropped()
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not served).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncFileResult(ResultLabel)                  {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) IncRebuildDropped()                         {}
func (NoopRecorder) SetWorkers(int)                             {}
