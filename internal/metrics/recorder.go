package metrics

import "time"

// Outcome labels a finished build.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeLintError Outcome = "lint_error"
	OutcomeFailed    Outcome = "failed"
	OutcomeCanceled  Outcome = "canceled"
)

// Recorder receives build observations. NoopRecorder is used when metrics
// are not configured.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncPagesRendered(kind string)
	AddLintFindings(severity string, n int)
	IncBuildOutcome(outcome Outcome)
}

type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncPagesRendered(string)                    {}
func (NoopRecorder) AddLintFindings(string, int)                {}
func (NoopRecorder) IncBuildOutcome(Outcome)                    {}
