package seeder

import "time"

type Phase string

const (
	PhaseTruncate   Phase = "TRUNCATE"
	PhaseSeed       Phase = "SEED"
	PhasePreScript  Phase = "PRESCRIPT"
	PhasePostScript Phase = "POSTSCRIPT"
)

type Status int

const (
	StatusPending Status = iota
	StatusStarted
	StatusSuccess
	StatusSkipped
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "STARTED"
	case StatusSuccess:
		return "SUCCESS"
	case StatusSkipped:
		return "SKIPPED"
	case StatusFailure:
		return "FAILURE"
	default:
		return "PENDING"
	}
}

// Reporter renders run progress. PhaseStart opens a status line for a table
// and the following Outcome closes it. Truncate and seed phases always end
// with exactly one of SUCCESS, SKIPPED or FAILURE.
type Reporter interface {
	Header()
	PhaseStart(phase Phase, table string)
	Outcome(status Status, detail string)
	Footer(elapsed time.Duration, err error)
}

type nopReporter struct{}

func (nopReporter) Header()                     {}
func (nopReporter) PhaseStart(Phase, string)    {}
func (nopReporter) Outcome(Status, string)      {}
func (nopReporter) Footer(time.Duration, error) {}
