package publishers

import (
	"time"

	"github.com/google/uuid"
)

// Run kinds emitted by the suite commands.
const (
	KindTestmo = "testmo_submit"
	KindPerf   = "perf"
)

// Run statuses.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// RunEvent represents the payload published downstream after a suite command finishes.
type RunEvent struct {
	RunID      string            `json:"run_id"`
	Kind       string            `json:"kind"`
	Name       string            `json:"name"`
	Status     string            `json:"status"`
	Results    string            `json:"results,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

// NewRunEvent constructs a RunEvent with a fresh run id.
func NewRunEvent(kind, name string, startedAt time.Time) RunEvent {
	return RunEvent{
		RunID:     uuid.NewString(),
		Kind:      kind,
		Name:      name,
		StartedAt: startedAt.UTC(),
	}
}

// Finish stamps the outcome of the run.
func (e RunEvent) Finish(status, summary string) RunEvent {
	e.Status = status
	e.Summary = summary
	e.FinishedAt = time.Now().UTC()
	return e
}

// messageAttributes are the routing attributes attached to queue/topic messages.
func (e RunEvent) messageAttributes() map[string]string {
	return map[string]string{
		"run_id": e.RunID,
		"kind":   e.Kind,
		"status": e.Status,
	}
}
