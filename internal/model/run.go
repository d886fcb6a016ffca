package model

import "time"

const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// JobRun is one invocation of a collector or mailer job.
type JobRun struct {
	Job        string    `json:"job"`
	RunID      string    `json:"run_id"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (r JobRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
