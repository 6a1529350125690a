package history

import "time"

// Status captures the lifecycle of a translation run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one row of the run ledger.
type Run struct {
	ID             string     `json:"id"`
	SourceName     string     `json:"sourceName"`
	ContentType    string     `json:"contentType"`
	TargetLanguage string     `json:"targetLanguage"`
	Provider       string     `json:"provider"`
	Model          string     `json:"model"`
	Segments       int        `json:"segments"`
	ChunksTotal    int        `json:"chunksTotal"`
	ChunksDone     int        `json:"chunksDone"`
	Status         Status     `json:"status"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	StartedAt      time.Time  `json:"startedAt"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
}

// Progress reports completed chunks as a rounded percentage.
func (r Run) Progress() int {
	if r.ChunksTotal <= 0 {
		if r.Status == StatusCompleted {
			return 100
		}
		return 0
	}
	return (r.ChunksDone*100 + r.ChunksTotal/2) / r.ChunksTotal
}

// Duration returns the elapsed run time, measured to now for running rows.
func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() {
		return 0
	}
	if r.FinishedAt != nil {
		return r.FinishedAt.Sub(r.StartedAt)
	}
	return time.Since(r.StartedAt)
}
