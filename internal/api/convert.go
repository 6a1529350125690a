package api

import (
	"bisub/internal/history"
	"bisub/internal/workflow"
)

// FromRun converts a ledger row. live, when non-nil, overrides progress
// with the runner's in-memory view.
func FromRun(run history.Run, live *workflow.StatusSummary) Run {
	dto := Run{
		ID:             run.ID,
		SourceName:     run.SourceName,
		ContentType:    run.ContentType,
		TargetLanguage: run.TargetLanguage,
		Provider:       run.Provider,
		Model:          run.Model,
		Segments:       run.Segments,
		ChunksTotal:    run.ChunksTotal,
		ChunksDone:     run.ChunksDone,
		Percent:        run.Progress(),
		Status:         string(run.Status),
		ErrorMessage:   run.ErrorMessage,
	}
	if !run.StartedAt.IsZero() {
		dto.StartedAt = run.StartedAt.UTC().Format(dateTimeFormat)
	}
	if run.FinishedAt != nil {
		dto.FinishedAt = run.FinishedAt.UTC().Format(dateTimeFormat)
	}
	if live != nil && live.Running {
		dto.ChunksDone = live.CompletedChunks
		dto.ChunksTotal = live.TotalChunks
		dto.Percent = live.Percent
		dto.InFlight = live.InFlight
		dto.Status = string(history.StatusRunning)
	}
	return dto
}

// FromStatusSummary describes a run known only to its runner, as happens
// when the history ledger is unavailable.
func FromStatusSummary(summary workflow.StatusSummary) Run {
	status := history.StatusCompleted
	switch {
	case summary.Running:
		status = history.StatusRunning
	case summary.LastError != "":
		status = history.StatusFailed
	}
	return Run{
		ID:           summary.RunID,
		ChunksTotal:  summary.TotalChunks,
		ChunksDone:   summary.CompletedChunks,
		Percent:      summary.Percent,
		Status:       string(status),
		ErrorMessage: summary.LastError,
		InFlight:     summary.InFlight,
	}
}
