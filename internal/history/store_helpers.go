package history

import (
	"database/sql"
	"strings"
	"time"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		sourceName   sql.NullString
		model        sql.NullString
		statusStr    string
		errorMessage sql.NullString
		startedRaw   string
		finishedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&sourceName,
		&run.ContentType,
		&run.TargetLanguage,
		&run.Provider,
		&model,
		&run.Segments,
		&run.ChunksTotal,
		&run.ChunksDone,
		&statusStr,
		&errorMessage,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.SourceName = sourceName.String
	run.Model = model.String
	run.Status = Status(statusStr)
	run.ErrorMessage = errorMessage.String
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		if ts := parseTime(finishedRaw.String); !ts.IsZero() {
			run.FinishedAt = &ts
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func formatTime(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}
