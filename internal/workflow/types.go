package workflow

import (
	"context"
	"errors"

	"bisub/internal/history"
	"bisub/internal/segment"
	"bisub/internal/translate"
)

// DefaultChunkSize is the number of segments sent per provider request.
const DefaultChunkSize = 10

// ErrRunnerBusy is returned when Run is called while a run is active.
var ErrRunnerBusy = errors.New("translation run already in progress")

// Translator translates one chunk. *translate.Batch satisfies it.
type Translator interface {
	Translate(ctx context.Context, req translate.Request) ([]string, error)
}

// Recorder persists run lifecycle rows. *history.Store satisfies it.
type Recorder interface {
	Begin(ctx context.Context, run history.Run) (string, error)
	Progress(ctx context.Context, id string, chunksDone int) error
	Finish(ctx context.Context, id string, chunksDone int, runErr error) error
}

// Options configures a single run.
type Options struct {
	// RunID identifies the run in logs and history; generated when empty.
	RunID          string
	SourceName     string
	ContentType    segment.ContentType
	TargetLanguage string
	Tone           string
	Model          string
	// Provider is recorded in history only.
	Provider  string
	ChunkSize int
	// Progress receives round(100*completedChunks/totalChunks) after each chunk.
	Progress func(percent int)
}

// Result summarizes how far a run got.
type Result struct {
	RunID              string
	TotalChunks        int
	CompletedChunks    int
	TranslatedSegments int
}

// StatusSummary is a point-in-time view of a Runner.
type StatusSummary struct {
	Running         bool
	RunID           string
	Percent         int
	CompletedChunks int
	TotalChunks     int
	InFlight        []int
	LastError       string
}
