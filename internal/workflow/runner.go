package workflow

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"bisub/internal/history"
	"bisub/internal/logging"
	"bisub/internal/segment"
	"bisub/internal/services"
	"bisub/internal/translate"
)

// Runner executes translation runs sequentially, chunk by chunk.
type Runner struct {
	translator Translator
	recorder   Recorder
	logger     *slog.Logger

	mu       sync.RWMutex
	running  bool
	runID    string
	inflight map[int]struct{}
	done     int
	total    int
	lastErr  error
}

// NewRunner constructs a runner. recorder may be nil.
func NewRunner(translator Translator, recorder Recorder, logger *slog.Logger) *Runner {
	return &Runner{
		translator: translator,
		recorder:   recorder,
		logger:     logging.NewComponentLogger(logger, "workflow"),
		inflight:   make(map[int]struct{}),
	}
}

// InFlight returns the IDs of segments whose chunk is with the provider, in
// ascending order.
func (r *Runner) InFlight() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inflightLocked()
}

// IsInFlight reports whether the segment with id is being translated.
func (r *Runner) IsInFlight(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.inflight[id]
	return ok
}

// Status returns the latest run information.
func (r *Runner) Status() StatusSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summary := StatusSummary{
		Running:         r.running,
		RunID:           r.runID,
		CompletedChunks: r.done,
		TotalChunks:     r.total,
		Percent:         percent(r.done, r.total),
		InFlight:        r.inflightLocked(),
	}
	if r.lastErr != nil {
		summary.LastError = r.lastErr.Error()
	}
	return summary
}

// Run translates segments in place. On a chunk failure the chunk's error is
// returned unchanged alongside a Result describing the completed prefix.
func (r *Runner) Run(ctx context.Context, segments []segment.Segment, opts Options) (Result, error) {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	total := (len(segments) + chunkSize - 1) / chunkSize
	result := Result{RunID: runID, TotalChunks: total}

	if err := r.begin(runID, total); err != nil {
		return result, err
	}
	defer r.end()

	if len(segments) == 0 {
		return result, nil
	}
	if r.translator == nil {
		err := services.Wrap(services.ErrConfiguration, "workflow", "run", "no translator configured", nil)
		r.setLastError(err)
		return result, err
	}

	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	r.recordBegin(ctx, logger, runID, len(segments), total, opts)

	started := time.Now()
	sampler := logging.NewProgressSampler(25)
	logger.Info("translation run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("segments", len(segments)),
		logging.Int("chunks", total),
		logging.Int("chunk_size", chunkSize),
		logging.String("target_language", opts.TargetLanguage),
		logging.String("source", opts.SourceName),
	)

	for chunk := 0; chunk < total; chunk++ {
		start := chunk * chunkSize
		end := min(start+chunkSize, len(segments))
		batch := segments[start:end]

		req := translate.Request{
			Texts:          segment.Texts(batch),
			TargetLanguage: opts.TargetLanguage,
			Tone:           opts.Tone,
			Model:          opts.Model,
		}
		if chunk > 0 {
			req.PriorContext = segments[start-1].TranslatedText
		}

		chunkCtx := services.WithChunk(ctx, chunk+1)
		r.markInFlight(batch)
		translations, err := r.translator.Translate(chunkCtx, req)
		r.clearInFlight()

		if err != nil {
			result.TranslatedSegments = segment.CountTranslated(segments)
			r.setLastError(err)
			logging.ErrorWithContext(logging.WithContext(chunkCtx, r.logger), "translation run stopped", "run_failed",
				logging.Int("completed_chunks", result.CompletedChunks),
				logging.Int("total_chunks", total),
				logging.String("failure_kind", services.FailureKind(err)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "rerun to start again from the first chunk"),
			)
			r.recordFinish(ctx, logger, runID, result.CompletedChunks, err)
			return result, err
		}

		for i := range batch {
			if i < len(translations) && translations[i] != "" {
				batch[i].TranslatedText = translations[i]
			}
		}
		result.CompletedChunks = chunk + 1
		r.setDone(result.CompletedChunks)
		r.recordProgress(ctx, logger, runID, result.CompletedChunks)

		pct := percent(result.CompletedChunks, total)
		if opts.Progress != nil {
			opts.Progress(pct)
		}
		if sampler.ShouldLog(pct) {
			logger.Info("translation progress",
				logging.String(logging.FieldEventType, "run_progress"),
				logging.Int("percent", pct),
				logging.Int("completed_chunks", result.CompletedChunks),
			)
		}
	}

	result.TranslatedSegments = segment.CountTranslated(segments)
	r.recordFinish(ctx, logger, runID, result.CompletedChunks, nil)
	logger.Info("translation run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("translated_segments", result.TranslatedSegments),
		logging.Duration("run_duration", time.Since(started)),
	)
	return result, nil
}

func (r *Runner) begin(runID string, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return ErrRunnerBusy
	}
	r.running = true
	r.runID = runID
	r.done = 0
	r.total = total
	r.lastErr = nil
	clear(r.inflight)
	return nil
}

func (r *Runner) end() {
	r.mu.Lock()
	r.running = false
	clear(r.inflight)
	r.mu.Unlock()
}

func (r *Runner) markInFlight(batch []segment.Segment) {
	r.mu.Lock()
	for _, seg := range batch {
		r.inflight[seg.ID] = struct{}{}
	}
	r.mu.Unlock()
}

func (r *Runner) clearInFlight() {
	r.mu.Lock()
	clear(r.inflight)
	r.mu.Unlock()
}

func (r *Runner) setDone(done int) {
	r.mu.Lock()
	r.done = done
	r.mu.Unlock()
}

func (r *Runner) setLastError(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
}

func (r *Runner) inflightLocked() []int {
	ids := make([]int, 0, len(r.inflight))
	for id := range r.inflight {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// History writes use a detached context so a cancelled run still gets its
// final row.
func (r *Runner) recordBegin(ctx context.Context, logger *slog.Logger, runID string, segments, total int, opts Options) {
	if r.recorder == nil {
		return
	}
	_, err := r.recorder.Begin(context.WithoutCancel(ctx), history.Run{
		ID:             runID,
		SourceName:     opts.SourceName,
		ContentType:    string(opts.ContentType),
		TargetLanguage: opts.TargetLanguage,
		Provider:       opts.Provider,
		Model:          opts.Model,
		Segments:       segments,
		ChunksTotal:    total,
	})
	if err != nil {
		logging.WarnWithContext(logger, "failed to record run start", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run will be missing from history"),
		)
	}
}

func (r *Runner) recordProgress(ctx context.Context, logger *slog.Logger, runID string, done int) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Progress(context.WithoutCancel(ctx), runID, done); err != nil {
		logger.Debug("failed to record run progress", logging.Error(err))
	}
}

func (r *Runner) recordFinish(ctx context.Context, logger *slog.Logger, runID string, done int, runErr error) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Finish(context.WithoutCancel(ctx), runID, done, runErr); err != nil {
		logging.WarnWithContext(logger, "failed to record run result", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "history shows a stale status for this run"),
		)
	}
}

func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return (done*100 + total/2) / total
}
