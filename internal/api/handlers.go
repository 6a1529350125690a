package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bisub/internal/document"
	"bisub/internal/fileutil"
	"bisub/internal/history"
	"bisub/internal/language"
	"bisub/internal/segment"
	"bisub/internal/workflow"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, DetectResponse{ContentType: string(segment.Detect(fileutil.StripBOM(req.Text)))})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !s.decode(w, r, &req) {
		return
	}
	contentType, err := optionalContentType(req.ContentType)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc := document.Load("", fileutil.StripBOM(req.Text), contentType)
	s.writeJSON(w, http.StatusOK, ParseResponse{
		ContentType: string(doc.ContentType),
		Segments:    nonNilSegments(doc.Segments),
	})
}

func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	var req SerializeRequest
	if !s.decode(w, r, &req) {
		return
	}
	contentType, err := segment.ParseContentType(req.ContentType)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := s.outputMode(req.OutputMode)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, SerializeResponse{Text: segment.Serialize(req.Segments, contentType, mode)})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !s.decode(w, r, &req) {
		return
	}
	contentType, err := optionalContentType(firstNonEmpty(req.ContentType, s.cfg.Output.ContentType))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := s.outputMode(req.OutputMode)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	target, err := language.Normalize(firstNonEmpty(req.TargetLanguage, s.cfg.Translate.TargetLanguage))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ChunkSize < 0 {
		s.writeError(w, http.StatusBadRequest, "chunkSize must be positive")
		return
	}
	chunkSize := req.ChunkSize
	if chunkSize == 0 {
		chunkSize = s.cfg.Translate.ChunkSize
	}
	if s.batch == nil {
		s.writeError(w, http.StatusServiceUnavailable, s.batchErr.Error())
		return
	}

	doc := document.Load(req.SourceName, fileutil.StripBOM(req.Text), contentType)
	provider := s.batch.Provider()
	model := firstNonEmpty(req.Model, provider.Model())
	runID := uuid.NewString()

	runner := workflow.NewRunner(s.batch, s.recorder(), s.logger)
	s.register(runID, runner)
	defer s.unregister(runID)

	result, runErr := runner.Run(r.Context(), doc.Segments, workflow.Options{
		RunID:          runID,
		SourceName:     strings.TrimSpace(req.SourceName),
		ContentType:    doc.ContentType,
		TargetLanguage: target,
		Tone:           firstNonEmpty(req.Tone, s.cfg.Translate.Tone),
		Model:          model,
		Provider:       provider.Name(),
		ChunkSize:      chunkSize,
	})

	resp := TranslateResponse{
		RunID:              result.RunID,
		ContentType:        string(doc.ContentType),
		OutputMode:         string(mode),
		TargetLanguage:     target,
		Output:             doc.Export(mode),
		Segments:           nonNilSegments(doc.Segments),
		TotalChunks:        result.TotalChunks,
		CompletedChunks:    result.CompletedChunks,
		TranslatedSegments: result.TranslatedSegments,
	}
	if runErr != nil {
		resp.Error = runErr.Error()
		s.writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxRunLimit)
	}

	if s.store == nil {
		runs := make([]Run, 0)
		for _, summary := range s.liveStatuses() {
			runs = append(runs, FromStatusSummary(summary))
		}
		slices.SortFunc(runs, func(a, b Run) int { return strings.Compare(a.ID, b.ID) })
		if len(runs) > limit {
			runs = runs[:limit]
		}
		s.writeJSON(w, http.StatusOK, RunListResponse{Runs: runs})
		return
	}

	rows, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		var live *workflow.StatusSummary
		if summary, ok := s.liveStatus(row.ID); ok {
			live = &summary
		}
		runs = append(runs, FromRun(row, live))
	}
	s.writeJSON(w, http.StatusOK, RunListResponse{Runs: runs})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing run id")
		return
	}
	summary, isLive := s.liveStatus(id)

	if s.store != nil {
		row, err := s.store.Get(r.Context(), id)
		switch {
		case err == nil:
			var live *workflow.StatusSummary
			if isLive {
				live = &summary
			}
			s.writeJSON(w, http.StatusOK, RunResponse{Run: FromRun(*row, live)})
			return
		case !errors.Is(err, history.ErrNotFound):
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if isLive {
		s.writeJSON(w, http.StatusOK, RunResponse{Run: FromStatusSummary(summary)})
		return
	}
	s.writeError(w, http.StatusNotFound, "run not found")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		Provider:      s.cfg.Provider.Kind,
		ProviderReady: s.batch != nil,
		ActiveRuns:    len(s.liveStatuses()),
	}
	if s.batch == nil {
		resp.Detail = s.batchErr.Error()
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	provider := s.batch.Provider()
	resp.Model = provider.Model()

	// deep=1 performs a real provider round trip.
	if deep, _ := strconv.ParseBool(r.URL.Query().Get("deep")); deep {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		if err := provider.HealthCheck(ctx); err != nil {
			resp.Status = "degraded"
			resp.ProviderReady = false
			resp.Detail = err.Error()
			s.writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) outputMode(value string) (segment.OutputMode, error) {
	return segment.ParseOutputMode(firstNonEmpty(value, s.cfg.Output.Mode))
}

func optionalContentType(value string) (segment.ContentType, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return segment.ParseContentType(value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func nonNilSegments(segments []segment.Segment) []segment.Segment {
	if segments == nil {
		return []segment.Segment{}
	}
	return segments
}
