package api

import "bisub/internal/segment"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// DetectRequest carries raw document text.
type DetectRequest struct {
	Text string `json:"text"`
}

// DetectResponse reports the detected content type.
type DetectResponse struct {
	ContentType string `json:"contentType"`
}

// ParseRequest carries text and an optional forced content type.
type ParseRequest struct {
	Text        string `json:"text"`
	ContentType string `json:"contentType,omitempty"`
}

// ParseResponse lists the parsed segments.
type ParseResponse struct {
	ContentType string            `json:"contentType"`
	Segments    []segment.Segment `json:"segments"`
}

// SerializeRequest renders segments back to text.
type SerializeRequest struct {
	Segments    []segment.Segment `json:"segments"`
	ContentType string            `json:"contentType"`
	OutputMode  string            `json:"outputMode,omitempty"`
}

// SerializeResponse carries rendered text.
type SerializeResponse struct {
	Text string `json:"text"`
}

// TranslateRequest runs the full pipeline. Empty fields fall back to the
// server configuration.
type TranslateRequest struct {
	Text           string `json:"text"`
	SourceName     string `json:"sourceName,omitempty"`
	ContentType    string `json:"contentType,omitempty"`
	OutputMode     string `json:"outputMode,omitempty"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
	Tone           string `json:"tone,omitempty"`
	Model          string `json:"model,omitempty"`
	ChunkSize      int    `json:"chunkSize,omitempty"`
}

// TranslateResponse is returned for both complete and partial runs. Error is
// set, verbatim, when the run stopped early.
type TranslateResponse struct {
	RunID              string            `json:"runId"`
	ContentType        string            `json:"contentType"`
	OutputMode         string            `json:"outputMode"`
	TargetLanguage     string            `json:"targetLanguage"`
	Output             string            `json:"output"`
	Segments           []segment.Segment `json:"segments"`
	TotalChunks        int               `json:"totalChunks"`
	CompletedChunks    int               `json:"completedChunks"`
	TranslatedSegments int               `json:"translatedSegments"`
	Error              string            `json:"error,omitempty"`
}

// Run describes one ledger row, overlaid with live state for active runs.
type Run struct {
	ID             string `json:"id"`
	SourceName     string `json:"sourceName,omitempty"`
	ContentType    string `json:"contentType"`
	TargetLanguage string `json:"targetLanguage"`
	Provider       string `json:"provider"`
	Model          string `json:"model,omitempty"`
	Segments       int    `json:"segments"`
	ChunksTotal    int    `json:"chunksTotal"`
	ChunksDone     int    `json:"chunksDone"`
	Percent        int    `json:"percent"`
	Status         string `json:"status"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
	InFlight       []int  `json:"inFlight,omitempty"`
	StartedAt      string `json:"startedAt,omitempty"`
	FinishedAt     string `json:"finishedAt,omitempty"`
}

// RunListResponse wraps a run listing.
type RunListResponse struct {
	Runs []Run `json:"runs"`
}

// RunResponse wraps a single run.
type RunResponse struct {
	Run Run `json:"run"`
}

// HealthResponse reports server and provider readiness.
type HealthResponse struct {
	Status        string `json:"status"`
	Provider      string `json:"provider"`
	Model         string `json:"model,omitempty"`
	ProviderReady bool   `json:"providerReady"`
	Detail        string `json:"detail,omitempty"`
	ActiveRuns    int    `json:"activeRuns"`
}

// ErrorResponse is the body of every non-2xx answer except partial runs.
type ErrorResponse struct {
	Error string `json:"error"`
}
