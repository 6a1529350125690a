package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bisub/internal/api"
	"bisub/internal/config"
	"bisub/internal/history"
	"bisub/internal/logging"
	"bisub/internal/segment"
	"bisub/internal/testsupport"
)

type harness struct {
	server  *httptest.Server
	llm     *testsupport.LLMServer
	store   *history.Store
	cfg     *config.Config
	headers map[string]string
}

func newHarness(t *testing.T, fn testsupport.TranslateFunc, opts ...testsupport.ConfigOption) *harness {
	t.Helper()
	llm := testsupport.NewLLMServer(t, fn)
	opts = append([]testsupport.ConfigOption{
		testsupport.WithCompatibleProvider(llm.BaseURL()),
		testsupport.WithTargetLanguage("es"),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenHistory(t, cfg)
	srv := api.NewServer(cfg, store, logging.NewNop())
	httpServer := httptest.NewServer(srv.Handler())
	t.Cleanup(httpServer.Close)
	return &harness{server: httpServer, llm: llm, store: store, cfg: cfg, headers: map[string]string{}}
}

func (h *harness) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestDetectParseSerialize(t *testing.T) {
	h := newHarness(t, testsupport.Prefixer("ES:"))

	var detected api.DetectResponse
	if status := h.do(t, http.MethodPost, "/api/detect", api.DetectRequest{Text: testsupport.LyricsFixture}, &detected); status != http.StatusOK {
		t.Fatalf("detect status %d", status)
	}
	if detected.ContentType != string(segment.ContentLyrics) {
		t.Fatalf("unexpected content type %q", detected.ContentType)
	}

	var parsed api.ParseResponse
	if status := h.do(t, http.MethodPost, "/api/parse", api.ParseRequest{Text: testsupport.SubtitleFixture}, &parsed); status != http.StatusOK {
		t.Fatalf("parse status %d", status)
	}
	if parsed.ContentType != "subtitle" || len(parsed.Segments) != 3 {
		t.Fatalf("unexpected parse %+v", parsed)
	}
	if parsed.Segments[2].OriginalText != "Fine,\nthanks." || parsed.Segments[0].StartTime != "00:00:01,000" {
		t.Fatalf("unexpected segment %+v", parsed.Segments)
	}

	parsed.Segments[0].TranslatedText = "Hola."
	var rendered api.SerializeResponse
	status := h.do(t, http.MethodPost, "/api/serialize", api.SerializeRequest{
		Segments:    parsed.Segments,
		ContentType: parsed.ContentType,
		OutputMode:  "translation-then-original",
	}, &rendered)
	if status != http.StatusOK {
		t.Fatalf("serialize status %d", status)
	}
	if !strings.HasPrefix(rendered.Text, "1\n00:00:01,000 --> 00:00:02,500\nHola.\nHello there.\n") {
		t.Fatalf("unexpected serialization:\n%s", rendered.Text)
	}

	var apiErr api.ErrorResponse
	if status := h.do(t, http.MethodPost, "/api/parse", api.ParseRequest{Text: "x", ContentType: "vtt"}, &apiErr); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown content type, got %d", status)
	}
	if status := h.do(t, http.MethodPost, "/api/detect", map[string]string{"body": "x"}, &apiErr); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", status)
	}
}

func TestParseIgnoresByteOrderMark(t *testing.T) {
	h := newHarness(t, testsupport.Prefixer("ES:"))
	text := "\ufeff" + testsupport.LyricsFixture

	var detected api.DetectResponse
	if status := h.do(t, http.MethodPost, "/api/detect", api.DetectRequest{Text: text}, &detected); status != http.StatusOK {
		t.Fatalf("detect status %d", status)
	}
	if detected.ContentType != string(segment.ContentLyrics) {
		t.Fatalf("expected lyrics, got %q", detected.ContentType)
	}

	var parsed api.ParseResponse
	if status := h.do(t, http.MethodPost, "/api/parse", api.ParseRequest{Text: text}, &parsed); status != http.StatusOK {
		t.Fatalf("parse status %d", status)
	}
	if parsed.ContentType != string(segment.ContentLyrics) || len(parsed.Segments) != 3 {
		t.Fatalf("unexpected parse %+v", parsed)
	}
	if parsed.Segments[0].OriginalText != "First line" {
		t.Fatalf("first line lost: %+v", parsed.Segments[0])
	}
}

func TestTranslateRecordsRun(t *testing.T) {
	h := newHarness(t, testsupport.Prefixer("ES:"))

	var resp api.TranslateResponse
	status := h.do(t, http.MethodPost, "/api/translate", api.TranslateRequest{
		Text:       testsupport.SubtitleFixture,
		SourceName: "clip.srt",
		ChunkSize:  2,
	}, &resp)
	if status != http.StatusOK {
		t.Fatalf("translate status %d: %+v", status, resp)
	}
	if resp.Error != "" || resp.TotalChunks != 2 || resp.CompletedChunks != 2 || resp.TranslatedSegments != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !strings.Contains(resp.Output, "ES:Hello there.") || strings.Contains(resp.Output, "\nHello there.") {
		t.Fatalf("unexpected output:\n%s", resp.Output)
	}
	if resp.TargetLanguage != "es" || resp.OutputMode != "translation-only" {
		t.Fatalf("unexpected defaults %+v", resp)
	}
	if got := h.llm.Contexts(); len(got) != 2 || got[0] != "" || got[1] != "ES:How are you?" {
		t.Fatalf("unexpected prior contexts %q", got)
	}

	var listed api.RunListResponse
	if status := h.do(t, http.MethodGet, "/api/runs", nil, &listed); status != http.StatusOK {
		t.Fatalf("runs status %d", status)
	}
	if len(listed.Runs) != 1 || listed.Runs[0].ID != resp.RunID {
		t.Fatalf("unexpected runs %+v", listed.Runs)
	}
	run := listed.Runs[0]
	if run.Status != "completed" || run.Percent != 100 || run.Provider != "compatible" || run.Model != "test-model" || run.SourceName != "clip.srt" {
		t.Fatalf("unexpected run %+v", run)
	}

	var single api.RunResponse
	if status := h.do(t, http.MethodGet, "/api/runs/"+resp.RunID, nil, &single); status != http.StatusOK {
		t.Fatalf("run status %d", status)
	}
	if single.Run.ChunksDone != 2 || single.Run.FinishedAt == "" {
		t.Fatalf("unexpected run %+v", single.Run)
	}

	var apiErr api.ErrorResponse
	if status := h.do(t, http.MethodGet, "/api/runs/missing", nil, &apiErr); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if status := h.do(t, http.MethodGet, "/api/runs?limit=zero", nil, &apiErr); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", status)
	}
}

func TestTranslatePartialFailureReturnsBadGateway(t *testing.T) {
	h := newHarness(t, func(call int, texts []string) ([]string, int) {
		if call >= 2 {
			return nil, http.StatusServiceUnavailable
		}
		return testsupport.Prefixer("ES:")(call, texts)
	})

	var resp api.TranslateResponse
	status := h.do(t, http.MethodPost, "/api/translate", api.TranslateRequest{
		Text:       testsupport.SubtitleFixture,
		ChunkSize:  2,
		OutputMode: "original-first",
	}, &resp)
	if status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", status)
	}
	if !strings.Contains(resp.Error, "after 3 attempts") || !strings.Contains(resp.Error, "http 503") {
		t.Fatalf("expected verbatim provider error, got %q", resp.Error)
	}
	if h.llm.Calls() != 4 {
		t.Fatalf("expected 1 successful and 3 failed calls, got %d", h.llm.Calls())
	}
	if resp.CompletedChunks != 1 || resp.TranslatedSegments != 2 {
		t.Fatalf("unexpected progress %+v", resp)
	}
	if !strings.Contains(resp.Output, "Hello there.\nES:Hello there.") || !strings.Contains(resp.Output, "Fine,\nthanks.\nFine,\nthanks.") {
		t.Fatalf("unexpected partial output:\n%s", resp.Output)
	}
	if resp.Segments[2].TranslatedText != "" {
		t.Fatalf("failed chunk must stay untranslated: %+v", resp.Segments[2])
	}

	var single api.RunResponse
	if status := h.do(t, http.MethodGet, "/api/runs/"+resp.RunID, nil, &single); status != http.StatusOK {
		t.Fatalf("run status %d", status)
	}
	if single.Run.Status != "failed" || single.Run.ErrorMessage != resp.Error {
		t.Fatalf("unexpected run %+v", single.Run)
	}
}

func TestBearerTokenGuardsRoutes(t *testing.T) {
	h := newHarness(t, testsupport.Prefixer("ES:"), testsupport.WithAPIToken("secret"))

	var apiErr api.ErrorResponse
	if status := h.do(t, http.MethodPost, "/api/detect", api.DetectRequest{Text: "x"}, &apiErr); status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	var health api.HealthResponse
	if status := h.do(t, http.MethodGet, "/api/health", nil, &health); status != http.StatusOK {
		t.Fatalf("health must stay open, got %d", status)
	}

	h.headers["Authorization"] = "Bearer wrong"
	if status := h.do(t, http.MethodPost, "/api/detect", api.DetectRequest{Text: "x"}, &apiErr); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong token, got %d", status)
	}
	h.headers["Authorization"] = "Bearer secret"
	var detected api.DetectResponse
	if status := h.do(t, http.MethodPost, "/api/detect", api.DetectRequest{Text: "x"}, &detected); status != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", status)
	}
}

func TestHealthReportsProviderState(t *testing.T) {
	h := newHarness(t, testsupport.Prefixer("ES:"))
	var health api.HealthResponse
	if status := h.do(t, http.MethodGet, "/api/health?deep=1", nil, &health); status != http.StatusOK {
		t.Fatalf("health status %d", status)
	}
	if !health.ProviderReady || health.Provider != "compatible" || health.Model != "test-model" {
		t.Fatalf("unexpected health %+v", health)
	}

	cfg := testsupport.NewConfig(t)
	srv := api.NewServer(cfg, nil, logging.NewNop())
	bare := httptest.NewServer(srv.Handler())
	t.Cleanup(bare.Close)
	noProvider := &harness{server: bare, headers: map[string]string{}}

	if status := noProvider.do(t, http.MethodGet, "/api/health", nil, &health); status != http.StatusOK {
		t.Fatalf("health status %d", status)
	}
	if health.ProviderReady || !strings.Contains(health.Detail, "api key") {
		t.Fatalf("expected missing credentials to be reported, got %+v", health)
	}

	var apiErr api.ErrorResponse
	status := noProvider.do(t, http.MethodPost, "/api/translate", api.TranslateRequest{Text: "hello"}, &apiErr)
	if status != http.StatusServiceUnavailable || !strings.Contains(apiErr.Error, "api key") {
		t.Fatalf("expected 503 with configuration error, got %d %q", status, apiErr.Error)
	}

	var listed api.RunListResponse
	if status := noProvider.do(t, http.MethodGet, "/api/runs", nil, &listed); status != http.StatusOK || len(listed.Runs) != 0 {
		t.Fatalf("expected empty run list without history, got %d %+v", status, listed)
	}
}
