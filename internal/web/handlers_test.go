package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvprofiler/internal/analysis"
	"csvprofiler/internal/config"
	"csvprofiler/internal/store/memory"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.RequestTimeout = 0 // disables the timeout middleware
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Analysis.MaxPayloadBytes = 5 * 1024 * 1024
	cfg.Analysis.MaxCellCount = 1_000_000
	cfg.Analysis.ForbiddenContent = "Sonny Hayes"
	if mutate != nil {
		mutate(cfg)
	}

	engineCfg := analysis.DefaultConfig()
	engineCfg.MaxPayloadBytes = cfg.Analysis.MaxPayloadBytes
	engineCfg.MaxCellCount = cfg.Analysis.MaxCellCount
	engineCfg.ForbiddenContent = cfg.Analysis.ForbiddenContent

	return NewServer(analysis.New(memory.New(), engineCfg), cfg)
}

func ingest(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/ingestCsv", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) analysis.Result {
	t.Helper()
	var res analysis.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	return er
}

func TestIngestCSV(t *testing.T) {
	s := newTestServer(t, nil)

	rec := ingest(t, s, "a,b\n1,2\n3,4\n5,6\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeResult(t, rec)
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Equal(t, 3, res.NumberOfRows)
	assert.Equal(t, 2, res.NumberOfColumns)
	assert.False(t, res.AlreadyExists)
	require.Len(t, res.ColumnStatistics, 2)
	assert.True(t, res.ColumnStatistics[0].IsNumeric)
}

func TestIngestCSVNonNumericFieldsSerializeAsNull(t *testing.T) {
	s := newTestServer(t, nil)

	rec := ingest(t, s, "name\nalice\n")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	cols := raw["columnStatistics"].([]any)
	col := cols[0].(map[string]any)
	assert.Nil(t, col["minValue"])
	assert.Nil(t, col["percentiles"])
	assert.Equal(t, false, col["isNumeric"])
}

func TestIngestCSVErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantCode: "invalid_input"},
		{name: "ragged row", body: "a,b\n1,2\n3\n", wantStatus: http.StatusBadRequest, wantCode: "invalid_csv_structure"},
		{name: "forbidden content", body: "driver,team\nSonny Hayes,APX\n", wantStatus: http.StatusBadRequest, wantCode: "forbidden_content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			rec := ingest(t, s, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestIngestCSVPayloadTooLarge(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Analysis.MaxPayloadBytes = 32
	})

	rec := ingest(t, s, "a,b\n"+strings.Repeat("1,2\n", 20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "payload_too_large", decodeError(t, rec).Code)
}

func TestIngestCSVDeduplicates(t *testing.T) {
	s := newTestServer(t, nil)

	first := decodeResult(t, ingest(t, s, "a,b\n1,2\n"))

	rec := ingest(t, s, "a,b\r\n1,2\r\n")
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeResult(t, rec)

	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetAnalysis(t *testing.T) {
	s := newTestServer(t, nil)
	created := decodeResult(t, ingest(t, s, "a,b\n1,2\n"))

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/"+created.ID.String(), nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeResult(t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.AlreadyExists)
}

func TestGetAnalysisNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestGetAnalysisMalformedID(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadJSON(t *testing.T) {
	s := newTestServer(t, nil)
	created := decodeResult(t, ingest(t, s, "a,b\n1,2\n"))

	url := fmt.Sprintf("/api/analysis/%s/download.json", created.ID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="analysis.json"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "\n  ", "download should be pretty-printed")

	got := decodeResult(t, rec)
	assert.Equal(t, created.ID, got.ID)
}

func TestDeleteAnalysis(t *testing.T) {
	s := newTestServer(t, nil)
	created := decodeResult(t, ingest(t, s, "a,b\n1,2\n"))

	req := httptest.NewRequest(http.MethodDelete, "/api/analysis/"+created.ID.String(), nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Second delete is a 404.
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLanding(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "CSV Analysis API")
}
