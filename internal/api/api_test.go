package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Veraticus/scamguard/internal/certs"
	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/engine"
	"github.com/Veraticus/scamguard/internal/model"
	"github.com/Veraticus/scamguard/internal/service"
	"github.com/Veraticus/scamguard/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	predictor service.Predictor
	err       error
}

func (l *stubLoader) LoadPredictor(_ context.Context, _ string) (service.Predictor, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.predictor, nil
}

type failingAnalyzer struct {
	*engine.Detector
	err error
}

func (f *failingAnalyzer) Analyze(context.Context, string) (*model.AnalysisReport, error) {
	return nil, f.err
}

func newTestServer(t *testing.T, loader *stubLoader) *Server {
	t.Helper()
	d := engine.Load(context.Background(), loader, "model.db", nil)
	return New(":0", d)
}

func do(t *testing.T, srv *Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint(t *testing.T) {
	predictor := &testutil.StubPredictor{Loaded: true, Label: "scam", Confidence: 91.2}
	srv := newTestServer(t, &stubLoader{predictor: predictor})

	body := `{"message": "Congratulations! You won a lottery. Click here to claim"}`
	w := do(t, srv, http.MethodPost, "/api/analyze", strings.NewReader(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "scam", resp["ai_prediction"])
	assert.InDelta(t, 91.2, resp["ai_confidence"], 1e-9)
	assert.Contains(t, []any{"high", "critical"}, resp["risk_level"])
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, false, resp["has_links"])

	indicators, ok := resp["scam_indicators"].([]any)
	require.True(t, ok)
	assert.Len(t, indicators, 2)
	first, ok := indicators[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Lottery Winning", first["type"])

	assert.Equal(t, 1.0, promtest.ToFloat64(srv.metrics.analysesTotal.WithLabelValues(resp["risk_level"].(string))))
	assert.Equal(t, 1.0, promtest.ToFloat64(srv.metrics.findingsTotal.WithLabelValues("lottery_winning")))
}

func TestAnalyzeEndpoint_HasLinks(t *testing.T) {
	srv := newTestServer(t, &stubLoader{err: errors.New("missing")})

	tests := []struct {
		message string
		want    bool
	}{
		{message: "Claim your prize at http://prize.example.com now", want: true},
		{message: "Short link: bit.ly/abc123", want: true},
		{message: "See you at the usual place tomorrow", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			body, err := json.Marshal(map[string]string{"message": tt.message})
			require.NoError(t, err)
			w := do(t, srv, http.MethodPost, "/api/analyze", bytes.NewReader(body))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp["has_links"])
		})
	}
}

func TestAnalyzeEndpoint_NoModel(t *testing.T) {
	srv := newTestServer(t, &stubLoader{err: errors.New("missing")})

	w := do(t, srv, http.MethodPost, "/api/analyze", strings.NewReader(`{"message":"Hi, are we meeting for lunch tomorrow at 3 PM?"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp["ai_prediction"])
	assert.Equal(t, "low", resp["risk_level"])
	assert.Equal(t, []any{}, resp["scam_indicators"])
}

func TestAnalyzeEndpoint_BadRequests(t *testing.T) {
	srv := newTestServer(t, &stubLoader{err: errors.New("missing")})

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"message": `},
		{name: "missing message", body: `{}`},
		{name: "empty message", body: `{"message": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/analyze", strings.NewReader(tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}

	assert.Equal(t, 1.0, promtest.ToFloat64(srv.metrics.rejectedTotal.WithLabelValues("bad_request")))
	assert.Equal(t, 2.0, promtest.ToFloat64(srv.metrics.rejectedTotal.WithLabelValues("empty_message")))
}

func TestAnalyzeEndpoint_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t, &stubLoader{err: errors.New("missing")})

	body := `{"message": "` + strings.Repeat("a", maxBodyBytes) + `"}`
	w := do(t, srv, http.MethodPost, "/api/analyze", strings.NewReader(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeEndpoint_AnalyzerErrors(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want int
	}{
		{name: "invalid input", err: &common.InvalidInputError{Reason: "message is not valid UTF-8 text"}, want: http.StatusBadRequest},
		{name: "internal", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(":0", &failingAnalyzer{Detector: engine.New(nil, nil), err: tt.err})

			w := do(t, srv, http.MethodPost, "/api/analyze", strings.NewReader(`{"message":"hello"}`))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAnalyzeEndpoint_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubLoader{err: errors.New("missing")})

	w := do(t, srv, http.MethodGet, "/api/analyze", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubLoader{predictor: &testutil.StubPredictor{Loaded: true}})

	w := do(t, srv, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status      string           `json:"status"`
		Stats       model.Statistics `json:"stats"`
		ModelLoaded bool             `json:"model_loaded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.True(t, resp.ModelLoaded)
	assert.Equal(t, 15, resp.Stats.PatternCount)
	assert.Equal(t, 1.0, promtest.ToFloat64(srv.metrics.modelLoaded))
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubLoader{err: errors.New("missing")})

	w := do(t, srv, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats model.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.False(t, stats.ModelLoaded)
	assert.Equal(t, 15, stats.PatternCount)
	assert.Equal(t, model.Severities(), stats.SeverityLevels)
	assert.NotEmpty(t, stats.Categories)
}

func TestReloadEndpoint(t *testing.T) {
	loader := &stubLoader{err: errors.New("missing")}
	srv := newTestServer(t, loader)

	w := do(t, srv, http.MethodPost, "/api/model/reload", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 1.0, promtest.ToFloat64(srv.metrics.reloadsTotal.WithLabelValues("failure")))

	loader.err = nil
	loader.predictor = &testutil.StubPredictor{Loaded: true, Label: "not_scam", Confidence: 60}
	w = do(t, srv, http.MethodPost, "/api/model/reload", bytes.NewReader(nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats model.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.True(t, stats.ModelLoaded)
	assert.Equal(t, 1.0, promtest.ToFloat64(srv.metrics.modelLoaded))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubLoader{err: errors.New("missing")})
	do(t, srv, http.MethodPost, "/api/analyze", strings.NewReader(`{"message":"Share your OTP now"}`))

	w := do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scamguard_analyses_total")
	assert.Contains(t, w.Body.String(), "scamguard_analysis_duration_seconds")

	families, err := srv.metrics.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	srv := New("127.0.0.1:0", engine.New(nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}

func TestEnableTLS(t *testing.T) {
	cert, err := certs.NewStore(t.TempDir()).Certificate()
	require.NoError(t, err)

	srv := New("127.0.0.1:0", engine.New(nil, nil))
	srv.EnableTLS(cert)
	require.NotNil(t, srv.server.TLSConfig)

	ts := httptest.NewUnstartedServer(srv.Handler())
	ts.TLS = srv.server.TLSConfig
	ts.StartTLS()
	defer ts.Close()

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
	}}

	resp, err := client.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
