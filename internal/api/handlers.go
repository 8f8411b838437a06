package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/model"
)

// --- Analyze ---

type analyzeRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := readJSON(w, r, &req); err != nil {
		s.metrics.RecordRejected("bad_request")
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Message == "" {
		s.metrics.RecordRejected("empty_message")
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}

	start := time.Now()
	report, err := s.analyzer.Analyze(r.Context(), req.Message)
	if err != nil {
		var inputErr *common.InvalidInputError
		if errors.As(err, &inputErr) {
			s.metrics.RecordRejected("invalid_message")
			writeError(w, http.StatusBadRequest, inputErr.Error())
			return
		}
		common.LogError(err, "Analysis failed", common.Fields{"message_length": len(req.Message)})
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	s.metrics.RecordAnalysis(report, time.Since(start))
	writeJSON(w, http.StatusOK, report)
}

// --- Health ---

type healthResponse struct {
	Timestamp   time.Time        `json:"timestamp"`
	Status      string           `json:"status"`
	Stats       model.Statistics `json:"stats"`
	ModelLoaded bool             `json:"model_loaded"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.analyzer.Statistics()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		ModelLoaded: stats.ModelLoaded,
		Timestamp:   s.now(),
		Stats:       stats,
	})
}

// --- Stats ---

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.analyzer.Statistics())
}

// --- Reload ---

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.analyzer.ReloadModel(r.Context()); err != nil {
		s.metrics.RecordReload(false)
		common.LogWarn("Model reload failed", common.Fields{"error": err.Error()})
		writeError(w, http.StatusServiceUnavailable, "model reload failed: "+err.Error())
		return
	}

	stats := s.analyzer.Statistics()
	s.metrics.RecordReload(true)
	s.metrics.SetModelLoaded(stats.ModelLoaded)
	writeJSON(w, http.StatusOK, stats)
}
