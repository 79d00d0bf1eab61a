package app

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/deusflow/neutralnews/internal/logger"
	"github.com/deusflow/neutralnews/internal/metrics"
)

// Handler serves the JSON surface: health and metrics for monitoring,
// topics, search and history for the front end.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /metrics", s.metricsHandler)
	mux.HandleFunc("GET /topics", s.topicsHandler)
	mux.HandleFunc("GET /search", s.searchHandler)
	mux.HandleFunc("GET /history", s.historyHandler)
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	code := http.StatusOK
	if !metrics.Global.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Service) metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()
	if s.limiter != nil {
		stats["summary_limiter"] = s.limiter.GetStats()
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Service) topicsHandler(w http.ResponseWriter, r *http.Request) {
	clusters, err := s.Topics(r.Context())
	if err != nil {
		logger.Error("topics failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}
	writeJSON(w, http.StatusOK, clusters)
}

func (s *Service) searchHandler(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if strings.TrimSpace(term) == "" {
		writeError(w, http.StatusBadRequest, "missing search term")
		return
	}

	res, err := s.Search(r.Context(), term)
	if err != nil {
		logger.Error("search failed", "term", term, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) historyHandler(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := s.History(limit)
	if err != nil {
		logger.Error("history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read history")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
