package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	email := emailFrom(r.Context())

	if data, found := s.analyticsCache.Get(email); found {
		slog.DebugContext(r.Context(), "Analytics cache hit", "email", email)
		respondJSON(w, http.StatusOK, data)
		return
	}

	data, err := s.ledger.Analytics(r.Context(), email)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	s.analyticsCache.Set(email, data)
	respondJSON(w, http.StatusOK, data)
}

func (s *Server) handleAIAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		respondError(w, http.StatusServiceUnavailable, "AI analysis is not configured")
		return
	}

	email := emailFrom(r.Context())
	analysis, err := s.insights.Analyze(r.Context(), email)
	if err != nil {
		slog.ErrorContext(r.Context(), "AI analysis failed", "email", email, "error", err)
		respondError(w, http.StatusInternalServerError, "Unable to analyze data")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}
