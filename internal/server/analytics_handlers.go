package server

import (
	"log"
	"net/http"
	"strconv"

	"mulletclicker/internal/analytics"
	"mulletclicker/internal/sessions"
)

func (s *Server) handleTopRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics requires a database connection")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	runs, err := analytics.NewQueries(s.DB).GetTopRuns(limit)
	if err != nil {
		log.Printf("[Analytics] top runs error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "error loading runs")
		return
	}
	if runs == nil {
		runs = []analytics.TopRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics requires a database connection")
		return
	}

	code, ok := sessions.NormalizeCode(r.PathValue("code"))
	if !ok {
		writeError(w, http.StatusBadRequest, sessions.ErrInvalidCode.Error())
		return
	}

	stats, err := analytics.NewQueries(s.DB).GetSessionStats(code)
	if err != nil {
		log.Printf("[Analytics] session stats error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "error loading session stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
