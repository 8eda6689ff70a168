package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"interview-assistant/internal/dashboard"
)

// listInterviews handles GET /api/interviews
// Query params:
// - q: substring of the candidate name or email
// - sort: "score" (default), "name" or "date"
func (s *Server) listInterviews(w http.ResponseWriter, r *http.Request) {
	key, err := dashboard.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := s.dashboard.List(r.Context(), r.URL.Query().Get("q"), key)
	if err != nil {
		s.writeArchiveError(w, err)
		return
	}
	writeData(w, list)
}

// getInterview handles GET /api/interviews/{id}
func (s *Server) getInterview(w http.ResponseWriter, r *http.Request) {
	cs, err := s.dashboard.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeArchiveError(w, err)
		return
	}
	writeData(w, cs)
}

// deleteInterview handles DELETE /api/interviews/{id}
func (s *Server) deleteInterview(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeArchiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Resp{OK: true, Info: "interview deleted"})
}

// exportInterviews handles GET /api/interviews/export
func (s *Server) exportInterviews(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="interviews_%s.xlsx"`, time.Now().Format("20060102_150405")))

	if err := s.dashboard.Export(r.Context(), w); err != nil {
		s.logger.Error("archive export failed", zap.Error(err))
		w.Header().Del("Content-Disposition")
		s.writeArchiveError(w, err)
	}
}

func (s *Server) writeArchiveError(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("archive request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "failed to read interviews")
}
