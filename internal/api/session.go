package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"interview-assistant/internal/extractor"
	"interview-assistant/internal/interview"
)

// SessionResponse is the current session plus whether saved progress exists.
type SessionResponse struct {
	interview.Snapshot
	Resumable bool `json:"resumable"`
}

// StartRequest optionally pre-fills the candidate details.
type StartRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"max=320"`
	Phone string `json:"phone" validate:"max=32"`
}

// AnswerRequest carries one line of candidate input.
type AnswerRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

func (s *Server) sessionResponse(r *http.Request) SessionResponse {
	snap := s.controller.Snapshot()
	resumable := false
	if snap.State == interview.StateIdle || snap.State == interview.StateEnded {
		resumable = s.progress.HasInProgress(r.Context())
	}
	return SessionResponse{Snapshot: snap, Resumable: resumable}
}

// getSession handles GET /api/session
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	writeData(w, s.sessionResponse(r))
}

// startSession handles POST /api/session/start
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefill := interview.CandidateDetails{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if prefill == (interview.CandidateDetails{}) {
		prefill = s.uploads.Latest()
	}

	if err := s.controller.Start(r.Context(), prefill); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeData(w, s.sessionResponse(r))
}

// submitAnswer handles POST /api/session/answer
func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.controller.Submit(r.Context(), req.Text); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeData(w, s.sessionResponse(r))
}

// resumeSession handles POST /api/session/resume
func (s *Server) resumeSession(w http.ResponseWriter, r *http.Request) {
	saved := s.progress.LoadInProgress(r.Context())
	if saved == nil {
		writeError(w, http.StatusNotFound, "no saved interview to resume")
		return
	}
	if err := s.controller.Resume(r.Context(), saved); err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeData(w, s.sessionResponse(r))
}

// restartSession handles POST /api/session/restart
func (s *Server) restartSession(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Restart(r.Context()); err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.uploads.Reset()
	writeData(w, s.sessionResponse(r))
}

// uploadDocument handles POST /api/documents
func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	details, err := s.uploads.Run(r.Context(), data)
	if errors.Is(err, extractor.ErrSuperseded) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("document upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to process document")
		return
	}
	writeData(w, details)
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrEmptyAnswer):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interview.ErrNotStarted),
		errors.Is(err, interview.ErrAlreadyStarted),
		errors.Is(err, interview.ErrInterviewEnded),
		errors.Is(err, interview.ErrQuestionPending),
		errors.Is(err, interview.ErrNotFinished):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("session request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
