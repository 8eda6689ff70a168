package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"interview-assistant/internal/dashboard"
	"interview-assistant/internal/extractor"
	"interview-assistant/internal/interview"
	"interview-assistant/internal/metrics"
)

// maxUploadBytes caps a document upload.
const maxUploadBytes = 10 << 20

// SavedProgress reads the in-progress slot.
type SavedProgress interface {
	LoadInProgress(ctx context.Context) *interview.Session
	HasInProgress(ctx context.Context) bool
}

// Server exposes the interview controller and the archive over HTTP.
type Server struct {
	controller *interview.Controller
	progress   SavedProgress
	uploads    *extractor.Uploads
	dashboard  *dashboard.Service
	metrics    *metrics.Metrics
	logger     *zap.Logger
	validate   *validator.Validate
}

func NewServer(
	controller *interview.Controller,
	progress SavedProgress,
	uploads *extractor.Uploads,
	dash *dashboard.Service,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		controller: controller,
		progress:   progress,
		uploads:    uploads,
		dashboard:  dash,
		metrics:    m,
		logger:     logger,
		validate:   validator.New(),
	}
}

// Router builds the HTTP handler.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	router.Use(middleware.RequestID, middleware.RealIP, s.requestLogger, middleware.Recoverer, middleware.Timeout(60*time.Second))

	router.Get("/health", s.health)
	if s.metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/start", s.startSession)
			r.Post("/answer", s.submitAnswer)
			r.Post("/resume", s.resumeSession)
			r.Post("/restart", s.restartSession)
		})
		r.Post("/documents", s.uploadDocument)
		r.Route("/interviews", func(r chi.Router) {
			r.Get("/", s.listInterviews)
			r.Get("/export", s.exportInterviews)
			r.Get("/{id}", s.getInterview)
			r.Delete("/{id}", s.deleteInterview)
		})
	})

	return router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Resp{OK: true, Info: "healthy"})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
