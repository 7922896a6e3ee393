// Package server hosts the questionnaire-email endpoint that the wizard
// posts completed results to.
package server

import (
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/vastu/internal/dedupe"
	vmail "github.com/abhisek/vastu/internal/mail"
	"github.com/abhisek/vastu/internal/notify"
	"github.com/abhisek/vastu/internal/questionnaire"
	"github.com/abhisek/vastu/internal/store"
)

// maxBodyBytes caps the accepted request body.
const maxBodyBytes = 1 << 20

// Options wires the server's collaborators.
type Options struct {
	Catalog        *questionnaire.Catalog
	Submissions    store.SubmissionRepo
	Guard          dedupe.Guard
	Mailer         vmail.Service
	AdminEmail     string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server represents the HTTP server.
type Server struct {
	router  *chi.Mux
	catalog *questionnaire.Catalog
	subs    store.SubmissionRepo
	guard   dedupe.Guard
	mailer  vmail.Service
	admin   *mail.Address
	origins []string
	logger  *slog.Logger
	schema  *jsonschema.Schema
}

// New creates a server. It fails only if the embedded payload schema does
// not compile.
func New(opts Options) (*Server, error) {
	schema, err := compilePayloadSchema()
	if err != nil {
		return nil, err
	}

	s := &Server{
		catalog: opts.Catalog,
		subs:    opts.Submissions,
		guard:   opts.Guard,
		mailer:  opts.Mailer,
		origins: opts.AllowedOrigins,
		logger:  opts.Logger,
		schema:  schema,
	}
	if s.catalog == nil {
		s.catalog = questionnaire.DefaultCatalog()
	}
	if s.guard == nil {
		s.guard = dedupe.NewMemory(0)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	if opts.AdminEmail != "" {
		s.admin = &mail.Address{Name: "Vastu team", Address: opts.AdminEmail}
	}
	s.setupRouter()
	return s, nil
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", notify.IdempotencyHeader, "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", s.handleQuestions)
		r.Post("/questionnaire-email", s.handleQuestionnaireEmail)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
