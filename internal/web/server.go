package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"washdesk/internal/config"
	"washdesk/internal/domain"
	"washdesk/internal/page"
	"washdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Server is the page-serving HTTP frontend. Each page visit gets a
// page.Machine tracked by a form token, so the submit guard holds
// across the render/submit request pair.
type Server struct {
	cfg       config.WebConfig
	exports   config.ExportConfig
	sessions  *service.SessionService
	payments  *service.PaymentService
	personnel *service.PersonnelService
	store     domain.SessionStore
	logger    *zerolog.Logger
	templates *template.Template
	server    *http.Server

	pages    sync.Map // map[string]*page.Machine
	limiters sync.Map // map[string]*rate.Limiter
}

func NewServer(
	cfg config.WebConfig,
	exports config.ExportConfig,
	sessions *service.SessionService,
	payments *service.PaymentService,
	personnel *service.PersonnelService,
	store domain.SessionStore,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		cfg:       cfg,
		exports:   exports,
		sessions:  sessions,
		payments:  payments,
		personnel: personnel,
		store:     store,
		logger:    logger,
		templates: parseTemplates(),
	}

	mux := chi.NewRouter()
	mux.Use(s.requestLogger, s.recoverer, s.rateLimiter)

	mux.Get("/healthz", s.handleHealthz)
	mux.Get("/login", s.handleLoginPage)
	mux.Post("/login", s.handleLogin)

	mux.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Post("/logout", s.handleLogout)

		r.Get("/", s.handleIndex)
		r.Get("/payments/new", s.handlePaymentPage)
		r.Post("/payments", s.handlePaymentSubmit)

		r.Get("/personnel", s.handlePersonnelList)
		r.Get("/personnel/{personnelID}", s.handlePersonnelDetail)
		r.Get("/personnel/{personnelID}/assign", s.handleAssignPage)
		r.Post("/personnel/{personnelID}/assign", s.handleAssignSubmit)

		r.Get("/assignments/export", s.handleRosterExport)
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("web server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/personnel", http.StatusSeeOther)
}

// newPageMachine registers a machine for one page visit and returns its
// form token.
func (s *Server) newPageMachine() (string, *page.Machine) {
	token := newToken()
	m := page.New()
	s.pages.Store(token, m)
	return token, m
}

// pageMachine looks up the machine for a submitted form. A missing
// token (expired instance, restarted server) gets a fresh Ready
// machine: the submission is still validated and issued exactly once.
func (s *Server) pageMachine(token string) *page.Machine {
	if token != "" {
		if v, ok := s.pages.Load(token); ok {
			return v.(*page.Machine)
		}
	}
	m := page.New()
	_ = m.ResolveFromHandoff()
	if token != "" {
		s.pages.Store(token, m)
	}
	return m
}

// releasePage drops a finished page instance.
func (s *Server) releasePage(token string) {
	if token != "" {
		s.pages.Delete(token)
	}
}
