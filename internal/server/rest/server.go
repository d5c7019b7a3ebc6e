// Package rest exposes the services over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/logging"
	"github.com/dmitrijs2005/pdfnotes/internal/server/config"
	"github.com/dmitrijs2005/pdfnotes/internal/server/services"
	"github.com/dmitrijs2005/pdfnotes/internal/server/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Users   *services.UserService
	Folders *services.FolderService
	Pdfs    *services.PdfService
	Store   storage.Store
	DB      Pinger
}

type Server struct {
	cfg     *config.Config
	logger  logging.Logger
	users   *services.UserService
	folders *services.FolderService
	pdfs    *services.PdfService
	store   storage.Store
	db      Pinger
	metrics *Metrics
	limiter *ipRateLimiter
}

func NewServer(cfg *config.Config, l logging.Logger, d Deps) *Server {
	return &Server{
		cfg:     cfg,
		logger:  l.With("module", "rest_server"),
		users:   d.Users,
		folders: d.Folders,
		pdfs:    d.Pdfs,
		store:   d.Store,
		db:      d.DB,
		metrics: NewMetrics(),
		limiter: newIPRateLimiter(cfg.AuthRatePerMinute, cfg.AuthBurst),
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if s.cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(s.logger))
	r.Use(s.metrics.middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.makeHandler(s.health))
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/uploads/{key}", s.makeHandler(s.serveUpload))

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.middleware)
		r.Post("/signup", s.makeHandler(s.signup))
		r.Post("/login", s.makeHandler(s.login))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/folders", func(r chi.Router) {
			r.Get("/", s.makeHandler(s.listFolders))
			r.Post("/", s.makeHandler(s.createFolder))
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", s.makeHandler(s.renameFolder))
				r.Put("/", s.makeHandler(s.renameFolder))
				r.Delete("/", s.makeHandler(s.deleteFolder))
				r.Get("/pdf_handlers", s.makeHandler(s.folderPdfs))
			})
		})

		r.Route("/pdf_handlers", func(r chi.Router) {
			r.Get("/", s.makeHandler(s.listPdfs))
			r.Post("/", s.makeHandler(s.uploadPdf))
			r.Get("/favorites", s.makeHandler(s.favorites))
			r.Get("/recent", s.makeHandler(s.recent))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.makeHandler(s.showPdf))
				r.Delete("/", s.makeHandler(s.deletePdf))
				r.Post("/save_notes", s.makeHandler(s.saveNotes))
				r.Patch("/update_notes", s.makeHandler(s.updateNotes))
				r.Get("/show_notes", s.makeHandler(s.showNotes))
				r.Post("/toggle_favorite", s.makeHandler(s.toggleFavorite))
				r.Post("/ask", s.makeHandler(s.ask))
			})
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
