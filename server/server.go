// Package server hosts a graph view over HTTP. The host pushes payloads,
// rendering surfaces send pointer events over a WebSocket (or plain POSTs)
// and receive style patches, and every selection is broadcast.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/physics"
	"github.com/TFMV/cigraph/view"
)

// Config holds server configuration.
type Config struct {
	Port           int
	AllowAll       bool     // allow all CORS origins (dev mode)
	AllowedOrigins []string // used when AllowAll is false
	Background     string   // canvas background for rendered pages
	Title          string
}

// Server serves one mounted view.
type Server struct {
	cfg        Config
	view       *view.View
	hub        *hub
	log        *slog.Logger
	onSelect   view.SelectFunc
	router     chi.Router
	httpServer *http.Server

	mu      sync.Mutex
	payload *models.GraphPayload // last payload handed to the view
}

// New mounts a view with opts and builds the router. Selections are
// broadcast to every WebSocket session and then passed to opts.OnSelect.
func New(cfg Config, opts view.Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		hub:      newHub(logger),
		log:      logger,
		onSelect: opts.OnSelect,
	}
	opts.Logger = logger
	opts.OnSelect = s.handleSelect
	s.view = view.New(opts)
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(s.cfg.AllowedOrigins) > 0 {
		corsOpts.AllowedOrigins = s.cfg.AllowedOrigins
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "view": s.view.ID(), "sessions": s.hub.count()})
	})

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Route("/api/graph", func(r chi.Router) {
			r.Get("/", s.handleGetGraph)
			r.Put("/", s.handlePutGraph)
			r.Post("/upload", s.handleUpload)
			r.Get("/overlay", s.handleOverlay)
			r.Get("/partners", s.handlePartners)
			r.Get("/exposure", s.handleExposure)
			r.Post("/events", s.handleEvent)
		})
		r.Get("/render/{format}", s.handleRender)
	})

	return r
}

// Router returns the chi router, for tests and for mounting extra routes.
func (s *Server) Router() chi.Router { return s.router }

// View returns the mounted view.
func (s *Server) View() *view.View { return s.view }

// SetPayload replaces the displayed graph and tells every connected surface
// to reload.
func (s *Server) SetPayload(payload *models.GraphPayload) physics.Stats {
	s.mu.Lock()
	s.payload = payload
	s.mu.Unlock()

	stats := s.view.SetPayload(payload)
	snap := s.view.Snapshot()
	s.hub.broadcast(resetMessage{Type: msgReset, Revision: snap.Revision})
	return stats
}

// Payload returns the payload currently displayed, or an empty one.
func (s *Server) Payload() *models.GraphPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payload == nil {
		return &models.GraphPayload{}
	}
	return s.payload
}

func (s *Server) handleSelect(node models.NodeData) {
	s.hub.broadcast(selectMessage{Type: msgSelect, Node: node})
	if s.onSelect != nil {
		s.onSelect(node)
	}
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	s.log.Info("cigraph server listening", "addr", s.httpServer.Addr, "view", s.view.ID())
	return s.httpServer.ListenAndServe()
}

// Shutdown closes all WebSocket sessions and gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
