// Package api provides the HTTP server for the swatches widget: the page,
// the color and palette API, and the palette event stream.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/swatches/internal/logger"
	"github.com/listenupapp/swatches/internal/ratelimit"
	"github.com/listenupapp/swatches/internal/service"
	"github.com/listenupapp/swatches/internal/session"
	"github.com/listenupapp/swatches/internal/sse"
	"github.com/listenupapp/swatches/internal/validation"
	"github.com/listenupapp/swatches/internal/web"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// StateStore is the part of the session store the server checks for health.
type StateStore interface {
	Ping(ctx context.Context) error
	SessionCount(ctx context.Context) (int, error)
}

// Options holds server settings that do not come from dependencies.
type Options struct {
	Name           string
	CookieSecure   bool
	AllowedOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       StateStore
	palette     *service.PaletteService
	tokens      *session.TokenService
	sseManager  *sse.Manager
	sseHandler  *sse.Handler
	site        *web.Site
	rateLimiter *ratelimit.KeyedRateLimiter
	validator   *validation.Validator
	opts        Options

	router *chi.Mux
	api    huma.API
	logger *logger.Logger
}

// Deps groups the collaborators NewServer wires together.
type Deps struct {
	Store       StateStore
	Palette     *service.PaletteService
	Tokens      *session.TokenService
	SSEManager  *sse.Manager
	Site        *web.Site
	RateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(deps Deps, opts Options, log *logger.Logger) *Server {
	s := &Server{
		store:       deps.Store,
		palette:     deps.Palette,
		tokens:      deps.Tokens,
		sseManager:  deps.SSEManager,
		site:        deps.Site,
		rateLimiter: deps.RateLimiter,
		validator:   validation.New(),
		opts:        opts,
		router:      chi.NewRouter(),
		logger:      log.WithComponent("api"),
	}
	if s.sseManager != nil {
		s.sseHandler = sse.NewHandler(s.sseManager, log)
	}

	s.setupMiddleware()
	s.setupAPI()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures the middleware stack. It must run before any
// route is registered.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
		NoColor: true,
	}))
	s.router.Use(middleware.Recoverer)

	if len(s.opts.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	s.router.Use(s.sessionMiddleware)
	if s.rateLimiter != nil {
		s.router.Use(RateLimitMiddleware(s.rateLimiter, isRateLimited, s.logger))
	}
}

// setupAPI mounts huma on the router.
func (s *Server) setupAPI() {
	humaConfig := huma.DefaultConfig(s.opts.Name+" API", Version)
	humaConfig.Info.Description = "Normalize hex color codes and manage a per-session palette of swatches."
	// The envelope replaces huma's $schema links.
	humaConfig.CreateHooks = nil
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerColorRoutes()
	s.registerPaletteRoutes()
	s.registerImageRoutes()

	if s.sseHandler != nil {
		s.router.Get("/api/v1/palette/stream", s.sseHandler.ServeHTTP)
	}
	if s.site != nil {
		s.router.Get("/", s.handlePage)
		s.router.Handle("/static/*", http.StripPrefix("/static", s.site.Static()))
	}
}

// Paths under these prefixes are bound to a browser session.
var sessionPaths = []string{"/api/v1/palette"}

func needsSession(path string) bool {
	if path == "/" {
		return true
	}
	for _, p := range sessionPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// isRateLimited selects mutating palette requests.
func isRateLimited(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return needsSession(r.URL.Path) && r.URL.Path != "/"
}
