package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cantuslab/cantus/internal/analysis"
	"github.com/cantuslab/cantus/internal/capability"
	"github.com/cantuslab/cantus/internal/config"
	"github.com/cantuslab/cantus/internal/corpus"
	"github.com/cantuslab/cantus/internal/ext"
	cantushttp "github.com/cantuslab/cantus/internal/http"
	"github.com/cantuslab/cantus/internal/logging"
	"github.com/cantuslab/cantus/internal/middleware"
	"github.com/cantuslab/cantus/internal/monitoring"
	"github.com/cantuslab/cantus/internal/plot"
	"github.com/cantuslab/cantus/internal/session"
	"github.com/cantuslab/cantus/internal/ws"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router       *gin.Engine
	sessions     *session.Manager
	registry     *capability.Registry
	loader       *ext.Loader
	metrics      *monitoring.Metrics
	logger       *logging.Logger
	httpSrv      *http.Server
	autosaveName string
}

// sessionSource adapts the session manager to the plotter's narrow view
// of sessions.
type sessionSource struct {
	manager *session.Manager
}

func (s sessionSource) Lookup(id string) (plot.Session, bool) {
	sess, ok := s.manager.Get(id)
	if !ok {
		return nil, false
	}
	return sess, true
}

// New assembles the full host: session manager, capability registry with
// the plot, analysis, and corpus providers, the extension loader, and the
// HTTP/WebSocket surface.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	metrics := monitoring.NewMetrics()
	sessions := session.NewManager(cfg.Session.Dir, logger)
	registry := capability.NewRegistry()

	plotProvider := plot.NewProvider(sessionSource{manager: sessions}, cfg.Plot.Format, cfg.Plot.BaseDPI)
	plotProvider.OnRender(func(format string) {
		metrics.RendersTotal.WithLabelValues(format).Inc()
	})
	library := corpus.NewLibrary(cfg.Corpus.Root)
	for _, provider := range []capability.Provider{
		plotProvider,
		analysis.NewProvider(),
		corpus.NewProvider(library),
	} {
		if err := registry.Register(provider); err != nil {
			return nil, err
		}
		logger.Info("registered capability", zap.String("id", provider.Definition().ID))
	}

	loader := ext.NewLoader(registry, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := cantushttp.NewHandlers(sessions, registry, loader, metrics)
	wsHandler := ws.NewHandler(sessions, metrics, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.POST("/sessions", handlers.CreateSession)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id", handlers.GetSession)
	router.DELETE("/sessions/:id", handlers.CloseSession)
	router.POST("/sessions/:id/directives", handlers.RunDirective)
	router.POST("/sessions/:id/extensions", handlers.LoadExtensions)
	router.POST("/sessions/:id/save", handlers.SaveSession)
	router.POST("/sessions/:id/restore", handlers.RestoreSession)
	router.DELETE("/sessions/:id/snapshot", handlers.DeleteSnapshot)
	router.GET("/sessions/:id/stream", wsHandler.HandleConnection)

	router.GET("/capabilities", handlers.ListCapabilities)
	router.POST("/capabilities/discover", handlers.DiscoverCapabilities)
	router.POST("/capabilities/execute", handlers.ExecuteCapability)

	return &Server{
		router:       router,
		sessions:     sessions,
		registry:     registry,
		loader:       loader,
		metrics:      metrics,
		logger:       logger,
		autosaveName: cfg.Session.AutosaveName,
	}, nil
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run(addr string) error {
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown autosaves live sessions, drains in-flight requests, and
// closes the server.
func (s *Server) Shutdown(ctx context.Context) error {
	saved, err := s.sessions.Autosave(s.autosaveName)
	if err != nil {
		s.logger.Warn("autosave incomplete", zap.Int("saved", saved), zap.Error(err))
	} else if saved > 0 {
		s.logger.Info("sessions autosaved", zap.Int("saved", saved))
	}

	if s.httpSrv == nil {
		return nil
	}
	s.logger.Info("shutting down")
	return s.httpSrv.Shutdown(ctx)
}
