// Package http serves the intake API consumed by the browser client: auth,
// case lifecycle, extraction uploads, installment edits, calculation and
// document generation.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/auth"
	"github.com/leonardomol/pjmol-intake/internal/gateway"
	"github.com/leonardomol/pjmol-intake/internal/storage"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StaticDir    string
}

// DefaultServerConfig returns default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		StaticDir:    "static",
	}
}

// Server is the HTTP adapter over the intake services.
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	auth       *auth.Service
	manager    *Manager
	gateway    *gateway.Client
	archive    *storage.Archive
	logger     *zap.Logger
}

// NewServer creates a new HTTP server.
func NewServer(config ServerConfig, authService *auth.Service, manager *Manager, gw *gateway.Client, archive *storage.Archive, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &Server{
		config:  config,
		router:  router,
		auth:    authService,
		manager: manager,
		gateway: gw,
		archive: archive,
		logger:  logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.auth, s.manager, s.gateway, s.archive, s.logger)

	s.router.GET("/health", handlers.HealthCheck)
	if s.config.StaticDir != "" {
		s.router.Static("/static", s.config.StaticDir)
	}

	api := s.router.Group("/api")
	{
		api.POST("/login", handlers.Login)

		authed := api.Group("")
		authed.Use(handlers.RequireSession())
		{
			authed.POST("/logout", handlers.Logout)
			authed.GET("/session", handlers.Session)

			authed.GET("/advogados", handlers.ListAdvogados)
			authed.GET("/advogados/:id", handlers.GetAdvogado)

			authed.POST("/casos", handlers.CreateCaso)
			authed.GET("/casos", handlers.ListCasos)
			authed.GET("/casos/:id", handlers.GetCaso)
			authed.DELETE("/casos/:id", handlers.DeleteCaso)

			authed.POST("/casos/:id/extrato", handlers.UploadExtrato)
			authed.POST("/casos/:id/contrato", handlers.UploadContrato)

			authed.PUT("/casos/:id/dados-basicos", handlers.UpdateBasicos)
			authed.PUT("/casos/:id/dados-manuais", handlers.UpdateManuais)

			authed.POST("/casos/:id/parcelas", handlers.AddParcela)
			authed.PUT("/casos/:id/parcelas/:idx", handlers.UpdateParcela)
			authed.DELETE("/casos/:id/parcelas/:idx", handlers.DeleteParcela)

			authed.POST("/casos/:id/custas", handlers.AddCusta)
			authed.DELETE("/casos/:id/custas/:idx", handlers.DeleteCusta)

			authed.POST("/casos/:id/calcular", handlers.Calcular)
			authed.GET("/casos/:id/resumo", handlers.GetResumo)

			authed.POST("/casos/:id/documentos", handlers.GerarDocumentos)
			authed.POST("/casos/:id/documentos/fechar", handlers.FecharModal)
			authed.POST("/casos/:id/documentos/submeter", handlers.SubmeterDocumentos)

			authed.POST("/casos/:id/exportar", handlers.Exportar)
			authed.POST("/casos/:id/editar", handlers.Editar)
			authed.POST("/casos/:id/salvar", handlers.Salvar)
			authed.POST("/casos/:id/nova-consulta", handlers.NovaConsulta)
		}
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing).
func (s *Server) Router() *gin.Engine {
	return s.router
}
