package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"citizen-services/internal/auth"
	"citizen-services/internal/config"
	"citizen-services/internal/database"
	"citizen-services/internal/handlers"
	"citizen-services/internal/metrics"
	"citizen-services/internal/notification"
	"citizen-services/internal/policy"
	"citizen-services/internal/repository"
	"citizen-services/internal/workflow"
)

// Server wires the citizen services application together.
type Server struct {
	config *config.Config
	logger *zap.Logger
	db     *database.Database

	// Repositories
	userRepo      *repository.UserRepository
	complaintRepo *repository.ComplaintRepository
	billRepo      *repository.BillRepository
	messageRepo   *repository.MessageRepository

	// Core components
	engine      *workflow.Engine
	authService *auth.Service
	tokens      *auth.TokenManager
	collector   *metrics.Collector

	// Handlers
	authHandler      *handlers.AuthHandler
	complaintHandler *handlers.ComplaintHandler
	billHandler      *handlers.BillHandler
	messageHandler   *handlers.MessageHandler
	healthHandler    *handlers.HealthHandler

	router     *gin.Engine
	httpServer *http.Server
}

// New creates a new server instance.
func New(cfg *config.Config, logger *zap.Logger, db *database.Database) *Server {
	return &Server{
		config: cfg,
		logger: logger.Named("server"),
		db:     db,
	}
}

// Initialize sets up repositories, the workflow engine, handlers and
// the HTTP router.
func (s *Server) Initialize() error {
	s.logger.Info("Initializing citizen services server")

	s.userRepo = repository.NewUserRepository(s.db, s.logger)
	s.complaintRepo = repository.NewComplaintRepository(s.db, s.logger)
	s.billRepo = repository.NewBillRepository(s.db, s.logger)
	s.messageRepo = repository.NewMessageRepository(s.db, s.logger)

	mailer, err := notification.NewMailer(&s.config.Email)
	if err != nil {
		return errors.Wrap(err, "failed to initialize mailer")
	}
	dispatcher := notification.NewDispatcher(mailer, &s.config.Email, s.logger)

	s.collector = metrics.NewCollector()
	s.engine = workflow.NewEngine(
		s.complaintRepo,
		s.billRepo,
		s.messageRepo,
		s.userRepo,
		dispatcher,
		policy.New(),
		s.collector,
		s.logger,
	)

	s.tokens = auth.NewTokenManager(&s.config.Auth)
	s.authService = auth.NewService(s.userRepo, s.tokens, s.logger)

	s.authHandler = handlers.NewAuthHandler(s.authService, s.logger)
	s.complaintHandler = handlers.NewComplaintHandler(s.engine, s.logger)
	s.billHandler = handlers.NewBillHandler(s.engine, s.logger)
	s.messageHandler = handlers.NewMessageHandler(s.engine, s.logger)
	s.healthHandler = handlers.NewHealthHandler(s.db, s.logger)

	if err := s.initHTTPServer(); err != nil {
		return errors.Wrap(err, "failed to initialize HTTP server")
	}

	s.logger.Info("Server initialized successfully")
	return nil
}

func (s *Server) initHTTPServer() error {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	if s.config.Debug {
		s.router.Use(gin.Logger())
	}
	s.router.Use(s.metricsMiddleware())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf(":%d", s.config.Server.HTTPPort),
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	s.logger.Info("HTTP server initialized", zap.Int("port", s.config.Server.HTTPPort))
	return nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler.Health)
	s.router.GET("/health/ready", s.healthHandler.Ready)
	s.router.GET("/health/live", s.healthHandler.Live)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", s.authHandler.Register)
		authRoutes.POST("/login", s.authHandler.Login)
	}

	authed := v1.Group("")
	authed.Use(auth.Middleware(s.tokens, s.userRepo))
	{
		complaints := authed.Group("/complaints")
		{
			complaints.POST("", s.complaintHandler.CreateComplaint)
			complaints.GET("", s.complaintHandler.ListComplaints)
			complaints.GET("/:id", s.complaintHandler.GetComplaint)
			complaints.PUT("/:id", s.complaintHandler.UpdateComplaint)
			complaints.PUT("/:id/status", s.complaintHandler.UpdateStatus)
			complaints.DELETE("/:id", s.complaintHandler.DeleteComplaint)
		}

		bills := authed.Group("/bills")
		{
			bills.POST("", s.billHandler.CreateBill)
			bills.GET("", s.billHandler.ListBills)
			bills.GET("/all", s.billHandler.ListAllBills)
			bills.GET("/:id", s.billHandler.GetBill)
			bills.PUT("/:id", s.billHandler.UpdateBill)
			bills.PUT("/:id/status", s.billHandler.UpdateStatus)
			bills.POST("/:id/clear", s.billHandler.MarkCleared)
			bills.DELETE("/:id", s.billHandler.DeleteBill)
		}

		messages := authed.Group("/messages")
		{
			messages.POST("", s.messageHandler.SendMessage)
			messages.GET("", s.messageHandler.ListInbox)
			messages.GET("/sent", s.messageHandler.ListSent)
			messages.GET("/:id", s.messageHandler.ReadMessage)
		}
	}
}

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.collector.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	s.logger.Info("Stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to shut down HTTP server")
	}

	s.logger.Info("Server stopped")
	return nil
}
