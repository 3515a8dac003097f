package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ncalabs/scribe/internal/config"
	"github.com/ncalabs/scribe/internal/content"
	"github.com/ncalabs/scribe/internal/service"
	"github.com/ncalabs/scribe/internal/service/generate"
)

type Server struct {
	Config *config.Config
	DB     *gorm.DB
	Router *gin.Engine
	Logger *zap.Logger
	Server *http.Server

	// Services
	Scheduler     *service.SchedulerService
	AutoPublisher *service.AutoPublisher
	Monitoring    *service.MonitoringService
	Prompts       *service.PromptService
	Articles      *content.Store
}

func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	// Set gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := service.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize services
	articles := content.NewStore(cfg.Content.BaseDir, cfg.Content.Root)
	prompts := service.NewPromptService(db, logger)
	textGen := generate.NewGeminiGenerator(&cfg.Generator, prompts, logger)
	imageGen := generate.NewImagenGenerator(&cfg.Generator, logger)
	scheduler := service.NewSchedulerService(service.NewGormPostStore(db), articles, textGen, imageGen, cfg.Content.Root, logger)
	monitoring := service.NewMonitoringService(db, logger)
	autoPublisher := service.NewAutoPublisher(&cfg.Publisher, logger, scheduler, monitoring)

	// Create router
	router := gin.New()

	// Create server
	srv := &Server{
		Config:        cfg,
		DB:            db,
		Router:        router,
		Logger:        logger,
		Scheduler:     scheduler,
		AutoPublisher: autoPublisher,
		Monitoring:    monitoring,
		Prompts:       prompts,
		Articles:      articles,
	}

	// Setup middleware and routes
	srv.setupMiddleware()
	srv.setupRoutes()

	return srv, nil
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.Router.Use(gin.Recovery())

	// Logger middleware
	s.Router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	// CORS middleware
	s.Router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
}

func (s *Server) setupRoutes() {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// API routes
	api := s.Router.Group("/api/v1")
	{
		// Scheduled posts
		scheduler := api.Group("/scheduler")
		{
			scheduler.GET("/posts", s.handleListPosts)
			scheduler.POST("/posts", s.handleCreatePost)
			scheduler.GET("/posts/:id", s.handleGetPost)
			scheduler.DELETE("/posts/:id", s.handleDeletePost)
			scheduler.POST("/posts/:id/generate", s.handleGeneratePost)
			scheduler.POST("/posts/:id/publish", s.handlePublishPost)
			scheduler.GET("/posts/:id/history", s.handlePostHistory)
			scheduler.POST("/publish-due", s.handlePublishDue)
		}

		// Published articles
		articles := api.Group("/articles")
		{
			articles.GET("", s.handleListArticles)
			articles.GET("/:slug", s.handleGetArticle)
			articles.PUT("/:slug", s.handleUpdateArticle)
			articles.DELETE("/:slug", s.handleDeleteArticle)
		}

		// Editable prompts
		prompts := api.Group("/prompts")
		{
			prompts.GET("", s.handleListPrompts)
			prompts.PUT("/:id", s.handleSavePrompt)
		}
	}
}

func (s *Server) Start(ctx context.Context) error {
	// Start auto-publisher
	if err := s.AutoPublisher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start auto-publisher: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)

	s.Server = &http.Server{
		Addr:    addr,
		Handler: s.Router,
	}

	s.Logger.Info("Starting HTTP server", zap.String("addr", addr))

	if s.Config.Server.CertFile != "" && s.Config.Server.KeyFile != "" {
		return s.Server.ListenAndServeTLS(s.Config.Server.CertFile, s.Config.Server.KeyFile)
	}

	return s.Server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop auto-publisher first
	s.AutoPublisher.Stop()

	if s.Server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.Server.Shutdown(shutdownCtx)
}
