package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/analysis"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/config"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/handler"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/mirror"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/results"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/service"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/storage"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.LoadHTMLGlob("web/templates/*")

	store := storage.NewLocalStore(cfg.App.UploadDir, log)
	analyzer := analysis.NewGeminiAnalyzer(cfg.Gemini.APIKey, cfg.Gemini.Model, log)

	cloudMirror, err := mirror.NewS3Mirror(&cfg.Mirror, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud mirror: %w", err)
	}

	writer := results.NewWriter(cfg.App.OutputDir, log)
	index := results.NewIndex(cfg.App.OutputDir, log)

	imageService := service.NewImageService(store, analyzer, cloudMirror, writer, index, cfg, log)

	h := handler.NewHandler(imageService, cfg, log)

	router.GET("/", h.GetUI)
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/analyze", h.AnalyzeImage)
		api.POST("/analyze/batch", h.AnalyzeBatch)
		api.POST("/search", h.SearchImages)
		api.GET("/history", h.GetHistory)
		api.GET("/records/:filename", h.DownloadRecord)
		api.GET("/cloud/images", h.ListCloudImages)
		api.GET("/cloud/images/:id", h.CloudImageInfo)
		api.DELETE("/cloud/images/:id", h.DeleteCloudImage)
	}

	router.Static("/static", "./web/static")
	router.Static("/uploads", cfg.App.UploadDir)

	server := &Server{
		httpServer: &http.Server{
			Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
			Handler: router,
			// Analysis calls block for seconds per image, and a batch is the
			// sum of its images; keep the write timeout generous.
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   10 * time.Minute,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Bool("mirror_enabled", cfg.Mirror.Enabled()),
		zap.Bool("gemini_configured", cfg.Gemini.APIKey != ""))

	return server, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
