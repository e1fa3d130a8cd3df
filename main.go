package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contratos-rag/backend/config"
	"github.com/contratos-rag/backend/handler"
	"github.com/contratos-rag/backend/middleware"
	"github.com/contratos-rag/backend/model"
	"github.com/contratos-rag/backend/pkg/logger"
	"github.com/contratos-rag/backend/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the vector store
	storeCtx, storeCancel := context.WithTimeout(ctx, time.Duration(cfg.Chroma.TimeoutSeconds)*time.Second)
	store, err := service.NewChromaStore(storeCtx, &cfg.Chroma)
	storeCancel()
	if err != nil {
		slog.Error("failed to initialize chroma store", "error", err)
		os.Exit(1)
	}

	// Embedding and chat clients
	embedder, err := service.NewOpenAIEmbedder(&cfg.OpenAI, cfg.Chroma.Dimension)
	if err != nil {
		slog.Error("failed to initialize embedder", "error", err)
		os.Exit(1)
	}
	chat := service.NewOpenAIChat(&cfg.OpenAI)

	// Optional MinIO archive for ingested source files
	var archiver service.Archiver
	if cfg.Minio.Enabled {
		minioSvc, err := service.NewMinioArchiver(&cfg.Minio)
		if err != nil {
			slog.Error("failed to initialize MINIO archiver", "error", err)
			os.Exit(1)
		}
		if err := minioSvc.EnsureBucket(ctx); err != nil {
			slog.Error("failed to ensure MINIO bucket", "error", err)
			os.Exit(1)
		}
		archiver = minioSvc
	}

	// Ingestion pipeline and job tracking
	if err := os.MkdirAll(cfg.Ingest.IntakeDir, 0o755); err != nil {
		slog.Error("failed to create intake dir", "error", err)
		os.Exit(1)
	}
	ingest := service.NewIngestService(
		service.NewPDFExtractor(),
		service.NewChunker(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap),
		embedder,
		store,
		service.NewIngestJobStore(cfg.Ingest.MaxJobs),
		archiver,
		time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second,
	)

	// Query side
	retrieval := service.NewRetrievalService(embedder, store, cfg.Search.DefaultResults, cfg.Search.MaxResults)
	composer := service.NewAnswerComposer(retrieval, chat)

	// Watch the intake folder for PDFs dropped outside the upload endpoint
	watcher := service.NewIntakeWatcher(
		cfg.Ingest.IntakeDir,
		time.Duration(cfg.Ingest.DebounceMs)*time.Millisecond,
		ingest,
		store,
	)
	go func() {
		if err := watcher.Sync(ctx); err != nil {
			slog.Error("intake sync failed", "error", err)
		}
		if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
			slog.Error("intake watcher stopped", "error", err)
		}
	}()

	// Setup the two HTTP services
	gin.SetMode(gin.ReleaseMode)

	searchHandler := handler.NewSearchHandler(retrieval, composer, store)
	searchRouter := newRouter()
	searchRouter.GET("/", searchHandler.Health)
	searchRouter.GET("/contratos/lista", searchHandler.List)
	searchRouter.GET("/contratos/busca", searchHandler.Search)
	searchRouter.GET("/contratos/arquivos", searchHandler.Files)
	searchRouter.POST("/llm/ask", searchHandler.Ask)
	searchRouter.DELETE("/contratos/:file", searchHandler.Delete)

	uploadHandler := handler.NewUploadHandler(ingest, cfg.Ingest.IntakeDir)
	uploadRouter := newRouter()
	uploadRouter.POST("/upload/contrato", uploadHandler.Upload)
	uploadRouter.GET("/contratos/lista", uploadHandler.ListIntake)
	uploadRouter.GET("/upload/status/:id", uploadHandler.JobStatus)

	searchSrv := newServer(cfg.Server.SearchPort, searchRouter)
	uploadSrv := newServer(cfg.Server.UploadPort, uploadRouter)

	go serve("search", searchSrv)
	go serve("upload", uploadSrv)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down servers...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := searchSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("search server forced to shutdown", "error", err)
	}
	if err := uploadSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("upload server forced to shutdown", "error", err)
	}

	slog.Info("servers exited gracefully")
}

// newRouter builds a gin engine with the shared middleware chain
func newRouter() *gin.Engine {
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	router.Use(middleware.RequestID())     // Request ID for tracing
	router.Use(middleware.Recovery())      // Panic recovery
	router.Use(middleware.RequestLogger()) // Access logging

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "route not found"})
	})

	return router
}

func newServer(port int, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func serve(name string, srv *http.Server) {
	slog.Info("server starting", "service", name, "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("failed to start server", "service", name, "error", err)
		os.Exit(1)
	}
}
