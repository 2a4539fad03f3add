package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthsearch/config"
	"healthsearch/controller"
	"healthsearch/embedding"
	"healthsearch/logger"
	"healthsearch/middleware"
	"healthsearch/services"
	"healthsearch/store"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Debug)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pick the embedding strategy once; everything downstream only sees the
	// Embedder interface.
	embedder, err := embedding.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize embedder", zap.Error(err))
	}
	log.Info("embedder ready",
		zap.String("model", embedder.ModelName()),
		zap.Int("dimension", embedder.Dimension()),
	)

	vectorStore, err := store.New(cfg, embedder.Dimension(), log)
	if err != nil {
		log.Fatal("failed to initialize vector store", zap.Error(err))
	}
	defer vectorStore.Close()

	noteService := services.NewNoteService(embedder, vectorStore, log)
	notesController := controller.NewNotesController(noteService, log)

	// Optional bulk importer: scan once, then keep watching for new files.
	if cfg.ImportDir != "" {
		importer := services.NewNoteImporterService(noteService, cfg.ImportChunkSize, cfg.ImportChunkOverlap, log)
		go func() {
			if err := importer.ScanDirectory(ctx, cfg.ImportDir); err != nil {
				log.Error("initial import scan failed", zap.Error(err))
			}
			importer.WatchDirectory(ctx, cfg.ImportDir)
		}()
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// CORS for browser clients.
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", notesController.Health)

	authed := router.Group("/", middleware.RequireToken(cfg.AuthToken))
	{
		authed.POST("/add_note", notesController.AddNote)
		authed.GET("/search_notes", notesController.SearchNotes)
		authed.GET("/notes", notesController.ListNotes)
	}

	log.Info("server starting", zap.String("addr", ":"+cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
