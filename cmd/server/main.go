package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/weichenhsu/tutorchat/internal/api"
	"github.com/weichenhsu/tutorchat/internal/chat"
	"github.com/weichenhsu/tutorchat/internal/config"
	"github.com/weichenhsu/tutorchat/internal/llm"
	"github.com/weichenhsu/tutorchat/internal/logging"
	"github.com/weichenhsu/tutorchat/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: failed to load: %v", err)
	}

	logger := logging.MustNewLogger(cfg.Logging)
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx := context.Background()

	// An unreachable store is not fatal: the chat path stays up and
	// history degrades to empty until Mongo comes back.
	var history chat.HistoryStore
	mongoStore, err := store.New(ctx, cfg.Mongo)
	if err != nil {
		sugar.Errorw("mongo connect failed; continuing without history persistence", "error", err)
	} else if err := mongoStore.Ping(ctx); err != nil {
		sugar.Errorw("mongo unreachable; continuing without history persistence", "error", err)
		if closeErr := mongoStore.Close(context.Background()); closeErr != nil {
			sugar.Warnw("mongo close failed", "error", closeErr)
		}
	} else {
		defer func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				sugar.Warnw("mongo close failed", "error", err)
			}
		}()

		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			sugar.Warnw("mongo index bootstrap failed", "error", err)
		}

		history = mongoStore
	}

	completer := llm.NewClient(cfg.OpenAI)
	orchestrator := chat.NewService(history, completer, cfg.SystemPrompt, sugar)

	router := setupRouter(api.NewHandler(orchestrator, sugar), sugar)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server crashed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}

	sugar.Infow("server stopped cleanly")
}

func setupRouter(handler *api.Handler, logger *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger), api.CORS())
	router.LoadHTMLGlob("web/templates/*")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	handler.RegisterRoutes(router)

	return router
}
