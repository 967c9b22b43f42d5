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

	"github.com/contacthub/backend/internal/chatbot"
	"github.com/contacthub/backend/internal/config"
	"github.com/contacthub/backend/internal/handler"
	"github.com/contacthub/backend/internal/logging"
	"github.com/contacthub/backend/internal/repository"
	"github.com/contacthub/backend/internal/service"
	"github.com/contacthub/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	var blobs storage.Storage
	if cfg.AzureBlobConnectionString != "" {
		blobs, err = storage.NewAzureStorage(ctx, cfg.AzureBlobConnectionString, cfg.AzureBlobContainer)
		if err != nil {
			logging.Fatal("failed to connect to blob storage", "error", err)
		}
		slog.Info("using azure blob storage", "container", cfg.AzureBlobContainer)
	} else {
		blobs = storage.NewLocalStorage(cfg.UploadsDir)
		slog.Warn("AZURE_BLOB_CONNECTION_STRING not set, using local storage", "dir", cfg.UploadsDir)
	}

	contactRepo := repository.NewPgContactRepository(pool)
	contactService := service.NewContactService(contactRepo, blobs)
	chatClient := chatbot.NewClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.ChatbotDebug)

	h := handler.New(pool, cfg.FrontendURL)
	contactHandler := handler.NewContactHandler(contactService)
	photoHandler := handler.NewPhotoHandler(contactService)
	chatHandler := handler.NewChatHandler(chatClient)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("GET /api/contacts", contactHandler.List)
	mux.HandleFunc("POST /api/contacts", contactHandler.Create)
	mux.HandleFunc("GET /api/contacts/{id}", contactHandler.Get)
	mux.HandleFunc("PUT /api/contacts/{id}", contactHandler.Update)
	mux.HandleFunc("DELETE /api/contacts/{id}", contactHandler.Delete)

	mux.HandleFunc("POST /api/contacts/{id}/photo", photoHandler.Attach)
	mux.HandleFunc("DELETE /api/contacts/{id}/photo", photoHandler.Detach)
	mux.HandleFunc("GET /api/contacts/{id}/photo", photoHandler.Read)

	mux.HandleFunc("POST /api/chat", chatHandler.Chat)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h.CORS(handler.RequestLogger(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
