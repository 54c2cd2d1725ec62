package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/echoself/backend/internal/config"
	"github.com/echoself/backend/internal/directory"
	"github.com/echoself/backend/internal/handler"
	"github.com/echoself/backend/internal/service/ai"
	"github.com/echoself/backend/internal/service/chat"
	"github.com/echoself/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	kv := newStore(ctx, cfg.Store)
	profiles := directory.New(kv, nil)

	orchestrator := ai.NewOrchestrator(cfg.AI, profiles, ai.NewFallbackGenerator())
	chatSvc := chat.NewService(orchestrator, profiles)

	router := handler.NewRouter(profiles, chatSvc)

	startServer(ctx, cfg.Server, router)
}

// newStore picks Redis when configured and falls back to process memory,
// which keeps the service usable for local development without any backing
// infrastructure.
func newStore(ctx context.Context, cfg config.StoreConfig) store.KV {
	if cfg.RedisAddr == "" {
		log.Println("[store] REDIS_ADDR not set, using in-memory store")
		return store.NewMemory()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[store] redis unreachable at %s, using in-memory store: %v", cfg.RedisAddr, err)
		return store.NewMemory()
	}

	log.Printf("[store] using redis at %s", cfg.RedisAddr)
	return store.NewRedis(client, cfg.KeyPrefix)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("EchoSelf backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
