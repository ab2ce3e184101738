package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assessflow/internal/cache"
	"assessflow/internal/config"
	"assessflow/internal/graph"
	"assessflow/internal/repository"
	"assessflow/internal/service"
	"assessflow/internal/transport/rest"
	"assessflow/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	tuning := config.DefaultTuning()

	// Question graph: built-in flow unless a YAML definition is configured.
	// Graph errors are configuration errors; refuse to start on them.
	var store *graph.Store
	if cfg.GraphPath != "" {
		var err error
		store, err = graph.LoadFile(cfg.GraphPath)
		if err != nil {
			log.Fatal("Failed to load question graph:", err)
		}
		log.Printf("Loaded question graph from %s (%d nodes)", cfg.GraphPath, store.Len())
	} else {
		store = graph.Default()
		log.Printf("Using built-in question graph (%d nodes)", store.Len())
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(mongoClient, cfg.MongoDB)
	responseRepo := repository.NewResponseRepository(mongoClient, cfg.MongoDB)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	snapshotCache := cache.NewSnapshotCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	conversationSvc := service.NewConversationService(
		store,
		tuning,
		sessionRepo,
		responseRepo,
		sessionCache,
		snapshotCache,
		authSvc,
	)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	conversationSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:         authSvc,
		ConversationService: conversationSvc,
		WSHub:               wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/sessions")
		log.Println("  GET  /v1/sessions/{id}")
		log.Println("  POST /v1/sessions/{id}/responses")
		log.Println("  GET  /v1/sessions/{id}/next")
		log.Println("  POST /v1/sessions/{id}/questions/generate")
		log.Println("  GET  /v1/sessions/{id}/analytics")
		log.Println("  WS   /v1/ws/sessions/{id}")
		log.Println("  WS   /v1/ws/observe")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
