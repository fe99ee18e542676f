package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"blogswamp/internal/config"
	"blogswamp/internal/database"
	"blogswamp/internal/engine"
	"blogswamp/internal/handlers"
	"blogswamp/internal/middleware"
	"blogswamp/internal/storage"
	"blogswamp/internal/utils"
	"blogswamp/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	middleware.Configure(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)

	metrics := utils.NewMetricsCollector()

	mongodb, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongodb.Close(context.Background())
	log.Printf("Connected to MongoDB database %q", cfg.Database.Name)

	hub := websocket.NewHub()
	go hub.Run()

	system := actor.NewActorSystem()
	images := storage.NewImageStore(mongodb.Images)
	blogEngine := engine.NewEngine(system, mongodb, metrics, hub, images)

	server := handlers.NewServer(system, blogEngine, metrics, mongodb, images, hub)
	if cfg.Server.RequestTimeout > 0 {
		server.RequestTimeout = cfg.Server.RequestTimeout
	}

	mux := http.NewServeMux()
	server.RegisterRoutes(mux, middleware.DefaultCORSConfig(cfg.AllowedOrigins), cfg.Server.MetricsEnabled)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
