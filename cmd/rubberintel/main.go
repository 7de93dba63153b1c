package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rubberintel/internal/api"
	"github.com/rubberintel/internal/chat"
	"github.com/rubberintel/internal/config"
	"github.com/rubberintel/internal/encoder"
	"github.com/rubberintel/internal/health"
	"github.com/rubberintel/internal/index"
	"github.com/rubberintel/internal/knowledge"
	"github.com/rubberintel/internal/retriever"
	"github.com/rubberintel/internal/session"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "config/config.yaml", "Configuration file path")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rubberintel version %s (commit: %s)\n", version, commit)
		return
	}

	// Optional .env for local development; OPENAI_API_KEY etc.
	godotenv.Load()

	log.Printf("Starting RubberIntelligence v%s", version)

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// A broken or missing corpus is fatal: the service never starts partial.
	store, err := knowledge.Load(cfg.Knowledge.Path)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}
	log.Printf("Loaded %d knowledge entries across %d categories", store.Len(), len(store.Categories()))

	// Build the search index once. An unavailable encoder degrades to the
	// TF-IDF backend inside index.Build, never fails startup.
	var enc index.Encoder
	if cfg.Embedding.Enabled {
		if apiKey := cfg.Embedding.APIKey(); apiKey != "" {
			enc = encoder.NewOpenAIEncoder(apiKey, cfg.Embedding.BaseURL, cfg.Embedding.Model)
		} else {
			log.Printf("Embedding enabled but %s is not set", cfg.Embedding.APIKeyEnv)
		}
	}

	buildCtx, buildCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	idx := index.Build(buildCtx, store.SearchDocuments(), enc)
	buildCancel()
	log.Printf("Search index ready (backend=%s, documents=%d)", idx.Backend(), idx.Len())

	sessions := session.NewStore()
	chatService := chat.NewService(store, retriever.New(store, idx), sessions)

	checker := health.NewHealthChecker()
	checker.Register(&health.KnowledgeCheck{Store: store})
	checker.Register(&health.IndexCheck{Store: store, Index: idx})

	gateway := api.NewGateway(cfg.Server, cfg.Chat.ServiceName, chatService, checker.HTTPHandler())

	go func() {
		if err := gateway.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Gateway failed: %v", err)
		}
	}()

	waitForShutdown(gateway)
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Config file %s not found, using defaults", path)
		return config.Default(), nil
	}
	return config.Load(path)
}

func waitForShutdown(gateway *api.Gateway) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, stopping services...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := gateway.Stop(shutdownCtx); err != nil {
		log.Printf("Error during gateway shutdown: %v", err)
	}

	log.Println("RubberIntelligence stopped")
}
