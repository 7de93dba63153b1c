package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rubberintel/internal/config"
	"github.com/rubberintel/pkg/models"
)

// ChatService is the core conversational surface the gateway exposes.
type ChatService interface {
	ProcessMessage(ctx context.Context, message, sessionID string) models.StructuredReply
	Welcome() models.StructuredReply
	Topics() map[string][]models.Topic
	Health() models.HealthSnapshot
}

// Gateway represents the HTTP API gateway
type Gateway struct {
	server      *http.Server
	router      *mux.Router
	chat        ChatService
	healthCheck http.HandlerFunc
	serviceName string
}

// NewGateway creates a new API gateway over the chat service.
func NewGateway(cfg config.ServerConfig, serviceName string, chat ChatService, healthCheck http.HandlerFunc) *Gateway {
	router := mux.NewRouter()

	g := &Gateway{
		router:      router,
		chat:        chat,
		healthCheck: healthCheck,
		serviceName: serviceName,
	}
	g.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	g.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      c.Handler(loggingMiddleware(router)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return g
}

// setupRoutes configures all API routes
func (g *Gateway) setupRoutes() {
	api := g.router.PathPrefix("/api").Subrouter()

	chat := api.PathPrefix("/chat").Subrouter()
	chat.HandleFunc("", g.handleChat).Methods("POST")
	chat.HandleFunc("/welcome", g.handleWelcome).Methods("GET")
	chat.HandleFunc("/topics", g.handleTopics).Methods("GET")
	chat.HandleFunc("/health", g.handleChatHealth).Methods("GET")

	if g.healthCheck != nil {
		api.HandleFunc("/health", g.healthCheck).Methods("GET")
	}
}

// Start starts the API gateway
func (g *Gateway) Start() error {
	log.Printf("Starting API gateway on %s", g.server.Addr)
	return g.server.ListenAndServe()
}

// Stop stops the API gateway
func (g *Gateway) Stop(ctx context.Context) error {
	log.Printf("Stopping API gateway")
	return g.server.Shutdown(ctx)
}

// Handler exposes the routed handler, used by tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// ErrorResponse is the wire format for request-level failures
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func parseRequestBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
