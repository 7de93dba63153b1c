package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ChatRequest is the wire format of a chat message
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Message is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	log.Printf("[%s] User: %s", shortID(sessionID), clip(message, 80))

	reply := g.chat.ProcessMessage(r.Context(), message, sessionID)

	log.Printf("[%s] Bot: confidence=%.3f level=%s category=%s",
		shortID(sessionID), reply.Confidence, reply.ConfidenceLevel, reply.Category)

	writeJSON(w, http.StatusOK, reply)
}

func (g *Gateway) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, g.chat.Welcome())
}

func (g *Gateway) handleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, g.chat.Topics())
}

func (g *Gateway) handleChatHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := g.chat.Health()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"service":           g.serviceName,
		"knowledge_entries": snapshot.EntryCount,
		"categories":        snapshot.Categories,
		"embedding_backend": snapshot.ActiveBackend,
	})
}

func shortID(sessionID string) string {
	if len(sessionID) > 8 {
		return sessionID[:8]
	}
	return sessionID
}

func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
