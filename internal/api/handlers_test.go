package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rubberintel/internal/config"
	"github.com/rubberintel/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChat records the last processed message.
type stubChat struct {
	lastMessage   string
	lastSessionID string
}

func (s *stubChat) ProcessMessage(ctx context.Context, message, sessionID string) models.StructuredReply {
	s.lastMessage = message
	s.lastSessionID = sessionID
	return models.StructuredReply{
		Reply:           "answer",
		Confidence:      0.8,
		ConfidenceLevel: models.ConfidenceHigh,
		Category:        "🦠 Diseases",
		Sources:         []models.Source{},
		SuggestedTopics: []string{},
	}
}

func (s *stubChat) Welcome() models.StructuredReply {
	return models.StructuredReply{Reply: "welcome", Confidence: 1.0, ConfidenceLevel: models.ConfidenceHigh, Category: "Welcome"}
}

func (s *stubChat) Topics() map[string][]models.Topic {
	return map[string][]models.Topic{
		"Diseases": {{ID: "d1", Question: "Q?"}},
	}
}

func (s *stubChat) Health() models.HealthSnapshot {
	return models.HealthSnapshot{
		EntryCount:    14,
		Categories:    []string{"Climate", "Diseases"},
		ActiveBackend: "tfidf",
	}
}

func newTestGateway(chat ChatService) *Gateway {
	cfg := config.Default().Server
	return NewGateway(cfg, "RubberIntelligence Chatbot", chat, nil)
}

func TestHandleChat(t *testing.T) {
	chat := &stubChat{}
	g := newTestGateway(chat)

	body := `{"message": "  What is DRC?  ", "sessionId": "sess-42"}`
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(body))
	w := httptest.NewRecorder()
	g.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "What is DRC?", chat.lastMessage, "message must be trimmed before processing")
	assert.Equal(t, "sess-42", chat.lastSessionID)

	var reply models.StructuredReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "answer", reply.Reply)
	assert.Equal(t, models.ConfidenceHigh, reply.ConfidenceLevel)
}

func TestHandleChatGeneratesSessionID(t *testing.T) {
	chat := &stubChat{}
	g := newTestGateway(chat)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message": "hello"}`))
	w := httptest.NewRecorder()
	g.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, chat.lastSessionID)
}

func TestHandleChatRejectsBlankMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing message", `{}`},
		{"blank message", `{"message": "   "}`},
		{"invalid json", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(&stubChat{})

			req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			g.Handler().ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "INVALID_REQUEST", resp.Error)
		})
	}
}

func TestHandleWelcome(t *testing.T) {
	g := newTestGateway(&stubChat{})

	req := httptest.NewRequest("GET", "/api/chat/welcome", nil)
	w := httptest.NewRecorder()
	g.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var reply models.StructuredReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "welcome", reply.Reply)
	assert.Equal(t, "Welcome", reply.Category)
}

func TestHandleTopics(t *testing.T) {
	g := newTestGateway(&stubChat{})

	req := httptest.NewRequest("GET", "/api/chat/topics", nil)
	w := httptest.NewRecorder()
	g.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var topics map[string][]models.Topic
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &topics))
	require.Len(t, topics["Diseases"], 1)
	assert.Equal(t, "d1", topics["Diseases"][0].ID)
}

func TestHandleChatHealth(t *testing.T) {
	g := newTestGateway(&stubChat{})

	req := httptest.NewRequest("GET", "/api/chat/health", nil)
	w := httptest.NewRecorder()
	g.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "RubberIntelligence Chatbot", resp["service"])
	assert.Equal(t, float64(14), resp["knowledge_entries"])
	assert.Equal(t, "tfidf", resp["embedding_backend"])
}

func TestChatRouteRejectsGet(t *testing.T) {
	g := newTestGateway(&stubChat{})

	req := httptest.NewRequest("GET", "/api/chat", nil)
	w := httptest.NewRecorder()
	g.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
