package models

// ConfidenceLevel represents the confidence tier of a reply
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Source represents a knowledge entry cited by a reply
type Source struct {
	Category string  `json:"category"`
	Question string  `json:"question"`
	Score    float64 `json:"score"`
}

// StructuredReply is the wire-level chat response. Output-only, never stored.
type StructuredReply struct {
	Reply           string          `json:"reply"`
	Confidence      float64         `json:"confidence"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	Category        string          `json:"category,omitempty"`
	Sources         []Source        `json:"sources"`
	SuggestedTopics []string        `json:"suggested_topics"`
}

// HealthSnapshot summarizes the loaded knowledge base and active index backend.
type HealthSnapshot struct {
	EntryCount    int      `json:"entry_count"`
	Categories    []string `json:"categories"`
	ActiveBackend string   `json:"active_backend"`
}
