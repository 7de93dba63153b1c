package chat

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/rubberintel/internal/knowledge"
	"github.com/rubberintel/pkg/models"
)

// Confidence thresholds. Both index backends are scored against the same
// constants even though dense cosine and TF-IDF cosine are not strictly
// commensurate; this calibration gap is accepted (see DESIGN.md).
const (
	HighConfidence   = 0.65
	MediumConfidence = 0.30
)

// topK is the number of candidates retrieved per message.
const topK = 3

// digestLimit caps answer excerpts in partial-match replies.
const digestLimit = 200

// Searcher retrieves ranked knowledge entries for a query.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]models.ScoredResult, error)
	Backend() string
}

// Sessions records the last matched category per session.
type Sessions interface {
	Set(sessionID, category string)
}

// Service routes each message into one of three reply strategies based on
// the top retrieval score: a direct answer, a partial-match digest, or an
// out-of-domain fallback. It never returns an error past its boundary;
// internal failures resolve to a degraded but valid reply.
type Service struct {
	store    *knowledge.Store
	searcher Searcher
	sessions Sessions
}

// NewService creates the chat service over a loaded store and retriever.
func NewService(store *knowledge.Store, searcher Searcher, sessions Sessions) *Service {
	return &Service{store: store, searcher: searcher, sessions: sessions}
}

// ProcessMessage answers a user message with a structured reply.
func (s *Service) ProcessMessage(ctx context.Context, message, sessionID string) models.StructuredReply {
	results, err := s.searcher.Search(ctx, message, topK)
	if err != nil {
		log.Printf("Knowledge search failed: %v", err)
		return s.fallbackReply()
	}
	if len(results) == 0 {
		return s.fallbackReply()
	}

	top := results[0]
	switch {
	case top.Score >= HighConfidence:
		s.trackSession(sessionID, top.Entry.Category)
		return s.highConfidenceReply(results, top)
	case top.Score >= MediumConfidence:
		s.trackSession(sessionID, top.Entry.Category)
		return s.mediumConfidenceReply(results, top)
	default:
		// Out-of-domain replies intentionally leave the session context
		// at its previous category.
		return s.lowConfidenceReply()
	}
}

// highConfidenceReply returns the top entry's answer verbatim, with related
// topics drawn from the same category.
func (s *Service) highConfidenceReply(results []models.ScoredResult, top models.ScoredResult) models.StructuredReply {
	return models.StructuredReply{
		Reply:           top.Entry.Answer,
		Confidence:      round3(top.Score),
		ConfidenceLevel: models.ConfidenceHigh,
		Category:        fmt.Sprintf("%s %s", icon(top.Entry.Category), top.Entry.Category),
		Sources:         buildSources(results),
		SuggestedTopics: s.relatedTopics(top.Entry),
	}
}

// mediumConfidenceReply composes a digest of every result above the medium
// threshold, each answer truncated to digestLimit characters.
func (s *Service) mediumConfidenceReply(results []models.ScoredResult, top models.ScoredResult) models.StructuredReply {
	parts := []string{"I found some related information that might help:\n"}
	var suggested []string

	for _, r := range results {
		if r.Score < MediumConfidence {
			continue
		}
		parts = append(parts, fmt.Sprintf("**%s %s**\n%s",
			icon(r.Entry.Category), r.Entry.Question, truncate(r.Entry.Answer, digestLimit)))
		suggested = append(suggested, r.Entry.Question)
	}
	if len(suggested) > 3 {
		suggested = suggested[:3]
	}

	return models.StructuredReply{
		Reply:           strings.Join(parts, "\n\n"),
		Confidence:      round3(top.Score),
		ConfidenceLevel: models.ConfidenceMedium,
		Category:        "Multiple Topics",
		Sources:         buildSources(results),
		SuggestedTopics: suggested,
	}
}

// lowConfidenceReply explains the domain boundary and lists the categories
// the knowledge base covers.
func (s *Service) lowConfidenceReply() models.StructuredReply {
	categories := s.store.Categories()
	topics := s.store.TopicsByCategory()

	var sb strings.Builder
	sb.WriteString("I'm specialized in rubber cultivation and processing topics. ")
	sb.WriteString("I couldn't find a strong match for your question.\n\n")
	sb.WriteString("Here are some topics I can help with:\n")
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("• %s %s\n", icon(cat), cat))
	}
	sb.WriteString("\nTry asking me about rubber diseases, latex quality, tapping, processing, or pests!")

	var suggested []string
	for _, cat := range categories {
		if len(suggested) >= 4 {
			break
		}
		if catTopics := topics[cat]; len(catTopics) > 0 {
			suggested = append(suggested, catTopics[0].Question)
		}
	}

	return models.StructuredReply{
		Reply:           sb.String(),
		Confidence:      0.0,
		ConfidenceLevel: models.ConfidenceLow,
		Category:        "Out of Domain",
		Sources:         []models.Source{},
		SuggestedTopics: suggested,
	}
}

// fallbackReply is the terminal degraded response when retrieval itself
// cannot be invoked.
func (s *Service) fallbackReply() models.StructuredReply {
	return models.StructuredReply{
		Reply:           "I'm sorry, I wasn't able to search my knowledge base. Please try again.",
		Confidence:      0.0,
		ConfidenceLevel: models.ConfidenceLow,
		Category:        "Error",
		Sources:         []models.Source{},
		SuggestedTopics: []string{},
	}
}

// Welcome returns the static greeting with the knowledge base inventory.
func (s *Service) Welcome() models.StructuredReply {
	categories := s.store.Categories()

	var sb strings.Builder
	sb.WriteString("Hello! I'm **RubberBot** 🌿, your rubber cultivation expert assistant.\n\n")
	sb.WriteString(fmt.Sprintf("I have knowledge on **%d+ topics** across %d categories:\n",
		s.store.Len(), len(categories)))
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("• %s %s\n", icon(cat), cat))
	}
	sb.WriteString("\nAsk me anything about rubber diseases, latex quality, tapping, processing, pest control, and more!")

	return models.StructuredReply{
		Reply:           sb.String(),
		Confidence:      1.0,
		ConfidenceLevel: models.ConfidenceHigh,
		Category:        "Welcome",
		Sources:         []models.Source{},
		SuggestedTopics: []string{
			"What is Corynespora leaf fall disease?",
			"What is DRC and how to measure it?",
			"How to make ribbed smoked sheets?",
			"What are the recommended rubber clones for Sri Lanka?",
		},
	}
}

// Topics returns all knowledge entries grouped by category.
func (s *Service) Topics() map[string][]models.Topic {
	return s.store.TopicsByCategory()
}

// Health reports the loaded corpus size and active index backend.
func (s *Service) Health() models.HealthSnapshot {
	return models.HealthSnapshot{
		EntryCount:    s.store.Len(),
		Categories:    s.store.Categories(),
		ActiveBackend: s.searcher.Backend(),
	}
}

// relatedTopics returns up to 3 other questions from the entry's category,
// in knowledge base order.
func (s *Service) relatedTopics(entry *models.KnowledgeEntry) []string {
	var related []string
	for _, other := range s.store.Entries() {
		if other.Category == entry.Category && other.ID != entry.ID {
			related = append(related, other.Question)
		}
		if len(related) >= 3 {
			break
		}
	}
	return related
}

func (s *Service) trackSession(sessionID, category string) {
	if sessionID != "" {
		s.sessions.Set(sessionID, category)
	}
}

// buildSources cites every result at or above the medium threshold.
func buildSources(results []models.ScoredResult) []models.Source {
	sources := make([]models.Source, 0, len(results))
	for _, r := range results {
		if r.Score < MediumConfidence {
			continue
		}
		sources = append(sources, models.Source{
			Category: r.Entry.Category,
			Question: r.Entry.Question,
			Score:    round3(r.Score),
		})
	}
	return sources
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
