package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rubberintel/pkg/models"
)

// Store holds the immutable knowledge base loaded at startup.
// All accessors are read-only and safe for concurrent use.
type Store struct {
	entries    []models.KnowledgeEntry
	categories []string
	documents  []string
	topics     map[string][]models.Topic
}

// Load reads and validates the knowledge base from a JSON file.
// Any missing file, malformed record or constraint violation is fatal:
// the service never starts with a partial corpus.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base: %w", err)
	}

	var entries []models.KnowledgeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing knowledge base: %w", err)
	}

	return NewStore(entries)
}

// NewStore builds a Store from an already-parsed entry collection.
func NewStore(entries []models.KnowledgeEntry) (*Store, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("knowledge base is empty")
	}

	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("entry %d: missing id", i)
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, entry.ID)
		}
		seen[entry.ID] = true
		if entry.Question == "" {
			return nil, fmt.Errorf("entry %q: missing question", entry.ID)
		}
		if entry.Answer == "" {
			return nil, fmt.Errorf("entry %q: missing answer", entry.ID)
		}
	}

	s := &Store{
		entries:   entries,
		documents: make([]string, len(entries)),
		topics:    make(map[string][]models.Topic),
	}

	catSet := make(map[string]bool)
	for i, entry := range entries {
		// Search documents combine question, keywords and category so that
		// keyword and category terms participate in similarity scoring.
		s.documents[i] = strings.TrimSpace(
			entry.Question + " " + strings.Join(entry.Keywords, " ") + " " + entry.Category)

		if !catSet[entry.Category] {
			catSet[entry.Category] = true
			s.categories = append(s.categories, entry.Category)
		}
		s.topics[entry.Category] = append(s.topics[entry.Category], models.Topic{
			ID:       entry.ID,
			Question: entry.Question,
		})
	}
	sort.Strings(s.categories)

	return s, nil
}

// Entries returns the full entry collection in load order.
func (s *Store) Entries() []models.KnowledgeEntry {
	return s.entries
}

// Len returns the number of knowledge entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Categories returns the sorted set of distinct category labels.
func (s *Store) Categories() []string {
	return s.categories
}

// TopicsByCategory returns entry references grouped by category,
// preserving each entry's original relative order within its category.
func (s *Store) TopicsByCategory() map[string][]models.Topic {
	return s.topics
}

// SearchDocuments returns the composite text indexed for each entry,
// order-aligned with Entries.
func (s *Store) SearchDocuments() []string {
	return s.documents
}
