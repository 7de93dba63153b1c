package models

// KnowledgeEntry represents a single curated question/answer record in the
// rubber knowledge base. Entries are loaded once at startup and never mutated.
type KnowledgeEntry struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// Topic represents a browsable knowledge entry reference, grouped by category.
type Topic struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

// ScoredResult pairs a knowledge entry with its similarity score for one
// query. Results are transient and owned by the request that produced them.
type ScoredResult struct {
	Entry *KnowledgeEntry
	Score float64
}
