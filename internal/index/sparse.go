package index

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"
)

// maxFeatures caps the TF-IDF vocabulary size.
const maxFeatures = 5000

// SparseIndex scores queries by cosine similarity between TF-IDF vectors
// over unigrams and bigrams. It is the fallback strategy when no embedding
// encoder is available. The vocabulary and idf weights are fitted once over
// the document set and never refit per query.
type SparseIndex struct {
	vocab map[string]int
	idf   []float64
	rows  []map[int]float64
}

// NewSparseIndex fits a TF-IDF model over the documents and stores one
// L2-normalized vector per document.
func NewSparseIndex(documents []string) *SparseIndex {
	s := &SparseIndex{vocab: make(map[string]int)}

	tokenized := make([][]string, len(documents))
	df := make(map[string]int)
	for i, doc := range documents {
		terms := ngrams(tokenize(doc))
		tokenized[i] = terms

		inDoc := make(map[string]bool, len(terms))
		for _, t := range terms {
			inDoc[t] = true
		}
		for t := range inDoc {
			df[t]++
		}
	}

	// Cap the vocabulary at the most frequent terms, with a lexicographic
	// tiebreak so the fitted model is deterministic.
	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	n := float64(len(documents))
	s.idf = make([]float64, len(terms))
	for col, t := range terms {
		s.vocab[t] = col
		s.idf[col] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	s.rows = make([]map[int]float64, len(documents))
	for i, docTerms := range tokenized {
		s.rows[i] = s.vectorize(docTerms)
	}

	return s
}

// Score transforms the query with the fitted vocabulary and computes the
// cosine similarity against every document vector. Queries sharing no
// vocabulary terms with the corpus score zero everywhere.
func (s *SparseIndex) Score(_ context.Context, query string) ([]float64, error) {
	queryVec := s.vectorize(ngrams(tokenize(query)))

	scores := make([]float64, len(s.rows))
	for i, row := range s.rows {
		scores[i] = sparseDot(queryVec, row)
	}
	return scores, nil
}

// Len returns the number of indexed documents.
func (s *SparseIndex) Len() int {
	return len(s.rows)
}

// Backend returns the sparse backend identifier.
func (s *SparseIndex) Backend() string {
	return BackendSparse
}

// VocabularySize returns the number of fitted terms.
func (s *SparseIndex) VocabularySize() int {
	return len(s.vocab)
}

// vectorize builds an L2-normalized tf-idf vector over the fitted vocabulary.
func (s *SparseIndex) vectorize(terms []string) map[int]float64 {
	vec := make(map[int]float64)
	for _, t := range terms {
		if col, ok := s.vocab[t]; ok {
			vec[col] += s.idf[col]
		}
	}

	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum > 0 {
		norm := math.Sqrt(sum)
		for col := range vec {
			vec[col] /= norm
		}
	}
	return vec
}

func sparseDot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, w := range a {
		sum += w * b[col]
	}
	return sum
}

// tokenize lowercases the text and splits it into alphanumeric tokens of at
// least two characters, excluding stop-words.
func tokenize(text string) []string {
	var tokens []string
	var sb strings.Builder

	flush := func() {
		if sb.Len() >= 2 {
			token := sb.String()
			if !stopwords[token] {
				tokens = append(tokens, token)
			}
		}
		sb.Reset()
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// ngrams expands a token stream into unigrams plus adjacent-pair bigrams.
func ngrams(tokens []string) []string {
	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
