// Package memory retrieves prior interactions relevant to a query.
//
// This is deliberately a coarse boolean recall filter, not relevance
// scoring: a stored interaction matches only if every query term appears
// as a case-insensitive substring of its input or output.
package memory

import (
	"strings"

	"github.com/projectbrainsaver/brainsaver/internal/storage"
)

// InteractionSearcher is the slice of the interaction store the retriever needs.
type InteractionSearcher interface {
	SearchInteractions(terms []string, limit int) ([]storage.Interaction, error)
}

// Retriever finds stored interactions relevant to a free-text query.
type Retriever struct {
	store InteractionSearcher
}

// NewRetriever creates a Retriever backed by the given interaction store.
func NewRetriever(store InteractionSearcher) *Retriever {
	return &Retriever{store: store}
}

// FindRelevant tokenizes query into lower-cased whitespace-separated terms
// and returns at most limit matching interactions, newest first. An empty
// query applies no term filter and returns the most recent rows. Zero
// matches yields an empty slice, not an error.
func (r *Retriever) FindRelevant(query string, limit int) ([]storage.Interaction, error) {
	terms := strings.Fields(strings.ToLower(query))
	return r.store.SearchInteractions(terms, limit)
}
