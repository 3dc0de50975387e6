package memory

import (
	"reflect"
	"testing"

	"github.com/projectbrainsaver/brainsaver/internal/storage"
)

func TestFindRelevantAgainstRealStore(t *testing.T) {
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer s.Close()

	seed := []struct{ in, out string }{
		{"Alpha test", "ok"},
		{"beta only", "ok"},
		{"both alpha and beta", "ok"},
		{"nothing related", "ok"},
	}
	for _, row := range seed {
		if _, err := s.SaveInteraction(row.in, row.out, "s", ""); err != nil {
			t.Fatalf("SaveInteraction: %v", err)
		}
	}

	r := NewRetriever(s)

	// Conjunctive: "Alpha test" and "beta only" alone must not match both terms.
	got, err := r.FindRelevant("alpha beta", 5)
	if err != nil {
		t.Fatalf("FindRelevant: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if got[0].UserInput != "both alpha and beta" {
		t.Errorf("matched %q, want the conjunctive row", got[0].UserInput)
	}

	// Empty query returns the most recent rows, newest first, no filter.
	got, err = r.FindRelevant("", 3)
	if err != nil {
		t.Fatalf("FindRelevant: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	if got[0].UserInput != "nothing related" {
		t.Errorf("first row = %q, want newest", got[0].UserInput)
	}

	// Zero matches is an empty result, not an error.
	got, err = r.FindRelevant("zebra quantum", 5)
	if err != nil {
		t.Fatalf("FindRelevant: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d matches, want 0", len(got))
	}
}

// fakeSearcher records the terms FindRelevant derives from the query.
type fakeSearcher struct {
	terms []string
	limit int
}

func (f *fakeSearcher) SearchInteractions(terms []string, limit int) ([]storage.Interaction, error) {
	f.terms = terms
	f.limit = limit
	return nil, nil
}

func TestFindRelevantTokenizes(t *testing.T) {
	f := &fakeSearcher{}
	r := NewRetriever(f)

	if _, err := r.FindRelevant("  Find  My REPORT\tfiles ", 3); err != nil {
		t.Fatalf("FindRelevant: %v", err)
	}

	want := []string{"find", "my", "report", "files"}
	if !reflect.DeepEqual(f.terms, want) {
		t.Errorf("terms = %v, want %v", f.terms, want)
	}
	if f.limit != 3 {
		t.Errorf("limit = %d, want 3", f.limit)
	}
}
