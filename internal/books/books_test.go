package books_test

import (
	"errors"
	"testing"

	"github.com/bsumme/odds-price-alert/internal/books"
)

func TestResolveRegions(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"single us book", []string{"draftkings"}, "us"},
		{"two books sharing a region dedupe", []string{"draftkings", "fanduel"}, "us"},
		{"regions join sorted", []string{"fliff", "draftkings"}, "us,us2"},
		{"exchange region", []string{"novig"}, "us_ex"},
		{"all four books", []string{"draftkings", "fanduel", "fliff", "novig"}, "us,us2,us_ex"},
		{"empty input", nil, ""},
		{"keys are case insensitive", []string{"DraftKings"}, "us"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := books.ResolveRegions(tt.keys)
			if err != nil {
				t.Fatalf("ResolveRegions(%v) unexpected error: %v", tt.keys, err)
			}
			if got != tt.want {
				t.Errorf("ResolveRegions(%v) = %q, want %q", tt.keys, got, tt.want)
			}
		})
	}
}

func TestResolveRegionsUnknownBook(t *testing.T) {
	_, err := books.ResolveRegions([]string{"draftkings", "bovada"})
	if err == nil {
		t.Fatal("ResolveRegions with unknown book expected error, got nil")
	}

	var unknownErr *books.UnknownBookmakerError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error type = %T, want *UnknownBookmakerError", err)
	}
	if unknownErr.Key != "bovada" {
		t.Errorf("UnknownBookmakerError.Key = %q, want %q", unknownErr.Key, "bovada")
	}
}

func TestLabel(t *testing.T) {
	if got := books.Label("draftkings"); got != "DraftKings" {
		t.Errorf("Label(draftkings) = %q, want DraftKings", got)
	}
	if got := books.Label("someoffshore"); got != "someoffshore" {
		t.Errorf("Label falls back to the key, got %q", got)
	}
}

func TestAll(t *testing.T) {
	all := books.All()
	if len(all) != 4 {
		t.Fatalf("All() returned %d books, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("All() not sorted by key: %q before %q", all[i-1].Key, all[i].Key)
		}
	}
}
