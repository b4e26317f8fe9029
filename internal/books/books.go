// Package books is the static registry of sportsbooks the service knows how
// to query: provider region, display label, and book classification. Lookups
// are pure; nothing here touches the network.
package books

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bsumme/odds-price-alert/pkg/models"
)

// DefaultCompareBook is the sharp side of every comparison unless a request
// overrides it.
const DefaultCompareBook = "novig"

// UnknownBookmakerError reports a book key outside the registry. Unknown keys
// are rejected rather than silently mapped to a default region; a typo'd book
// must never turn into a quiet us-region query.
type UnknownBookmakerError struct {
	Key string
}

func (e *UnknownBookmakerError) Error() string {
	return fmt.Sprintf("unknown bookmaker key: %q", e.Key)
}

var registry = map[string]models.Book{
	"draftkings": {Key: "draftkings", Label: "DraftKings", Region: "us", BookType: models.BookTypeSoft},
	"fanduel":    {Key: "fanduel", Label: "FanDuel", Region: "us", BookType: models.BookTypeSoft},
	"fliff":      {Key: "fliff", Label: "Fliff", Region: "us2", BookType: models.BookTypeSoft},
	"novig":      {Key: "novig", Label: "Novig", Region: "us_ex", BookType: models.BookTypeExchange},
}

// Lookup returns the registry entry for a book key.
func Lookup(key string) (models.Book, bool) {
	book, ok := registry[strings.ToLower(strings.TrimSpace(key))]
	return book, ok
}

// Label returns the display name for a book key, falling back to the key
// itself for anything unregistered.
func Label(key string) string {
	if book, ok := Lookup(key); ok {
		return book.Label
	}
	return key
}

// All returns every registered book, sorted by key.
func All() []models.Book {
	all := make([]models.Book, 0, len(registry))
	for _, book := range registry {
		all = append(all, book)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Key < all[j].Key })
	return all
}

// ResolveRegions maps book keys to the provider regions that carry them,
// deduplicated and comma-joined in sorted order (the provider's query
// format). Any unknown key fails with UnknownBookmakerError.
func ResolveRegions(keys []string) (string, error) {
	regions := make(map[string]bool)

	for _, key := range keys {
		book, ok := Lookup(key)
		if !ok {
			return "", &UnknownBookmakerError{Key: key}
		}
		regions[book.Region] = true
	}

	sorted := make([]string, 0, len(regions))
	for region := range regions {
		sorted = append(sorted, region)
	}
	sort.Strings(sorted)

	return strings.Join(sorted, ","), nil
}
