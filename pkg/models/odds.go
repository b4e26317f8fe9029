package models

import "time"

// Outcome is one priced side of a market as quoted by a book
type Outcome struct {
	Name        string   `json:"name"`
	Price       int      `json:"price"`                 // American odds
	Point       *float64 `json:"point,omitempty"`       // For spreads/totals/props
	Description *string  `json:"description,omitempty"` // Player name on prop markets
}

// Market is one book's quoted market for an event
type Market struct {
	Key        string    `json:"key"`
	LastUpdate time.Time `json:"last_update"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Bookmaker is one book's entry inside a provider event
type Bookmaker struct {
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	LastUpdate time.Time `json:"last_update"`
	Markets    []Market  `json:"markets"`
}

// Market returns the bookmaker's market with the given key, or nil.
func (b *Bookmaker) Market(key string) *Market {
	for i := range b.Markets {
		if b.Markets[i].Key == key {
			return &b.Markets[i]
		}
	}
	return nil
}

// Event is a provider event with per-book odds attached
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title,omitempty"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Matchup renders the event in "Away @ Home" display form.
func (e *Event) Matchup() string {
	return e.AwayTeam + " @ " + e.HomeTeam
}

// Bookmaker returns the event's entry for the given book key, or nil.
func (e *Event) Bookmaker(key string) *Bookmaker {
	for i := range e.Bookmakers {
		if e.Bookmakers[i].Key == key {
			return &e.Bookmakers[i]
		}
	}
	return nil
}

// OddsSnapshot is everything fetched for one odds request at one instant.
// Nothing mutates a snapshot after the gateway hands it out.
type OddsSnapshot struct {
	ID        string    `json:"id"`
	SportKey  string    `json:"sport_key"`
	Markets   []string  `json:"markets"`
	Regions   string    `json:"regions"`
	Books     []string  `json:"books"`
	FetchedAt time.Time `json:"fetched_at"`
	Events    []Event   `json:"events"`
}

// BookType classifies sportsbooks
type BookType string

const (
	BookTypeExchange BookType = "exchange" // Low-vig exchanges (Novig, Prophet)
	BookTypeSoft     BookType = "soft"     // FanDuel, DraftKings, etc.
)

// Book is a registry entry for a known sportsbook
type Book struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Region   string   `json:"region"`
	BookType BookType `json:"book_type"`
}
