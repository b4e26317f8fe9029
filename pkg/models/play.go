package models

import "time"

// ValuePlay is a detected edge at the target book, priced against the compare
// book's de-vigged market. Plays are derived per request and never persisted.
type ValuePlay struct {
	// Core fields
	SportKey    string    `json:"sport_key"`
	EventID     string    `json:"event_id"`
	Matchup     string    `json:"matchup"`
	StartTime   time.Time `json:"start_time"`
	MarketKey   string    `json:"market"`
	OutcomeName string    `json:"outcome_name"` // display form, e.g. "Over 225.5"
	Point       *float64  `json:"point,omitempty"`

	// Target book side
	BookKey   string `json:"book_key"`
	BookPrice int    `json:"book_price"` // American odds

	// Compare book same side
	CompareBookKey string `json:"compare_book_key"`
	ComparePrice   int    `json:"compare_price"`

	EVPercent float64 `json:"ev_percent"`

	// Hedge side: the compare book's opposite outcome, when quoted
	ReverseName      *string  `json:"reverse_name,omitempty"`
	ReversePrice     *int     `json:"reverse_price,omitempty"`
	ArbMarginPercent *float64 `json:"arb_margin_percent,omitempty"`
	IsArbitrage      bool     `json:"is_arbitrage"`
}

// ParlayLeg is one leg of a suggested same-game parlay
type ParlayLeg struct {
	MarketKey    string   `json:"market"`
	OutcomeName  string   `json:"outcome_name"`
	Point        *float64 `json:"point,omitempty"`
	BookPrice    int      `json:"book_price"`
	DecimalPrice float64  `json:"decimal_price"`
	EVPercent    float64  `json:"ev_percent"`
}

// ParlaySuggestion is a request-scoped 3-leg same-game parlay built from
// independent value plays of a single event
type ParlaySuggestion struct {
	EventID         string      `json:"event_id"`
	Matchup         string      `json:"matchup"`
	BookKey         string      `json:"book_key"`
	Legs            []ParlayLeg `json:"legs"`
	CombinedDecimal float64     `json:"combined_decimal_price"`
	CombinedPrice   int         `json:"combined_american_price"`
}

// PlayQuery drives one aggregation run across sports and markets
type PlayQuery struct {
	SportKeys   []string `json:"sport_keys"`
	Markets     []string `json:"markets"`
	TargetBook  string   `json:"target_book"`
	CompareBook string   `json:"compare_book"`
	MaxResults  int      `json:"max_results"` // <= 0 means no cap
	IncludeSGP  bool     `json:"include_sgp"`
}

// CombinationError records one failed sport x market fetch without failing
// the whole aggregation
type CombinationError struct {
	SportKey string `json:"sport_key"`
	Market   string `json:"market"`
	Error    string `json:"error"`
}

// PlayResult is the aggregator's envelope: ranked plays plus per-combination
// diagnostics
type PlayResult struct {
	TargetBook      string             `json:"target_book"`
	CompareBook     string             `json:"compare_book"`
	EvaluatedAt     time.Time          `json:"evaluated_at"`
	Plays           []ValuePlay        `json:"plays"`
	Failures        []CombinationError `json:"failures,omitempty"`
	SuggestedParlay *ParlaySuggestion  `json:"suggested_parlay,omitempty"`
}

// BetQuery asks for one side's current prices across books
type BetQuery struct {
	SportKey    string   `json:"sport_key"`
	Market      string   `json:"market"`
	OutcomeName string   `json:"outcome_name"` // team name, or Over/Under
	Point       *float64 `json:"point,omitempty"`
	Books       []string `json:"books,omitempty"`
	TargetPrice *int     `json:"target_price,omitempty"`
}

// BetPrice is one book's quote for the queried side
type BetPrice struct {
	EventID   string    `json:"event_id"`
	Matchup   string    `json:"matchup"`
	StartTime time.Time `json:"start_time"`
	BookKey   string    `json:"book_key"`
	BookLabel string    `json:"book_label"`
	Price     int       `json:"price"`
	Point     *float64  `json:"point,omitempty"`
	Best      bool      `json:"best"`                 // best price across the returned quotes
	TargetMet *bool     `json:"target_met,omitempty"` // price at or better than the asked target
}
