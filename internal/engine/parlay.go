package engine

import (
	"sort"
	"strings"

	"github.com/bsumme/odds-price-alert/pkg/models"
	"github.com/bsumme/odds-price-alert/pkg/oddsmath"
)

// ParlayPolicy configures which legs may share a same-game ticket.
// Correlation between markets is a policy decision, not a law of nature, so
// the table is data: each pair blocks combining those two markets when both
// legs back the same side name (a team's moneyline plus that team's spread
// being the canonical case).
type ParlayPolicy struct {
	MaxLegs           int
	CorrelatedMarkets [][2]string
}

// DefaultParlayPolicy blocks moneyline+spread on the same side and builds
// 3-leg tickets.
func DefaultParlayPolicy() ParlayPolicy {
	return ParlayPolicy{
		MaxLegs:           3,
		CorrelatedMarkets: [][2]string{{"h2h", "spreads"}},
	}
}

// SuggestParlay builds one same-game parlay from a single event's plays.
// Legs are picked greedily in EV order, taking a play only when it is
// independent of every leg already taken: never two legs from the same
// market, and never a correlated-market pair on the same side. Returns nil
// unless a full ticket of MaxLegs independent legs exists.
func SuggestParlay(plays []models.ValuePlay, policy ParlayPolicy) *models.ParlaySuggestion {
	if policy.MaxLegs <= 0 {
		policy.MaxLegs = 3
	}
	if len(plays) < policy.MaxLegs {
		return nil
	}

	ordered := make([]models.ValuePlay, len(plays))
	copy(ordered, plays)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EVPercent > ordered[j].EVPercent
	})

	var taken []models.ValuePlay
	for _, candidate := range ordered {
		if len(taken) > 0 && candidate.EventID != taken[0].EventID {
			continue
		}
		if !independentOfAll(candidate, taken, policy) {
			continue
		}
		taken = append(taken, candidate)
		if len(taken) == policy.MaxLegs {
			break
		}
	}

	if len(taken) < policy.MaxLegs {
		return nil
	}

	suggestion := &models.ParlaySuggestion{
		EventID:         taken[0].EventID,
		Matchup:         taken[0].Matchup,
		BookKey:         taken[0].BookKey,
		CombinedDecimal: 1.0,
	}

	for _, leg := range taken {
		decimal, err := oddsmath.AmericanToDecimal(leg.BookPrice)
		if err != nil {
			return nil
		}
		suggestion.Legs = append(suggestion.Legs, models.ParlayLeg{
			MarketKey:    leg.MarketKey,
			OutcomeName:  leg.OutcomeName,
			Point:        leg.Point,
			BookPrice:    leg.BookPrice,
			DecimalPrice: decimal,
			EVPercent:    leg.EVPercent,
		})
		suggestion.CombinedDecimal *= decimal
	}

	if american, err := oddsmath.DecimalToAmerican(suggestion.CombinedDecimal); err == nil {
		suggestion.CombinedPrice = american
	}

	return suggestion
}

func independentOfAll(candidate models.ValuePlay, taken []models.ValuePlay, policy ParlayPolicy) bool {
	for _, leg := range taken {
		if !independentLegs(candidate, leg, policy) {
			return false
		}
	}
	return true
}

// independentLegs decides whether two plays may share a ticket.
func independentLegs(a, b models.ValuePlay, policy ParlayPolicy) bool {
	// Two sides of one market (or the same side twice) are never a parlay.
	if a.MarketKey == b.MarketKey {
		return false
	}

	for _, pair := range policy.CorrelatedMarkets {
		if marketsInPair(a.MarketKey, b.MarketKey, pair) && strings.EqualFold(a.OutcomeName, b.OutcomeName) {
			return false
		}
	}

	return true
}

func marketsInPair(marketA, marketB string, pair [2]string) bool {
	return (marketA == pair[0] && marketB == pair[1]) ||
		(marketA == pair[1] && marketB == pair[0])
}
