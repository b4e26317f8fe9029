package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bsumme/odds-price-alert/internal/books"
	"github.com/bsumme/odds-price-alert/pkg/models"
	"github.com/bsumme/odds-price-alert/pkg/oddsmath"
)

// maxQuotedPrice is the widest American price a real market quotes. Anything
// at or past it is feed garbage (-100000 placeholders and the like).
const maxQuotedPrice = 10000

// Totals priced outside this window are mistagged moneylines, not totals.
const (
	minTotalsPrice = -150
	maxTotalsPrice = 150
)

// CollectParams drives one collection pass over a snapshot.
type CollectParams struct {
	MarketKey   string
	TargetBook  string
	CompareBook string

	// EvaluatedAt is the clock the future-only filter runs against.
	// Zero means time.Now.
	EvaluatedAt time.Time
}

// CollectValuePlays scans every event in the snapshot, comparing the target
// book's prices in one market against the compare book's de-vigged prices.
// For each target outcome with a matching compare side it emits a ValuePlay
// carrying the EV against the fair probability, and, when the compare book
// also quotes the opposite side, the two-way hedge margin.
//
// The pass is pure and synchronous. Missing books, missing markets, and
// filtered-out outcomes skip silently; only contract violations (bad market
// key, unregistered book, nil snapshot) return an error.
func CollectValuePlays(snapshot *models.OddsSnapshot, params CollectParams) ([]models.ValuePlay, error) {
	if snapshot == nil {
		return nil, errors.New("nil odds snapshot")
	}

	marketKey := models.NormalizePropMarket(params.MarketKey)
	kind, err := models.ParseMarketKind(marketKey)
	if err != nil {
		return nil, err
	}

	if _, ok := books.Lookup(params.TargetBook); !ok {
		return nil, &books.UnknownBookmakerError{Key: params.TargetBook}
	}
	if _, ok := books.Lookup(params.CompareBook); !ok {
		return nil, &books.UnknownBookmakerError{Key: params.CompareBook}
	}

	evaluatedAt := params.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now()
	}

	policy := kind.Policy()
	var plays []models.ValuePlay

	for i := range snapshot.Events {
		event := &snapshot.Events[i]

		// Live and completed events are not playable.
		if !event.CommenceTime.After(evaluatedAt) {
			continue
		}

		targetBook := event.Bookmaker(params.TargetBook)
		compareBook := event.Bookmaker(params.CompareBook)
		if targetBook == nil || compareBook == nil {
			continue
		}

		targetMarket := targetBook.Market(marketKey)
		compareMarket := compareBook.Market(marketKey)
		if targetMarket == nil || compareMarket == nil {
			continue
		}

		compareOutcomes := filterOutcomes(compareMarket.Outcomes, kind, policy)
		if len(compareOutcomes) == 0 {
			continue
		}

		for _, outcome := range filterOutcomes(targetMarket.Outcomes, kind, policy) {
			same := findComparisonOutcome(compareOutcomes, outcome, policy, false)
			if same == nil {
				continue
			}

			fairProb, ok := fairProbability(compareOutcomes, same, kind, policy)
			if !ok {
				continue
			}

			evPercent, err := oddsmath.EstimateEVPercent(fairProb, outcome.Price)
			if err != nil {
				continue
			}

			play := models.ValuePlay{
				SportKey:       event.SportKey,
				EventID:        event.ID,
				Matchup:        event.Matchup(),
				StartTime:      event.CommenceTime,
				MarketKey:      marketKey,
				OutcomeName:    displayName(outcome, kind, marketKey),
				Point:          outcome.Point,
				BookKey:        params.TargetBook,
				BookPrice:      outcome.Price,
				CompareBookKey: params.CompareBook,
				ComparePrice:   same.Price,
				EVPercent:      evPercent,
			}

			// Hedge side: back this outcome at the target book and the
			// opposite outcome at the compare book.
			if opposite := findComparisonOutcome(compareOutcomes, outcome, policy, true); opposite != nil {
				dBook, errBook := oddsmath.AmericanToDecimal(outcome.Price)
				dOther, errOther := oddsmath.AmericanToDecimal(opposite.Price)
				if errBook == nil && errOther == nil {
					margin := (1.0 - (1.0/dBook + 1.0/dOther)) * 100.0
					reverseName := displayName(*opposite, kind, marketKey)
					reversePrice := opposite.Price

					play.ReverseName = &reverseName
					play.ReversePrice = &reversePrice
					play.ArbMarginPercent = &margin
					play.IsArbitrage = margin > 0
				}
			}

			plays = append(plays, play)
		}
	}

	sortPlays(plays)
	return plays, nil
}

// filterOutcomes drops malformed sides before any matching happens: zero or
// absurd prices, missing lines where the kind demands one, totals that are
// not Over/Under or carry moneyline-sized prices, props without a player.
func filterOutcomes(outcomes []models.Outcome, kind models.MarketKind, policy models.MarketPolicy) []models.Outcome {
	kept := make([]models.Outcome, 0, len(outcomes))

	for _, o := range outcomes {
		if o.Name == "" || o.Price == 0 {
			continue
		}
		if o.Price >= maxQuotedPrice || o.Price <= -maxQuotedPrice {
			continue
		}
		if policy.RequiresPoint && o.Point == nil {
			continue
		}
		if policy.ByDescription && (o.Description == nil || *o.Description == "") {
			continue
		}
		if kind == models.MarketTotals {
			if !isOverUnderName(o.Name) {
				continue
			}
			if o.Price < minTotalsPrice || o.Price > maxTotalsPrice {
				continue
			}
		}
		kept = append(kept, o)
	}

	return kept
}

// findComparisonOutcome returns the compare-book side matching a target
// outcome, or the opposite side when opposite is set. Matching is exact:
// same name (Over↔Under swapped for the opposite of an O/U market), same
// player for props, and points equal except that the opposite of a spread
// carries the mirrored line.
func findComparisonOutcome(outcomes []models.Outcome, target models.Outcome, policy models.MarketPolicy, opposite bool) *models.Outcome {
	wantPoint := target.Point
	if opposite && policy.MirroredPoints && target.Point != nil {
		mirrored := -*target.Point
		wantPoint = &mirrored
	}

	for i := range outcomes {
		candidate := &outcomes[i]

		if opposite {
			if policy.OverUnder {
				if !strings.EqualFold(candidate.Name, overUnderOpposite(target.Name)) {
					continue
				}
			} else if strings.EqualFold(candidate.Name, target.Name) {
				continue
			}
		} else if !strings.EqualFold(candidate.Name, target.Name) {
			continue
		}

		if policy.ByDescription && !sameDescription(candidate.Description, target.Description) {
			continue
		}

		if policy.PointMustMatch && !oddsmath.PointsMatch(wantPoint, candidate.Point) {
			continue
		}

		return candidate
	}

	return nil
}

// fairProbability de-vigs the compare book's competitive set around the
// matched side and returns that side's fair win probability. The set is the
// whole market for h2h, the shared line for totals, the mirrored pair for
// spreads, and the player's own pair for props. A set with a single side
// cannot be normalized and falls back to the raw implied probability.
func fairProbability(outcomes []models.Outcome, same *models.Outcome, kind models.MarketKind, policy models.MarketPolicy) (float64, bool) {
	group := make([]*models.Outcome, 0, len(outcomes))

	for i := range outcomes {
		candidate := &outcomes[i]

		if policy.ByDescription && !sameDescription(candidate.Description, same.Description) {
			continue
		}

		switch kind {
		case models.MarketTotals, models.MarketPlayerProp:
			if !oddsmath.PointsMatch(candidate.Point, same.Point) {
				continue
			}
		case models.MarketSpreads:
			if !mirroredOrEqualPoint(candidate.Point, same.Point) {
				continue
			}
		}

		group = append(group, candidate)
	}

	sameIndex := -1
	probs := make([]float64, 0, len(group))
	for i, member := range group {
		prob, err := oddsmath.AmericanToImpliedProbability(member.Price)
		if err != nil {
			return 0, false
		}
		probs = append(probs, prob)
		if member == same {
			sameIndex = i
		}
	}

	if sameIndex < 0 {
		return 0, false
	}

	if len(probs) < 2 {
		return probs[sameIndex], true
	}

	fair, err := oddsmath.ApplyVigAdjustment(probs)
	if err != nil {
		return 0, false
	}
	return fair[sameIndex], true
}

func mirroredOrEqualPoint(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b || *a == -*b
}

func sameDescription(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(*a, *b)
}

func isOverUnderName(name string) bool {
	return strings.EqualFold(name, "Over") || strings.EqualFold(name, "Under")
}

func overUnderOpposite(name string) string {
	if strings.EqualFold(name, "Over") {
		return "Under"
	}
	return "Over"
}

// Stat labels for prop display names, keyed by canonical market
var propUnits = map[string]string{
	"player_points":            "points",
	"player_assists":           "assists",
	"player_rebounds":          "rebounds",
	"player_threes":            "3-pointers",
	"player_goals":             "goals",
	"player_blocks":            "blocks",
	"player_saves":             "saves",
	"player_shots_on_goal":     "shots on goal",
	"player_power_play_points": "power play points",
	"player_pass_yds":          "passing yards",
	"player_rec_yds":           "receiving yards",
	"player_rush_yds":          "rushing yards",
	"player_anytime_td":        "touchdowns",
	"player_pass_tds":          "passing TDs",
}

// displayName renders the outcome the way the frontend shows it:
// "Over 225.5" for totals, "LeBron James Over 25.5 points" for props,
// the plain side name for everything else.
func displayName(outcome models.Outcome, kind models.MarketKind, marketKey string) string {
	switch {
	case kind == models.MarketPlayerProp && outcome.Description != nil:
		suffix := ""
		if outcome.Point != nil {
			if unit := propUnits[marketKey]; unit != "" {
				suffix = fmt.Sprintf(" %g %s", *outcome.Point, unit)
			} else {
				suffix = fmt.Sprintf(" %g", *outcome.Point)
			}
		}
		return fmt.Sprintf("%s %s%s", *outcome.Description, outcome.Name, suffix)

	case kind == models.MarketTotals && outcome.Point != nil:
		return fmt.Sprintf("%s %g", outcome.Name, *outcome.Point)
	}

	return outcome.Name
}

// sortPlays orders plays best-first: hedge margin, then EV, then start time.
// Plays without a hedge side rank below every play that has one.
func sortPlays(plays []models.ValuePlay) {
	sort.SliceStable(plays, func(i, j int) bool {
		mi, mj := marginKey(&plays[i]), marginKey(&plays[j])
		if mi != mj {
			return mi > mj
		}
		if plays[i].EVPercent != plays[j].EVPercent {
			return plays[i].EVPercent > plays[j].EVPercent
		}
		return plays[i].StartTime.Before(plays[j].StartTime)
	})
}

func marginKey(p *models.ValuePlay) float64 {
	if p.ArbMarginPercent != nil {
		return *p.ArbMarginPercent
	}
	return math.Inf(-1)
}
