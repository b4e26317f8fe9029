package models

import (
	"fmt"
	"strings"
)

// MarketKind classifies market keys into the families the collector knows
// how to match
type MarketKind string

const (
	MarketH2H        MarketKind = "h2h"         // Moneyline, sides named by team
	MarketSpreads    MarketKind = "spreads"     // Handicap, signed point per side
	MarketTotals     MarketKind = "totals"      // Over/Under on a shared point
	MarketPlayerProp MarketKind = "player_prop" // Over/Under per player (description)
)

// MarketPolicy captures the per-kind matching rules the collector applies
type MarketPolicy struct {
	RequiresPoint  bool // outcomes without a line are malformed and dropped
	PointMustMatch bool // same-side comparison requires exact point equality
	OverUnder      bool // sides are named Over/Under
	ByDescription  bool // sides belong to the player named in Description
	MirroredPoints bool // the opposite side carries the negated point (spreads)
}

var marketPolicies = map[MarketKind]MarketPolicy{
	MarketH2H:        {},
	MarketSpreads:    {RequiresPoint: true, PointMustMatch: true, MirroredPoints: true},
	MarketTotals:     {RequiresPoint: true, PointMustMatch: true, OverUnder: true},
	MarketPlayerProp: {PointMustMatch: true, OverUnder: true, ByDescription: true},
}

// Policy returns the matching rules for the kind.
func (k MarketKind) Policy() MarketPolicy {
	return marketPolicies[k]
}

// ParseMarketKind classifies a provider market key. Unknown keys are a caller
// bug, not a data condition, and fail loudly.
func ParseMarketKind(key string) (MarketKind, error) {
	switch key {
	case "h2h":
		return MarketH2H, nil
	case "spreads":
		return MarketSpreads, nil
	case "totals":
		return MarketTotals, nil
	}

	if strings.HasPrefix(NormalizePropMarket(key), "player_") {
		return MarketPlayerProp, nil
	}

	return "", fmt.Errorf("unknown market key: %q", key)
}

// Map legacy or alias prop markets to their canonical provider keys
var propMarketAliases = map[string]string{
	"player_passing_yards":    "player_pass_yds",
	"player_receiving_yards":  "player_rec_yds",
	"player_reception_yards":  "player_rec_yds",
	"player_rushing_yards":    "player_rush_yds",
	"player_touchdowns":       "player_anytime_td",
	"player_passing_tds":      "player_pass_tds",
	"player_powerplay_points": "player_power_play_points",
}

// Supported player prop markets per sport
var propMarketsBySport = map[string][]string{
	"basketball_nba": {
		"player_points",
		"player_assists",
		"player_rebounds",
		"player_threes",
	},
	"americanfootball_nfl": {
		"player_pass_yds",
		"player_rec_yds",
		"player_rush_yds",
		"player_anytime_td",
		"player_pass_tds",
	},
	"icehockey_nhl": {
		"player_points",
		"player_goals",
		"player_assists",
		"player_shots_on_goal",
		"player_power_play_points",
		"player_blocks",
		"player_saves",
	},
}

// NormalizePropMarket maps alias prop keys to their canonical form. Keys
// without an alias come back unchanged.
func NormalizePropMarket(key string) string {
	key = strings.TrimSpace(key)
	if canonical, ok := propMarketAliases[key]; ok {
		return canonical
	}
	return key
}

// ExpandMarkets normalizes aliases and expands the "all_player_props"
// shortcut into the sport's supported prop markets, preserving order and
// dropping duplicates.
func ExpandMarkets(sportKey string, markets []string) []string {
	expanded := make([]string, 0, len(markets))
	seen := make(map[string]bool)

	for _, market := range markets {
		normalized := NormalizePropMarket(market)
		if normalized == "" || seen[normalized] {
			continue
		}

		if normalized == "all" || normalized == "all_player_props" {
			for _, sportMarket := range propMarketsBySport[sportKey] {
				if !seen[sportMarket] {
					expanded = append(expanded, sportMarket)
					seen[sportMarket] = true
				}
			}
			continue
		}

		expanded = append(expanded, normalized)
		seen[normalized] = true
	}

	return expanded
}
