package models_test

import (
	"reflect"
	"testing"

	"github.com/bsumme/odds-price-alert/pkg/models"
)

func TestParseMarketKind(t *testing.T) {
	tests := []struct {
		key  string
		want models.MarketKind
	}{
		{"h2h", models.MarketH2H},
		{"spreads", models.MarketSpreads},
		{"totals", models.MarketTotals},
		{"player_points", models.MarketPlayerProp},
		{"player_passing_yards", models.MarketPlayerProp}, // alias of player_pass_yds
	}

	for _, tt := range tests {
		got, err := models.ParseMarketKind(tt.key)
		if err != nil {
			t.Fatalf("ParseMarketKind(%q) unexpected error: %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("ParseMarketKind(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}

	for _, key := range []string{"", "moneyline", "alternate_spreads"} {
		if _, err := models.ParseMarketKind(key); err == nil {
			t.Errorf("ParseMarketKind(%q) expected error, got nil", key)
		}
	}
}

func TestMarketPolicies(t *testing.T) {
	if models.MarketH2H.Policy().RequiresPoint {
		t.Error("h2h must not require a point")
	}
	if !models.MarketSpreads.Policy().MirroredPoints {
		t.Error("spreads opposite side must mirror the point")
	}
	if !models.MarketTotals.Policy().OverUnder {
		t.Error("totals sides must be Over/Under")
	}
	if !models.MarketPlayerProp.Policy().ByDescription {
		t.Error("player props must match by description")
	}
}

func TestExpandMarkets(t *testing.T) {
	got := models.ExpandMarkets("basketball_nba", []string{"player_points", "all_player_props", "player_points"})
	want := []string{"player_points", "player_assists", "player_rebounds", "player_threes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandMarkets = %v, want %v", got, want)
	}

	got = models.ExpandMarkets("americanfootball_nfl", []string{"player_passing_yards", "player_pass_yds"})
	want = []string{"player_pass_yds"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandMarkets alias collapse = %v, want %v", got, want)
	}
}
