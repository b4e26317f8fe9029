package stream_test

import (
	"testing"

	"github.com/bsumme/odds-price-alert/internal/stream"
	"github.com/bsumme/odds-price-alert/pkg/models"
)

type mockHub struct {
	unregistered []*stream.Client
}

func (m *mockHub) Unregister(c *stream.Client) {
	m.unregistered = append(m.unregistered, c)
}

func streamPlay(sport, market, book string) models.ValuePlay {
	return models.ValuePlay{
		SportKey:  sport,
		EventID:   "ev1",
		Matchup:   "Lakers @ Celtics",
		MarketKey: market,
		BookKey:   book,
	}
}

func TestClientMatchesFilter(t *testing.T) {
	tests := []struct {
		name     string
		filter   stream.SubscriptionFilter
		play     models.ValuePlay
		expected bool
	}{
		{
			name:     "empty filter matches everything",
			filter:   stream.SubscriptionFilter{},
			play:     streamPlay("basketball_nba", "h2h", "draftkings"),
			expected: true,
		},
		{
			name:     "sport filter matches",
			filter:   stream.SubscriptionFilter{Sports: []string{"basketball_nba"}},
			play:     streamPlay("basketball_nba", "h2h", "draftkings"),
			expected: true,
		},
		{
			name:     "sport filter rejects",
			filter:   stream.SubscriptionFilter{Sports: []string{"americanfootball_nfl"}},
			play:     streamPlay("basketball_nba", "h2h", "draftkings"),
			expected: false,
		},
		{
			name:     "market filter matches",
			filter:   stream.SubscriptionFilter{Markets: []string{"h2h", "spreads"}},
			play:     streamPlay("basketball_nba", "h2h", "draftkings"),
			expected: true,
		},
		{
			name:     "market filter rejects",
			filter:   stream.SubscriptionFilter{Markets: []string{"spreads"}},
			play:     streamPlay("basketball_nba", "h2h", "draftkings"),
			expected: false,
		},
		{
			name:     "book filter matches",
			filter:   stream.SubscriptionFilter{Books: []string{"draftkings", "fanduel"}},
			play:     streamPlay("basketball_nba", "h2h", "draftkings"),
			expected: true,
		},
		{
			name:     "book filter rejects",
			filter:   stream.SubscriptionFilter{Books: []string{"fanduel"}},
			play:     streamPlay("basketball_nba", "h2h", "draftkings"),
			expected: false,
		},
		{
			name: "all dimensions must match",
			filter: stream.SubscriptionFilter{
				Sports:  []string{"basketball_nba"},
				Markets: []string{"spreads"},
				Books:   []string{"draftkings"},
			},
			play:     streamPlay("basketball_nba", "h2h", "draftkings"),
			expected: false,
		},
		{
			name: "combined filter matches",
			filter: stream.SubscriptionFilter{
				Sports:  []string{"basketball_nba"},
				Markets: []string{"h2h"},
				Books:   []string{"draftkings"},
			},
			play:     streamPlay("basketball_nba", "h2h", "draftkings"),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := stream.NewClient("c1", nil, &mockHub{})
			c.SetFilter(tt.filter)

			if got := c.MatchesFilter(tt.play); got != tt.expected {
				t.Errorf("MatchesFilter() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClientFilterRoundTrip(t *testing.T) {
	c := stream.NewClient("c1", nil, &mockHub{})

	filter := stream.SubscriptionFilter{Sports: []string{"basketball_nba"}}
	c.SetFilter(filter)

	got := c.GetFilter()
	if len(got.Sports) != 1 || got.Sports[0] != "basketball_nba" {
		t.Errorf("GetFilter() = %+v, want the filter just set", got)
	}
}

func TestClientTrySendBufferFull(t *testing.T) {
	c := stream.NewClient("c1", nil, &mockHub{})

	sent := 0
	for c.TrySend(stream.ServerMessage{Type: stream.MessageTypePlayAlert}) {
		sent++
		if sent > 10000 {
			t.Fatal("TrySend never reported a full buffer")
		}
	}

	if sent == 0 {
		t.Fatal("TrySend failed on an empty buffer")
	}

	// Draining one slot makes room again
	<-c.Send
	if !c.TrySend(stream.ServerMessage{Type: stream.MessageTypePlayAlert}) {
		t.Error("TrySend failed after draining a slot")
	}
}

func TestClientStats(t *testing.T) {
	c := stream.NewClient("c1", nil, &mockHub{})
	c.TrySend(stream.ServerMessage{Type: stream.MessageTypePlayAlert})

	stats := c.GetStats()
	if stats.ClientID != "c1" {
		t.Errorf("ClientID = %q, want c1", stats.ClientID)
	}
	if stats.BufferInUse != 1 {
		t.Errorf("BufferInUse = %d, want 1", stats.BufferInUse)
	}
	if stats.BufferSize <= 0 {
		t.Errorf("BufferSize = %d, want positive", stats.BufferSize)
	}
}
