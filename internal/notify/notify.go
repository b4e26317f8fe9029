// Package notify delivers value-play alerts to the channels a user actually
// watches: SMS via Textbelt, Telegram, or plain console logging. Notifiers
// are fire-and-forget; a failed delivery never fails the scan that found the
// play.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bsumme/odds-price-alert/internal/books"
	"github.com/bsumme/odds-price-alert/pkg/models"
)

// Notifier delivers one alert to one channel.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Alert is the presentation form of a detected play: everything a message
// needs, nothing the engine needs back.
type Alert struct {
	EventID          string
	Matchup          string
	SportKey         string
	MarketKey        string
	OutcomeName      string
	BookKey          string
	BookPrice        int
	CompareBookKey   string
	ReversePrice     *int
	EVPercent        float64
	ArbMarginPercent *float64
	IsArbitrage      bool
	StartTime        time.Time
}

// FromPlay builds an Alert from a detected value play.
func FromPlay(play models.ValuePlay) Alert {
	return Alert{
		EventID:          play.EventID,
		Matchup:          play.Matchup,
		SportKey:         play.SportKey,
		MarketKey:        play.MarketKey,
		OutcomeName:      play.OutcomeName,
		BookKey:          play.BookKey,
		BookPrice:        play.BookPrice,
		CompareBookKey:   play.CompareBookKey,
		ReversePrice:     play.ReversePrice,
		EVPercent:        play.EVPercent,
		ArbMarginPercent: play.ArbMarginPercent,
		IsArbitrage:      play.IsArbitrage,
		StartTime:        play.StartTime,
	}
}

// Message renders the full multi-line alert text shared by every channel.
func (a Alert) Message() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s | %s\n", a.emoji(), a.headline(), a.Matchup))
	sb.WriteString(fmt.Sprintf("%s @ %s (%s %s)\n",
		a.OutcomeName, formatOdds(a.BookPrice), books.Label(a.BookKey), a.MarketKey))

	if a.ReversePrice != nil {
		sb.WriteString(fmt.Sprintf("Hedge: %s @ %s\n",
			formatOddsPtr(a.ReversePrice), books.Label(a.CompareBookKey)))
	}

	sb.WriteString(fmt.Sprintf("EV: %.2f%%", a.EVPercent))
	if a.ArbMarginPercent != nil {
		sb.WriteString(fmt.Sprintf(" | Margin: %.2f%%", *a.ArbMarginPercent))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Starts: %s", formatStart(a.StartTime)))

	return sb.String()
}

// Summary renders the single-line form used in cycle logs.
func (a Alert) Summary() string {
	margin := "N/A"
	if a.ArbMarginPercent != nil {
		margin = fmt.Sprintf("%.2f%%", *a.ArbMarginPercent)
	}

	return fmt.Sprintf("%s | %s %s | %s @ %s (hedge %s) | margin %s, starts %s",
		a.Matchup, a.SportKey, a.MarketKey, a.OutcomeName,
		formatOdds(a.BookPrice), formatOddsPtr(a.ReversePrice),
		margin, formatStart(a.StartTime))
}

func (a Alert) headline() string {
	if a.IsArbitrage {
		return "ARBITRAGE"
	}
	return "VALUE PLAY"
}

func (a Alert) emoji() string {
	if a.IsArbitrage {
		return "🛡️"
	}
	if a.EVPercent > 0 {
		return "💰"
	}
	return "📊"
}

// formatOdds formats American odds with sign
func formatOdds(americanOdds int) string {
	if americanOdds > 0 {
		return fmt.Sprintf("+%d", americanOdds)
	}
	return fmt.Sprintf("%d", americanOdds)
}

func formatOddsPtr(americanOdds *int) string {
	if americanOdds == nil {
		return "N/A"
	}
	return formatOdds(*americanOdds)
}

// formatStart renders a tip-off time in Eastern, the timezone US lines are
// quoted in. Falls back to UTC when the zone database is unavailable.
func formatStart(t time.Time) string {
	if t.IsZero() {
		return "TBD"
	}
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return t.UTC().Format("Mon, Jan 2, 15:04 UTC")
	}
	return t.In(loc).Format("Mon, Jan 2, 3:04 PM ET")
}

// LogNotifier prints alerts to stdout. It is the fallback channel when no
// SMS or Telegram credentials are configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, alert Alert) error {
	fmt.Printf("🔔 %s\n", alert.Summary())
	return nil
}

// MultiNotifier fans one alert out to every configured channel. Each channel
// gets its attempt even when an earlier one fails.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier builds a fan-out over the given channels.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Notify delivers to all channels and reports how many failed.
func (m *MultiNotifier) Notify(ctx context.Context, alert Alert) error {
	var failed int
	var lastErr error

	for _, n := range m.notifiers {
		if err := n.Notify(ctx, alert); err != nil {
			failed++
			lastErr = err
			fmt.Printf("⚠️  Notifier failed: %v\n", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d notifiers failed, last error: %w", failed, len(m.notifiers), lastErr)
	}
	return nil
}
