// Package watch runs the background hedge loop: poll the best-value
// aggregator on an interval, keep plays whose hedge margin clears the
// configured floor, and alert the ones not seen within the cooldown window.
package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bsumme/odds-price-alert/internal/books"
	"github.com/bsumme/odds-price-alert/internal/config"
	"github.com/bsumme/odds-price-alert/internal/notify"
	"github.com/bsumme/odds-price-alert/pkg/models"
)

// PlayFinder is the slice of the engine the watcher needs.
type PlayFinder interface {
	FindBestPlays(ctx context.Context, query models.PlayQuery) (*models.PlayResult, error)
}

// Publisher pushes new plays to live subscribers. Satisfied by stream.Hub.
type Publisher interface {
	Broadcast(play models.ValuePlay)
}

// Watcher polls for hedge opportunities and alerts on the new ones.
type Watcher struct {
	cfg      *config.WatcherConfig
	finder   PlayFinder
	notifier notify.Notifier
	hub      Publisher

	seen *seenSet
	now  func() time.Time
}

// New creates a watcher. notifier and hub may be nil; plays are still logged
// every cycle.
func New(cfg *config.WatcherConfig, finder PlayFinder, notifier notify.Notifier, hub Publisher) *Watcher {
	return &Watcher{
		cfg:      cfg,
		finder:   finder,
		notifier: notifier,
		hub:      hub,
		seen:     newSeenSet(time.Duration(cfg.CooldownMinutes) * time.Minute),
		now:      time.Now,
	}
}

// Run loops until the context dies. The first cycle fires immediately, then
// on the ticker.
func (w *Watcher) Run(ctx context.Context) {
	interval := time.Duration(w.cfg.IntervalSeconds) * time.Second

	fmt.Printf("🛡️  Hedge watcher started. Watching %s versus %s every %ds.\n",
		books.Label(w.cfg.TargetBook), books.Label(w.cfg.CompareBook), w.cfg.IntervalSeconds)
	fmt.Printf("Sports: %s | Markets: %s\n",
		strings.Join(w.cfg.Sports, ", "), strings.Join(w.cfg.Markets, ", "))
	fmt.Printf("Minimum margin: %.1f%% | Max results: %d\n",
		w.cfg.MinMarginPercent, w.cfg.MaxResults)
	fmt.Println("Use Ctrl+C or kill the process to stop it.")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Printf("Watcher error: %v. Retrying in %ds...\n", err, w.cfg.IntervalSeconds)
		}

		select {
		case <-ctx.Done():
			fmt.Println("Hedge watcher stopped.")
			return
		case <-ticker.C:
		}
	}

	fmt.Println("Hedge watcher stopped.")
}

// RunCycle performs one poll and returns how many plays were newly alerted.
func (w *Watcher) RunCycle(ctx context.Context) (int, error) {
	result, err := w.finder.FindBestPlays(ctx, w.query())
	if err != nil {
		return 0, err
	}

	plays := filterByMargin(result.Plays, w.cfg.MinMarginPercent)

	now := w.now()
	w.seen.sweep(now)

	timestamp := now.Format("2006-01-02 15:04:05")

	if len(plays) == 0 {
		fmt.Printf("[%s] No hedge opportunities (margin ≥ %.1f%%). Next check in %ds.\n",
			timestamp, w.cfg.MinMarginPercent, w.cfg.IntervalSeconds)
		return 0, nil
	}

	fmt.Printf("[%s] Found %d hedge opportunities with margin ≥ %.1f%% (showing up to %d).\n",
		timestamp, len(plays), w.cfg.MinMarginPercent, w.cfg.MaxResults)

	newCount := 0
	notified := 0

	for _, play := range plays {
		isNew := w.seen.shouldAlert(playKey(play), now)

		marker := ""
		if isNew {
			marker = " [new]"
			newCount++
		}
		fmt.Printf("  • %s%s\n", notify.FromPlay(play).Summary(), marker)

		if !isNew {
			continue
		}

		if w.hub != nil {
			w.hub.Broadcast(play)
		}

		if w.notifier != nil && notified < w.cfg.MaxAlertsPerCycle {
			if err := w.notifier.Notify(ctx, notify.FromPlay(play)); err != nil {
				fmt.Printf("⚠️  Alert delivery failed: %v\n", err)
			} else {
				notified++
			}
		}
	}

	fmt.Printf("[%s] Cycle complete: %d new. Next check in %ds.\n",
		timestamp, newCount, w.cfg.IntervalSeconds)

	return newCount, nil
}

func (w *Watcher) query() models.PlayQuery {
	return models.PlayQuery{
		SportKeys:   w.cfg.Sports,
		Markets:     w.cfg.Markets,
		TargetBook:  w.cfg.TargetBook,
		CompareBook: w.cfg.CompareBook,
		MaxResults:  w.cfg.MaxResults,
	}
}

// filterByMargin keeps plays whose arbitrage margin meets the threshold.
// Plays without a quoted hedge side never qualify.
func filterByMargin(plays []models.ValuePlay, minMargin float64) []models.ValuePlay {
	kept := make([]models.ValuePlay, 0, len(plays))
	for _, play := range plays {
		if play.ArbMarginPercent != nil && *play.ArbMarginPercent >= minMargin {
			kept = append(kept, play)
		}
	}
	return kept
}

// playKey identifies a play across polls for dedup purposes.
func playKey(play models.ValuePlay) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		play.EventID, play.MarketKey, play.OutcomeName, play.BookKey, play.CompareBookKey)
}
