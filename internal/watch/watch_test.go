package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bsumme/odds-price-alert/internal/config"
	"github.com/bsumme/odds-price-alert/internal/notify"
	"github.com/bsumme/odds-price-alert/pkg/models"
)

type fakeFinder struct {
	result    *models.PlayResult
	err       error
	calls     int
	lastQuery models.PlayQuery
}

func (f *fakeFinder) FindBestPlays(_ context.Context, query models.PlayQuery) (*models.PlayResult, error) {
	f.calls++
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeNotifier struct {
	alerts []notify.Alert
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, alert notify.Alert) error {
	f.alerts = append(f.alerts, alert)
	return f.err
}

type fakePublisher struct {
	plays []models.ValuePlay
}

func (f *fakePublisher) Broadcast(play models.ValuePlay) {
	f.plays = append(f.plays, play)
}

func hedgePlay(eventID, outcome string, margin float64) models.ValuePlay {
	m := margin
	rev := 105
	return models.ValuePlay{
		SportKey:         "basketball_nba",
		EventID:          eventID,
		Matchup:          "Lakers @ Celtics",
		MarketKey:        "h2h",
		OutcomeName:      outcome,
		BookKey:          "draftkings",
		BookPrice:        -105,
		CompareBookKey:   "novig",
		ComparePrice:     -110,
		EVPercent:        2.5,
		ReversePrice:     &rev,
		ArbMarginPercent: &m,
		IsArbitrage:      margin > 0,
	}
}

func watcherConfig() *config.WatcherConfig {
	cfg := config.DefaultWatcherConfig()
	cfg.MinMarginPercent = 1.0
	return cfg
}

func TestFilterByMargin(t *testing.T) {
	bare := hedgePlay("ev1", "Lakers", 0)
	bare.ArbMarginPercent = nil

	plays := []models.ValuePlay{
		bare,
		hedgePlay("ev2", "Celtics", 0.5),
		hedgePlay("ev3", "Heat", 1.0),
		hedgePlay("ev4", "Bucks", 2.5),
	}

	kept := filterByMargin(plays, 1.0)

	if len(kept) != 2 {
		t.Fatalf("kept %d plays, want 2", len(kept))
	}
	if kept[0].EventID != "ev3" || kept[1].EventID != "ev4" {
		t.Errorf("kept = %s, %s; want the at-threshold and above-threshold plays",
			kept[0].EventID, kept[1].EventID)
	}
}

func TestWatcherCycleAlertsNewPlays(t *testing.T) {
	finder := &fakeFinder{result: &models.PlayResult{
		Plays: []models.ValuePlay{
			hedgePlay("ev1", "Celtics", 2.5),
			hedgePlay("ev2", "Heat", 0.5),
		},
	}}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}

	w := New(watcherConfig(), finder, notifier, publisher)

	newCount, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if newCount != 1 {
		t.Errorf("newCount = %d, want 1 (the sub-margin play is filtered)", newCount)
	}
	if len(notifier.alerts) != 1 || notifier.alerts[0].EventID != "ev1" {
		t.Errorf("alerts = %+v, want one for ev1", notifier.alerts)
	}
	if len(publisher.plays) != 1 {
		t.Errorf("published %d plays, want 1", len(publisher.plays))
	}

	if finder.lastQuery.TargetBook != "draftkings" || finder.lastQuery.CompareBook != "novig" {
		t.Errorf("query books = %s vs %s, want config books",
			finder.lastQuery.TargetBook, finder.lastQuery.CompareBook)
	}
	if finder.lastQuery.MaxResults != 15 {
		t.Errorf("query MaxResults = %d, want 15", finder.lastQuery.MaxResults)
	}
}

func TestWatcherCycleDedupsRepeats(t *testing.T) {
	finder := &fakeFinder{result: &models.PlayResult{
		Plays: []models.ValuePlay{hedgePlay("ev1", "Celtics", 2.5)},
	}}
	notifier := &fakeNotifier{}

	w := New(watcherConfig(), finder, notifier, nil)

	if _, err := w.RunCycle(context.Background()); err != nil {
		t.Fatalf("first RunCycle() error = %v", err)
	}

	newCount, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second RunCycle() error = %v", err)
	}

	if newCount != 0 {
		t.Errorf("newCount = %d, want 0 on a repeat within the cooldown", newCount)
	}
	if len(notifier.alerts) != 1 {
		t.Errorf("alerts = %d, want 1 total across both cycles", len(notifier.alerts))
	}
}

func TestWatcherCooldownExpiryReAlerts(t *testing.T) {
	finder := &fakeFinder{result: &models.PlayResult{
		Plays: []models.ValuePlay{hedgePlay("ev1", "Celtics", 2.5)},
	}}
	notifier := &fakeNotifier{}

	w := New(watcherConfig(), finder, notifier, nil)

	current := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return current }

	if _, err := w.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	current = current.Add(61 * time.Minute)

	newCount, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if newCount != 1 {
		t.Errorf("newCount = %d, want 1 after the cooldown lapsed", newCount)
	}
	if len(notifier.alerts) != 2 {
		t.Errorf("alerts = %d, want 2", len(notifier.alerts))
	}
}

func TestWatcherCapsAlertsPerCycle(t *testing.T) {
	finder := &fakeFinder{result: &models.PlayResult{
		Plays: []models.ValuePlay{
			hedgePlay("ev1", "Celtics", 3.0),
			hedgePlay("ev2", "Heat", 2.5),
			hedgePlay("ev3", "Bucks", 2.0),
		},
	}}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}

	cfg := watcherConfig()
	cfg.MaxAlertsPerCycle = 1

	w := New(cfg, finder, notifier, publisher)

	newCount, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if newCount != 3 {
		t.Errorf("newCount = %d, want 3", newCount)
	}
	if len(notifier.alerts) != 1 {
		t.Errorf("alerts = %d, want the per-cycle cap of 1", len(notifier.alerts))
	}
	// The stream is not capped, every new play reaches subscribers
	if len(publisher.plays) != 3 {
		t.Errorf("published %d plays, want 3", len(publisher.plays))
	}
}

func TestWatcherPropagatesFinderErrors(t *testing.T) {
	finder := &fakeFinder{err: errors.New("provider down")}

	w := New(watcherConfig(), finder, &fakeNotifier{}, nil)

	if _, err := w.RunCycle(context.Background()); err == nil {
		t.Fatal("expected the finder error to surface")
	}
}

func TestSeenSetAlertOnceWithoutCooldown(t *testing.T) {
	s := newSeenSet(0)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	if !s.shouldAlert("k", now) {
		t.Fatal("first sighting should alert")
	}
	if s.shouldAlert("k", now.Add(1000*time.Hour)) {
		t.Error("zero cooldown means alert once, ever")
	}
}

func TestSeenSetSweepDropsExpired(t *testing.T) {
	s := newSeenSet(time.Minute)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	s.shouldAlert("old", now)
	s.shouldAlert("fresh", now.Add(50*time.Second))

	s.sweep(now.Add(90 * time.Second))

	if _, ok := s.entries["old"]; ok {
		t.Error("expired entry survived the sweep")
	}
	if _, ok := s.entries["fresh"]; !ok {
		t.Error("unexpired entry was swept")
	}
}
