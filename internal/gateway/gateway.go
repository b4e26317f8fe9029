// Package gateway fronts The Odds API for the rest of the service: one
// FetchOdds call hides the live client, the read-through cache, the player
// prop event fan-out, the synthetic data mode, and the replay capture.
// Downstream code only ever sees an OddsSnapshot.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bsumme/odds-price-alert/pkg/contracts"
	"github.com/bsumme/odds-price-alert/pkg/models"
)

// PropsEventWindowHours bounds the per-event prop fan-out: only events
// starting inside this window are worth the extra credit spend.
const PropsEventWindowHours = 48

// Gateway implements contracts.OddsProvider.
type Gateway struct {
	client   *Client
	cache    Cache
	replay   *ReplayLog
	useDummy bool
	now      func() time.Time
}

// New assembles a gateway. cache and replay may be nil; useDummy switches
// every fetch to the synthetic generator (no client calls, no caching, no
// capture).
func New(client *Client, cache Cache, replay *ReplayLog, useDummy bool) *Gateway {
	return &Gateway{
		client:   client,
		cache:    cache,
		replay:   replay,
		useDummy: useDummy,
		now:      time.Now,
	}
}

// FetchOdds returns a snapshot for one sport and market set. Live fetches
// are served read-through: cache hit, else upstream, then capture and store.
func (g *Gateway) FetchOdds(ctx context.Context, req contracts.FetchRequest) (*models.OddsSnapshot, error) {
	marketsParam := strings.Join(req.Markets, ",")

	if g.useDummy {
		return g.snapshot(req, g.dummyEvents(req, marketsParam)), nil
	}

	key := cacheKey(req.SportKey, marketsParam, req.Regions, req.Books)
	if g.cache != nil {
		if snapshot, ok := g.cache.Get(ctx, key); ok {
			return snapshot, nil
		}
	}

	var (
		events []models.Event
		err    error
	)
	if anyPropMarket(req.Markets) {
		events, err = g.fetchPropEvents(ctx, req, marketsParam)
	} else {
		events, err = g.client.FetchOdds(ctx, req.SportKey, req.Regions, marketsParam, req.Books)
	}
	if err != nil {
		return nil, err
	}

	if g.replay != nil {
		g.replay.Record(req, events)
	}

	snapshot := g.snapshot(req, events)
	if g.cache != nil {
		g.cache.Set(ctx, key, snapshot)
	}
	return snapshot, nil
}

// Credits reports quota usage accumulated by the underlying client.
func (g *Gateway) Credits(ctx context.Context) (Credits, error) {
	if g.useDummy || g.client == nil {
		return Credits{}, errors.New("credit tracking unavailable in dummy data mode")
	}

	if credits, ok := g.client.Credits().Snapshot(); ok {
		return credits, nil
	}
	// No request has carried headers yet; spend one cheap call.
	return g.client.RefreshCredits(ctx)
}

func (g *Gateway) snapshot(req contracts.FetchRequest, events []models.Event) *models.OddsSnapshot {
	return &models.OddsSnapshot{
		ID:        uuid.NewString(),
		SportKey:  req.SportKey,
		Markets:   req.Markets,
		Regions:   req.Regions,
		Books:     req.Books,
		FetchedAt: g.now(),
		Events:    events,
	}
}

func (g *Gateway) dummyEvents(req contracts.FetchRequest, marketsParam string) []models.Event {
	if anyPropMarket(req.Markets) {
		return GenerateDummyProps(req.SportKey, req.Markets, req.Books, g.now())
	}
	return GenerateDummyOdds(req.SportKey, marketsParam, req.Books, g.now())
}

// fetchPropEvents is the player prop path: list the sport's events, keep the
// upcoming window, then fetch odds per event. A 422 means the event does not
// offer the requested markets and is skipped; other failures abort the
// combination.
func (g *Gateway) fetchPropEvents(ctx context.Context, req contracts.FetchRequest, marketsParam string) ([]models.Event, error) {
	listed, err := g.client.FetchEvents(ctx, req.SportKey)
	if err != nil {
		return nil, err
	}

	upcoming := filterEventsWithinHours(listed, PropsEventWindowHours, g.now())
	merged := make([]models.Event, 0, len(upcoming))

	for _, event := range upcoming {
		if event.ID == "" {
			continue
		}

		withOdds, err := g.client.FetchEventOdds(ctx, req.SportKey, event.ID, req.Regions, marketsParam, req.Books)
		if err != nil {
			var unavailable *ProviderUnavailableError
			if errors.As(err, &unavailable) && unavailable.Status == http.StatusUnprocessableEntity {
				fmt.Printf("⚠️  Event %s does not offer markets %s, skipping\n", event.ID, marketsParam)
				continue
			}
			return nil, err
		}

		if len(withOdds.Bookmakers) > 0 {
			merged = append(merged, *withOdds)
		}
	}

	return merged, nil
}

func anyPropMarket(markets []string) bool {
	for _, market := range markets {
		if strings.HasPrefix(models.NormalizePropMarket(market), "player_") {
			return true
		}
	}
	return false
}

// filterEventsWithinHours keeps events starting between now and now+hours.
func filterEventsWithinHours(events []models.Event, hours int, now time.Time) []models.Event {
	cutoff := now.Add(time.Duration(hours) * time.Hour)

	kept := make([]models.Event, 0, len(events))
	for _, event := range events {
		if event.CommenceTime.IsZero() {
			continue
		}
		if event.CommenceTime.Before(now) || event.CommenceTime.After(cutoff) {
			continue
		}
		kept = append(kept, event)
	}
	return kept
}
