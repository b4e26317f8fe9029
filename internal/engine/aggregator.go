package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bsumme/odds-price-alert/internal/books"
	"github.com/bsumme/odds-price-alert/pkg/contracts"
	"github.com/bsumme/odds-price-alert/pkg/models"
)

// Aggregator fans one query out across every sport x market combination,
// collects value plays from each, and merges them into a single ranked
// result.
type Aggregator struct {
	provider contracts.OddsProvider
	parlay   ParlayPolicy
}

// NewAggregator creates an aggregator on top of an odds provider.
func NewAggregator(provider contracts.OddsProvider, parlay ParlayPolicy) *Aggregator {
	return &Aggregator{
		provider: provider,
		parlay:   parlay,
	}
}

type combination struct {
	sportKey string
	market   string
}

// FindBestPlays runs the full aggregation: one concurrent fetch+collect per
// sport x market combination, a single global re-sort, and a single global
// truncation. A failing combination is recorded as a diagnostic and never
// aborts the others.
func (a *Aggregator) FindBestPlays(ctx context.Context, query models.PlayQuery) (*models.PlayResult, error) {
	if len(query.SportKeys) == 0 {
		return nil, errors.New("no sport keys provided")
	}
	if len(query.Markets) == 0 {
		return nil, errors.New("no markets provided")
	}
	if _, ok := books.Lookup(query.TargetBook); !ok {
		return nil, &books.UnknownBookmakerError{Key: query.TargetBook}
	}
	if _, ok := books.Lookup(query.CompareBook); !ok {
		return nil, &books.UnknownBookmakerError{Key: query.CompareBook}
	}

	regions, err := books.ResolveRegions([]string{query.TargetBook, query.CompareBook})
	if err != nil {
		return nil, err
	}

	var combinations []combination
	for _, sportKey := range query.SportKeys {
		for _, market := range models.ExpandMarkets(sportKey, query.Markets) {
			combinations = append(combinations, combination{sportKey: sportKey, market: market})
		}
	}

	evaluatedAt := time.Now()
	bookKeys := []string{query.TargetBook, query.CompareBook}

	var (
		mu       sync.Mutex
		merged   []models.ValuePlay
		failures []models.CombinationError
	)

	var wg sync.WaitGroup
	for _, combo := range combinations {
		wg.Add(1)
		go func(combo combination) {
			defer wg.Done()

			snapshot, err := a.provider.FetchOdds(ctx, contracts.FetchRequest{
				SportKey: combo.sportKey,
				Markets:  []string{combo.market},
				Regions:  regions,
				Books:    bookKeys,
			})
			if err != nil {
				recordFailure(&mu, &failures, combo, err)
				return
			}

			plays, err := CollectValuePlays(snapshot, CollectParams{
				MarketKey:   combo.market,
				TargetBook:  query.TargetBook,
				CompareBook: query.CompareBook,
				EvaluatedAt: evaluatedAt,
			})
			if err != nil {
				recordFailure(&mu, &failures, combo, err)
				return
			}

			mu.Lock()
			merged = append(merged, plays...)
			mu.Unlock()
		}(combo)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	sortPlays(merged)
	if query.MaxResults > 0 && len(merged) > query.MaxResults {
		merged = merged[:query.MaxResults]
	}

	// Goroutine completion order is not deterministic; diagnostics are.
	sort.Slice(failures, func(i, j int) bool {
		if failures[i].SportKey != failures[j].SportKey {
			return failures[i].SportKey < failures[j].SportKey
		}
		return failures[i].Market < failures[j].Market
	})

	result := &models.PlayResult{
		TargetBook:  query.TargetBook,
		CompareBook: query.CompareBook,
		EvaluatedAt: evaluatedAt,
		Plays:       merged,
		Failures:    failures,
	}

	if query.IncludeSGP {
		result.SuggestedParlay = a.bestParlay(merged)
	}

	return result, nil
}

func recordFailure(mu *sync.Mutex, failures *[]models.CombinationError, combo combination, err error) {
	mu.Lock()
	defer mu.Unlock()
	*failures = append(*failures, models.CombinationError{
		SportKey: combo.sportKey,
		Market:   combo.market,
		Error:    err.Error(),
	})
}

// bestParlay groups the ranked plays by event and keeps the suggestion with
// the highest combined price. Ties go to the lexicographically smaller event
// id so responses stay deterministic.
func (a *Aggregator) bestParlay(plays []models.ValuePlay) *models.ParlaySuggestion {
	byEvent := make(map[string][]models.ValuePlay)
	for _, play := range plays {
		byEvent[play.EventID] = append(byEvent[play.EventID], play)
	}

	var best *models.ParlaySuggestion
	for eventID, eventPlays := range byEvent {
		suggestion := SuggestParlay(eventPlays, a.parlay)
		if suggestion == nil {
			continue
		}
		if best == nil ||
			suggestion.CombinedDecimal > best.CombinedDecimal ||
			(suggestion.CombinedDecimal == best.CombinedDecimal && eventID < best.EventID) {
			best = suggestion
		}
	}

	return best
}
