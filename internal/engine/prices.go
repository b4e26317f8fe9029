package engine

import (
	"errors"
	"sort"
	"strings"

	"github.com/bsumme/odds-price-alert/internal/books"
	"github.com/bsumme/odds-price-alert/pkg/models"
	"github.com/bsumme/odds-price-alert/pkg/oddsmath"
)

// FindPrices answers a tracked-bet lookup: every quote for one side of one
// market across the requested books, with the best price flagged per event
// and, when the query names a target price, whether each quote meets it.
func FindPrices(snapshot *models.OddsSnapshot, query models.BetQuery) ([]models.BetPrice, error) {
	if snapshot == nil {
		return nil, errors.New("nil odds snapshot")
	}
	if query.OutcomeName == "" {
		return nil, errors.New("no outcome name provided")
	}

	marketKey := models.NormalizePropMarket(query.Market)
	kind, err := models.ParseMarketKind(marketKey)
	if err != nil {
		return nil, err
	}

	bookKeys := query.Books
	if len(bookKeys) == 0 {
		for _, book := range books.All() {
			bookKeys = append(bookKeys, book.Key)
		}
	}
	for _, key := range bookKeys {
		if _, ok := books.Lookup(key); !ok {
			return nil, &books.UnknownBookmakerError{Key: key}
		}
	}

	policy := kind.Policy()
	var quotes []models.BetPrice

	for i := range snapshot.Events {
		event := &snapshot.Events[i]
		var eventQuotes []models.BetPrice

		for _, bookKey := range bookKeys {
			bookmaker := event.Bookmaker(bookKey)
			if bookmaker == nil {
				continue
			}
			market := bookmaker.Market(marketKey)
			if market == nil {
				continue
			}

			for _, outcome := range filterOutcomes(market.Outcomes, kind, policy) {
				if !strings.EqualFold(outcome.Name, query.OutcomeName) {
					continue
				}
				if query.Point != nil && !oddsmath.PointsMatch(query.Point, outcome.Point) {
					continue
				}

				quote := models.BetPrice{
					EventID:   event.ID,
					Matchup:   event.Matchup(),
					StartTime: event.CommenceTime,
					BookKey:   bookKey,
					BookLabel: books.Label(bookKey),
					Price:     outcome.Price,
					Point:     outcome.Point,
				}
				if query.TargetPrice != nil {
					met := oddsmath.IsPriceOrBetter(outcome.Price, *query.TargetPrice)
					quote.TargetMet = &met
				}
				eventQuotes = append(eventQuotes, quote)
				break
			}
		}

		markBest(eventQuotes)
		quotes = append(quotes, eventQuotes...)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		if !quotes[i].StartTime.Equal(quotes[j].StartTime) {
			return quotes[i].StartTime.Before(quotes[j].StartTime)
		}
		if quotes[i].EventID != quotes[j].EventID {
			return quotes[i].EventID < quotes[j].EventID
		}
		return quotes[i].BookKey < quotes[j].BookKey
	})

	return quotes, nil
}

// markBest flags every quote in one event's group that ties the best price.
func markBest(quotes []models.BetPrice) {
	if len(quotes) == 0 {
		return
	}

	best := quotes[0].Price
	for _, quote := range quotes[1:] {
		if oddsmath.IsPriceOrBetter(quote.Price, best) {
			best = quote.Price
		}
	}
	for i := range quotes {
		quotes[i].Best = quotes[i].Price == best
	}
}
