// Package handlers is the HTTP surface: play discovery, odds lookups, credit
// status, alert delivery, and the WebSocket alert stream. Handlers translate
// between JSON envelopes and the engine; no odds math happens here.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bsumme/odds-price-alert/internal/books"
	"github.com/bsumme/odds-price-alert/internal/engine"
	"github.com/bsumme/odds-price-alert/internal/gateway"
	"github.com/bsumme/odds-price-alert/pkg/contracts"
	"github.com/bsumme/odds-price-alert/pkg/models"
)

// PlayFinder is the aggregation entry point the handler calls.
type PlayFinder interface {
	FindBestPlays(ctx context.Context, query models.PlayQuery) (*models.PlayResult, error)
}

// Handler contains dependencies for the core odds endpoints
type Handler struct {
	provider contracts.OddsProvider
	finder   PlayFinder
}

// NewHandler creates a new handler with dependencies
func NewHandler(provider contracts.OddsProvider, finder PlayFinder) *Handler {
	return &Handler{
		provider: provider,
		finder:   finder,
	}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "odds-price-alert",
		"timestamp": time.Now().UTC(),
	})
}

// ValuePlaysRequest asks for plays in a single sport and market.
type ValuePlaysRequest struct {
	SportKey    string `json:"sport_key"`
	Market      string `json:"market"`
	TargetBook  string `json:"target_book"`
	CompareBook string `json:"compare_book"`
}

// ValuePlaysResponse carries the plays for one sport and market.
type ValuePlaysResponse struct {
	TargetBook  string             `json:"target_book"`
	CompareBook string             `json:"compare_book"`
	Market      string             `json:"market"`
	Plays       []models.ValuePlay `json:"plays"`
}

// GetValuePlays runs a single sport x market collection pass
func (h *Handler) GetValuePlays(w http.ResponseWriter, r *http.Request) {
	var req ValuePlaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), nil)
		return
	}

	if req.SportKey == "" || req.Market == "" || req.TargetBook == "" {
		respondError(w, http.StatusBadRequest, "sport_key, market, and target_book are required", nil)
		return
	}
	if req.CompareBook == "" {
		req.CompareBook = books.DefaultCompareBook
	}
	if req.TargetBook == req.CompareBook {
		respondError(w, http.StatusBadRequest, "target book and comparison book cannot be the same", nil)
		return
	}

	market := models.NormalizePropMarket(req.Market)
	bookKeys := []string{req.TargetBook, req.CompareBook}

	regions, err := books.ResolveRegions(bookKeys)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	snapshot, err := h.provider.FetchOdds(r.Context(), contracts.FetchRequest{
		SportKey: req.SportKey,
		Markets:  []string{market},
		Regions:  regions,
		Books:    bookKeys,
	})
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	plays, err := engine.CollectValuePlays(snapshot, engine.CollectParams{
		MarketKey:   market,
		TargetBook:  req.TargetBook,
		CompareBook: req.CompareBook,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if plays == nil {
		plays = []models.ValuePlay{}
	}

	respondJSON(w, http.StatusOK, ValuePlaysResponse{
		TargetBook:  req.TargetBook,
		CompareBook: req.CompareBook,
		Market:      market,
		Plays:       plays,
	})
}

// BestValuePlaysRequest drives a full aggregation across sports and markets.
type BestValuePlaysRequest struct {
	SportKeys   []string `json:"sport_keys"`
	Markets     []string `json:"markets"`
	TargetBook  string   `json:"target_book"`
	CompareBook string   `json:"compare_book"`
	MaxResults  *int     `json:"max_results,omitempty"`
	IncludeSGP  bool     `json:"include_sgp"`
}

// defaultMaxResults caps a best-value response when the request does not say.
const defaultMaxResults = 50

// GetBestValuePlays runs the aggregator across every requested sport and
// market combination
func (h *Handler) GetBestValuePlays(w http.ResponseWriter, r *http.Request) {
	var req BestValuePlaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), nil)
		return
	}

	if req.CompareBook == "" {
		req.CompareBook = books.DefaultCompareBook
	}
	if req.TargetBook == req.CompareBook {
		respondError(w, http.StatusBadRequest, "target book and comparison book cannot be the same", nil)
		return
	}

	maxResults := defaultMaxResults
	if req.MaxResults != nil {
		if *req.MaxResults <= 0 {
			respondError(w, http.StatusBadRequest, "max_results must be positive", nil)
			return
		}
		maxResults = *req.MaxResults
	}

	result, err := h.finder.FindBestPlays(r.Context(), models.PlayQuery{
		SportKeys:   req.SportKeys,
		Markets:     req.Markets,
		TargetBook:  req.TargetBook,
		CompareBook: req.CompareBook,
		MaxResults:  maxResults,
		IncludeSGP:  req.IncludeSGP,
	})
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if result.Plays == nil {
		result.Plays = []models.ValuePlay{}
	}

	respondJSON(w, http.StatusOK, result)
}

// GetOdds returns every requested book's current price for one side
func (h *Handler) GetOdds(w http.ResponseWriter, r *http.Request) {
	var query models.BetQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), nil)
		return
	}

	if query.SportKey == "" || query.Market == "" || query.OutcomeName == "" {
		respondError(w, http.StatusBadRequest, "sport_key, market, and outcome_name are required", nil)
		return
	}

	if len(query.Books) == 0 {
		for _, book := range books.All() {
			query.Books = append(query.Books, book.Key)
		}
	}

	regions, err := books.ResolveRegions(query.Books)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	market := models.NormalizePropMarket(query.Market)

	snapshot, err := h.provider.FetchOdds(r.Context(), contracts.FetchRequest{
		SportKey: query.SportKey,
		Markets:  []string{market},
		Regions:  regions,
		Books:    query.Books,
	})
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	prices, err := engine.FindPrices(snapshot, query)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if prices == nil {
		prices = []models.BetPrice{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"prices": prices,
		"count":  len(prices),
	})
}

// GetBooks returns the bookmaker registry
func (h *Handler) GetBooks(w http.ResponseWriter, r *http.Request) {
	registered := books.All()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"books": registered,
		"count": len(registered),
	})
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// respondUpstreamError maps engine and provider failures onto statuses:
// caller mistakes are 400, provider trouble is 502.
func respondUpstreamError(w http.ResponseWriter, err error) {
	var unknownBook *books.UnknownBookmakerError
	if errors.As(err, &unknownBook) {
		respondError(w, http.StatusBadRequest, unknownBook.Error(), nil)
		return
	}

	var unavailable *gateway.ProviderUnavailableError
	if errors.As(err, &unavailable) {
		respondError(w, http.StatusBadGateway, "odds provider unavailable", err)
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusServiceUnavailable, "request canceled", err)
		return
	}

	respondError(w, http.StatusBadRequest, err.Error(), nil)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		fmt.Printf("error encoding error response: %v\n", err)
	}
}
