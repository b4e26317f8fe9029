package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bsumme/odds-price-alert/internal/gateway"
)

// CreditSource reports odds API quota usage.
type CreditSource interface {
	Credits(ctx context.Context) (gateway.Credits, error)
}

// CreditsHandler serves the odds API quota endpoint
type CreditsHandler struct {
	source CreditSource
}

// NewCreditsHandler creates a credits handler
func NewCreditsHandler(source CreditSource) *CreditsHandler {
	return &CreditsHandler{source: source}
}

// GetCredits returns current quota usage. A failed lookup is not an error to
// the caller; the dashboard shows "unknown" for a null payload.
func (h *CreditsHandler) GetCredits(w http.ResponseWriter, r *http.Request) {
	credits, err := h.source.Credits(r.Context())
	if err != nil {
		fmt.Printf("⚠️  Credit lookup failed: %v\n", err)
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"api_credits": nil,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"api_credits": credits,
	})
}
