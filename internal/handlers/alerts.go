package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bsumme/odds-price-alert/internal/notify"
	"github.com/bsumme/odds-price-alert/pkg/models"
)

// SMSSender delivers one ad-hoc SMS message.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (*notify.SMSResult, error)
}

// Publisher pushes a play to stream subscribers.
type Publisher interface {
	Broadcast(play models.ValuePlay)
}

// AlertsHandler serves manual SMS delivery and the canned test alert
type AlertsHandler struct {
	sms SMSSender
	hub Publisher
}

// NewAlertsHandler creates an alerts handler. Either dependency may be nil
// when the deployment does not configure it.
func NewAlertsHandler(sms SMSSender, hub Publisher) *AlertsHandler {
	return &AlertsHandler{
		sms: sms,
		hub: hub,
	}
}

// SMSAlertRequest asks for one SMS to one phone number.
type SMSAlertRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SMSAlertResponse reports a delivered SMS. QuotaRemaining mirrors the
// textbelt field name so the frontend reads it unchanged.
type SMSAlertResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	QuotaRemaining int    `json:"quotaRemaining"`
}

// SendSMSAlert delivers a caller-provided message over SMS
func (h *AlertsHandler) SendSMSAlert(w http.ResponseWriter, r *http.Request) {
	var req SMSAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), nil)
		return
	}

	if req.Phone == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "phone and message are required", nil)
		return
	}

	if h.sms == nil {
		respondError(w, http.StatusBadRequest, notify.ErrSMSNotConfigured.Error(), nil)
		return
	}

	result, err := h.sms.SendSMS(r.Context(), req.Phone, req.Message)
	if err != nil {
		var delivery *notify.DeliveryError
		switch {
		case errors.Is(err, notify.ErrSMSNotConfigured), errors.Is(err, notify.ErrInvalidPhone):
			respondError(w, http.StatusBadRequest, err.Error(), nil)
		case errors.As(err, &delivery):
			respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to send SMS: %s", delivery.Reason), nil)
		default:
			respondError(w, http.StatusBadGateway, "error communicating with SMS provider", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, SMSAlertResponse{
		Success:        true,
		Message:        "SMS sent successfully",
		QuotaRemaining: result.QuotaRemaining,
	})
}

// TestArbitrageAlert returns a canned arbitrage play and pushes it through
// the alert stream, so SMS and WebSocket delivery can be exercised without
// waiting for a live edge
func (h *AlertsHandler) TestArbitrageAlert(w http.ResponseWriter, r *http.Request) {
	reverseName := "Warriors"
	reversePrice := 105
	margin := 2.5

	play := models.ValuePlay{
		SportKey:         "basketball_nba",
		EventID:          "test_arbitrage_001",
		Matchup:          "Lakers @ Warriors",
		StartTime:        time.Now().UTC().Add(24 * time.Hour),
		MarketKey:        "h2h",
		OutcomeName:      "Lakers",
		BookKey:          "draftkings",
		BookPrice:        -105,
		CompareBookKey:   "novig",
		ComparePrice:     -110,
		EVPercent:        2.5,
		ReverseName:      &reverseName,
		ReversePrice:     &reversePrice,
		ArbMarginPercent: &margin,
		IsArbitrage:      true,
	}

	if h.hub != nil {
		h.hub.Broadcast(play)
	}

	respondJSON(w, http.StatusOK, models.PlayResult{
		TargetBook:  "draftkings",
		CompareBook: "novig",
		EvaluatedAt: time.Now().UTC(),
		Plays:       []models.ValuePlay{play},
	})
}
