package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTextbeltURL is the production Textbelt endpoint.
const DefaultTextbeltURL = "https://textbelt.com/text"

var (
	// ErrSMSNotConfigured means no Textbelt API key was provided.
	ErrSMSNotConfigured = errors.New("textbelt API key not configured, set TEXTBELT_API_KEY")

	// ErrInvalidPhone means the number did not survive digit cleanup.
	ErrInvalidPhone = errors.New("invalid phone number")
)

// DeliveryError is Textbelt accepting the request but refusing the message
// (bad number, quota exhausted, content rejected).
type DeliveryError struct {
	Reason string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("textbelt refused message: %s", e.Reason)
}

// SMSResult reports a delivered message.
type SMSResult struct {
	QuotaRemaining int `json:"quotaRemaining"`
}

type textbeltResponse struct {
	Success        bool   `json:"success"`
	QuotaRemaining int    `json:"quotaRemaining"`
	Error          string `json:"error"`
}

// TextbeltNotifier sends SMS alerts through the Textbelt HTTP API.
type TextbeltNotifier struct {
	// BaseURL is overridable in tests.
	BaseURL string

	apiKey     string
	phone      string
	httpClient *http.Client
}

// NewTextbeltNotifier creates an SMS notifier. The phone is the default
// destination for watcher alerts; ad-hoc sends may name their own.
func NewTextbeltNotifier(apiKey, phone string) *TextbeltNotifier {
	return &TextbeltNotifier{
		BaseURL: DefaultTextbeltURL,
		apiKey:  apiKey,
		phone:   phone,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Notify sends the alert to the notifier's configured phone.
func (t *TextbeltNotifier) Notify(ctx context.Context, alert Alert) error {
	_, err := t.SendSMS(ctx, t.phone, alert.Message())
	return err
}

// SendSMS delivers one message to one phone number. The number may carry a
// leading + and any punctuation; Textbelt wants bare digits.
func (t *TextbeltNotifier) SendSMS(ctx context.Context, phone, message string) (*SMSResult, error) {
	if t.apiKey == "" {
		return nil, ErrSMSNotConfigured
	}

	cleaned, err := CleanPhone(phone)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	form := url.Values{}
	form.Set("phone", cleaned)
	form.Set("message", message)
	form.Set("key", t.apiKey)

	req, err := http.NewRequestWithContext(ctx, "POST", t.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("textbelt request failed: %w", err)
	}
	defer resp.Body.Close()

	var result textbeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode textbelt response: %w", err)
	}

	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, &DeliveryError{Reason: reason}
	}

	latency := time.Since(startTime).Milliseconds()
	fmt.Printf("✓ SMS alert sent: phone=%s quota=%d latency=%dms\n",
		maskPhone(cleaned), result.QuotaRemaining, latency)

	return &SMSResult{QuotaRemaining: result.QuotaRemaining}, nil
}

// CleanPhone strips a phone number down to the bare digits Textbelt expects.
// Anything under 10 digits is rejected.
func CleanPhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "+")

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	cleaned := digits.String()
	if len(cleaned) < 10 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return cleaned, nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "***" + phone[len(phone)-4:]
}
