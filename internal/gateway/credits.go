package gateway

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
)

// SubscriptionRequestLimit is the monthly request quota of the current odds
// API plan, used as a floor when computing the display total.
const SubscriptionRequestLimit = 20000

// Credits is the usage summary served by the credits endpoint.
type Credits struct {
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	Total     int    `json:"total"`
	Display   string `json:"display"` // e.g. "1234/20000"
}

// CreditTracker accumulates quota usage from the x-requests-used and
// x-requests-remaining headers the odds API attaches to every response.
// Safe for concurrent use; recording never fails, responses without the
// headers just don't move the counters.
type CreditTracker struct {
	mu          sync.Mutex
	used        int
	remaining   int
	seenHeaders bool
	requests    int
}

func NewCreditTracker() *CreditTracker {
	return &CreditTracker{}
}

// RecordHeaders updates the counters from one response's headers.
func (t *CreditTracker) RecordHeaders(header http.Header) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requests++

	used, errUsed := strconv.Atoi(header.Get("x-requests-used"))
	remaining, errRemaining := strconv.Atoi(header.Get("x-requests-remaining"))
	if errUsed != nil || errRemaining != nil {
		return
	}

	t.used = used
	t.remaining = remaining
	t.seenHeaders = true
}

// RequestCount returns how many responses the tracker has seen, with or
// without usage headers.
func (t *CreditTracker) RequestCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requests
}

// Snapshot returns the current usage summary. The second return is false
// until at least one response carried usage headers.
func (t *CreditTracker) Snapshot() (Credits, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.seenHeaders {
		return Credits{}, false
	}

	total := t.used + t.remaining
	if total < SubscriptionRequestLimit {
		total = SubscriptionRequestLimit
	}
	remaining := total - t.used
	if t.remaining > remaining {
		remaining = t.remaining
	}

	return Credits{
		Used:      t.used,
		Remaining: remaining,
		Total:     total,
		Display:   fmt.Sprintf("%d/%d", t.used, total),
	}, true
}
