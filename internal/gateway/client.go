package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bsumme/odds-price-alert/pkg/models"
)

// DefaultBaseURL is The Odds API v4 root.
const DefaultBaseURL = "https://api.the-odds-api.com/v4"

// Client calls The Odds API. Every response feeds the credit tracker so
// quota usage stays observable no matter which endpoint consumed it.
type Client struct {
	// BaseURL may be pointed at a test server. NewClient sets the default.
	BaseURL string

	httpClient *http.Client
	apiKey     string
	credits    *CreditTracker
}

// NewClient creates an odds API client with a 15 second request timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiKey:  apiKey,
		credits: NewCreditTracker(),
	}
}

// Credits exposes the tracker fed by this client's responses.
func (c *Client) Credits() *CreditTracker {
	return c.credits
}

// FetchOdds calls /sports/{sport}/odds for featured markets (h2h, spreads,
// totals) and returns the provider events with per-book odds attached.
func (c *Client) FetchOdds(ctx context.Context, sportKey, regions, markets string, bookKeys []string) ([]models.Event, error) {
	query := c.baseQuery()
	query.Set("regions", regions)
	query.Set("markets", markets)
	query.Set("oddsFormat", "american")
	query.Set("bookmakers", strings.Join(bookKeys, ","))

	endpoint := fmt.Sprintf("%s/sports/%s/odds", c.BaseURL, url.PathEscape(sportKey))

	var events []models.Event
	if err := c.get(ctx, endpoint, query, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchEvents lists a sport's upcoming events without odds. The odds API
// serves player props only through per-event requests, so this is the first
// leg of every prop fetch.
func (c *Client) FetchEvents(ctx context.Context, sportKey string) ([]models.Event, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/events", c.BaseURL, url.PathEscape(sportKey))

	var events []models.Event
	if err := c.get(ctx, endpoint, c.baseQuery(), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchEventOdds calls /sports/{sport}/events/{event}/odds, the only route
// that accepts player prop market keys.
func (c *Client) FetchEventOdds(ctx context.Context, sportKey, eventID, regions, markets string, bookKeys []string) (*models.Event, error) {
	query := c.baseQuery()
	query.Set("regions", regions)
	query.Set("markets", markets)
	query.Set("oddsFormat", "american")
	query.Set("bookmakers", strings.Join(bookKeys, ","))

	endpoint := fmt.Sprintf("%s/sports/%s/events/%s/odds",
		c.BaseURL, url.PathEscape(sportKey), url.PathEscape(eventID))

	var event models.Event
	if err := c.get(ctx, endpoint, query, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// RefreshCredits makes the cheapest authenticated call (the sports list)
// purely to read fresh usage headers, and returns the updated summary.
func (c *Client) RefreshCredits(ctx context.Context) (Credits, error) {
	endpoint := c.BaseURL + "/sports"

	var sports []json.RawMessage
	if err := c.get(ctx, endpoint, c.baseQuery(), &sports); err != nil {
		return Credits{}, err
	}

	credits, ok := c.credits.Snapshot()
	if !ok {
		return Credits{}, fmt.Errorf("odds api response carried no usage headers")
	}
	return credits, nil
}

func (c *Client) baseQuery() url.Values {
	query := url.Values{}
	query.Set("apiKey", c.apiKey)
	return query
}

// get runs one GET, records credit headers, and decodes a 200 body into out.
// Transport failures and non-200 statuses come back as
// ProviderUnavailableError.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ProviderUnavailableError{Cause: err}
	}
	defer resp.Body.Close()

	c.credits.RecordHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &ProviderUnavailableError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderUnavailableError{Cause: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}
