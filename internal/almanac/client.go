package almanac

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"panchangreel/internal/config"
	"panchangreel/internal/logging"
	"panchangreel/internal/services"
)

const stageName = "fetch"

var (
	// ErrRateLimited is returned when the API answers 429.
	ErrRateLimited = errors.New("rate limit exceeded, throttle your requests")
	// ErrQuotaExceeded is returned when the API answers 402.
	ErrQuotaExceeded = errors.New("daily quota allocation exceeded")
	// ErrUnauthorized is returned when the token or API call is rejected.
	ErrUnauthorized = errors.New("authentication failed")
)

// Fetcher retrieves the almanac for a moment in time.
type Fetcher interface {
	Fetch(ctx context.Context, at time.Time) (Day, error)
}

// Client talks to the Prokerala astrology API using client credentials.
type Client struct {
	baseURL     string
	coordinates string
	timezone    string
	ayanamsa    int
	language    string
	oauth       clientcredentials.Config
	httpClient  *http.Client
	logger      *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for both token and API
// requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client from the almanac configuration section.
func New(cfg config.Almanac, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "create client", "almanac client_id and client_secret are required", nil)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "create client", "almanac base_url is required", nil)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		baseURL:     baseURL,
		coordinates: formatCoordinate(cfg.Latitude) + "," + formatCoordinate(cfg.Longitude),
		timezone:    cfg.Timezone,
		ayanamsa:    cfg.Ayanamsa,
		language:    cfg.Language,
		oauth: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "almanac")
	return client, nil
}

// Fetch retrieves the panchang, auspicious and inauspicious periods for at
// and formats them into a Day. The date fields come from at itself.
func (c *Client) Fetch(ctx context.Context, at time.Time) (Day, error) {
	ctx = services.WithStage(ctx, stageName)
	httpClient := c.oauth.Client(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
	datetime := at.Format(time.RFC3339)

	var panchang panchangData
	if err := c.get(ctx, httpClient, "panchang", datetime, &panchang); err != nil {
		return Day{}, err
	}
	var good, bad muhuratData
	if err := c.get(ctx, httpClient, "auspicious-period", datetime, &good); err != nil {
		return Day{}, err
	}
	if err := c.get(ctx, httpClient, "inauspicious-period", datetime, &bad); err != nil {
		return Day{}, err
	}
	return buildDay(at, panchang, good, bad), nil
}

func (c *Client) get(ctx context.Context, httpClient *http.Client, endpoint, datetime string, out any) error {
	params := url.Values{}
	params.Set("datetime", datetime)
	params.Set("coordinates", c.coordinates)
	params.Set("ayanamsa", strconv.Itoa(c.ayanamsa))
	if c.timezone != "" {
		params.Set("timezone", c.timezone)
	}
	if c.language != "" {
		params.Set("la", c.language)
	}
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return classify("token", retrieveErr.Response.StatusCode, retrieveErr.Body)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, stageName, endpoint, fmt.Sprintf("latency=%v", latency), err)
		}
		return services.Wrap(services.ErrTransient, stageName, endpoint, "request failed", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("almanac request",
		logging.String("endpoint", endpoint),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classify(endpoint, resp.StatusCode, body)
	}

	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return services.Wrap(services.ErrExternalTool, stageName, endpoint, "decode response", err)
	}
	if len(envelope.Data) == 0 {
		return services.Wrap(services.ErrExternalTool, stageName, endpoint, "response has no data", nil)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return services.Wrap(services.ErrExternalTool, stageName, endpoint, "decode data", err)
	}
	return nil
}

func classify(endpoint string, status int, body []byte) error {
	switch status {
	case http.StatusTooManyRequests:
		return services.Wrap(services.ErrTransient, stageName, endpoint, "", ErrRateLimited)
	case http.StatusPaymentRequired:
		return services.Wrap(services.ErrExternalTool, stageName, endpoint, "", ErrQuotaExceeded)
	case http.StatusUnauthorized:
		return services.Wrap(services.ErrConfiguration, stageName, endpoint, strings.TrimSpace(string(body)), ErrUnauthorized)
	default:
		return services.Wrap(services.ErrExternalTool, stageName, endpoint,
			fmt.Sprintf("status %d: %s", status, strings.TrimSpace(string(body))), nil)
	}
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
