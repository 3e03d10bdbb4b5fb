package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/beehouse-checkout/internal/obs"
	"github.com/noah-isme/beehouse-checkout/internal/resilience"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Doer sends an HTTP request. resilience.HTTPClient satisfies it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client queries a Nominatim-compatible /reverse endpoint.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      Doer
	Throttle  *Throttle
	Logger    zerolog.Logger
}

// NewClient builds a client with retries and a breaker around the given transport.
func NewClient(baseURL, userAgent string, timeout time.Duration, transport http.RoundTripper, throttle *Throttle, logger zerolog.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Throttle:  throttle,
		Logger:    logger,
		HTTP: resilience.HTTPClient{
			Client:      &http.Client{Transport: transport},
			Upstream:    "nominatim",
			Timeout:     timeout,
			MaxAttempts: 2,
			BaseBackoff: 200 * time.Millisecond,
			Jitter:      0.2,
			Breaker: resilience.NewBreaker(resilience.BreakerConfig{
				Upstream:     "nominatim",
				MinRequests:  5,
				FailureRatio: 0.5,
				OpenFor:      30 * time.Second,
				Logger:       logger,
			}),
		},
	}
}

type nominatimReply struct {
	DisplayName string `json:"display_name"`
	Address     *struct {
		Road   string `json:"road"`
		Suburb string `json:"suburb"`
		City   string `json:"city"`
		Town   string `json:"town"`
	} `json:"address"`
	Error string `json:"error"`
}

// Reverse looks up lat/lng. Every failure is reported as ErrUnavailable.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Address, error) {
	if err := CheckCoordinates(lat, lng); err != nil {
		return Address{}, err
	}
	start := time.Now()
	addr, result, err := c.reverse(ctx, lat, lng)
	obs.CountGeocode(result)
	obs.ObserveGeocode(result, obs.DurationMillis(time.Since(start)))
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return addr, nil
}

func (c *Client) reverse(ctx context.Context, lat, lng float64) (Address, string, error) {
	if c.Throttle != nil {
		if err := c.Throttle.Take(ctx); err != nil {
			return Address{}, "throttled", err
		}
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Address{}, "error", err
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return Address{}, "error", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return Address{}, "error", fmt.Errorf("unexpected status %s", resp.Status)
	}
	var reply nominatimReply
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&reply); err != nil {
		return Address{}, "error", fmt.Errorf("decode reply: %w", err)
	}
	if reply.Error != "" || reply.Address == nil {
		return Address{}, "empty", fmt.Errorf("no address for %v,%v", lat, lng)
	}
	return buildAddress(reply), "ok", nil
}

func buildAddress(reply nominatimReply) Address {
	a := reply.Address
	city := a.City
	if city == "" {
		city = a.Town
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Road, a.Suburb, city} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	text := strings.Join(parts, ", ")
	if text == "" {
		text = reply.DisplayName
	}
	return Address{Text: text, City: city, DisplayName: reply.DisplayName}
}
