// Package mcstatus queries the mcsrvstat.us public API for a single
// Minecraft server address.
package mcstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the v3 endpoint of the public status API.
	DefaultBaseURL = "https://api.mcsrvstat.us/3"

	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "mc-status-bot/1.0"
)

// Player is one entry of players.list.
type Player struct {
	Name string `json:"name"`
}

// Players mirrors the players object of the API response.
type Players struct {
	Online int      `json:"online"`
	Max    int      `json:"max"`
	List   []Player `json:"list"`
}

// Status is a single snapshot of the server as reported by the API.
// Fields absent from the response keep their zero value.
type Status struct {
	Online   bool    `json:"online"`
	Hostname string  `json:"hostname"`
	Version  string  `json:"version"`
	Players  Players `json:"players"`
}

// PlayerNames returns the names in listing order. Entries without a name
// are reported as "Unknown".
func (s *Status) PlayerNames() []string {
	names := make([]string, 0, len(s.Players.List))
	for _, p := range s.Players.List {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = "Unknown"
		}
		names = append(names, name)
	}
	return names
}

// Client fetches the status of one fixed address.
type Client struct {
	baseURL    string
	address    string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests, mirrors).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger attaches a logger for transient failures.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for address. The default HTTP client has a
// finite timeout so a stalled API never blocks a poll cycle forever.
func NewClient(address string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		address:   strings.TrimSpace(address),
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Address returns the server address being queried.
func (c *Client) Address() string { return c.address }

// Fetch performs one request with no retry. A nil result means the status
// is unknown for this cycle; the cause has already been logged.
func (c *Client) Fetch(ctx context.Context) *Status {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("failed to build status request")
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("address", c.address).Msg("error checking minecraft server status")
		return nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		c.logger.Debug().Str("address", c.address).Msg("status api returned 404")
		return nil
	default:
		c.logger.Warn().
			Int("status_code", resp.StatusCode).
			Str("address", c.address).
			Msg("unexpected response from status api")
		return nil
	}

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		c.logger.Error().Err(err).Str("address", c.address).Msg("failed to decode status response")
		return nil
	}
	return &st
}
