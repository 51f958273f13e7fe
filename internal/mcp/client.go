// Package mcp fetches raw transaction payloads from the data server or a
// directory laid out like its test data.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/finsight-dev/finsight/internal/logger"
)

// Payload endpoints, relative to the API base path.
const (
	BasePath          = "/api"
	EndpointBank      = "bank_transactions"
	EndpointMF        = "mf_transactions"
	EndpointStock     = "stock_transactions"
	SessionCookieName = "sessionid"
)

// ErrUnexpectedStatus is returned when the server answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected http status code")

// Fetcher returns the raw bank, mutual fund, and stock payloads for a session.
type Fetcher interface {
	BankTransactions(ctx context.Context, session string) ([]byte, error)
	MFTransactions(ctx context.Context, session string) ([]byte, error)
	StockTransactions(ctx context.Context, session string) ([]byte, error)
}

// Client reads payloads from the data server over HTTP.
type Client struct {
	HTTPClient *http.Client
	BaseURL    *url.URL
}

// NewClient creates a Client for baseURL. A zero timeout leaves the HTTP
// client without one.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    u,
	}, nil
}

func (c *Client) BankTransactions(ctx context.Context, session string) ([]byte, error) {
	return c.get(ctx, EndpointBank, session)
}

func (c *Client) MFTransactions(ctx context.Context, session string) ([]byte, error) {
	return c.get(ctx, EndpointMF, session)
}

func (c *Client) StockTransactions(ctx context.Context, session string) ([]byte, error) {
	return c.get(ctx, EndpointStock, session)
}

func (c *Client) get(ctx context.Context, endpoint, session string) ([]byte, error) {
	u := c.BaseURL.JoinPath(BasePath, endpoint)
	log := logger.Component(logger.FromContext(ctx), "mcp")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session})

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("fetched payload")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %w, %d", endpoint, ErrUnexpectedStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s body: %w", endpoint, err)
	}
	return body, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// New returns a Client when baseURL is set, otherwise a DirSource over dataDir.
func New(baseURL, dataDir string, timeout time.Duration) (Fetcher, error) {
	if baseURL != "" {
		return NewClient(baseURL, timeout)
	}
	return DirSource{Dir: dataDir}, nil
}
