// Package horizon is the client for the Stellar Horizon API, covering the
// read and write operations the trading loop needs: order book, trade
// history, account balances, and offer submission. Calls are wrapped with the
// retry policy and fail over from the primary endpoint to the backup once a
// full retry cycle is exhausted.
package horizon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/swingbot/market"
	"github.com/rustyeddy/swingbot/retry"
)

const (
	// TestnetURL is the public Horizon instance for the Stellar test network.
	TestnetURL = "https://horizon-testnet.stellar.org"
	// PublicURL is the public Horizon instance for the live network.
	PublicURL = "https://horizon.stellar.org"

	// AmountPrecision is the number of decimal places Stellar amounts carry.
	AmountPrecision = 7
)

// FormatAmount renders an amount the way Horizon expects it, 7 decimal
// places.
func FormatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', AmountPrecision, 64)
}

// Client talks to an ordered list of Horizon endpoints. The first endpoint is
// the primary; later entries are backups tried after the current endpoint's
// retry budget is exhausted. The active endpoint is sticky across calls.
type Client struct {
	httpClient *http.Client
	policy     retry.Policy

	mu        sync.Mutex
	endpoints []string
	active    int
}

// NewClient builds a client over the given endpoints. At least one endpoint
// is required.
func NewClient(endpoints []string, policy retry.Policy, timeout time.Duration) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("horizon: at least one endpoint required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		policy:     policy,
		endpoints:  endpoints,
	}, nil
}

// Endpoint returns the endpoint the next call will target.
func (c *Client) Endpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoints[c.active]
}

func (c *Client) failover() {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.endpoints[c.active]
	c.active = (c.active + 1) % len(c.endpoints)
	log.Warn().Str("from", prev).Str("to", c.endpoints[c.active]).Msg("horizon endpoint failover")
}

// call runs one logical request with retries on the active endpoint, then
// once more per remaining endpoint, wrapping the list a single time.
// Permanent errors abort immediately.
func (c *Client) call(ctx context.Context, path string, query url.Values, form url.Values, out any) error {
	var err error
	for i := 0; i < len(c.endpoints); i++ {
		base := c.Endpoint()
		err = retry.Do(ctx, c.policy, func(ctx context.Context) error {
			return c.do(ctx, base, path, query, form, out)
		})
		if err == nil || retry.IsPermanent(err) || ctx.Err() != nil {
			return err
		}
		c.failover()
	}
	return err
}

// do performs a single physical HTTP attempt and classifies the outcome.
func (c *Client) do(ctx context.Context, base, path string, query url.Values, form url.Values, out any) error {
	apiURL := base + path
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	method := http.MethodGet
	var body io.Reader
	if form != nil {
		method = http.MethodPost
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failures (refused, reset, DNS, timeout) are
		// all retryable.
		return retry.Transient(fmt.Errorf("horizon %s: %w", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("horizon %s: status %d: %s", path, resp.StatusCode, payload)
		if resp.StatusCode >= 500 {
			return retry.Transient(err)
		}
		return retry.Permanent(err)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Permanent(fmt.Errorf("horizon %s: decode response: %w", path, err))
	}
	return nil
}

// assetQuery fills the selling/buying (or base/counter) asset parameters for
// the pair. The base asset is always the native asset.
func assetQuery(q url.Values, pair market.Pair, basePrefix, counterPrefix string) {
	q.Set(basePrefix+"_asset_type", "native")
	q.Set(counterPrefix+"_asset_type", "credit_alphanum4")
	q.Set(counterPrefix+"_asset_code", pair.CounterAsset)
	q.Set(counterPrefix+"_asset_issuer", pair.CounterIssuer)
}
