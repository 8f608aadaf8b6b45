// Package torn is the thin client for the Torn v2 API. It performs the
// single authenticated GET the watcher needs and decodes the response
// into the crimes model. Retries and backoff live in the HTTP client;
// callers just get a complete snapshot or an error.
package torn

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/tornwatch/tornwatch/pkg/crimes"
	"github.com/tornwatch/tornwatch/pkg/rotation"
)

const DefaultBaseURL = "https://api.torn.com/v2"

type Client struct {
	http    *retryablehttp.Client
	baseURL string
	keys    *rotation.Rotator
}

// NewClient builds a Torn API client that authenticates each call with
// the rotator's next key. Proxy is optional.
func NewClient(baseURL string, keys *rotation.Rotator, proxy string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 3
	retryClient.HTTPClient.Timeout = 30 * time.Second

	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %v", err)
		}
		retryClient.HTTPClient.Transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
	}

	return &Client{http: retryClient, baseURL: baseURL, keys: keys}, nil
}

// FetchCrimes pulls the faction's full crime list. The existing
// snapshot is never touched here: on any failure the caller keeps
// whatever it already has.
func (c *Client) FetchCrimes(ctx context.Context) (*crimes.Snapshot, error) {
	key, err := c.keys.Next()
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", c.baseURL+"/faction/crimes", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "ApiKey "+key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching crimes: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("torn API returned HTTP %d", resp.StatusCode)
	}

	// Torn reports API-level failures as 200s with an error object.
	if apiErr := gjson.GetBytes(body, "error"); apiErr.Exists() {
		return nil, fmt.Errorf("torn API error %d: %s",
			apiErr.Get("code").Int(), apiErr.Get("error").String())
	}

	return ParseSnapshot(body), nil
}

// ParseSnapshot decodes a /faction/crimes response body.
func ParseSnapshot(body []byte) *crimes.Snapshot {
	snap := &crimes.Snapshot{FetchedAt: time.Now().UTC()}
	for _, c := range gjson.GetBytes(body, "crimes").Array() {
		crime := crimes.Crime{
			ID:         c.Get("id").Int(),
			Name:       c.Get("name").String(),
			Difficulty: int(c.Get("difficulty").Int()),
			Status:     crimes.Status(c.Get("status").String()),
		}
		for _, s := range c.Get("slots").Array() {
			crime.Slots = append(crime.Slots, crimes.Slot{
				Position: s.Get("position").String(),
				UserID:   s.Get("user_id").Int(),
				CPR:      int(s.Get("checkpoint_pass_rate").Int()),
			})
		}
		snap.Crimes = append(snap.Crimes, crime)
	}
	return snap
}
