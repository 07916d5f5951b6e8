package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"voyago/pkg/httpx"
	"voyago/pkg/logger"
	mem "voyago/pkg/memcache"
	"voyago/pkg/utils"
)

const crowdCacheTTL = 10 * time.Minute

// CrowdSignal is the live congestion snapshot the ranker consumes.
type CrowdSignal struct {
	TrafficLevel string
	CrowdedNow   bool
}

type CrowdServiceInterface interface {
	CurrentSignal(ctx context.Context, destination string) (CrowdSignal, error)
}

// CrowdClient is optional in the same way the weather client is: without a
// configured endpoint every call reports ErrServiceNotConfigured and the
// pipeline treats the destination as not crowded.
type CrowdClient struct {
	HTTP    *http.Client
	BaseURL string
	Token   string
	Cache   mem.Store
	TTL     time.Duration
	log     *logger.Logger
}

func NewCrowdClient(cache mem.Store, log *logger.Logger) CrowdServiceInterface {
	return &CrowdClient{
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		BaseURL: os.Getenv("CROWD_API_URL"),
		Token:   os.Getenv("CROWD_API_TOKEN"),
		Cache:   cache,
		TTL:     crowdCacheTTL,
		log:     log.With("service", "crowd"),
	}
}

func (c *CrowdClient) CurrentSignal(ctx context.Context, destination string) (CrowdSignal, error) {
	if c.BaseURL == "" {
		return CrowdSignal{}, utils.ErrServiceNotConfigured
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return CrowdSignal{}, utils.ErrInvalidInput
	}

	cacheKey := "crowd:" + strings.ToLower(destination)
	if cached, ok := c.Cache.Get(cacheKey); ok {
		if signal, ok := cached.(CrowdSignal); ok {
			return signal, nil
		}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return CrowdSignal{}, fmt.Errorf("crowd url: %w", err)
	}
	q := u.Query()
	q.Set("destination", destination)
	if c.Token != "" {
		q.Set("access_token", c.Token)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return CrowdSignal{}, fmt.Errorf("crowd request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return CrowdSignal{}, fmt.Errorf("crowd http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return CrowdSignal{}, &httpx.BackendCallError{
			Provider:   "crowd",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var payload struct {
		TrafficLevel string `json:"traffic_level"`
		Crowded      bool   `json:"crowded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return CrowdSignal{}, fmt.Errorf("crowd decode: %w", err)
	}

	signal := CrowdSignal{TrafficLevel: payload.TrafficLevel, CrowdedNow: payload.Crowded}
	c.Cache.Set(cacheKey, signal, c.TTL)
	return signal, nil
}
