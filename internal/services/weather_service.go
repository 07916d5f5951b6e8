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

const weatherCacheTTL = 30 * time.Minute

type WeatherServiceInterface interface {
	CategoryFor(ctx context.Context, destination string) (string, error)
}

// WeatherClient resolves a destination to one of the coarse weather
// categories the ranker understands. Deployments without an API key keep
// working: every call reports ErrServiceNotConfigured and callers stick to
// request-supplied values.
type WeatherClient struct {
	HTTP    *http.Client
	APIKey  string
	BaseURL string
	Cache   mem.Store
	TTL     time.Duration
	log     *logger.Logger
}

func NewWeatherClient(cache mem.Store, log *logger.Logger) WeatherServiceInterface {
	return &WeatherClient{
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		APIKey:  os.Getenv("WEATHER_API_KEY"),
		BaseURL: getEnvWithDefault("WEATHER_API_URL", "https://api.openweathermap.org"),
		Cache:   cache,
		TTL:     weatherCacheTTL,
		log:     log.With("service", "weather"),
	}
}

func (c *WeatherClient) CategoryFor(ctx context.Context, destination string) (string, error) {
	if c.APIKey == "" {
		return "", utils.ErrServiceNotConfigured
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", utils.ErrInvalidInput
	}

	cacheKey := "weather:" + strings.ToLower(destination)
	if cached, ok := c.Cache.Get(cacheKey); ok {
		if category, ok := cached.(string); ok {
			return category, nil
		}
	}

	u, err := url.Parse(c.BaseURL + "/data/2.5/weather")
	if err != nil {
		return "", fmt.Errorf("weather url: %w", err)
	}
	q := u.Query()
	q.Set("q", destination)
	q.Set("appid", c.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", &httpx.BackendCallError{
			Provider:   "weather",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var payload struct {
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("weather decode: %w", err)
	}
	if len(payload.Weather) == 0 {
		return "", fmt.Errorf("weather response carried no conditions")
	}

	category := categorizeCondition(payload.Weather[0].Main)
	c.Cache.Set(cacheKey, category, c.TTL)
	return category, nil
}

// categorizeCondition folds provider condition names into the categories the
// tag tables know.
func categorizeCondition(main string) string {
	switch strings.ToLower(main) {
	case "rain", "drizzle", "thunderstorm":
		return "rainy"
	case "snow":
		return "cold"
	case "clear":
		return "sunny"
	case "clouds", "mist", "fog", "haze", "smoke", "dust":
		return "cloudy"
	default:
		return ""
	}
}

func getEnvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
