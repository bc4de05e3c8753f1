package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"moodmixserver.com/m/v2/internal/gateway"
)

const (
	defaultCatalogAPIURL  = "https://api.songcatalog.io/v1"
	defaultScrobbleAPIURL = "https://ws.audioscrobbler.com/2.0"

	limitMax = 50

	windowMax      = 50
	windowDuration = time.Minute
)

// Endpoint keys under which the gateway tracks rate-limit and retry
// state. One key per upstream operation.
const (
	keySimilarArtists = "catalog.similar-artists"
	keyTopTracks      = "catalog.top-tracks"
	keySearch         = "catalog.search"
	keyAudioFeatures  = "catalog.audio-features"
	keyTagTopArtists  = "catalog.tag-top-artists"
	keyArtistTags     = "tags.scrobble"
)

var (
	config         *Config
	configOnce     sync.Once
	configErr      error
	httpClient     *http.Client
	httpClientOnce sync.Once
)

type Config struct {
	ClientId       string
	ClientSecret   string
	ScrobbleAPIKey string
	TokenURL       string
}

func GetConfig() (*Config, error) {
	configOnce.Do(func() {
		config, configErr = loadConfig()
	})
	return config, configErr
}

func loadConfig() (*Config, error) {
	config := &Config{
		ClientId:       os.Getenv("CATALOG_CLIENT_ID"),
		ClientSecret:   os.Getenv("CATALOG_CLIENT_SECRET"),
		ScrobbleAPIKey: os.Getenv("SCROBBLE_API_KEY"),
		TokenURL:       os.Getenv("TOKEN_URL"),
	}

	if config.ClientId == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("CATALOG_CLIENT_ID and CATALOG_CLIENT_SECRET must be set")
	}

	return config, nil
}

func sharedHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		transport := &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		}
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		}
	})
	return httpClient
}

// Client talks to the catalog and scrobble upstreams. Every call is
// routed through the gateway: throttle, count against the window,
// perform the request, and on a throttled response consult the
// gateway's retry budget before looping.
type Client struct {
	gateway *gateway.Gateway
	http    *http.Client

	catalogAPIURL  string
	scrobbleAPIURL string
	scrobbleAPIKey string
}

func NewClient(gw *gateway.Gateway) (*Client, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}

	return &Client{
		gateway:        gw,
		http:           sharedHTTPClient(),
		catalogAPIURL:  defaultCatalogAPIURL,
		scrobbleAPIURL: defaultScrobbleAPIURL,
		scrobbleAPIKey: cfg.ScrobbleAPIKey,
	}, nil
}

func fetchJSON[T any](c *Client, key string, url string, token string) (*T, error) {
	for {
		if err := c.gateway.Throttle(context.Background(), key); err != nil {
			return nil, fmt.Errorf("throttle %s: %w", key, err)
		}
		c.gateway.CheckWindow(key, windowMax, windowDuration)

		req, err := http.NewRequest("GET", url, nil)
		if err != nil {
			logger.Error("Error creating HTTP request", zap.Error(err), zap.String("url", url))
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			logger.Error("Error making GET request", zap.Error(err), zap.String("url", url))
			return nil, err
		}

		if c.gateway.ShouldRetry(key, resp.StatusCode, resp.Header.Get("Retry-After")) {
			resp.Body.Close()
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, fmt.Errorf("endpoint %s: retry budget exhausted", key)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			logger.Error("Error response from upstream",
				zap.Int("statusCode", resp.StatusCode),
				zap.String("url", url))
			return nil, fmt.Errorf("server returned status code %d", resp.StatusCode)
		}

		var result T
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			resp.Body.Close()
			logger.Error("Error decoding upstream response body", zap.Error(err), zap.String("url", url))
			return nil, err
		}
		resp.Body.Close()

		return &result, nil
	}
}

// IsCatalogID reports whether id looks like a 22-character base62
// catalog identifier, as opposed to a display name.
func IsCatalogID(id string) bool {
	if len(id) != 22 {
		return false
	}
	for _, char := range id {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}
