package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

type secretTokenResponse struct {
	Token     string `json:"access_token"`
	ExpiresMs int64  `json:"expiration"`
}

// Cache structure holding token, expiration, and mutex
var tokenCache struct {
	sync.RWMutex
	token            string
	expiresAt        time.Time
	lastFetchAttempt time.Time
	fetchErr         error
}

// expirationBuffer defines how close to expiration we trigger a refresh.
const expirationBuffer = 60 * time.Second

// retryCooldown defines minimum time before retrying after a failed fetch
const retryCooldown = 15 * time.Second

func fetchNewToken() (string, time.Time, error) {
	cfg, err := GetConfig()
	if err != nil {
		return "", time.Time{}, err
	}
	if cfg.TokenURL == "" {
		return "", time.Time{}, errors.New("TOKEN_URL environment variable not set")
	}
	url := cfg.TokenURL + "/token"

	client := http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Add("Accept", "application/json")
	req.SetBasicAuth(cfg.ClientId, cfg.ClientSecret)

	resp, err := client.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to execute request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read response body (status %d) from %s: %w", resp.StatusCode, url, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("received non-OK status code %d (%s) from %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), url)
	}

	var result secretTokenResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to unmarshal token JSON response from %s: %w", url, err)
	}
	if result.Token == "" {
		return "", time.Time{}, fmt.Errorf("parsed access token is empty in response from %s", url)
	}
	if result.ExpiresMs <= 0 {
		return "", time.Time{}, fmt.Errorf("invalid expiration timestamp %d received from %s", result.ExpiresMs, url)
	}

	expirationTime := time.UnixMilli(result.ExpiresMs)

	logger.Debug("Fetched new catalog token", zap.Time("expires", expirationTime))
	return result.Token, expirationTime, nil
}

func getSecretToken() (string, error) {
	now := time.Now()

	// Fast path: check cache with read lock.
	tokenCache.RLock()
	if tokenCache.token != "" && now.Before(tokenCache.expiresAt.Add(-expirationBuffer)) {
		token := tokenCache.token
		tokenCache.RUnlock()
		return token, nil
	}
	tokenCache.RUnlock()

	tokenCache.Lock()
	defer tokenCache.Unlock()

	// Another goroutine might have refreshed the token while we
	// waited for the write lock.
	now = time.Now()
	if tokenCache.token != "" && now.Before(tokenCache.expiresAt.Add(-expirationBuffer)) {
		return tokenCache.token, nil
	}

	if tokenCache.fetchErr != nil && now.Before(tokenCache.lastFetchAttempt.Add(retryCooldown)) {
		return "", fmt.Errorf("token refresh failed recently, try again after %v: %w", retryCooldown, tokenCache.fetchErr)
	}

	newToken, newExpiresAt, err := fetchNewToken()
	tokenCache.lastFetchAttempt = time.Now()

	if err != nil {
		logger.Error("Failed to fetch new catalog token", zap.Error(err))
		tokenCache.fetchErr = err
		return "", err
	}

	tokenCache.token = newToken
	tokenCache.expiresAt = newExpiresAt
	tokenCache.fetchErr = nil

	return tokenCache.token, nil
}
