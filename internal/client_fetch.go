package internal

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	oauthURL     = "https://api.onegov.nsw.gov.au/oauth/client_credential/accesstoken"
	pricesURL    = "https://api.onegov.nsw.gov.au/FuelPriceCheck/v2/fuel/prices"
	pricesState  = "TAS"
	requestStamp = "02/01/2006 03:04:05 PM"

	// Fallback token lifetime when the response omits expires_in; the token
	// is refreshed one minute before it would expire.
	defaultTokenLifetime = 43199 * time.Second
	tokenSafetyMargin    = time.Minute
)

// HTTPStatusError is returned when the remote server responds with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status response from %s: %s", e.URL, e.Status)
}

type FuelPricesClient interface {
	FetchPrices() (*models.PriceSnapshot, error)
	ForceTokenRefresh()
	TokenExpiry() *time.Time
}

type fuelPricesManager struct {
	apiKey    string
	apiSecret string
	client    *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewFuelPricesClient authenticates against the pricing API and returns a
// client that keeps its access token fresh across fetches.
func NewFuelPricesClient(apiKey, apiSecret string) (FuelPricesClient, error) {
	mgr := &fuelPricesManager{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    &http.Client{Timeout: 30 * time.Second},
	}

	if _, err := mgr.getAccessToken(); err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return mgr, nil
}

// ForceTokenRefresh discards the cached token; the next fetch re-authenticates.
func (mgr *fuelPricesManager) ForceTokenRefresh() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	log.Printf("forcing a refresh of the access token")
	mgr.accessToken = ""
	mgr.tokenExpiry = time.Time{}
}

// TokenExpiry returns when the current token expires, nil when no token is held.
func (mgr *fuelPricesManager) TokenExpiry() *time.Time {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if mgr.accessToken == "" {
		return nil
	}
	expiry := mgr.tokenExpiry
	return &expiry
}

func (mgr *fuelPricesManager) getAccessToken() (string, error) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if mgr.accessToken != "" && mgr.tokenExpiry.After(time.Now()) {
		return mgr.accessToken, nil
	}

	log.Printf("requesting new access token")
	req, err := http.NewRequest("GET", oauthURL+"?grant_type=client_credentials", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(mgr.apiKey, mgr.apiSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := mgr.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request token: %w", err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode > 299 {
		return "", &HTTPStatusError{URL: oauthURL, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	var token models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response carried no access_token")
	}

	lifetime := defaultTokenLifetime
	if token.ExpiresIn > 0 {
		lifetime = time.Duration(token.ExpiresIn) * time.Second
	}
	mgr.accessToken = token.AccessToken
	mgr.tokenExpiry = time.Now().Add(lifetime - tokenSafetyMargin)
	log.Printf("obtained new access token, expires %s", mgr.tokenExpiry.Format(time.RFC3339))

	return mgr.accessToken, nil
}

// FetchPrices retrieves the full station and price snapshot. A 401 from the
// prices endpoint drops the cached token and the fetch is retried once with a
// fresh one.
func (mgr *fuelPricesManager) FetchPrices() (*models.PriceSnapshot, error) {
	snap, err := mgr.fetchPricesOnce()
	var stErr *HTTPStatusError
	if errors.As(err, &stErr) && stErr.StatusCode == http.StatusUnauthorized {
		log.Printf("access token rejected by prices endpoint, re-authenticating")
		mgr.ForceTokenRefresh()
		snap, err = mgr.fetchPricesOnce()
	}
	return snap, err
}

func (mgr *fuelPricesManager) fetchPricesOnce() (*models.PriceSnapshot, error) {
	token, err := mgr.getAccessToken()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	url := pricesURL + "?states=" + pricesState
	log.Printf("GET %s", url)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("apikey", mgr.apiKey)
	req.Header.Set("transactionid", uuid.NewString())
	req.Header.Set("requesttimestamp", time.Now().UTC().Format(requestStamp))

	resp, err := mgr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: url, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	var snap models.PriceSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prices response: %w", err)
	}
	snap.FetchedAt = time.Now().UTC()
	log.Printf("fetched %d stations and %d price records", len(snap.Stations), len(snap.Prices))

	return &snap, nil
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		log.Printf("failed to close body: %v", err)
	}
}
