package internal

import (
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	memoize "github.com/kofalt/go-memoize"

	"github.com/ziogref/tas-fuel-prices-api/internal/engine"
	"github.com/ziogref/tas-fuel-prices-api/internal/models"
)

const overlayRepoBase = "https://raw.githubusercontent.com/ziogref/tas-fuel-data/main"
const overlayContentsBase = "https://api.github.com/repos/ziogref/tas-fuel-data/contents"

// Community list sources. Every provider here is normalised into the overlay
// snapshot whether or not a discount rule consumes it.
var overlayListURLs = map[string]string{
	"woolworths":     overlayRepoBase + "/discounts/woolworths.txt",
	"coles":          overlayRepoBase + "/discounts/coles.txt",
	"ract":           overlayRepoBase + "/discounts/ract.txt",
	"united":         overlayRepoBase + "/discounts/united.txt",
	"tyre_inflation": overlayRepoBase + "/amenities/tyre_inflation.txt",
}

const (
	distributorsURL = overlayContentsBase + "/distributors"
	operatorsURL    = overlayContentsBase + "/operators"
)

// Headers ensuring the raw-file host never serves a cached copy.
var cacheBustingHeaders = map[string]string{
	"Cache-Control": "no-cache, no-store, must-revalidate",
	"Pragma":        "no-cache",
	"Expires":       "0",
}

type OverlayClient interface {
	FetchOverlay() *models.OverlaySnapshot
}

type overlayManager struct {
	client   *http.Client
	listings *memoize.Memoizer
}

// NewOverlayClient returns a client for the community-curated overlay data.
// Directory listings are memoized briefly so a manual refresh right after a
// scheduled one does not hammer the contents API.
func NewOverlayClient() OverlayClient {
	return &overlayManager{
		client:   &http.Client{Timeout: 30 * time.Second},
		listings: memoize.NewMemoizer(15*time.Minute, time.Hour),
	}
}

// FetchOverlay assembles a fresh overlay snapshot. Fault containment is per
// provider: a source that cannot be fetched contributes an empty set or map
// and the rest of the snapshot still refreshes, so FetchOverlay never fails.
func (mgr *overlayManager) FetchOverlay() *models.OverlaySnapshot {
	snap := &models.OverlaySnapshot{
		DiscountStations: make(map[string]map[string]bool, len(overlayListURLs)),
		TyreInflation:    map[string]bool{},
		FetchedAt:        time.Now().UTC(),
	}

	for provider, url := range overlayListURLs {
		text, err := mgr.fetchText(url)
		if err != nil {
			log.Printf("error fetching %s list: %v", provider, err)
			text = ""
		}
		codes := engine.ParseStationList(text)
		if provider == "tyre_inflation" {
			snap.TyreInflation = codes
		} else {
			snap.DiscountStations[provider] = codes
		}
		log.Printf("parsed %d station codes for %s", len(codes), provider)
	}

	snap.Distributors = mgr.fetchDirectory(distributorsURL, "distributor")
	snap.Operators = mgr.fetchDirectory(operatorsURL, "operator")

	return snap
}

type directoryEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// fetchDirectory lists a directory of .txt files and folds each file into a
// station-code to label map, the label being the file name minus extension.
// Failure yields an empty map rather than failing the snapshot.
func (mgr *overlayManager) fetchDirectory(url, kind string) map[string]string {
	labels := map[string]string{}

	entries, err := mgr.listDirectory(url)
	if err != nil {
		log.Printf("error fetching %s directory: %v", kind, err)
		return labels
	}

	for _, entry := range entries {
		if entry.Type != "file" || !strings.HasSuffix(entry.Name, ".txt") {
			continue
		}
		text, err := mgr.fetchText(entry.DownloadURL)
		if err != nil {
			log.Printf("error fetching %s file %s: %v", kind, entry.Name, err)
			continue
		}
		engine.ParseLabelledList(text, strings.TrimSuffix(entry.Name, ".txt"), labels)
	}

	log.Printf("processed %d %s mappings", len(labels), kind)
	return labels
}

func (mgr *overlayManager) listDirectory(url string) ([]directoryEntry, error) {
	cached, err, _ := mgr.listings.Memoize(url, func() (interface{}, error) {
		body, err := mgr.get(url)
		if err != nil {
			return nil, err
		}
		defer closeBody(body)

		var entries []directoryEntry
		if err := json.NewDecoder(body).Decode(&entries); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal directory listing")
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return cached.([]directoryEntry), nil
}

func (mgr *overlayManager) fetchText(url string) (string, error) {
	body, err := mgr.get(url)
	if err != nil {
		return "", err
	}
	defer closeBody(body)

	text, err := io.ReadAll(body)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read response from %s", url)
	}
	return string(text), nil
}

func (mgr *overlayManager) get(url string) (io.ReadCloser, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	for k, v := range cacheBustingHeaders {
		req.Header.Set(k, v)
	}

	resp, err := mgr.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch from %s", url)
	}
	if resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &HTTPStatusError{URL: url, Status: resp.Status, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
