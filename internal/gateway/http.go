package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shiftwise/punchcard/internal/punch"
)

// DefaultTimeout bounds every outbound call. The commit pipeline holds the
// commit mutex while the geofence check runs, so calls must fail fast.
const DefaultTimeout = 5 * time.Second

// HTTPClient is the subset of http.Client the gateways use.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func newClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// postJSON sends body to url and decodes the JSON response into out.
// Non-2xx statuses are errors.
func postJSON(ctx context.Context, client HTTPClient, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("call %s: unexpected status %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}

// HTTPGeofence calls the geofence decision service.
type HTTPGeofence struct {
	URL    string
	Client HTTPClient
}

// NewHTTPGeofence creates a geofence client with the default timeout.
func NewHTTPGeofence(url string) *HTTPGeofence {
	return &HTTPGeofence{URL: url, Client: newClient()}
}

// Check implements GeofenceChecker.
func (g *HTTPGeofence) Check(ctx context.Context, sectorID string, lat, lon float64) (bool, error) {
	req := struct {
		SectorID string  `json:"sectorId"`
		Lat      float64 `json:"lat"`
		Lon      float64 `json:"lon"`
	}{sectorID, lat, lon}
	var resp struct {
		Allowed bool `json:"allowed"`
	}
	if err := postJSON(ctx, g.Client, g.URL, req, &resp); err != nil {
		return false, err
	}
	return resp.Allowed, nil
}

// HTTPBiometric calls the biometric matching service.
type HTTPBiometric struct {
	URL    string
	Client HTTPClient
}

// NewHTTPBiometric creates a biometric client with the default timeout.
func NewHTTPBiometric(url string) *HTTPBiometric {
	return &HTTPBiometric{URL: url, Client: newClient()}
}

// Match implements BiometricMatcher.
func (b *HTTPBiometric) Match(ctx context.Context, userID string, descriptor []float64) (MatchResult, error) {
	req := struct {
		UserID     string    `json:"userId"`
		Descriptor []float64 `json:"descriptor"`
	}{userID, descriptor}
	var resp MatchResult
	if err := postJSON(ctx, b.Client, b.URL, req, &resp); err != nil {
		return MatchResult{}, err
	}
	return resp, nil
}

// HTTPSubmitter posts accepted punches to the submission endpoint.
// The record ID travels with the payload as the idempotency key.
type HTTPSubmitter struct {
	URL    string
	UserID string
	Client HTTPClient
}

// NewHTTPSubmitter creates a submitter with the default timeout.
func NewHTTPSubmitter(url, userID string) *HTTPSubmitter {
	return &HTTPSubmitter{URL: url, UserID: userID, Client: newClient()}
}

// Submit implements Submitter.
func (s *HTTPSubmitter) Submit(ctx context.Context, rec punch.Record) error {
	req := struct {
		ID        string `json:"id"`
		UserID    string `json:"userId"`
		Type      string `json:"type"`
		Timestamp string `json:"timestamp"`
		Location  string `json:"location,omitempty"`
	}{rec.ID, s.UserID, rec.Type.String(), rec.Timestamp.String(), rec.Location}
	return postJSON(ctx, s.Client, s.URL, req, nil)
}
