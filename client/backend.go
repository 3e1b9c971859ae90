// Package client implements the dashboard's data orchestration: a
// session-scoped state machine over the analytics endpoints, incremental
// page loading for infinite scroll, and the virtualized table model that
// renders only the visible slice of the accumulated row buffer.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mirtech/salesdash-go/models"
)

// Backend abstracts the dashboard API surface the orchestrator fetches from.
type Backend interface {
	ChartData(ctx context.Context, period models.Period) (*models.ChartPayload, error)
	Summary(ctx context.Context, period models.Period) (*models.Summary, error)
	Page(ctx context.Context, period models.Period, offset, limit int) ([]models.FactRecord, error)
	Search(ctx context.Context, query string, offset, limit int) ([]models.FactRecord, error)
}

// HTTPBackend talks JSON to the dashboard API.
type HTTPBackend struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPBackend creates a backend over the given base URL, e.g.
// "http://localhost:8080".
func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{
		BaseURL: baseURL,
		Client:  http.DefaultClient,
	}
}

// ChartData fetches GET /api/v1/stats/charts.
func (b *HTTPBackend) ChartData(ctx context.Context, period models.Period) (*models.ChartPayload, error) {
	params := url.Values{"period": {string(period)}}
	var payload models.ChartPayload
	if err := b.getJSON(ctx, "/api/v1/stats/charts", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Summary fetches GET /api/v1/stats/summary.
func (b *HTTPBackend) Summary(ctx context.Context, period models.Period) (*models.Summary, error) {
	params := url.Values{"period": {string(period)}}
	var summary models.Summary
	if err := b.getJSON(ctx, "/api/v1/stats/summary", params, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Page fetches GET /api/v1/facts.
func (b *HTTPBackend) Page(ctx context.Context, period models.Period, offset, limit int) ([]models.FactRecord, error) {
	params := url.Values{
		"period": {string(period)},
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	var facts []models.FactRecord
	if err := b.getJSON(ctx, "/api/v1/facts", params, &facts); err != nil {
		return nil, err
	}
	return facts, nil
}

// Search fetches GET /api/v1/products/search.
func (b *HTTPBackend) Search(ctx context.Context, query string, offset, limit int) ([]models.FactRecord, error) {
	params := url.Values{
		"q":      {query},
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	var facts []models.FactRecord
	if err := b.getJSON(ctx, "/api/v1/products/search", params, &facts); err != nil {
		return nil, err
	}
	return facts, nil
}

// getJSON performs one GET round-trip and decodes the response body.
func (b *HTTPBackend) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := b.BaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrDataSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusBadRequest:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s", models.ErrInvalidParameter, string(body))
	case resp.StatusCode == http.StatusServiceUnavailable:
		return models.ErrDataSourceUnavailable
	default:
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
