package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mirtech/salesdash-go/cache"
	"github.com/mirtech/salesdash-go/config"
	"github.com/mirtech/salesdash-go/models"
)

// PaginationService serves fixed-size pages of fact records, either bounded
// by a period window or filtered by a product-name substring.
//
// The page-size convention is load-bearing for the client's infinite scroll:
// a page of length == limit means more rows may exist, a page of length <
// limit (even nonzero) is terminal. The service never signals "no more data"
// with an error; absence is always communicated by page size.
type PaginationService struct {
	cache *cache.Manager
	store FactReader
	now   func() time.Time
}

// NewPaginationService creates a new pagination service.
func NewPaginationService(cacheManager *cache.Manager, store FactReader) *PaginationService {
	return &PaginationService{
		cache: cacheManager,
		store: store,
		now:   time.Now,
	}
}

// SetClock overrides the service clock. Tests only.
func (ps *PaginationService) SetClock(now func() time.Time) {
	ps.now = now
}

// Page returns facts with order-created in the period window, sliced
// [offset, offset+limit). A limit <= 0 falls back to the default; limits
// above the hard cap are clamped. Out-of-range offsets yield an empty page.
func (ps *PaginationService) Page(ctx context.Context, period models.Period, offset, limit int) ([]models.FactRecord, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: negative offset", models.ErrInvalidParameter)
	}
	limit = clampLimit(limit)

	key := cache.QueryDescriptor{
		Endpoint: cache.EndpointFactSales,
		Period:   period,
		Offset:   offset,
		Limit:    limit,
	}.Key()
	if cached, ok := ps.cache.Get(key); ok {
		return cached.([]models.FactRecord), nil
	}

	start, end := period.Window(ps.now().UTC())
	facts, err := ps.store.FactsInWindow(ctx, start, end, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataSourceUnavailable, err)
	}

	ps.cache.Set(key, facts, cache.TTLForPeriod(period))
	return facts, nil
}

// Search returns facts whose product name contains the query substring,
// case-insensitive, with the same paging discipline as Page. Queries below
// the minimum length are rejected before touching the dataset.
func (ps *PaginationService) Search(ctx context.Context, query string, offset, limit int) ([]models.FactRecord, error) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < config.MinSearchLength {
		return nil, fmt.Errorf("%w: need at least %d characters", models.ErrQueryTooShort, config.MinSearchLength)
	}
	if offset < 0 {
		offset = 0
	}
	limit = clampLimit(limit)

	key := cache.QueryDescriptor{
		Endpoint: cache.EndpointSearch,
		Query:    strings.ToLower(trimmed),
		Offset:   offset,
		Limit:    limit,
	}.Key()
	if cached, ok := ps.cache.Get(key); ok {
		return cached.([]models.FactRecord), nil
	}

	facts, err := ps.store.SearchByProduct(ctx, trimmed, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataSourceUnavailable, err)
	}

	// Search results have no period classification; use the short tier so
	// active searches stay fresh.
	ps.cache.Set(key, facts, cache.DashboardTTL)
	return facts, nil
}

// clampLimit applies the default and the hard cap.
func clampLimit(limit int) int {
	if limit <= 0 {
		return config.DefaultPageLimit
	}
	if limit > config.MaxPageLimit {
		return config.MaxPageLimit
	}
	return limit
}
