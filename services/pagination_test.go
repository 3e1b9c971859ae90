package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirtech/salesdash-go/cache"
	"github.com/mirtech/salesdash-go/config"
	"github.com/mirtech/salesdash-go/models"
)

func seededFakeStore(n int) *fakeStore {
	store := &fakeStore{}
	for i := 0; i < n; i++ {
		fact := newFactAt(testNow.Add(-time.Duration(i+1) * time.Minute))
		fact.FactID = fmt.Sprintf("fact-%04d", i)
		store.facts = append(store.facts, fact)
	}
	return store
}

func newTestPagination(store *fakeStore) *PaginationService {
	ps := NewPaginationService(cache.NewManager(), store)
	ps.SetClock(fixedClock(testNow))
	return ps
}

func TestPageRejectsNegativeOffset(t *testing.T) {
	ps := newTestPagination(seededFakeStore(5))

	_, err := ps.Page(context.Background(), models.PeriodWeek, -1, 10)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

func TestPageDefaultAndCappedLimit(t *testing.T) {
	store := seededFakeStore(config.DefaultPageLimit + 50)
	ps := newTestPagination(store)

	page, err := ps.Page(context.Background(), models.PeriodWeek, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, config.DefaultPageLimit, "limit <= 0 falls back to the default")

	page, err = ps.Page(context.Background(), models.PeriodWeek, 0, config.MaxPageLimit+1)
	require.NoError(t, err)
	assert.Len(t, page, config.DefaultPageLimit+50, "over-cap limit is clamped, not rejected")
}

func TestPageTerminalBySize(t *testing.T) {
	ps := newTestPagination(seededFakeStore(25))

	full, err := ps.Page(context.Background(), models.PeriodWeek, 0, 10)
	require.NoError(t, err)
	assert.Len(t, full, 10)

	partial, err := ps.Page(context.Background(), models.PeriodWeek, 20, 10)
	require.NoError(t, err)
	assert.Len(t, partial, 5, "a short page is the terminal signal")

	empty, err := ps.Page(context.Background(), models.PeriodWeek, 30, 10)
	require.NoError(t, err, "paging past the end is not an error")
	assert.Empty(t, empty)
}

func TestPageCacheReuse(t *testing.T) {
	store := seededFakeStore(25)
	ps := newTestPagination(store)

	first, err := ps.Page(context.Background(), models.PeriodWeek, 0, 10)
	require.NoError(t, err)
	queries := store.queries

	second, err := ps.Page(context.Background(), models.PeriodWeek, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, queries, store.queries, "identical page must be served from cache")
	assert.Equal(t, first, second)

	_, err = ps.Page(context.Background(), models.PeriodWeek, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, queries+1, store.queries, "a different offset is a different cache key")
}

func TestSearchRejectsShortQuery(t *testing.T) {
	ps := newTestPagination(seededFakeStore(5))

	for _, q := range []string{"", "ab", "  ab  ", " \t "} {
		_, err := ps.Search(context.Background(), q, 0, 10)
		assert.ErrorIs(t, err, models.ErrQueryTooShort, "query %q", q)
	}
}

func TestSearchMatchesAndPages(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 6; i++ {
		fact := newFactAt(testNow.Add(-time.Duration(i+1) * time.Hour))
		if i%2 == 0 {
			fact.ProductName = "Widget Pro"
		} else {
			fact.ProductName = "Gadget Mini"
		}
		store.facts = append(store.facts, fact)
	}
	ps := newTestPagination(store)

	hits, err := ps.Search(context.Background(), "WIDGET", 0, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3)

	page, err := ps.Search(context.Background(), "widget", 0, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := ps.Search(context.Background(), "widget", 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestSearchNegativeOffsetClamped(t *testing.T) {
	store := seededFakeStore(3)
	ps := newTestPagination(store)

	hits, err := ps.Search(context.Background(), "widget", -5, 10)
	require.NoError(t, err, "negative search offset is clamped to 0, not rejected")
	assert.Len(t, hits, 3)
}

func TestSearchCacheKeyCaseInsensitive(t *testing.T) {
	store := seededFakeStore(3)
	ps := newTestPagination(store)

	_, err := ps.Search(context.Background(), "Widget", 0, 10)
	require.NoError(t, err)
	queries := store.queries

	_, err = ps.Search(context.Background(), "wIdGeT", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, queries, store.queries, "case variants of a query share a cache entry")
}
