package client

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirtech/salesdash-go/models"
)

// stubLoader is a RowLoader with a fixed buffer and scripted paging flags.
type stubLoader struct {
	rows        []models.FactRecord
	hasMore     bool
	loadingMore bool
	loadCalls   int
}

func (s *stubLoader) Rows() []models.FactRecord { return s.rows }
func (s *stubLoader) HasMore() bool             { return s.hasMore }
func (s *stubLoader) LoadingMore() bool         { return s.loadingMore }
func (s *stubLoader) LoadMore(context.Context) error {
	s.loadCalls++
	return nil
}

func loaderWithRows(n int) *stubLoader {
	loader := &stubLoader{}
	for i := 0; i < n; i++ {
		loader.rows = append(loader.rows, models.FactRecord{
			FactID:           fmt.Sprintf("fact-%05d", i),
			ProductName:      fmt.Sprintf("Product %05d", i),
			OrderTotalAmount: float64(i),
		})
	}
	return loader
}

func TestRenderWindowAtTop(t *testing.T) {
	loader := loaderWithRows(1000)
	// 40px rows, 400px viewport: 10 rows visible.
	view := NewTableView(loader, 40, 400)
	view.SetOverscan(0)

	window := view.Render()

	assert.Equal(t, 0, window.StartIndex)
	assert.Equal(t, 11, window.EndIndex)
	assert.Len(t, window.Rows, 11)
	assert.Equal(t, 1000, window.TotalRows)
	assert.Equal(t, 40000, window.TotalHeight)
	assert.Equal(t, 0, window.OffsetTop)
}

func TestRenderWindowMidScroll(t *testing.T) {
	loader := loaderWithRows(1000)
	view := NewTableView(loader, 40, 400)
	view.SetOverscan(5)

	window := view.Scroll(context.Background(), 8000) // row 200 at the top

	assert.Equal(t, 195, window.StartIndex, "overscan extends above the viewport")
	assert.Equal(t, 216, window.EndIndex, "overscan extends below the viewport")
	assert.Equal(t, 195*40, window.OffsetTop)
	assert.Equal(t, "fact-00195", window.Rows[0].FactID)
	assert.Zero(t, loader.loadCalls, "mid-buffer scrolling must not fetch")
}

func TestRenderWindowClampedAtEnd(t *testing.T) {
	loader := loaderWithRows(20)
	view := NewTableView(loader, 40, 400)
	view.SetOverscan(5)

	window := view.Render()

	assert.Equal(t, 0, window.StartIndex)
	assert.Equal(t, 20, window.EndIndex, "window never extends past the buffer")
	assert.Len(t, window.Rows, 20)
}

func TestRenderEmptyBuffer(t *testing.T) {
	view := NewTableView(&stubLoader{}, 40, 400)

	window := view.Render()

	assert.Empty(t, window.Rows)
	assert.Equal(t, 0, window.TotalRows)
	assert.Equal(t, 0, window.TotalHeight)
}

func TestScrollNearBottomTriggersLoadMore(t *testing.T) {
	loader := loaderWithRows(100)
	loader.hasMore = true
	view := NewTableView(loader, 40, 400) // threshold 120px, total 4000px
	ctx := context.Background()

	view.Scroll(ctx, 0)
	assert.Zero(t, loader.loadCalls)

	view.Scroll(ctx, 3479) // lower edge at 3879px, just above 4000-120
	assert.Zero(t, loader.loadCalls)

	view.Scroll(ctx, 3480) // lower edge exactly at the threshold
	assert.Equal(t, 1, loader.loadCalls)
}

func TestScrollNoFetchWhenExhaustedOrInFlight(t *testing.T) {
	loader := loaderWithRows(100)
	view := NewTableView(loader, 40, 400)
	ctx := context.Background()

	loader.hasMore = false
	view.Scroll(ctx, 4000)
	assert.Zero(t, loader.loadCalls, "an exhausted buffer never refetches")

	loader.hasMore = true
	loader.loadingMore = true
	view.Scroll(ctx, 4000)
	assert.Zero(t, loader.loadCalls, "an in-flight load suppresses the trigger")

	loader.loadingMore = false
	view.Scroll(ctx, 4000)
	assert.Equal(t, 1, loader.loadCalls)
}

func TestSortByColumnAndFlip(t *testing.T) {
	loader := &stubLoader{rows: []models.FactRecord{
		{FactID: "a", OrderTotalAmount: 30},
		{FactID: "b", OrderTotalAmount: 10},
		{FactID: "c", OrderTotalAmount: 20},
	}}
	view := NewTableView(loader, 40, 400)

	view.SortBy(ColumnOrderTotal)
	window := view.Render()
	assert.Equal(t, "b", window.Rows[0].FactID)
	assert.Equal(t, "a", window.Rows[2].FactID)

	view.SortBy(ColumnOrderTotal) // same column flips direction
	window = view.Render()
	assert.Equal(t, "a", window.Rows[0].FactID)
	assert.Equal(t, "b", window.Rows[2].FactID)
}

func TestSortIsStableOnEqualKeys(t *testing.T) {
	loader := &stubLoader{rows: []models.FactRecord{
		{FactID: "first", ProductCategory: "toys", OrderTotalAmount: 50},
		{FactID: "second", ProductCategory: "toys", OrderTotalAmount: 50},
		{FactID: "third", ProductCategory: "toys", OrderTotalAmount: 50},
	}}
	view := NewTableView(loader, 40, 400)
	view.SortBy(ColumnOrderTotal)

	for i := 0; i < 5; i++ {
		window := view.Render()
		require.Equal(t, "first", window.Rows[0].FactID, "render %d", i)
		require.Equal(t, "second", window.Rows[1].FactID, "render %d", i)
		require.Equal(t, "third", window.Rows[2].FactID, "render %d", i)
	}
}

func TestFilterAppliesToFullBuffer(t *testing.T) {
	loader := loaderWithRows(500)
	view := NewTableView(loader, 40, 400)
	view.SetOverscan(0)

	// Matches the ten rows 00490..00499, all far past the visible window.
	view.SetFilter(ColumnProductName, "Product 0049")
	window := view.Render()

	assert.Equal(t, 10, window.TotalRows, "filters run on the whole buffer, not the visible slice")
	assert.Equal(t, "fact-00490", window.Rows[0].FactID)

	view.SetFilter(ColumnProductName, "")
	assert.Equal(t, 500, view.Render().TotalRows, "an empty value clears the filter")
}

func TestFilterCaseInsensitive(t *testing.T) {
	loader := &stubLoader{rows: []models.FactRecord{
		{FactID: "a", ProductName: "Widget Pro"},
		{FactID: "b", ProductName: "Gadget Mini"},
	}}
	view := NewTableView(loader, 40, 400)

	view.SetFilter(ColumnProductName, "WIDGET")
	window := view.Render()

	require.Len(t, window.Rows, 1)
	assert.Equal(t, "a", window.Rows[0].FactID)
}

func TestFilterThenSort(t *testing.T) {
	loader := &stubLoader{rows: []models.FactRecord{
		{FactID: "a", ProductName: "Widget Pro", OrderTotalAmount: 30},
		{FactID: "b", ProductName: "Gadget Mini", OrderTotalAmount: 10},
		{FactID: "c", ProductName: "Widget Lite", OrderTotalAmount: 20},
	}}
	view := NewTableView(loader, 40, 400)
	view.SetFilter(ColumnProductName, "widget")
	view.SortBy(ColumnOrderTotal)

	window := view.Render()

	require.Len(t, window.Rows, 2)
	assert.Equal(t, "c", window.Rows[0].FactID)
	assert.Equal(t, "a", window.Rows[1].FactID)
}

func TestNegativeScrollClamped(t *testing.T) {
	loader := loaderWithRows(50)
	view := NewTableView(loader, 40, 400)

	window := view.Scroll(context.Background(), -100)

	assert.Equal(t, 0, window.StartIndex)
}
