package client

import (
	"context"
	"sort"
	"strings"

	"github.com/mirtech/salesdash-go/models"
)

// Column names a sortable/filterable table column.
type Column string

const (
	ColumnProductName     Column = "product_name"
	ColumnProductCategory Column = "product_category"
	ColumnUserName        Column = "user_name"
	ColumnOrderStatus     Column = "order_status"
	ColumnPaymentMethod   Column = "payment_method"
	ColumnProductPrice    Column = "product_price"
	ColumnOrderTotal      Column = "order_total"
	ColumnQuantity        Column = "quantity"
	ColumnOrderCreatedAt  Column = "order_created_at"
)

// RowLoader is the slice of the session the table view drives: it is the
// sole source of "near bottom" events that pull in further pages.
type RowLoader interface {
	Rows() []models.FactRecord
	HasMore() bool
	LoadingMore() bool
	LoadMore(ctx context.Context) error
}

// VisibleWindow is the slice of rows a renderer should actually draw, with
// the geometry needed to position it inside the scroll container.
type VisibleWindow struct {
	Rows        []models.FactRecord
	StartIndex  int // index of Rows[0] within the processed row set
	EndIndex    int // exclusive
	TotalRows   int // processed row count (after filters)
	TotalHeight int // px height of the full processed row set
	OffsetTop   int // px offset of Rows[0]
}

// TableView virtualizes a large in-memory row buffer: only rows whose
// position falls within [visible start - overscan, visible end + overscan]
// are materialized per render. Sorting and filtering always run over the
// full buffer before the visible slice is taken.
type TableView struct {
	loader RowLoader

	rowHeight      int
	viewportHeight int
	overscan       int // extra rows above and below the viewport
	loadThreshold  int // px from the bottom that counts as "near bottom"

	scrollTop int

	sortColumn Column
	sortDesc   bool
	filters    map[Column]string
}

// NewTableView creates a table view over the session's row buffer with a
// fixed row height and viewport height in pixels.
func NewTableView(loader RowLoader, rowHeight, viewportHeight int) *TableView {
	return &TableView{
		loader:         loader,
		rowHeight:      rowHeight,
		viewportHeight: viewportHeight,
		overscan:       5,
		loadThreshold:  3 * rowHeight,
		filters:        make(map[Column]string),
	}
}

// SetOverscan adjusts how many rows are rendered beyond each viewport edge.
func (t *TableView) SetOverscan(rows int) {
	if rows >= 0 {
		t.overscan = rows
	}
}

// SetViewportHeight handles a resize event.
func (t *TableView) SetViewportHeight(px int) {
	t.viewportHeight = px
}

// SortBy sets the sort key. Sorting the same column again flips direction.
func (t *TableView) SortBy(column Column) {
	if t.sortColumn == column {
		t.sortDesc = !t.sortDesc
	} else {
		t.sortColumn = column
		t.sortDesc = false
	}
}

// SetFilter installs a case-insensitive substring filter on a column.
// An empty value clears the filter.
func (t *TableView) SetFilter(column Column, value string) {
	if strings.TrimSpace(value) == "" {
		delete(t.filters, column)
		return
	}
	t.filters[column] = strings.ToLower(value)
}

// Scroll updates the scroll position, recomputes the visible window and,
// when the position lands near the buffer's end, triggers the next page
// load. The session's own guard makes duplicate triggers harmless.
func (t *TableView) Scroll(ctx context.Context, scrollTop int) VisibleWindow {
	if scrollTop < 0 {
		scrollTop = 0
	}
	t.scrollTop = scrollTop

	window := t.Render()

	if t.nearBottom(window.TotalHeight) && t.loader.HasMore() && !t.loader.LoadingMore() {
		// Load-more failures are absorbed inside the session.
		_ = t.loader.LoadMore(ctx)
	}

	return window
}

// Render computes the visible window for the current scroll position
// without side effects. Filters and sort are applied to the full buffer
// every time; the stable sort keeps equal keys in their previous relative
// order so repeated renders don't make rows jump.
func (t *TableView) Render() VisibleWindow {
	rows := t.processRows()

	totalHeight := len(rows) * t.rowHeight

	start := t.scrollTop/t.rowHeight - t.overscan
	if start < 0 {
		start = 0
	}
	end := (t.scrollTop+t.viewportHeight)/t.rowHeight + 1 + t.overscan
	if end > len(rows) {
		end = len(rows)
	}
	if start > end {
		start = end
	}

	return VisibleWindow{
		Rows:        rows[start:end],
		StartIndex:  start,
		EndIndex:    end,
		TotalRows:   len(rows),
		TotalHeight: totalHeight,
		OffsetTop:   start * t.rowHeight,
	}
}

// nearBottom reports whether the viewport's lower edge is within the load
// threshold of the processed row set's end.
func (t *TableView) nearBottom(totalHeight int) bool {
	return t.scrollTop+t.viewportHeight >= totalHeight-t.loadThreshold
}

// processRows applies filters then the stable sort over the full buffer.
func (t *TableView) processRows() []models.FactRecord {
	source := t.loader.Rows()

	rows := make([]models.FactRecord, 0, len(source))
	for _, row := range source {
		if t.matchesFilters(row) {
			rows = append(rows, row)
		}
	}

	if t.sortColumn != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			less := lessByColumn(rows[i], rows[j], t.sortColumn)
			if t.sortDesc {
				return lessByColumn(rows[j], rows[i], t.sortColumn)
			}
			return less
		})
	}

	return rows
}

// matchesFilters checks every installed column filter against the row.
func (t *TableView) matchesFilters(row models.FactRecord) bool {
	for column, needle := range t.filters {
		if !strings.Contains(strings.ToLower(columnString(row, column)), needle) {
			return false
		}
	}
	return true
}

// lessByColumn compares two rows on a column using locale-naive ordering:
// byte-wise string comparison for text, numeric comparison for amounts.
func lessByColumn(a, b models.FactRecord, column Column) bool {
	switch column {
	case ColumnProductPrice:
		return a.ProductPrice < b.ProductPrice
	case ColumnOrderTotal:
		return a.OrderTotalAmount < b.OrderTotalAmount
	case ColumnQuantity:
		return a.OrderItemQuantity < b.OrderItemQuantity
	case ColumnOrderCreatedAt:
		return a.OrderCreatedAt.Before(b.OrderCreatedAt)
	default:
		return columnString(a, column) < columnString(b, column)
	}
}

// columnString extracts the row's textual value for a column.
func columnString(row models.FactRecord, column Column) string {
	switch column {
	case ColumnProductName:
		return row.ProductName
	case ColumnProductCategory:
		return row.ProductCategory
	case ColumnUserName:
		return row.UserName
	case ColumnOrderStatus:
		return row.OrderStatus
	case ColumnPaymentMethod:
		return row.TransactionPaymentMethod
	case ColumnOrderCreatedAt:
		return row.OrderCreatedAt.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}
