// Package models defines the derived analytics payload shapes served to the dashboard.
package models

// =============================================================================
// Chart Payload Types
// =============================================================================

// RevenuePoint is one calendar day of revenue and order volume.
type RevenuePoint struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// TransactionPoint is one calendar day of transaction volume.
type TransactionPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// ChartPayload carries every pre-aggregated series the dashboard charts
// consume for one period. Derived, never stored durably; recomputed on
// cache miss.
type ChartPayload struct {
	Period              Period             `json:"period"`
	RevenueByDay        []RevenuePoint     `json:"revenue_by_day"`
	TransactionsByDay   []TransactionPoint `json:"transactions_by_day"`
	PaymentMethods      map[string]int     `json:"payment_methods"`
	OrderStatuses       map[string]int     `json:"order_statuses"`
	TransactionStatuses map[string]int     `json:"transaction_statuses"`
}

// =============================================================================
// Summary Types
// =============================================================================

// SummaryChanges holds percent-change versus the immediately preceding
// equal-length window. A nil field means the previous window had no data,
// so no meaningful comparison exists (surfaced as null, never +Inf).
type SummaryChanges struct {
	RevenueChangePercent       *float64 `json:"revenue_change_percent"`
	OrdersChangePercent        *float64 `json:"orders_change_percent"`
	TransactionsChangePercent  *float64 `json:"transactions_change_percent"`
	UsersChangePercent         *float64 `json:"users_change_percent"`
	AvgOrderValueChangePercent *float64 `json:"avg_order_value_change_percent"`
}

// Summary aggregates one period's headline numbers for the stat cards.
type Summary struct {
	Period            Period         `json:"period"`
	TotalRevenue      float64        `json:"total_revenue"`
	TotalOrders       int            `json:"total_orders"`
	TotalTransactions int            `json:"total_transactions"`
	TotalUsers        int            `json:"total_users"`
	AvgOrderValue     float64        `json:"avg_order_value"`
	StartDate         string         `json:"start_date"`
	EndDate           string         `json:"end_date"`
	Changes           SummaryChanges `json:"changes"`
}

// WindowTotals holds the raw aggregates for one time window, used both for
// the current period and its comparison window.
type WindowTotals struct {
	Revenue      float64
	Orders       int
	Transactions int
	Users        int
}

// AvgOrderValue returns revenue per order, zero when there are no orders.
func (t WindowTotals) AvgOrderValue() float64 {
	if t.Orders == 0 {
		return 0
	}
	return t.Revenue / float64(t.Orders)
}
