package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mirtech/salesdash-go/models"
)

// FactStore runs range, search and aggregation queries over the fact table.
// All windows are half-open [start, end).
type FactStore struct {
	db *DB
}

// NewFactStore creates a fact store over an open dataset connection.
func NewFactStore(db *DB) *FactStore {
	return &FactStore{db: db}
}

const factColumns = `fact_id, user_id, user_name, user_email,
	product_id, product_name, product_category, product_price,
	order_id, order_status, order_total_amount, order_item_quantity,
	transaction_id, transaction_status, transaction_payment_method,
	order_created_at, transaction_timestamp`

// FactsInWindow returns facts with order_created_at in [start, end), ordered
// by (order_created_at, fact_id) so successive pages never shuffle rows. An
// offset beyond the last row yields an empty slice, not an error.
func (s *FactStore) FactsInWindow(ctx context.Context, start, end time.Time, offset, limit int) ([]models.FactRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM fact_sales
		WHERE order_created_at >= ? AND order_created_at < ?
		ORDER BY order_created_at, fact_id
		LIMIT ? OFFSET ?`, factColumns)

	rows, err := s.db.Conn.QueryContext(ctx, query, start.UTC(), end.UTC(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts in window: %w", err)
	}
	defer rows.Close()

	return scanFacts(rows)
}

// SearchByProduct returns facts whose product name contains the query
// substring, case-insensitive, with the same ordering and paging discipline
// as FactsInWindow.
func (s *FactStore) SearchByProduct(ctx context.Context, productQuery string, offset, limit int) ([]models.FactRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM fact_sales
		WHERE LOWER(product_name) LIKE '%%' || LOWER(?) || '%%'
		ORDER BY order_created_at, fact_id
		LIMIT ? OFFSET ?`, factColumns)

	rows, err := s.db.Conn.QueryContext(ctx, query, productQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search facts by product: %w", err)
	}
	defer rows.Close()

	return scanFacts(rows)
}

// RevenueByDay groups in-window orders by calendar day for the revenue line
// chart. Orders are counted distinct because the fact table carries one row
// per order item.
func (s *FactStore) RevenueByDay(ctx context.Context, start, end time.Time) ([]models.RevenuePoint, error) {
	query := `SELECT date(order_created_at) AS day,
			SUM(order_total_amount),
			COUNT(DISTINCT order_id)
		FROM fact_sales
		WHERE order_created_at >= ? AND order_created_at < ?
		GROUP BY date(order_created_at)
		ORDER BY day`

	rows, err := s.db.Conn.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue by day: %w", err)
	}
	defer rows.Close()

	points := []models.RevenuePoint{}
	for rows.Next() {
		var p models.RevenuePoint
		if err := rows.Scan(&p.Date, &p.Revenue, &p.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan revenue point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// TransactionsByDay groups in-window transactions by calendar day.
func (s *FactStore) TransactionsByDay(ctx context.Context, start, end time.Time) ([]models.TransactionPoint, error) {
	query := `SELECT date(transaction_timestamp) AS day, COUNT(transaction_id)
		FROM fact_sales
		WHERE transaction_timestamp >= ? AND transaction_timestamp < ?
		GROUP BY date(transaction_timestamp)
		ORDER BY day`

	rows, err := s.db.Conn.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by day: %w", err)
	}
	defer rows.Close()

	points := []models.TransactionPoint{}
	for rows.Next() {
		var p models.TransactionPoint
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan transaction point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// PaymentMethodCounts returns the in-window transaction count per payment method.
func (s *FactStore) PaymentMethodCounts(ctx context.Context, start, end time.Time) (map[string]int, error) {
	query := `SELECT transaction_payment_method, COUNT(transaction_id)
		FROM fact_sales
		WHERE transaction_timestamp >= ? AND transaction_timestamp < ?
		GROUP BY transaction_payment_method`

	return s.countsByGroup(ctx, query, start, end)
}

// OrderStatusCounts returns the in-window distinct order count per status.
func (s *FactStore) OrderStatusCounts(ctx context.Context, start, end time.Time) (map[string]int, error) {
	query := `SELECT order_status, COUNT(DISTINCT order_id)
		FROM fact_sales
		WHERE order_created_at >= ? AND order_created_at < ?
		GROUP BY order_status`

	return s.countsByGroup(ctx, query, start, end)
}

// TransactionStatusCounts returns the in-window transaction count per status.
func (s *FactStore) TransactionStatusCounts(ctx context.Context, start, end time.Time) (map[string]int, error) {
	query := `SELECT transaction_status, COUNT(transaction_id)
		FROM fact_sales
		WHERE transaction_timestamp >= ? AND transaction_timestamp < ?
		GROUP BY transaction_status`

	return s.countsByGroup(ctx, query, start, end)
}

// WindowTotals computes the summary aggregates for one window. Revenue,
// orders and users follow order_created_at; transactions follow
// transaction_timestamp, matching the chart series.
func (s *FactStore) WindowTotals(ctx context.Context, start, end time.Time) (models.WindowTotals, error) {
	var totals models.WindowTotals

	query := `SELECT COALESCE(SUM(order_total_amount), 0),
			COUNT(DISTINCT order_id),
			COUNT(DISTINCT user_id)
		FROM fact_sales
		WHERE order_created_at >= ? AND order_created_at < ?`
	err := s.db.Conn.QueryRowContext(ctx, query, start.UTC(), end.UTC()).
		Scan(&totals.Revenue, &totals.Orders, &totals.Users)
	if err != nil {
		return totals, fmt.Errorf("failed to query window totals: %w", err)
	}

	txQuery := `SELECT COUNT(transaction_id) FROM fact_sales
		WHERE transaction_timestamp >= ? AND transaction_timestamp < ?`
	err = s.db.Conn.QueryRowContext(ctx, txQuery, start.UTC(), end.UTC()).
		Scan(&totals.Transactions)
	if err != nil {
		return totals, fmt.Errorf("failed to query transaction totals: %w", err)
	}

	return totals, nil
}

// CountFacts returns the total number of fact rows.
func (s *FactStore) CountFacts(ctx context.Context) (int, error) {
	var count int
	err := s.db.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM fact_sales`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count facts: %w", err)
	}
	return count, nil
}

// Ping verifies the dataset is reachable.
func (s *FactStore) Ping(ctx context.Context) error {
	return s.db.Conn.PingContext(ctx)
}

// InsertFacts loads fact rows in a single transaction. The API never calls
// this; it exists for the external data loader and for test fixtures.
func (s *FactStore) InsertFacts(ctx context.Context, records []models.FactRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`INSERT INTO fact_sales (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, factColumns)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.FactID, r.UserID, r.UserName, r.UserEmail,
			r.ProductID, r.ProductName, r.ProductCategory, r.ProductPrice,
			r.OrderID, r.OrderStatus, r.OrderTotalAmount, r.OrderItemQuantity,
			r.TransactionID, r.TransactionStatus, r.TransactionPaymentMethod,
			r.OrderCreatedAt.UTC(), r.TransactionTimestamp.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert fact %s: %w", r.FactID, err)
		}
	}

	return tx.Commit()
}

// countsByGroup runs a two-column (label, count) aggregation query.
func (s *FactStore) countsByGroup(ctx context.Context, query string, start, end time.Time) (map[string]int, error) {
	rows, err := s.db.Conn.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query group counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan group count: %w", err)
		}
		counts[label] = count
	}
	return counts, rows.Err()
}

// scanFacts drains a fact row cursor.
func scanFacts(rows *sql.Rows) ([]models.FactRecord, error) {
	facts := []models.FactRecord{}
	for rows.Next() {
		var f models.FactRecord
		err := rows.Scan(
			&f.FactID, &f.UserID, &f.UserName, &f.UserEmail,
			&f.ProductID, &f.ProductName, &f.ProductCategory, &f.ProductPrice,
			&f.OrderID, &f.OrderStatus, &f.OrderTotalAmount, &f.OrderItemQuantity,
			&f.TransactionID, &f.TransactionStatus, &f.TransactionPaymentMethod,
			&f.OrderCreatedAt, &f.TransactionTimestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact record: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}
