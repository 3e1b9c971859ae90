// Package models defines the denormalized sales fact row and its enumerations.
package models

import "time"

// Order status values as stored in the fact table.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Transaction status values as stored in the fact table.
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"
)

// Payment method values as stored in the fact table.
const (
	PaymentCreditCard   = "credit_card"
	PaymentDebitCard    = "debit_card"
	PaymentPaypal       = "paypal"
	PaymentBankTransfer = "bank_transfer"
)

// FactRecord is one denormalized sales row joining user, product, order,
// order-item and transaction data. Rows are written once by the data loader
// and never mutated by this service.
type FactRecord struct {
	FactID                  string    `json:"fact_id"`
	UserID                  string    `json:"user_id"`
	UserName                string    `json:"user_name"`
	UserEmail               string    `json:"user_email"`
	ProductID               string    `json:"product_id"`
	ProductName             string    `json:"product_name"`
	ProductCategory         string    `json:"product_category"`
	ProductPrice            float64   `json:"product_price"`
	OrderID                 string    `json:"order_id"`
	OrderStatus             string    `json:"order_status"`
	OrderTotalAmount        float64   `json:"order_total_amount"`
	OrderItemQuantity       int       `json:"order_item_quantity"`
	TransactionID           string    `json:"transaction_id"`
	TransactionStatus       string    `json:"transaction_status"`
	TransactionPaymentMethod string   `json:"transaction_payment_method"`
	OrderCreatedAt          time.Time `json:"order_created_at"`
	TransactionTimestamp    time.Time `json:"transaction_timestamp"`
}
