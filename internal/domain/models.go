package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord is one persisted row of the append-only sales store. All rows
// sharing a bill number belong to exactly one bill and repeat its total.
type SaleRecord struct {
	Timestamp       time.Time
	BillNumber      string
	Customer        string
	ProductID       int
	ProductName     string
	Quantity        int
	UnitPrice       decimal.Decimal
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	TotalAmount     decimal.Decimal
	PaymentMethod   PaymentMethod
	PaymentStatus   string
}

// PaymentOutcome is the fixed-field result of a payment attempt. The adapter
// never mutates the bill; callers apply SetPaymentInfo only after success.
type PaymentOutcome struct {
	Success        bool            `json:"success"`
	Method         PaymentMethod   `json:"method"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	Change         decimal.Decimal `json:"change"`
	Message        string          `json:"message"`
}

type PaymentMethodSummary struct {
	Method       PaymentMethod   `json:"method"`
	Transactions int64           `json:"transactions"`
	AmountTotal  decimal.Decimal `json:"amount_total"`
}

type PaymentSummary struct {
	ByMethod          []PaymentMethodSummary `json:"by_method"`
	TotalTransactions int64                  `json:"total_transactions"`
	TotalAmount       decimal.Decimal        `json:"total_amount"`
}

type ProductSales struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type DailySummary struct {
	Date           string          `json:"date"`
	TotalBills     int64           `json:"total_bills"`
	TotalItemsSold int             `json:"total_items_sold"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
	CustomerCount  int             `json:"customer_count"`
	TopProducts    []ProductSales  `json:"top_products"`
}

type ProductCreateRequest struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type ProductUpdateRequest struct {
	Name  *string          `json:"name,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Stock *int             `json:"stock,omitempty"`
}

type BillStartRequest struct {
	CustomerName string `json:"customer_name"`
}

type BillAddItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type PercentRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

type PayRequest struct {
	Method       PaymentMethod   `json:"method"`
	CashReceived decimal.Decimal `json:"cash_received"`
}

type BillItemView struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type BillView struct {
	Number          string          `json:"number"`
	CustomerName    string          `json:"customer_name"`
	Items           []BillItemView  `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   PaymentMethod   `json:"payment_method,omitempty"`
	PaymentStatus   string          `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

type PayResponse struct {
	Outcome PaymentOutcome `json:"outcome"`
	Bill    *BillView      `json:"bill,omitempty"`
}
