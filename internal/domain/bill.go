package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"smartretail/backend/internal/xid"
)

const WalkInCustomer = "Walk-in Customer"

const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "Cash"
	MethodCard PaymentMethod = "Card"
	MethodUPI  PaymentMethod = "UPI"
)

var hundred = decimal.NewFromInt(100)

// BillItem is one product-quantity pairing on a bill. UnitPrice is captured
// when the product is first added; later catalog price changes never alter
// lines already on the bill.
type BillItem struct {
	Product   *Product
	Quantity  int
	UnitPrice decimal.Decimal
}

func (it *BillItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Bill accumulates line items against an inventory and computes its totals
// on demand from current line items, never from a cached figure.
type Bill struct {
	Number          string
	CustomerName    string
	Items           []*BillItem
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	CreatedAt       time.Time
	PaymentMethod   PaymentMethod
	PaymentStatus   string
}

func NewBill(customerName string, taxPercent decimal.Decimal) *Bill {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		customerName = WalkInCustomer
	}
	if taxPercent.IsNegative() {
		taxPercent = decimal.Zero
	}
	return &Bill{
		Number:        xid.New("BILL"),
		CustomerName:  customerName,
		TaxPercent:    taxPercent,
		CreatedAt:     time.Now().UTC(),
		PaymentStatus: PaymentStatusPending,
	}
}

// AddItem looks the product up, verifies availability and then moves stock
// and the line item together: on any failure nothing changes, on success the
// stock decrement and the line item mutation are both applied.
func (b *Bill) AddItem(inv *Inventory, productID int, quantity int) error {
	product := inv.GetProduct(productID)
	if product == nil {
		return fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}

	available, err := product.CheckAvailable(quantity)
	if err != nil {
		return err
	}
	if !available {
		return fmt.Errorf("%w: %s has %d left", ErrInsufficientStock, product.Name, product.Stock)
	}

	if err := product.ReduceStock(quantity); err != nil {
		return err
	}

	for _, item := range b.Items {
		if item.Product.ID == productID {
			item.Quantity += quantity
			return nil
		}
	}
	b.Items = append(b.Items, &BillItem{
		Product:   product,
		Quantity:  quantity,
		UnitPrice: product.Price,
	})
	return nil
}

// RemoveItem deletes the line item and restores its full quantity to stock.
func (b *Bill) RemoveItem(productID int) error {
	for i, item := range b.Items {
		if item.Product.ID == productID {
			if err := item.Product.IncreaseStock(item.Quantity); err != nil {
				return err
			}
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: product %d is not on the bill", ErrNotFound, productID)
}

func (b *Bill) ApplyDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidRange)
	}
	b.DiscountPercent = percent
	return nil
}

func (b *Bill) SetTaxRate(percent decimal.Decimal) error {
	if percent.IsNegative() {
		return fmt.Errorf("%w: tax rate cannot be negative", ErrInvalidRange)
	}
	b.TaxPercent = percent
	return nil
}

func (b *Bill) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range b.Items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	return subtotal
}

func (b *Bill) DiscountAmount() decimal.Decimal {
	return b.Subtotal().Mul(b.DiscountPercent).Div(hundred)
}

// TaxAmount is computed on the post-discount amount.
func (b *Bill) TaxAmount() decimal.Decimal {
	discounted := b.Subtotal().Sub(b.DiscountAmount())
	return discounted.Mul(b.TaxPercent).Div(hundred)
}

func (b *Bill) Total() decimal.Decimal {
	return b.Subtotal().Sub(b.DiscountAmount()).Add(b.TaxAmount())
}

func (b *Bill) IsEmpty() bool {
	return len(b.Items) == 0
}

func (b *Bill) HasItem(productID int) bool {
	for _, item := range b.Items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

func (b *Bill) SetPaymentInfo(method PaymentMethod, status string) {
	b.PaymentMethod = method
	b.PaymentStatus = status
}

// SaleRecords flattens the bill into one persisted row per line item. Every
// row carries the shared bill number and the full bill total.
func (b *Bill) SaleRecords() []SaleRecord {
	total := b.Total()
	records := make([]SaleRecord, 0, len(b.Items))
	for _, item := range b.Items {
		records = append(records, SaleRecord{
			Timestamp:       b.CreatedAt,
			BillNumber:      b.Number,
			Customer:        b.CustomerName,
			ProductID:       item.Product.ID,
			ProductName:     item.Product.Name,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Subtotal:        item.Subtotal(),
			DiscountPercent: b.DiscountPercent,
			TaxPercent:      b.TaxPercent,
			TotalAmount:     total,
			PaymentMethod:   b.PaymentMethod,
			PaymentStatus:   b.PaymentStatus,
		})
	}
	return records
}
