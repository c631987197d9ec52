package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"smartretail/backend/internal/domain"
	"smartretail/backend/internal/payment"
	"smartretail/backend/internal/report"
	"smartretail/backend/internal/store"
)

// Service drives the single-operator session: it owns the live inventory,
// at most one open bill at a time, and flushes the catalog after every
// inventory mutation. All operations are serialized through one mutex since
// the inventory is the only state shared across bills.
type Service struct {
	mu                sync.Mutex
	inv               *domain.Inventory
	catalog           store.CatalogStore
	sales             store.SalesStore
	payments          *payment.Processor
	reports           *report.Aggregator
	defaultTax        decimal.Decimal
	lowStockThreshold int
	activeBill        *domain.Bill
}

func New(inv *domain.Inventory, catalog store.CatalogStore, sales store.SalesStore, payments *payment.Processor, reports *report.Aggregator, defaultTax decimal.Decimal, lowStockThreshold int) *Service {
	if defaultTax.IsNegative() {
		defaultTax = decimal.NewFromInt(5)
	}
	if lowStockThreshold < 1 {
		lowStockThreshold = 10
	}

	return &Service{
		inv:               inv,
		catalog:           catalog,
		sales:             sales,
		payments:          payments,
		reports:           reports,
		defaultTax:        defaultTax,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *Service) ListProducts() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]domain.Product, 0, s.inv.Len())
	for _, product := range s.inv.Products() {
		products = append(products, *product)
	}
	return products
}

func (s *Service) GetProduct(id int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.inv.GetProduct(id)
	if product == nil {
		return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return *product, nil
}

func (s *Service) AddProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := domain.NewProduct(req.ID, req.Name, req.Price, req.Stock)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.inv.AddProduct(product); err != nil {
		return domain.Product{}, err
	}
	if err := s.saveCatalog(ctx); err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int, req domain.ProductUpdateRequest) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.inv.GetProduct(id)
	if product == nil {
		return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}

	// Validate the whole request before touching the live entry so a
	// rejected update leaves the product exactly as it was.
	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, fmt.Errorf("%w: product name is required", domain.ErrInvalidAttribute)
		}
	}
	if req.Price != nil && req.Price.IsNegative() {
		return domain.Product{}, fmt.Errorf("%w: price must be non-negative", domain.ErrInvalidAttribute)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return domain.Product{}, fmt.Errorf("%w: stock must be non-negative", domain.ErrInvalidAttribute)
	}

	if req.Name != nil {
		product.Name = name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.saveCatalog(ctx); err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

// RemoveProduct refuses to delete an entry that the open bill still
// references; the transient bill reference must drain first.
func (s *Service) RemoveProduct(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeBill != nil && s.activeBill.HasItem(id) {
		return fmt.Errorf("%w: product %d", domain.ErrProductInUse, id)
	}
	if err := s.inv.RemoveProduct(id); err != nil {
		return err
	}
	return s.saveCatalog(ctx)
}

func (s *Service) LowStock(threshold int) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if threshold < 1 {
		threshold = s.lowStockThreshold
	}

	var products []domain.Product
	for product := range s.inv.LowStock(threshold) {
		products = append(products, *product)
	}
	return products
}

func (s *Service) StartBill(req domain.BillStartRequest) (domain.BillView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeBill != nil {
		return domain.BillView{}, fmt.Errorf("%w: %s", domain.ErrBillOpen, s.activeBill.Number)
	}
	s.activeBill = domain.NewBill(req.CustomerName, s.defaultTax)
	return toBillView(s.activeBill), nil
}

func (s *Service) CurrentBill() (domain.BillView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeBill == nil {
		return domain.BillView{}, fmt.Errorf("%w: no open bill", domain.ErrNotFound)
	}
	return toBillView(s.activeBill), nil
}

func (s *Service) AddItem(ctx context.Context, req domain.BillAddItemRequest) (domain.BillView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeBill == nil {
		return domain.BillView{}, fmt.Errorf("%w: no open bill", domain.ErrNotFound)
	}
	if err := s.activeBill.AddItem(s.inv, req.ProductID, req.Quantity); err != nil {
		return domain.BillView{}, err
	}
	if err := s.saveCatalog(ctx); err != nil {
		return domain.BillView{}, err
	}
	return toBillView(s.activeBill), nil
}

func (s *Service) RemoveItem(ctx context.Context, productID int) (domain.BillView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeBill == nil {
		return domain.BillView{}, fmt.Errorf("%w: no open bill", domain.ErrNotFound)
	}
	if err := s.activeBill.RemoveItem(productID); err != nil {
		return domain.BillView{}, err
	}
	if err := s.saveCatalog(ctx); err != nil {
		return domain.BillView{}, err
	}
	return toBillView(s.activeBill), nil
}

func (s *Service) ApplyDiscount(percent decimal.Decimal) (domain.BillView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeBill == nil {
		return domain.BillView{}, fmt.Errorf("%w: no open bill", domain.ErrNotFound)
	}
	if err := s.activeBill.ApplyDiscount(percent); err != nil {
		return domain.BillView{}, err
	}
	return toBillView(s.activeBill), nil
}

func (s *Service) SetTaxRate(percent decimal.Decimal) (domain.BillView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeBill == nil {
		return domain.BillView{}, fmt.Errorf("%w: no open bill", domain.ErrNotFound)
	}
	if err := s.activeBill.SetTaxRate(percent); err != nil {
		return domain.BillView{}, err
	}
	return toBillView(s.activeBill), nil
}

// CancelBill discards the open bill without persisting it, restoring every
// line item's quantity to stock.
func (s *Service) CancelBill(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeBill == nil {
		return fmt.Errorf("%w: no open bill", domain.ErrNotFound)
	}

	for _, item := range s.activeBill.Items {
		if err := item.Product.IncreaseStock(item.Quantity); err != nil {
			return err
		}
	}
	s.activeBill = nil
	return s.saveCatalog(ctx)
}

// Pay charges the bill total, and on success records the bill in the sales
// store and closes it. A declined payment is not an error: the outcome
// reports it and the bill stays open for another attempt. A persistence
// failure also keeps the bill open so the append can be retried.
func (s *Service) Pay(ctx context.Context, req domain.PayRequest) (domain.PayResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeBill == nil {
		return domain.PayResponse{}, fmt.Errorf("%w: no open bill", domain.ErrNotFound)
	}
	if s.activeBill.IsEmpty() {
		return domain.PayResponse{}, domain.ErrEmptyBill
	}

	outcome, err := s.payments.Process(ctx, req.Method, s.activeBill.Total(), req.CashReceived)
	if err != nil {
		return domain.PayResponse{}, err
	}

	view := toBillView(s.activeBill)
	if !outcome.Success {
		return domain.PayResponse{Outcome: outcome, Bill: &view}, nil
	}

	s.activeBill.SetPaymentInfo(req.Method, domain.PaymentStatusCompleted)
	if err := s.sales.Append(ctx, s.activeBill); err != nil {
		s.activeBill.SetPaymentInfo("", domain.PaymentStatusPending)
		return domain.PayResponse{}, err
	}
	s.reports.Invalidate(ctx, s.activeBill.CreatedAt)

	if err := s.saveCatalog(ctx); err != nil {
		// The sale is already recorded; the catalog snapshot will be
		// rewritten by the next mutation.
		log.Printf("[service] WARN: catalog save after payment: %v", err)
	}

	view = toBillView(s.activeBill)
	s.activeBill = nil
	return domain.PayResponse{Outcome: outcome, Bill: &view}, nil
}

func (s *Service) PaymentSummary(ctx context.Context) (domain.PaymentSummary, error) {
	return s.reports.PaymentSummary(ctx)
}

func (s *Service) DailySummary(ctx context.Context, date string) (domain.DailySummary, error) {
	return s.reports.DailySummary(ctx, date)
}

func (s *Service) saveCatalog(ctx context.Context) error {
	if err := s.catalog.Save(ctx, s.inv); err != nil {
		log.Printf("[service] WARN: catalog save failed, in-memory state retained: %v", err)
		return err
	}
	return nil
}

func toBillView(bill *domain.Bill) domain.BillView {
	items := make([]domain.BillItemView, 0, len(bill.Items))
	for _, item := range bill.Items {
		items = append(items, domain.BillItemView{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}

	return domain.BillView{
		Number:          bill.Number,
		CustomerName:    bill.CustomerName,
		Items:           items,
		Subtotal:        bill.Subtotal(),
		DiscountPercent: bill.DiscountPercent,
		DiscountAmount:  bill.DiscountAmount(),
		TaxPercent:      bill.TaxPercent,
		TaxAmount:       bill.TaxAmount(),
		Total:           bill.Total(),
		PaymentMethod:   bill.PaymentMethod,
		PaymentStatus:   bill.PaymentStatus,
		CreatedAt:       bill.CreatedAt,
	}
}
