package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"smartretail/backend/internal/domain"
)

// Store keeps the catalog snapshot and sales records in memory. It backs
// tests and the no-data-dir dev mode, and implements both store interfaces.
type Store struct {
	mu      sync.Mutex
	catalog *domain.Inventory
	records []domain.SaleRecord
}

func New() *Store {
	return &Store{catalog: domain.NewInventory()}
}

func NewSeeded() *Store {
	return &Store{catalog: DefaultCatalog()}
}

// DefaultCatalog is the stock catalog a fresh installation starts with.
func DefaultCatalog() *domain.Inventory {
	defaults := []struct {
		id    int
		name  string
		price int64
		stock int
	}{
		{101, "Rice", 60, 50},
		{102, "Sugar", 45, 30},
		{103, "Oil", 150, 20},
		{104, "Wheat Flour", 55, 25},
		{105, "Tea Powder", 220, 15},
		{106, "Soap", 35, 40},
		{107, "Shampoo", 120, 8},
		{108, "Toothpaste", 90, 18},
		{109, "Toothbrush", 40, 35},
		{110, "Milk Packet", 28, 60},
		{111, "Curd", 35, 22},
		{112, "Biscuits", 20, 70},
		{113, "Chocolate", 50, 45},
		{114, "Notebook", 60, 30},
		{115, "Pen", 10, 100},
		{116, "Detergent", 95, 28},
		{117, "Hand Sanitizer", 65, 12},
	}

	inv := domain.NewInventory()
	for _, d := range defaults {
		product, err := domain.NewProduct(d.id, d.name, decimal.NewFromInt(d.price), d.stock)
		if err != nil {
			panic(err)
		}
		if err := inv.AddProduct(product); err != nil {
			panic(err)
		}
	}
	return inv
}

// Load hands out a deep copy so callers mutate their own working inventory,
// not the stored snapshot.
func (s *Store) Load(_ context.Context) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyInventory(s.catalog), nil
}

func (s *Store) Save(_ context.Context, inv *domain.Inventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = copyInventory(inv)
	return nil
}

func (s *Store) Append(_ context.Context, bill *domain.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, bill.SaleRecords()...)
	return nil
}

func (s *Store) Records(_ context.Context) ([]domain.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return nil, domain.ErrNoData
	}
	records := make([]domain.SaleRecord, len(s.records))
	copy(records, s.records)
	return records, nil
}

func copyInventory(inv *domain.Inventory) *domain.Inventory {
	clone := domain.NewInventory()
	for _, product := range inv.Products() {
		copied := *product
		if err := clone.AddProduct(&copied); err != nil {
			panic(err)
		}
	}
	return clone
}
