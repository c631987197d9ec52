package domain

import (
	"fmt"
	"iter"
)

// Inventory is the in-memory product registry for one session. Entries keep
// their catalog insertion order, which also drives the low-stock scan.
type Inventory struct {
	byID  map[int]*Product
	order []int
}

func NewInventory() *Inventory {
	return &Inventory{byID: make(map[int]*Product)}
}

func (inv *Inventory) AddProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: nil product", ErrInvalidAttribute)
	}
	if _, exists := inv.byID[product.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateID, product.ID)
	}
	inv.byID[product.ID] = product
	inv.order = append(inv.order, product.ID)
	return nil
}

// GetProduct returns nil when the id is unknown; absence is not an error.
func (inv *Inventory) GetProduct(id int) *Product {
	return inv.byID[id]
}

func (inv *Inventory) UpdateStock(id int, newStock int) error {
	product, exists := inv.byID[id]
	if !exists {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if newStock < 0 {
		return fmt.Errorf("%w: stock must be non-negative", ErrInvalidAttribute)
	}
	product.Stock = newStock
	return nil
}

func (inv *Inventory) RemoveProduct(id int) error {
	if _, exists := inv.byID[id]; !exists {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	delete(inv.byID, id)
	for i, pid := range inv.order {
		if pid == id {
			inv.order = append(inv.order[:i], inv.order[i+1:]...)
			break
		}
	}
	return nil
}

// Products returns the live entries in catalog insertion order.
func (inv *Inventory) Products() []*Product {
	products := make([]*Product, 0, len(inv.order))
	for _, id := range inv.order {
		products = append(products, inv.byID[id])
	}
	return products
}

func (inv *Inventory) Len() int {
	return len(inv.byID)
}

// LowStock yields entries whose stock is below threshold, in insertion
// order. The sequence is recomputed from live state on every range, so it is
// restartable and always reflects the latest stock counts.
func (inv *Inventory) LowStock(threshold int) iter.Seq[*Product] {
	return func(yield func(*Product) bool) {
		for _, id := range inv.order {
			product, exists := inv.byID[id]
			if !exists || product.Stock >= threshold {
				continue
			}
			if !yield(product) {
				return
			}
		}
	}
}
