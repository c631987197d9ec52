package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a single catalog entry: identity, unit price and stock count.
// Stock is only ever moved through the guarded Reduce/Increase operations so
// it can never go negative.
type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

func NewProduct(id int, name string, price decimal.Decimal, stock int) (*Product, error) {
	name = strings.TrimSpace(name)
	if id <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", ErrInvalidAttribute)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidAttribute)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be non-negative", ErrInvalidAttribute)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must be non-negative", ErrInvalidAttribute)
	}

	return &Product{ID: id, Name: name, Price: price, Stock: stock}, nil
}

func (p *Product) CheckAvailable(quantity int) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidQuantity)
	}
	return p.Stock >= quantity, nil
}

// ReduceStock re-validates even though callers are expected to have called
// CheckAvailable first.
func (p *Product) ReduceStock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidQuantity)
	}
	if quantity > p.Stock {
		return fmt.Errorf("%w: %s has %d left", ErrInsufficientStock, p.Name, p.Stock)
	}
	p.Stock -= quantity
	return nil
}

func (p *Product) IncreaseStock(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must be non-negative", ErrInvalidQuantity)
	}
	p.Stock += quantity
	return nil
}

func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidAttribute)
	}
	p.Price = price
	return nil
}
