package domain

import "errors"

var (
	ErrInvalidAttribute  = errors.New("invalid attribute")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidRange      = errors.New("invalid range")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateID       = errors.New("product id already exists")
	ErrNotFound          = errors.New("not found")
	ErrPersistence       = errors.New("persistence failure")
	ErrNoData            = errors.New("no sales data")

	ErrBillOpen     = errors.New("a bill is already open")
	ErrEmptyBill    = errors.New("bill has no items")
	ErrProductInUse = errors.New("product is on the open bill")
)
