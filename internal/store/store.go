package store

import (
	"context"

	"smartretail/backend/internal/domain"
)

// CatalogStore persists the product catalog. Save is called after every
// inventory mutation so a crash never loses more than the operation in
// flight.
type CatalogStore interface {
	Load(ctx context.Context) (*domain.Inventory, error)
	Save(ctx context.Context, inv *domain.Inventory) error
}

// SalesStore is the append-only record of completed bills, one row per line
// item. Append must write all rows of a bill as one unit; Records returns
// domain.ErrNoData when nothing has ever been recorded.
type SalesStore interface {
	Append(ctx context.Context, bill *domain.Bill) error
	Records(ctx context.Context) ([]domain.SaleRecord, error)
}
