package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"smartretail/backend/internal/domain"
)

var catalogHeader = []string{"pid", "name", "price", "stock"}

// CatalogStore persists the product catalog as a CSV file with a
// pid,name,price,stock header. Save writes a temp file in the same directory
// and renames it over the old copy, so a crash never leaves a half-written
// catalog behind.
type CatalogStore struct {
	path string
}

func NewCatalogStore(path string) *CatalogStore {
	return &CatalogStore{path: path}
}

// Load reconstructs the inventory from the catalog file. A missing file is
// an empty catalog, not an error; malformed or negative rows fail the load.
func (s *CatalogStore) Load(_ context.Context) (*domain.Inventory, error) {
	inv := domain.NewInventory()

	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return inv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open catalog: %v", domain.ErrPersistence, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err == io.EOF {
		return inv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read catalog header: %v", domain.ErrPersistence, err)
	}
	if len(header) != len(catalogHeader) {
		return nil, fmt.Errorf("%w: unexpected catalog header %v", domain.ErrPersistence, header)
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: catalog line %d: %v", domain.ErrPersistence, line, err)
		}

		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: catalog line %d: bad pid %q", domain.ErrPersistence, line, row[0])
		}
		price, err := decimal.NewFromString(row[2])
		if err != nil {
			return nil, fmt.Errorf("%w: catalog line %d: bad price %q", domain.ErrPersistence, line, row[2])
		}
		stock, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("%w: catalog line %d: bad stock %q", domain.ErrPersistence, line, row[3])
		}

		product, err := domain.NewProduct(id, row[1], price, stock)
		if err != nil {
			return nil, fmt.Errorf("%w: catalog line %d: %v", domain.ErrPersistence, line, err)
		}
		if err := inv.AddProduct(product); err != nil {
			return nil, fmt.Errorf("%w: catalog line %d: %v", domain.ErrPersistence, line, err)
		}
	}

	return inv, nil
}

func (s *CatalogStore) Save(_ context.Context, inv *domain.Inventory) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(catalogHeader); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	for _, product := range inv.Products() {
		row := []string{
			strconv.Itoa(product.ID),
			product.Name,
			product.Price.String(),
			strconv.Itoa(product.Stock),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: write catalog: %v", domain.ErrPersistence, err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write catalog: %v", domain.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write catalog: %v", domain.ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace catalog: %v", domain.ErrPersistence, err)
	}
	return nil
}
