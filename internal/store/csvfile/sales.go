package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"smartretail/backend/internal/domain"
)

const salesTimeLayout = "2006-01-02 15:04:05"

var salesHeader = []string{
	"Date", "Bill_Number", "Customer", "Product_ID",
	"Product_Name", "Quantity", "Unit_Price", "Subtotal",
	"Discount_Percent", "Tax_Percent", "Total_Amount",
	"Payment_Method", "Payment_Status",
}

// SalesStore appends completed bills to a CSV file, one row per line item.
// Rows are never rewritten; reports only ever read this file back.
type SalesStore struct {
	path string
}

func NewSalesStore(path string) *SalesStore {
	return &SalesStore{path: path}
}

// Append serializes every line item of the bill and issues a single write,
// so either all rows of the bill reach the file or none do.
func (s *SalesStore) Append(_ context.Context, bill *domain.Bill) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if empty, err := s.isEmpty(); err != nil {
		return err
	} else if empty {
		if err := writer.Write(salesHeader); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
	}

	for _, record := range bill.SaleRecords() {
		row := []string{
			record.Timestamp.Format(salesTimeLayout),
			record.BillNumber,
			record.Customer,
			strconv.Itoa(record.ProductID),
			record.ProductName,
			strconv.Itoa(record.Quantity),
			record.UnitPrice.String(),
			record.Subtotal.String(),
			record.DiscountPercent.String(),
			record.TaxPercent.String(),
			record.TotalAmount.String(),
			string(record.PaymentMethod),
			record.PaymentStatus,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open sales file: %v", domain.ErrPersistence, err)
	}
	defer file.Close()

	if _, err := file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: append sales rows: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Records reads the whole store back. Numeric cells that fail to parse read
// back as zero rather than failing the scan, matching how reports tolerate
// hand-edited files.
func (s *SalesStore) Records(_ context.Context) ([]domain.SaleRecord, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open sales file: %v", domain.ErrPersistence, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	if _, err := reader.Read(); err == io.EOF {
		return nil, domain.ErrNoData
	} else if err != nil {
		return nil, fmt.Errorf("%w: read sales header: %v", domain.ErrPersistence, err)
	}

	var records []domain.SaleRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read sales row: %v", domain.ErrPersistence, err)
		}
		if len(row) != len(salesHeader) {
			continue
		}

		timestamp, _ := time.Parse(salesTimeLayout, row[0])
		records = append(records, domain.SaleRecord{
			Timestamp:       timestamp,
			BillNumber:      row[1],
			Customer:        row[2],
			ProductID:       lenientInt(row[3]),
			ProductName:     row[4],
			Quantity:        lenientInt(row[5]),
			UnitPrice:       lenientDecimal(row[6]),
			Subtotal:        lenientDecimal(row[7]),
			DiscountPercent: lenientDecimal(row[8]),
			TaxPercent:      lenientDecimal(row[9]),
			TotalAmount:     lenientDecimal(row[10]),
			PaymentMethod:   domain.PaymentMethod(row[11]),
			PaymentStatus:   row[12],
		})
	}
	return records, nil
}

func (s *SalesStore) isEmpty() (bool, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: stat sales file: %v", domain.ErrPersistence, err)
	}
	return info.Size() == 0, nil
}

func lenientInt(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

func lenientDecimal(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}
