package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tealeg/xlsx/v3"

	"smartretail/backend/internal/domain"
)

// PaymentSummaryXLSX renders the payment summary as a spreadsheet for
// operators who take reports away from the terminal.
func PaymentSummaryXLSX(summary domain.PaymentSummary) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Payment Summary")
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	writeRow(sheet, "Method", "Transactions", "Amount")
	for _, method := range summary.ByMethod {
		writeRow(sheet, string(method.Method), strconv.FormatInt(method.Transactions, 10), method.AmountTotal.String())
	}
	writeRow(sheet, "TOTAL", strconv.FormatInt(summary.TotalTransactions, 10), summary.TotalAmount.String())

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func DailySummaryXLSX(summary domain.DailySummary) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Daily Summary")
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	writeRow(sheet, "Date", summary.Date)
	writeRow(sheet, "Total Bills", strconv.FormatInt(summary.TotalBills, 10))
	writeRow(sheet, "Total Customers", strconv.Itoa(summary.CustomerCount))
	writeRow(sheet, "Total Items Sold", strconv.Itoa(summary.TotalItemsSold))
	writeRow(sheet, "Total Revenue", summary.TotalRevenue.String())
	writeRow(sheet, "Total Discount Given", summary.TotalDiscount.String())
	writeRow(sheet)
	writeRow(sheet, "Top Product", "Quantity")
	for _, product := range summary.TopProducts {
		writeRow(sheet, product.ProductName, strconv.Itoa(product.Quantity))
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, value := range values {
		row.AddCell().SetString(value)
	}
}
