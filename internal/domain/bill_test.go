package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func seededInventory(t *testing.T) *Inventory {
	t.Helper()
	inv := NewInventory()
	require.NoError(t, inv.AddProduct(mustProduct(t, 101, "Rice", 60, 50)))
	require.NoError(t, inv.AddProduct(mustProduct(t, 102, "Wheat Flour", 45, 30)))
	return inv
}

func TestBillTotalsWithDiscountAndTax(t *testing.T) {
	inv := seededInventory(t)
	bill := NewBill("Asha", decimal.Zero)

	require.NoError(t, bill.AddItem(inv, 101, 2))
	require.Equal(t, 48, inv.GetProduct(101).Stock)
	require.Equal(t, "120", bill.Subtotal().String())

	require.NoError(t, bill.ApplyDiscount(decimal.NewFromInt(10)))
	require.NoError(t, bill.SetTaxRate(decimal.NewFromInt(5)))

	require.Equal(t, "12", bill.DiscountAmount().String())
	require.Equal(t, "5.4", bill.TaxAmount().String())
	require.Equal(t, "113.4", bill.Total().String())
}

func TestBillFullDiscountZeroesTotal(t *testing.T) {
	inv := seededInventory(t)
	bill := NewBill("", decimal.NewFromInt(5))

	require.NoError(t, bill.AddItem(inv, 101, 2))
	require.NoError(t, bill.ApplyDiscount(hundred))
	require.True(t, bill.Total().IsZero())
}

func TestAddItemInvalidQuantityLeavesEverythingUntouched(t *testing.T) {
	inv := seededInventory(t)
	bill := NewBill("", decimal.Zero)

	require.ErrorIs(t, bill.AddItem(inv, 101, 0), ErrInvalidQuantity)
	require.ErrorIs(t, bill.AddItem(inv, 101, -2), ErrInvalidQuantity)
	require.Equal(t, 50, inv.GetProduct(101).Stock)
	require.True(t, bill.IsEmpty())
}

func TestAddItemUnknownProduct(t *testing.T) {
	inv := seededInventory(t)
	bill := NewBill("", decimal.Zero)

	require.ErrorIs(t, bill.AddItem(inv, 999, 1), ErrNotFound)
	require.True(t, bill.IsEmpty())
}

func TestAddItemInsufficientStock(t *testing.T) {
	inv := seededInventory(t)
	bill := NewBill("", decimal.Zero)

	err := bill.AddItem(inv, 102, 31)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 30, inv.GetProduct(102).Stock)
	require.True(t, bill.IsEmpty())
}

func TestAddItemMergesLineAtCapturedPrice(t *testing.T) {
	inv := seededInventory(t)
	bill := NewBill("", decimal.Zero)

	require.NoError(t, bill.AddItem(inv, 101, 1))
	require.NoError(t, inv.GetProduct(101).SetPrice(decimal.NewFromInt(90)))
	require.NoError(t, bill.AddItem(inv, 101, 1))

	require.Len(t, bill.Items, 1)
	require.Equal(t, 2, bill.Items[0].Quantity)
	require.Equal(t, "120", bill.Items[0].Subtotal().String())
	require.Equal(t, 48, inv.GetProduct(101).Stock)
}

func TestRemoveItemRestoresStock(t *testing.T) {
	inv := seededInventory(t)
	bill := NewBill("", decimal.Zero)

	require.NoError(t, bill.AddItem(inv, 101, 5))
	require.Equal(t, 45, inv.GetProduct(101).Stock)

	require.NoError(t, bill.RemoveItem(101))
	require.Equal(t, 50, inv.GetProduct(101).Stock)
	require.True(t, bill.IsEmpty())

	require.ErrorIs(t, bill.RemoveItem(101), ErrNotFound)
}

func TestDiscountAndTaxRanges(t *testing.T) {
	bill := NewBill("", decimal.Zero)

	require.ErrorIs(t, bill.ApplyDiscount(decimal.NewFromInt(-1)), ErrInvalidRange)
	require.ErrorIs(t, bill.ApplyDiscount(decimal.NewFromInt(101)), ErrInvalidRange)
	require.NoError(t, bill.ApplyDiscount(decimal.NewFromInt(100)))

	require.ErrorIs(t, bill.SetTaxRate(decimal.NewFromInt(-1)), ErrInvalidRange)
	require.NoError(t, bill.SetTaxRate(decimal.Zero))
}

func TestTotalsRecomputedFromLineItems(t *testing.T) {
	inv := seededInventory(t)
	bill := NewBill("", decimal.Zero)

	require.NoError(t, bill.AddItem(inv, 101, 2))
	first := bill.Total()
	second := bill.Total()
	require.True(t, first.Equal(second))

	require.NoError(t, bill.ApplyDiscount(decimal.NewFromInt(50)))
	require.Equal(t, "60", bill.Total().String())

	require.NoError(t, bill.RemoveItem(101))
	require.True(t, bill.Total().IsZero())
}

func TestNewBillDefaults(t *testing.T) {
	bill := NewBill("   ", decimal.NewFromInt(-3))

	require.Equal(t, WalkInCustomer, bill.CustomerName)
	require.True(t, bill.TaxPercent.IsZero())
	require.Equal(t, PaymentStatusPending, bill.PaymentStatus)
	require.True(t, strings.HasPrefix(bill.Number, "BILL"))
	require.False(t, bill.CreatedAt.IsZero())
}

func TestBillNumbersUniqueWithinOneSecond(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		number := NewBill("", decimal.Zero).Number
		if seen[number] {
			t.Fatalf("duplicate bill number %s", number)
		}
		seen[number] = true
	}
}

func TestSaleRecordsShareBillNumberAndTotal(t *testing.T) {
	inv := seededInventory(t)
	bill := NewBill("Asha", decimal.NewFromInt(5))

	require.NoError(t, bill.AddItem(inv, 101, 2))
	require.NoError(t, bill.AddItem(inv, 102, 1))
	bill.SetPaymentInfo(MethodCash, PaymentStatusCompleted)

	records := bill.SaleRecords()
	require.Len(t, records, 2)
	for _, record := range records {
		require.Equal(t, bill.Number, record.BillNumber)
		require.Equal(t, "Asha", record.Customer)
		require.True(t, record.TotalAmount.Equal(bill.Total()))
		require.Equal(t, MethodCash, record.PaymentMethod)
		require.Equal(t, PaymentStatusCompleted, record.PaymentStatus)
	}
	require.Equal(t, 101, records[0].ProductID)
	require.Equal(t, "120", records[0].Subtotal.String())
	require.Equal(t, 102, records[1].ProductID)
	require.Equal(t, "45", records[1].Subtotal.String())
}
