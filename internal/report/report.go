package report

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"smartretail/backend/internal/cache"
	"smartretail/backend/internal/domain"
	"smartretail/backend/internal/store"
)

const (
	dateLayout = "2006-01-02"

	paymentSummaryKey     = "report:payment-summary"
	dailySummaryKeyPrefix = "report:daily-summary:"
)

var hundred = decimal.NewFromInt(100)

// Aggregator reconstructs summaries purely from the persisted sales store.
// Rows sharing a bill number repeat the bill total, so bill-level figures
// are deduplicated by bill number with the first occurrence winning.
type Aggregator struct {
	sales store.SalesStore
	cache cache.ReportCache
	ttl   time.Duration
}

func NewAggregator(sales store.SalesStore, reportCache cache.ReportCache, ttl time.Duration) *Aggregator {
	if reportCache == nil {
		reportCache = cache.NoopReportCache{}
	}
	return &Aggregator{sales: sales, cache: reportCache, ttl: ttl}
}

func (a *Aggregator) PaymentSummary(ctx context.Context) (domain.PaymentSummary, error) {
	const key = paymentSummaryKey

	var cached domain.PaymentSummary
	if hit, err := a.cache.Get(ctx, key, &cached); err != nil {
		log.Printf("[report] WARN: cache get %s: %v", key, err)
	} else if hit {
		return cached, nil
	}

	records, err := a.sales.Records(ctx)
	if err != nil {
		return domain.PaymentSummary{}, err
	}

	summary := buildPaymentSummary(records)
	if err := a.cache.Set(ctx, key, summary, a.ttl); err != nil {
		log.Printf("[report] WARN: cache set %s: %v", key, err)
	}
	return summary, nil
}

// DailySummary aggregates the rows whose date portion matches date
// (yyyy-mm-dd, defaulting to today). Bill count, revenue and discount are
// deduplicated per bill; item quantities sum across every matching row.
func (a *Aggregator) DailySummary(ctx context.Context, date string) (domain.DailySummary, error) {
	if date == "" {
		date = time.Now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return domain.DailySummary{}, fmt.Errorf("%w: date must be yyyy-mm-dd", domain.ErrInvalidAttribute)
	}

	key := dailySummaryKeyPrefix + date
	var cached domain.DailySummary
	if hit, err := a.cache.Get(ctx, key, &cached); err != nil {
		log.Printf("[report] WARN: cache get %s: %v", key, err)
	} else if hit {
		return cached, nil
	}

	records, err := a.sales.Records(ctx)
	if err != nil {
		return domain.DailySummary{}, err
	}

	summary := buildDailySummary(records, date)
	if err := a.cache.Set(ctx, key, summary, a.ttl); err != nil {
		log.Printf("[report] WARN: cache set %s: %v", key, err)
	}
	return summary, nil
}

// Invalidate drops the cached summaries a newly recorded sale makes stale:
// the payment summary and the daily summary for the sale's date.
func (a *Aggregator) Invalidate(ctx context.Context, soldAt time.Time) {
	keys := []string{
		paymentSummaryKey,
		dailySummaryKeyPrefix + soldAt.UTC().Format(dateLayout),
	}
	if err := a.cache.Delete(ctx, keys...); err != nil {
		log.Printf("[report] WARN: cache delete: %v", err)
	}
}

func buildPaymentSummary(records []domain.SaleRecord) domain.PaymentSummary {
	methods := []domain.PaymentMethod{domain.MethodCash, domain.MethodCard, domain.MethodUPI}

	counts := make(map[domain.PaymentMethod]int64, len(methods))
	amounts := make(map[domain.PaymentMethod]decimal.Decimal, len(methods))
	for _, method := range methods {
		amounts[method] = decimal.Zero
	}

	summary := domain.PaymentSummary{TotalAmount: decimal.Zero}
	seen := make(map[string]bool)
	for _, record := range records {
		if seen[record.BillNumber] {
			continue
		}
		seen[record.BillNumber] = true

		if _, known := amounts[record.PaymentMethod]; known {
			counts[record.PaymentMethod]++
			amounts[record.PaymentMethod] = amounts[record.PaymentMethod].Add(record.TotalAmount)
		}
		summary.TotalTransactions++
		summary.TotalAmount = summary.TotalAmount.Add(record.TotalAmount)
	}

	for _, method := range methods {
		summary.ByMethod = append(summary.ByMethod, domain.PaymentMethodSummary{
			Method:       method,
			Transactions: counts[method],
			AmountTotal:  amounts[method],
		})
	}
	return summary
}

func buildDailySummary(records []domain.SaleRecord, date string) domain.DailySummary {
	summary := domain.DailySummary{
		Date:          date,
		TotalRevenue:  decimal.Zero,
		TotalDiscount: decimal.Zero,
	}

	seenBills := make(map[string]bool)
	customers := make(map[string]bool)
	productQty := make(map[string]int)
	var productOrder []string

	for _, record := range records {
		if record.Timestamp.Format(dateLayout) != date {
			continue
		}

		if !seenBills[record.BillNumber] {
			seenBills[record.BillNumber] = true
			summary.TotalBills++
			summary.TotalRevenue = summary.TotalRevenue.Add(record.TotalAmount)
			summary.TotalDiscount = summary.TotalDiscount.Add(reconstructDiscount(record.TotalAmount, record.DiscountPercent))
		}

		if record.Customer != "" {
			customers[record.Customer] = true
		}

		summary.TotalItemsSold += record.Quantity
		if _, tracked := productQty[record.ProductName]; !tracked {
			productOrder = append(productOrder, record.ProductName)
		}
		productQty[record.ProductName] += record.Quantity
	}

	summary.CustomerCount = len(customers)
	summary.TopProducts = topProducts(productQty, productOrder, 5)
	return summary
}

// reconstructDiscount reverse-engineers the discount amount from the stored
// total and discount percent, since the pre-discount subtotal is not
// persisted: discount = total * d / (100 - d). A percent at or above 100
// would divide by zero or flip sign, so it is treated as zero discount.
func reconstructDiscount(total decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	if percent.Sign() <= 0 || percent.GreaterThanOrEqual(hundred) {
		return decimal.Zero
	}
	return total.Mul(percent).Div(hundred.Sub(percent))
}

// topProducts ranks by quantity descending; ties keep first-encountered
// order, which the stable sort over the encounter-ordered slice preserves.
func topProducts(quantities map[string]int, order []string, limit int) []domain.ProductSales {
	ranked := make([]domain.ProductSales, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, domain.ProductSales{ProductName: name, Quantity: quantities[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// EmptyPaymentSummary is the zero-valued result reported when the sales
// store does not exist yet; an empty store is a normal state, not a fault.
func EmptyPaymentSummary() domain.PaymentSummary {
	return buildPaymentSummary(nil)
}

func EmptyDailySummary(date string) domain.DailySummary {
	if date == "" {
		date = time.Now().UTC().Format(dateLayout)
	}
	return buildDailySummary(nil, date)
}
