package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"smartretail/backend/internal/domain"
	"smartretail/backend/internal/payment"
	"smartretail/backend/internal/report"
	"smartretail/backend/internal/service"
	"smartretail/backend/internal/store/memory"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	mem := memory.NewSeeded()
	inv, err := mem.Load(context.Background())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	svc := service.New(inv, mem, mem, payment.NewProcessor(payment.SimulatedGateway{}),
		report.NewAggregator(mem, nil, 0), decimal.NewFromInt(5), 10)
	return New(svc, "http://127.0.0.1:3000").Handler()
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestProductEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listing struct {
		Products []domain.Product `json:"products"`
	}
	decodeBody(t, rec, &listing)
	if len(listing.Products) != 17 {
		t.Fatalf("products = %d, want 17", len(listing.Products))
	}

	create := domain.ProductCreateRequest{ID: 200, Name: "Matches", Price: decimal.NewFromInt(5), Stock: 80}
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/products", create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/products", create)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products/200", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var product domain.Product
	decodeBody(t, rec, &product)
	if product.Name != "Matches" {
		t.Fatalf("product = %+v", product)
	}

	newStock := 70
	rec = doJSON(t, handler, http.MethodPatch, "/api/v1/products/200", map[string]any{"stock": newStock})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/products/200", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products/200", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", rec.Code)
	}
}

func TestLowStockEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products/low-stock", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var listing struct {
		Products []domain.Product `json:"products"`
	}
	decodeBody(t, rec, &listing)
	if len(listing.Products) != 1 || listing.Products[0].ID != 107 {
		t.Fatalf("low stock = %+v", listing.Products)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products/low-stock?threshold=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad threshold status = %d", rec.Code)
	}
}

func TestBillFlow(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/bill", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get without bill status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/bill", domain.BillStartRequest{CustomerName: "Asha"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start bill status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/bill", domain.BillStartRequest{})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second bill status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/bill/items", domain.BillAddItemRequest{ProductID: 101, Quantity: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("add item status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/bill/items", domain.BillAddItemRequest{ProductID: 101, Quantity: 500})
	if rec.Code != http.StatusConflict {
		t.Fatalf("over stock status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/bill/discount", map[string]any{"percent": 10})
	if rec.Code != http.StatusOK {
		t.Fatalf("discount status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/bill", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get bill status = %d", rec.Code)
	}
	var view domain.BillView
	decodeBody(t, rec, &view)
	if view.Total.String() != "113.4" {
		t.Fatalf("total = %s, want 113.4", view.Total)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/bill/pay", map[string]any{"method": "Cash", "cash_received": 100})
	if rec.Code != http.StatusOK {
		t.Fatalf("declined pay status = %d: %s", rec.Code, rec.Body)
	}
	var declined domain.PayResponse
	decodeBody(t, rec, &declined)
	if declined.Outcome.Success {
		t.Fatal("payment should have been declined")
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/bill/pay", map[string]any{"method": "Cash", "cash_received": 150})
	if rec.Code != http.StatusOK {
		t.Fatalf("pay status = %d: %s", rec.Code, rec.Body)
	}
	var paid domain.PayResponse
	decodeBody(t, rec, &paid)
	if !paid.Outcome.Success {
		t.Fatalf("payment declined: %s", paid.Outcome.Message)
	}
	if paid.Outcome.Change.String() != "36.6" {
		t.Fatalf("change = %s, want 36.6", paid.Outcome.Change)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/bill", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("bill should be closed, status = %d", rec.Code)
	}
}

func TestCancelBillEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/bill", domain.BillStartRequest{})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start bill status = %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/bill/items", domain.BillAddItemRequest{ProductID: 101, Quantity: 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("add item status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/bill", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("cancel status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products/101", nil)
	var product domain.Product
	decodeBody(t, rec, &product)
	if product.Stock != 50 {
		t.Fatalf("stock = %d, want 50", product.Stock)
	}
}

func TestRemoveBillItemEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	doJSON(t, handler, http.MethodPost, "/api/v1/bill", domain.BillStartRequest{})
	doJSON(t, handler, http.MethodPost, "/api/v1/bill/items", domain.BillAddItemRequest{ProductID: 101, Quantity: 2})

	rec := doJSON(t, handler, http.MethodDelete, "/api/v1/bill/items/101", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove item status = %d: %s", rec.Code, rec.Body)
	}
	var view domain.BillView
	decodeBody(t, rec, &view)
	if len(view.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(view.Items))
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/bill/items/101", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("remove absent item status = %d", rec.Code)
	}
}

func TestReportEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	// No sales yet: summaries come back zero-valued, not as errors.
	rec := doJSON(t, handler, http.MethodGet, "/api/v1/reports/payment-summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("payment summary status = %d", rec.Code)
	}
	var payments domain.PaymentSummary
	decodeBody(t, rec, &payments)
	if payments.TotalTransactions != 0 || len(payments.ByMethod) != 3 {
		t.Fatalf("payment summary = %+v", payments)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/reports/daily?date=2026-08-30", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("daily summary status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/reports/daily?date=30-08-2026", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/reports/daily?date=2026-08-30&format=xlsx", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("content type = %s", got)
	}
}

func TestMethodNotAllowedAndPreflight(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPut, "/api/v1/products", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("put status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodOptions, "/api/v1/products", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "http://127.0.0.1:3000" {
		t.Fatalf("allow origin = %s", origin)
	}
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", map[string]any{"id": 300, "name": "X", "price": 1, "stock": 1, "bogus": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d", rec.Code)
	}
}
