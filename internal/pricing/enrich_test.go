package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront-bridge/internal/httpclient"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func decimalFrom(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func newTestEnricher(t *testing.T, baseURL string) *Enricher {
	t.Helper()
	client := httpclient.New(httpclient.Options{
		MaxAttempts: 1,
		Timeout:     time.Second,
	}, nil)
	return NewEnricher(EnricherOptions{BaseURL: baseURL, AcceptLanguage: "en-US"}, client, noopLogger())
}

func TestSKUFromURI(t *testing.T) {
	cases := []struct {
		uri  string
		want string
	}{
		{"inSPIRED-inTRONICS-Site/-/products/7911525", "7911525"},
		{"/products/123", "123"},
		{"/products/123?allImages=true", "123"},
		{"/categories/computers", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SKUFromURI(tc.uri); got != tc.want {
			t.Errorf("SKUFromURI(%q) = %q, want %q", tc.uri, got, tc.want)
		}
	}
}

func TestEnrichBulkElementsContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/productprices" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); !strings.Contains(accept, "application/json") {
			t.Errorf("missing Accept header, got %q", accept)
		}
		fmt.Fprint(w, `{"elements":[
			{"sku":"A1","listPrice":{"value":5,"currency":"EUR"}},
			{"sku":"B2","prices":{"SalePrice":[{"gross":{"value":10.5,"currency":"USD"},"net":{"value":9,"currency":"USD"}}]}}
		]}`)
	}))
	defer srv.Close()

	e := newTestEnricher(t, srv.URL)
	out := e.Enrich(context.Background(), []CatalogItem{
		{SKU: "A1", Name: "first"},
		{SKU: "B2", Name: "second"},
		{SKU: "C3", Name: "unpriced"},
	})

	if len(out) != 3 {
		t.Fatalf("expected 3 items back, got %d", len(out))
	}
	if out[0].Price == nil || out[0].Price.ListFormatted != "EUR 5.00" {
		t.Fatalf("unexpected price for A1: %+v", out[0].Price)
	}
	if out[1].Price == nil || out[1].Price.SaleFormatted != "USD 10.50" {
		t.Fatalf("unexpected price for B2: %+v", out[1].Price)
	}
	if out[2].Price != nil {
		t.Fatal("unmatched item must stay unpriced")
	}
}

func TestEnrichBulkDataAndBareContainers(t *testing.T) {
	payloads := []string{
		`{"data":[{"sku":"A1","value":3,"currency":"USD"}]}`,
		`[{"sku":"A1","value":3,"currency":"USD"}]`,
	}
	for _, payload := range payloads {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, payload)
		}))

		e := newTestEnricher(t, srv.URL)
		out := e.Enrich(context.Background(), []CatalogItem{{SKU: "A1"}})
		if out[0].Price == nil || out[0].Price.SaleFormatted != "USD 3.00" {
			t.Errorf("payload %s: unexpected price %+v", payload, out[0].Price)
		}
		srv.Close()
	}
}

func TestEnrichCapsBulkLookupAndPreservesOrder(t *testing.T) {
	var seenSKUs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSKUs = r.URL.Query()["sku"]
		fmt.Fprint(w, `{"elements":[]}`)
	}))
	defer srv.Close()

	items := make([]CatalogItem, 12)
	for i := range items {
		items[i] = CatalogItem{SKU: fmt.Sprintf("sku-%02d", i)}
	}

	e := newTestEnricher(t, srv.URL)
	out := e.Enrich(context.Background(), items)

	if len(seenSKUs) != 10 {
		t.Fatalf("bulk lookup must cap at 10 SKUs, sent %d", len(seenSKUs))
	}
	if len(out) != 12 {
		t.Fatalf("expected all 12 items back, got %d", len(out))
	}
	for i := range out {
		if out[i].SKU != items[i].SKU {
			t.Fatalf("order not preserved at index %d: %s", i, out[i].SKU)
		}
	}
}

func TestEnrichFallsBackToDetailFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/productprices" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if r.URL.Path == "/products/123" {
			inStock := `{"sku":"123","manufacturer":"HP","inStock":true,"price":{"value":99.9,"currency":"USD"}}`
			fmt.Fprint(w, inStock)
			return
		}
		t.Errorf("unexpected path %s", r.URL.Path)
	}))
	defer srv.Close()

	e := newTestEnricher(t, srv.URL)
	out := e.Enrich(context.Background(), []CatalogItem{{URI: "/products/123"}})

	if out[0].SKU != "123" {
		t.Fatalf("expected SKU derived from URI, got %q", out[0].SKU)
	}
	if out[0].Price == nil || out[0].Price.SaleFormatted != "USD 99.90" {
		t.Fatalf("expected fallback price, got %+v", out[0].Price)
	}
	if out[0].Manufacturer != "HP" {
		t.Fatalf("expected manufacturer recovered from detail, got %q", out[0].Manufacturer)
	}
	if out[0].InStock == nil || !*out[0].InStock {
		t.Fatal("expected availability recovered from detail")
	}
}

func TestEnrichAbsorbsTotalOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	e := newTestEnricher(t, srv.URL)
	out := e.Enrich(context.Background(), []CatalogItem{{URI: "/products/123"}})

	if len(out) != 1 {
		t.Fatalf("expected 1 item back, got %d", len(out))
	}
	if out[0].SKU != "123" {
		t.Fatalf("expected sku=123 even when all fetches fail, got %q", out[0].SKU)
	}
	if out[0].Price != nil {
		t.Fatal("expected nil price after total outage")
	}
}

func TestEnrichFallbackCapsAtLimit(t *testing.T) {
	var mu sync.Mutex
	var detailCalls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/productprices" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		mu.Lock()
		detailCalls = append(detailCalls, r.URL.Path)
		mu.Unlock()
		fmt.Fprint(w, `{"value":1,"currency":"USD"}`)
	}))
	defer srv.Close()

	items := make([]CatalogItem, 8)
	for i := range items {
		items[i] = CatalogItem{SKU: fmt.Sprintf("s%d", i)}
	}

	client := httpclient.New(httpclient.Options{MaxAttempts: 1, Timeout: time.Second}, nil)
	e := NewEnricher(EnricherOptions{BaseURL: srv.URL, FallbackLimit: 5}, client, noopLogger())
	out := e.Enrich(context.Background(), items)

	if len(detailCalls) != 5 {
		t.Fatalf("expected 5 detail fetches, got %d", len(detailCalls))
	}
	for i := 5; i < 8; i++ {
		if out[i].Price != nil {
			t.Fatalf("item %d beyond the fallback limit must stay unpriced", i)
		}
	}
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"elements":[{"sku":"A1","value":4,"currency":"USD"}]}`)
	}))
	defer srv.Close()

	items := []CatalogItem{{SKU: "A1", Name: "orig"}}
	e := newTestEnricher(t, srv.URL)
	_ = e.Enrich(context.Background(), items)

	if items[0].Price != nil {
		t.Fatal("caller's items must not be mutated")
	}
}

func TestEnrichIsIdempotentAgainstStableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"elements":[{"sku":"A1","listPrice":{"value":5,"currency":"EUR"}}]}`)
	}))
	defer srv.Close()

	items := []CatalogItem{{SKU: "A1"}, {SKU: "missing"}}
	e := newTestEnricher(t, srv.URL)

	first := e.Enrich(context.Background(), items)
	second := e.Enrich(context.Background(), items)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("enrichment not idempotent:\n%s\n%s", a, b)
	}
}

func TestEnrichUsesEmbeddedListingPrice(t *testing.T) {
	var seenSKUs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSKUs = r.URL.Query()["sku"]
		fmt.Fprint(w, `{"elements":[{"sku":"B2","value":7,"currency":"USD"}]}`)
	}))
	defer srv.Close()

	e := newTestEnricher(t, srv.URL)
	out := e.Enrich(context.Background(), []CatalogItem{
		{SKU: "A1", RawPrice: json.RawMessage(`{"value":12.5,"currency":"EUR"}`)},
		{SKU: "B2"},
	})

	if out[0].Price == nil || out[0].Price.SaleFormatted != "EUR 12.50" {
		t.Fatalf("expected embedded price to be normalized, got %+v", out[0].Price)
	}
	if len(seenSKUs) != 1 || seenSKUs[0] != "B2" {
		t.Fatalf("items priced from the listing must not enter the bulk lookup, requested %v", seenSKUs)
	}
	if out[1].Price == nil || out[1].Price.SaleFormatted != "USD 7.00" {
		t.Fatalf("unexpected bulk price for B2: %+v", out[1].Price)
	}
}

func TestEnrichPassesThroughItemsWithoutSKU(t *testing.T) {
	var seenSKUs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSKUs = r.URL.Query()["sku"]
		fmt.Fprint(w, `{"elements":[{"sku":"A1","value":2,"currency":"USD"}]}`)
	}))
	defer srv.Close()

	e := newTestEnricher(t, srv.URL)
	out := e.Enrich(context.Background(), []CatalogItem{
		{Name: "no sku at all", URI: "/categories/computers"},
		{SKU: "A1"},
	})

	if len(out) != 2 {
		t.Fatalf("expected 2 items back, got %d", len(out))
	}
	if out[0].SKU != "" || out[0].Price != nil {
		t.Fatalf("item without a derivable SKU must pass through unpriced: %+v", out[0])
	}
	if len(seenSKUs) != 1 || seenSKUs[0] != "A1" {
		t.Fatalf("unexpected bulk SKUs: %v", seenSKUs)
	}
	if out[1].Price == nil {
		t.Fatal("expected A1 to be priced")
	}
}
