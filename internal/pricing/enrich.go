package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"storefront-bridge/internal/httpclient"
)

const (
	defaultBulkLimit     = 10
	defaultFallbackLimit = 5
)

var productURIPattern = regexp.MustCompile(`/products/([^/?#;]+)`)

// EnricherOptions parameterise the price enricher.
type EnricherOptions struct {
	BaseURL        string
	AcceptLanguage string
	// BulkLimit caps the number of SKUs sent to the bulk price endpoint in
	// one request. Default 10.
	BulkLimit int
	// FallbackLimit caps how many items get an individual detail fetch when
	// the bulk call is unusable. Default 5.
	FallbackLimit int
}

// Enricher produces best-effort canonical pricing for batches of catalog
// items. It never fails a batch: bulk errors trigger a bounded per-item
// fallback and residual failures leave the affected items unpriced.
type Enricher struct {
	opts   EnricherOptions
	client *httpclient.Client
	logger zerolog.Logger
}

// NewEnricher constructs an enricher backed by the given retry client.
func NewEnricher(opts EnricherOptions, client *httpclient.Client, logger zerolog.Logger) *Enricher {
	if opts.BulkLimit <= 0 {
		opts.BulkLimit = defaultBulkLimit
	}
	if opts.FallbackLimit <= 0 {
		opts.FallbackLimit = defaultFallbackLimit
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	return &Enricher{
		opts:   opts,
		client: client,
		logger: logger.With().Str("component", "price_enricher").Logger(),
	}
}

// Enrich returns a copy of items with canonical prices attached where the
// upstream knows one. Prices embedded in the listing (RawPrice) are used
// first; only items still unpriced go into the bulk lookup. Input order and
// count are preserved exactly; items whose price cannot be resolved pass
// through unpriced. Enrich never returns an error.
func (e *Enricher) Enrich(ctx context.Context, items []CatalogItem) []CatalogItem {
	out := make([]CatalogItem, len(items))
	copy(out, items)

	skus := make([]string, 0, e.opts.BulkLimit)
	for i := range out {
		if out[i].SKU == "" {
			out[i].SKU = SKUFromURI(out[i].URI)
		}
		if out[i].Price == nil && len(out[i].RawPrice) > 0 {
			out[i].Price = Normalize(out[i].RawPrice)
		}
		if out[i].Price == nil && out[i].SKU != "" && len(skus) < e.opts.BulkLimit {
			skus = append(skus, out[i].SKU)
		}
	}
	if len(skus) == 0 {
		return out
	}

	records, err := e.fetchBulk(ctx, skus)
	if err != nil {
		e.logger.Warn().Err(err).Int("skus", len(skus)).Msg("bulk price lookup failed, falling back to detail fetches")
		e.fallback(ctx, out)
		return out
	}

	for i := range out {
		if out[i].SKU == "" || out[i].Price != nil {
			continue
		}
		if raw, ok := records[out[i].SKU]; ok {
			out[i].Price = Normalize(raw)
		}
	}
	return out
}

// SKUFromURI extracts the trailing product path segment of a resource URI,
// e.g. ".../products/7911525" yields "7911525". It returns "" when the URI
// carries no product segment.
func SKUFromURI(uri string) string {
	match := productURIPattern.FindStringSubmatch(uri)
	if match == nil {
		return ""
	}
	return match[1]
}

func (e *Enricher) fetchBulk(ctx context.Context, skus []string) (map[string]json.RawMessage, error) {
	params := url.Values{}
	for _, sku := range skus {
		params.Add("sku", sku)
	}

	resp, err := e.client.Do(ctx, httpclient.Request{
		URL:     e.opts.BaseURL + "/productprices?" + params.Encode(),
		Headers: e.headers(),
	})
	if err != nil {
		return nil, err
	}
	return flattenPriceRecords(resp.Body)
}

type bulkEnvelope struct {
	Data     []json.RawMessage `json:"data"`
	Elements []json.RawMessage `json:"elements"`
}

// flattenPriceRecords accepts the three known bulk container shapes (a
// "data" sequence, an "elements" sequence, or a bare sequence) and indexes
// the raw records by their SKU.
func flattenPriceRecords(body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)

	var elements []json.RawMessage
	if bytes.HasPrefix(trimmed, []byte("[")) {
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return nil, err
		}
	} else {
		var env bulkEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		elements = env.Data
		if elements == nil {
			elements = env.Elements
		}
	}

	records := make(map[string]json.RawMessage, len(elements))
	for _, element := range elements {
		var tag struct {
			SKU string `json:"sku"`
		}
		if err := json.Unmarshal(element, &tag); err != nil || tag.SKU == "" {
			continue
		}
		records[tag.SKU] = element
	}
	return records, nil
}

// fallback recovers detail data for a bounded prefix of the batch. Items
// beyond the limit, and items whose individual fetch fails, pass through
// untouched; nothing propagates to the caller.
func (e *Enricher) fallback(ctx context.Context, items []CatalogItem) {
	indexes := make([]int, 0, e.opts.FallbackLimit)
	for i := range items {
		if len(indexes) == e.opts.FallbackLimit {
			break
		}
		if items[i].SKU != "" && items[i].Price == nil {
			indexes = append(indexes, i)
		}
	}

	var wg sync.WaitGroup
	for _, idx := range indexes {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			detail, err := e.fetchDetail(ctx, items[idx].SKU)
			if err != nil {
				e.logger.Debug().Err(err).Str("sku", items[idx].SKU).Msg("detail fetch fallback failed")
				return
			}
			applyDetail(&items[idx], detail)
		}(idx)
	}
	wg.Wait()
}

type productDetail struct {
	Manufacturer string          `json:"manufacturer"`
	InStock      *bool           `json:"inStock"`
	Price        json.RawMessage `json:"price"`
	Attributes   []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"attributes"`

	raw json.RawMessage
}

func (e *Enricher) fetchDetail(ctx context.Context, sku string) (*productDetail, error) {
	resp, err := e.client.Do(ctx, httpclient.Request{
		URL:     e.opts.BaseURL + "/products/" + url.PathEscape(sku),
		Headers: e.headers(),
	})
	if err != nil {
		return nil, err
	}

	var detail productDetail
	if err := json.Unmarshal(resp.Body, &detail); err != nil {
		return nil, err
	}
	detail.raw = resp.Body
	return &detail, nil
}

func applyDetail(item *CatalogItem, detail *productDetail) {
	if detail.Manufacturer != "" && item.Manufacturer == "" {
		item.Manufacturer = detail.Manufacturer
	}
	if detail.InStock != nil {
		item.InStock = detail.InStock
	}
	if len(detail.Attributes) > 0 && item.Attributes == nil {
		attrs := make(map[string]string, len(detail.Attributes))
		for _, attr := range detail.Attributes {
			attrs[attr.Name] = attr.Value
		}
		item.Attributes = attrs
	}

	// The detail payload may carry its price under "price", under "prices",
	// or as flat legacy fields; Normalize handles the latter two when fed
	// the whole record.
	if price := Normalize(detail.Price); price != nil {
		item.Price = price
		return
	}
	item.Price = Normalize(detail.raw)
}

func (e *Enricher) headers() map[string]string {
	headers := map[string]string{"Accept": "application/json"}
	if e.opts.AcceptLanguage != "" {
		headers["Accept-Language"] = e.opts.AcceptLanguage
	}
	return headers
}
