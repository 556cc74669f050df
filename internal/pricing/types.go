// Package pricing reconciles the vendor's inconsistent price payloads into a
// single canonical representation and enriches catalog items with it.
package pricing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductPrice is the canonical price derived from whatever shape the
// upstream returned. All amount fields are optional; Currency is set whenever
// at least one amount is present.
type ProductPrice struct {
	SaleGross     *decimal.Decimal `json:"salePriceGross,omitempty"`
	SaleNet       *decimal.Decimal `json:"salePriceNet,omitempty"`
	ListGross     *decimal.Decimal `json:"listPriceGross,omitempty"`
	ListNet       *decimal.Decimal `json:"listPriceNet,omitempty"`
	Currency      string           `json:"currencyCode,omitempty"`
	SaleFormatted string           `json:"salePriceFormatted,omitempty"`
	ListFormatted string           `json:"listPriceFormatted,omitempty"`
}

// CatalogItem is a catalog entry as handed over by a tool handler. Enrich
// returns copies with Price attached; the caller's items are never mutated.
type CatalogItem struct {
	SKU          string            `json:"sku,omitempty"`
	Name         string            `json:"name,omitempty"`
	URI          string            `json:"uri,omitempty"`
	Description  string            `json:"description,omitempty"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	InStock      *bool             `json:"inStock,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	RawPrice     json.RawMessage   `json:"-"`
	Price        *ProductPrice     `json:"price,omitempty"`
}

func formatAmount(currency string, value decimal.Decimal) string {
	return fmt.Sprintf("%s %s", currency, value.StringFixed(2))
}
