package pricing

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// The vendor's price API answers in one of three incompatible shapes:
//
//	A: structured multi-price object, amounts nested per tier
//	   {"prices":{"SalePrice":[{"gross":{"value":..,"currency":..},"net":{..}}],"ListPrice":[..]}}
//	B: flat legacy object with independent price points
//	   {"listPrice":{"value":..,"currency":..},"salesPrice":{..}}
//	C: a bare price point
//	   {"value":..,"currency":..} or {"value":..,"currencyMnemonic":..}
//
// Normalize detects the shape explicitly and folds it into a ProductPrice.

type amount struct {
	Value            *decimal.Decimal `json:"value"`
	Currency         string           `json:"currency"`
	CurrencyMnemonic string           `json:"currencyMnemonic"`
}

func (a *amount) currencyCode() string {
	if a.Currency != "" {
		return a.Currency
	}
	return a.CurrencyMnemonic
}

type tieredEntry struct {
	Gross *amount `json:"gross"`
	Net   *amount `json:"net"`
}

type tieredPrices struct {
	SalePrice []tieredEntry `json:"SalePrice"`
	ListPrice []tieredEntry `json:"ListPrice"`
}

type legacyPrices struct {
	ListPrice  *amount `json:"listPrice"`
	SalesPrice *amount `json:"salesPrice"`
	SalePrice  *amount `json:"salePrice"`
}

// Normalize folds a raw upstream price payload into the canonical form.
// A nil, empty, or undecodable payload means no price is known and yields
// nil; malformed data is never an error at this layer.
func Normalize(raw json.RawMessage) *ProductPrice {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}

	var probe struct {
		Prices     json.RawMessage `json:"prices"`
		ListPrice  json.RawMessage `json:"listPrice"`
		SalesPrice json.RawMessage `json:"salesPrice"`
		SalePrice  json.RawMessage `json:"salePrice"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}

	switch {
	case len(probe.Prices) > 0 && !bytes.Equal(probe.Prices, []byte("null")):
		return normalizeTiered(probe.Prices)
	case present(probe.ListPrice) || present(probe.SalesPrice) || present(probe.SalePrice):
		var legacy legacyPrices
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil
		}
		return normalizeLegacy(legacy)
	default:
		var bare amount
		if err := json.Unmarshal(raw, &bare); err != nil {
			return nil
		}
		return normalizeBare(bare)
	}
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// normalizeTiered handles shape A. Only the first entry of each tier array is
// considered; missing tiers leave the corresponding fields unset.
func normalizeTiered(raw json.RawMessage) *ProductPrice {
	var tiers tieredPrices
	if err := json.Unmarshal(raw, &tiers); err != nil {
		return nil
	}

	price := &ProductPrice{}
	if len(tiers.SalePrice) > 0 {
		applyEntry(price, tiers.SalePrice[0], &price.SaleGross, &price.SaleNet, &price.SaleFormatted)
	}
	if len(tiers.ListPrice) > 0 {
		applyEntry(price, tiers.ListPrice[0], &price.ListGross, &price.ListNet, &price.ListFormatted)
	}
	if price.SaleGross == nil && price.SaleNet == nil && price.ListGross == nil && price.ListNet == nil {
		return nil
	}
	return price
}

func applyEntry(price *ProductPrice, entry tieredEntry, gross, net **decimal.Decimal, formatted *string) {
	if entry.Gross != nil && entry.Gross.Value != nil {
		*gross = entry.Gross.Value
		currency := entry.Gross.currencyCode()
		if price.Currency == "" {
			price.Currency = currency
		}
		*formatted = formatAmount(currency, *entry.Gross.Value)
	}
	if entry.Net != nil && entry.Net.Value != nil {
		*net = entry.Net.Value
		if price.Currency == "" {
			price.Currency = entry.Net.currencyCode()
		}
	}
}

// normalizeLegacy handles shape B; list and sale map independently, absent
// fields stay nil.
func normalizeLegacy(legacy legacyPrices) *ProductPrice {
	sale := legacy.SalesPrice
	if sale == nil {
		sale = legacy.SalePrice
	}

	price := &ProductPrice{}
	if sale != nil && sale.Value != nil {
		price.SaleGross = sale.Value
		price.Currency = sale.currencyCode()
		price.SaleFormatted = formatAmount(sale.currencyCode(), *sale.Value)
	}
	if legacy.ListPrice != nil && legacy.ListPrice.Value != nil {
		price.ListGross = legacy.ListPrice.Value
		if price.Currency == "" {
			price.Currency = legacy.ListPrice.currencyCode()
		}
		price.ListFormatted = formatAmount(legacy.ListPrice.currencyCode(), *legacy.ListPrice.Value)
	}
	if price.SaleGross == nil && price.ListGross == nil {
		return nil
	}
	return price
}

// normalizeBare handles shape C: the object is itself one price point. The
// currency symbol falls back to "$" when neither currency field is present.
func normalizeBare(bare amount) *ProductPrice {
	if bare.Value == nil {
		return nil
	}
	currency := bare.currencyCode()
	if currency == "" {
		currency = "$"
	}
	return &ProductPrice{
		SaleGross:     bare.Value,
		Currency:      currency,
		SaleFormatted: formatAmount(currency, *bare.Value),
	}
}
