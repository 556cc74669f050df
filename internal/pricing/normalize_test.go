package pricing

import (
	"encoding/json"
	"testing"
)

func TestNormalizeTieredShape(t *testing.T) {
	raw := json.RawMessage(`{
		"prices": {
			"SalePrice": [{"gross":{"value":10.5,"currency":"USD"},"net":{"value":9,"currency":"USD"}}],
			"ListPrice": [{"gross":{"value":12,"currency":"USD"},"net":{"value":10.2,"currency":"USD"}}]
		}
	}`)

	price := Normalize(raw)
	if price == nil {
		t.Fatal("expected a price")
	}
	if !price.SaleGross.Equal(decimalFrom(t, "10.5")) {
		t.Fatalf("unexpected sale gross: %s", price.SaleGross)
	}
	if !price.SaleNet.Equal(decimalFrom(t, "9")) {
		t.Fatalf("unexpected sale net: %s", price.SaleNet)
	}
	if price.SaleFormatted != "USD 10.50" {
		t.Fatalf("unexpected formatted sale price: %q", price.SaleFormatted)
	}
	if price.ListFormatted != "USD 12.00" {
		t.Fatalf("unexpected formatted list price: %q", price.ListFormatted)
	}
	if price.Currency != "USD" {
		t.Fatalf("unexpected currency: %q", price.Currency)
	}
}

func TestNormalizeTieredMissingTierIsNotAnError(t *testing.T) {
	raw := json.RawMessage(`{"prices":{"SalePrice":[{"gross":{"value":3,"currency":"EUR"}}]}}`)

	price := Normalize(raw)
	if price == nil {
		t.Fatal("expected a price")
	}
	if price.ListGross != nil || price.ListFormatted != "" {
		t.Fatal("missing ListPrice array must leave list fields unset")
	}
	if price.SaleFormatted != "EUR 3.00" {
		t.Fatalf("unexpected formatted sale price: %q", price.SaleFormatted)
	}
}

func TestNormalizeLegacyShape(t *testing.T) {
	price := Normalize(json.RawMessage(`{"listPrice":{"value":5,"currency":"EUR"}}`))
	if price == nil {
		t.Fatal("expected a price")
	}
	if price.ListFormatted != "EUR 5.00" {
		t.Fatalf("unexpected formatted list price: %q", price.ListFormatted)
	}
	if price.SaleGross != nil || price.SaleFormatted != "" {
		t.Fatal("absent sale price must stay nil")
	}
	if price.Currency != "EUR" {
		t.Fatalf("unexpected currency: %q", price.Currency)
	}
}

func TestNormalizeLegacyBothFields(t *testing.T) {
	raw := json.RawMessage(`{"listPrice":{"value":20,"currency":"USD"},"salesPrice":{"value":17.99,"currency":"USD"}}`)

	price := Normalize(raw)
	if price == nil {
		t.Fatal("expected a price")
	}
	if price.SaleFormatted != "USD 17.99" {
		t.Fatalf("unexpected sale formatting: %q", price.SaleFormatted)
	}
	if price.ListFormatted != "USD 20.00" {
		t.Fatalf("unexpected list formatting: %q", price.ListFormatted)
	}
}

func TestNormalizeBareShape(t *testing.T) {
	price := Normalize(json.RawMessage(`{"value":7.5,"currencyMnemonic":"GBP"}`))
	if price == nil {
		t.Fatal("expected a price")
	}
	if price.SaleFormatted != "GBP 7.50" {
		t.Fatalf("unexpected formatting: %q", price.SaleFormatted)
	}
}

func TestNormalizeBareShapeDefaultsCurrencySymbol(t *testing.T) {
	price := Normalize(json.RawMessage(`{"value":2}`))
	if price == nil {
		t.Fatal("expected a price")
	}
	if price.Currency != "$" {
		t.Fatalf("expected $ fallback currency, got %q", price.Currency)
	}
	if price.SaleFormatted != "$ 2.00" {
		t.Fatalf("unexpected formatting: %q", price.SaleFormatted)
	}
}

func TestNormalizeAbsentPayload(t *testing.T) {
	if Normalize(nil) != nil {
		t.Fatal("nil payload must yield nil price")
	}
	if Normalize(json.RawMessage(`null`)) != nil {
		t.Fatal("null payload must yield nil price")
	}
	if Normalize(json.RawMessage(`not json`)) != nil {
		t.Fatal("malformed payload must yield nil price, not an error")
	}
	if Normalize(json.RawMessage(`{}`)) != nil {
		t.Fatal("empty object carries no price")
	}
}
