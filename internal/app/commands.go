package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"storefront-bridge/internal/apiclient"
	"storefront-bridge/internal/pricing"
	"storefront-bridge/internal/storefront"
)

// SearchOptions configure the search command.
type SearchOptions struct {
	Query    string
	Category string
	Limit    int
	Offset   int
}

// Search runs a catalog search, enriches the results with canonical prices,
// and writes them as JSON.
func (a *App) Search(ctx context.Context, out io.Writer, opts SearchOptions) error {
	transport := a.newTransport()
	store := a.newStorefront(transport)

	var (
		result *storefront.SearchResult
		err    error
	)
	if opts.Category != "" {
		result, err = store.GetCategoryProducts(ctx, opts.Category, storefront.SearchOptions{Limit: opts.Limit, Offset: opts.Offset})
	} else {
		result, err = store.SearchProducts(ctx, opts.Query, storefront.SearchOptions{Limit: opts.Limit, Offset: opts.Offset})
	}
	if err != nil {
		return err
	}

	enriched := a.newEnricher(transport).Enrich(ctx, result.CatalogItems())
	return writeJSON(out, map[string]any{
		"count":    len(enriched),
		"products": enriched,
	})
}

// ProductDetail fetches one product with normalized prices and writes it as
// JSON.
func (a *App) ProductDetail(ctx context.Context, out io.Writer, sku string) error {
	transport := a.newTransport()
	product, err := a.newStorefront(transport).GetProduct(ctx, sku)
	if err != nil {
		return err
	}

	return writeJSON(out, map[string]any{
		"sku":          product.SKU,
		"name":         product.Name,
		"description":  product.ShortDescription,
		"manufacturer": product.Manufacturer,
		"inStock":      product.InStock,
		"listPrice":    pricing.Normalize(product.ListPrice),
		"salePrice":    pricing.Normalize(product.SalePrice),
		"attributes":   storefront.FormatAttributes(product),
		"images":       storefront.ExtractImages(product, a.Config.Storefront.AssetBaseURL),
	})
}

// Categories lists the catalog categories as JSON.
func (a *App) Categories(ctx context.Context, out io.Writer, categoryID string) error {
	store := a.newStorefront(a.newTransport())
	if categoryID != "" {
		category, err := store.GetCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		return writeJSON(out, category)
	}

	list, err := store.GetCategories(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, list)
}

// BasketCreate opens a new basket and prints its id.
func (a *App) BasketCreate(ctx context.Context, out io.Writer) error {
	basket, err := a.newStorefront(a.newTransport()).CreateBasket(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, basket)
}

// BasketAdd adds a SKU to an existing basket.
func (a *App) BasketAdd(ctx context.Context, out io.Writer, basketID, sku string, quantity int) error {
	basket, err := a.newStorefront(a.newTransport()).AddToBasket(ctx, basketID, sku, quantity)
	if err != nil {
		return err
	}
	return writeJSON(out, basket)
}

// BasketShow prints basket contents.
func (a *App) BasketShow(ctx context.Context, out io.Writer, basketID string) error {
	basket, err := a.newStorefront(a.newTransport()).GetBasket(ctx, basketID)
	if err != nil {
		return err
	}
	return writeJSON(out, basket)
}

// Checkout begins checkout for a basket and prints the vendor response.
func (a *App) Checkout(ctx context.Context, out io.Writer, basketID string) error {
	raw, err := a.newStorefront(a.newTransport()).StartCheckout(ctx, basketID)
	if err != nil {
		return err
	}
	return writeRaw(out, raw)
}

// CallAPI dispatches a generic call against a configured API and prints the
// response.
func (a *App) CallAPI(ctx context.Context, out io.Writer, params apiclient.CallParams) error {
	raw, err := a.NewRegistry(a.newTransport()).Call(ctx, params)
	if err != nil {
		return err
	}
	return writeRaw(out, raw)
}

// WeatherReport prints current conditions for a city, or a forecast when
// days is positive.
func (a *App) WeatherReport(ctx context.Context, out io.Writer, city string, days int) error {
	weather := a.NewWeather()

	var (
		raw json.RawMessage
		err error
	)
	if days > 0 {
		raw, err = weather.Forecast(ctx, city, days)
	} else {
		raw, err = weather.CurrentWeather(ctx, city)
	}
	if err != nil {
		return err
	}
	return writeRaw(out, raw)
}

func writeRaw(out io.Writer, raw json.RawMessage) error {
	var pretty any
	if err := json.Unmarshal(raw, &pretty); err != nil {
		_, err = fmt.Fprintln(out, string(raw))
		return err
	}
	return writeJSON(out, pretty)
}

func writeJSON(out io.Writer, payload any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
