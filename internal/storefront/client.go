package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront-bridge/internal/httpclient"
)

// Options parameterise the storefront client.
type Options struct {
	BaseURL        string
	AcceptLanguage string
}

// Client talks to the vendor commerce backend. All calls go through the
// shared retrying client, so the backend's quota and failure handling are
// applied uniformly.
type Client struct {
	opts   Options
	http   *httpclient.Client
	logger zerolog.Logger
}

// NewClient constructs a storefront client.
func NewClient(opts Options, http *httpclient.Client, logger zerolog.Logger) *Client {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		opts:   opts,
		http:   http,
		logger: logger.With().Str("component", "storefront_client").Logger(),
	}
}

// SearchOptions tune product listings.
type SearchOptions struct {
	Limit  int
	Offset int
}

// AdvancedSearchOptions add catalog filters on top of plain search.
type AdvancedSearchOptions struct {
	Query    string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Brand    string
	SortBy   string
	Limit    int
	Offset   int
}

// GetProduct retrieves a full product record including images and extended
// attributes.
func (c *Client) GetProduct(ctx context.Context, sku string) (*Product, error) {
	params := url.Values{}
	params.Set("allImages", "true")
	params.Set("extended", "true")

	var product Product
	if err := c.get(ctx, "/products/"+url.PathEscape(sku), params, &product); err != nil {
		return nil, fmt.Errorf("get product %s: %w", sku, err)
	}
	return &product, nil
}

// SearchProducts runs a term search over the catalog.
func (c *Client) SearchProducts(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	params := listingParams(opts.Limit, opts.Offset)
	if query != "" {
		params.Set("searchTerm", query)
	}

	var result SearchResult
	if err := c.get(ctx, "/products", params, &result); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return &result, nil
}

// AdvancedSearch runs a filtered catalog search.
func (c *Client) AdvancedSearch(ctx context.Context, opts AdvancedSearchOptions) (*SearchResult, error) {
	params := listingParams(opts.Limit, opts.Offset)
	if opts.Query != "" {
		params.Set("searchTerm", opts.Query)
	}
	if opts.Category != "" {
		params.Set("categoryId", opts.Category)
	}
	if opts.MinPrice != nil {
		params.Set("priceFrom", opts.MinPrice.String())
	}
	if opts.MaxPrice != nil {
		params.Set("priceTo", opts.MaxPrice.String())
	}
	if opts.Brand != "" {
		params.Set("manufacturer", opts.Brand)
	}
	if opts.SortBy != "" {
		params.Set("sorting", opts.SortBy)
	}

	var result SearchResult
	if err := c.get(ctx, "/products", params, &result); err != nil {
		return nil, fmt.Errorf("advanced search: %w", err)
	}
	return &result, nil
}

// GetCategories lists the top-level catalog categories.
func (c *Client) GetCategories(ctx context.Context) (*CategoryList, error) {
	var list CategoryList
	if err := c.get(ctx, "/categories", nil, &list); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return &list, nil
}

// GetCategory retrieves a single category node.
func (c *Client) GetCategory(ctx context.Context, categoryID string) (*Category, error) {
	var category Category
	if err := c.get(ctx, "/categories/"+url.PathEscape(categoryID), nil, &category); err != nil {
		return nil, fmt.Errorf("get category %s: %w", categoryID, err)
	}
	return &category, nil
}

// GetCategoryProducts lists the products of a category.
func (c *Client) GetCategoryProducts(ctx context.Context, categoryID string, opts SearchOptions) (*SearchResult, error) {
	params := listingParams(opts.Limit, opts.Offset)

	var result SearchResult
	path := "/categories/" + url.PathEscape(categoryID) + "/products"
	if err := c.get(ctx, path, params, &result); err != nil {
		return nil, fmt.Errorf("get category products %s: %w", categoryID, err)
	}
	return &result, nil
}

// CreateBasket opens a new basket.
func (c *Client) CreateBasket(ctx context.Context) (*Basket, error) {
	var basket Basket
	if err := c.post(ctx, "/baskets", nil, &basket); err != nil {
		return nil, fmt.Errorf("create basket: %w", err)
	}
	return &basket, nil
}

// GetBasket retrieves basket contents.
func (c *Client) GetBasket(ctx context.Context, basketID string) (*Basket, error) {
	var basket Basket
	if err := c.get(ctx, "/baskets/"+url.PathEscape(basketID), nil, &basket); err != nil {
		return nil, fmt.Errorf("get basket %s: %w", basketID, err)
	}
	return &basket, nil
}

// AddToBasket adds quantity units of a SKU to the basket.
func (c *Client) AddToBasket(ctx context.Context, basketID, sku string, quantity int) (*Basket, error) {
	if quantity <= 0 {
		quantity = 1
	}
	payload := map[string]any{"sku": sku, "quantity": quantity}

	var basket Basket
	path := "/baskets/" + url.PathEscape(basketID) + "/items"
	if err := c.post(ctx, path, payload, &basket); err != nil {
		return nil, fmt.Errorf("add %s to basket %s: %w", sku, basketID, err)
	}
	return &basket, nil
}

// UpdateBasketItem changes the quantity of a basket position.
func (c *Client) UpdateBasketItem(ctx context.Context, basketID, itemID string, quantity int) (*Basket, error) {
	payload := map[string]any{"quantity": quantity}

	var basket Basket
	path := "/baskets/" + url.PathEscape(basketID) + "/items/" + url.PathEscape(itemID)
	if err := c.put(ctx, path, payload, &basket); err != nil {
		return nil, fmt.Errorf("update basket item %s: %w", itemID, err)
	}
	return &basket, nil
}

// RemoveFromBasket deletes a basket position.
func (c *Client) RemoveFromBasket(ctx context.Context, basketID, itemID string) error {
	path := "/baskets/" + url.PathEscape(basketID) + "/items/" + url.PathEscape(itemID)
	if err := c.delete(ctx, path); err != nil {
		return fmt.Errorf("remove basket item %s: %w", itemID, err)
	}
	return nil
}

// StartCheckout begins the checkout flow for a basket.
func (c *Client) StartCheckout(ctx context.Context, basketID string) (json.RawMessage, error) {
	resp, err := c.send(ctx, "POST", "/baskets/"+url.PathEscape(basketID)+"/checkout", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("start checkout for basket %s: %w", basketID, err)
	}
	return resp, nil
}

// GetProductReviews lists reviews for a SKU.
func (c *Client) GetProductReviews(ctx context.Context, sku string) ([]Review, error) {
	var payload struct {
		Elements []Review `json:"elements"`
	}
	if err := c.get(ctx, "/products/"+url.PathEscape(sku)+"/reviews", nil, &payload); err != nil {
		return nil, fmt.Errorf("get reviews for %s: %w", sku, err)
	}
	return payload.Elements, nil
}

// GetSimilarProducts lists recommendations for a SKU.
func (c *Client) GetSimilarProducts(ctx context.Context, sku string) (*SearchResult, error) {
	var result SearchResult
	if err := c.get(ctx, "/products/"+url.PathEscape(sku)+"/recommendations", nil, &result); err != nil {
		return nil, fmt.Errorf("get similar products for %s: %w", sku, err)
	}
	return &result, nil
}

// CheckAvailability reports whether a SKU is in stock.
func (c *Client) CheckAvailability(ctx context.Context, sku string) (*Availability, error) {
	var availability Availability
	if err := c.get(ctx, "/products/"+url.PathEscape(sku)+"/availability", nil, &availability); err != nil {
		return nil, fmt.Errorf("check availability of %s: %w", sku, err)
	}
	if availability.SKU == "" {
		availability.SKU = sku
	}
	return &availability, nil
}

func listingParams(limit, offset int) url.Values {
	if limit <= 0 {
		limit = 24
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("allImages", "true")
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	raw, err := c.send(ctx, "GET", path, params, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

func (c *Client) post(ctx context.Context, path string, payload, target any) error {
	raw, err := c.send(ctx, "POST", path, nil, payload)
	if err != nil {
		return err
	}
	if target == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}

func (c *Client) put(ctx context.Context, path string, payload, target any) error {
	raw, err := c.send(ctx, "PUT", path, nil, payload)
	if err != nil {
		return err
	}
	if target == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.send(ctx, "DELETE", path, nil, nil)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, params url.Values, payload any) (json.RawMessage, error) {
	endpoint := c.opts.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	headers := map[string]string{"Accept": "application/json"}
	if c.opts.AcceptLanguage != "" {
		headers["Accept-Language"] = c.opts.AcceptLanguage
	}

	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = encoded
		headers["Content-Type"] = "application/json"
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     endpoint,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// BaseURL exposes the configured backend root, shared with the enricher.
func (c *Client) BaseURL() string { return c.opts.BaseURL }
