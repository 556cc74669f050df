// Package storefront wraps the vendor commerce REST backend with typed
// clients for catalog, basket, and checkout operations.
package storefront

import (
	"encoding/json"

	"storefront-bridge/internal/pricing"
)

// Product is the vendor's full product record. The price sub-objects stay raw
// until the pricing package normalizes them; the vendor ships them in several
// shapes.
type Product struct {
	SKU                 string          `json:"sku"`
	Name                string          `json:"productName"`
	ShortDescription    string          `json:"shortDescription"`
	LongDescription     string          `json:"longDescription"`
	Manufacturer        string          `json:"manufacturer"`
	InStock             bool            `json:"inStock"`
	Availability        bool            `json:"availability"`
	ReadyForShipmentMin int             `json:"readyForShipmentMin"`
	ReadyForShipmentMax int             `json:"readyForShipmentMax"`
	ListPrice           json.RawMessage `json:"listPrice,omitempty"`
	SalePrice           json.RawMessage `json:"salePrice,omitempty"`
	Images              []Image         `json:"images,omitempty"`
	Attributes          []Attribute     `json:"attributes,omitempty"`
	DefaultCategory     *Category       `json:"defaultCategory,omitempty"`
}

// Image is a single product image entry.
type Image struct {
	TypeID       string `json:"typeID"`
	EffectiveURL string `json:"effectiveUrl"`
	ViewID       string `json:"viewID"`
	Width        int    `json:"imageActualWidth"`
	Height       int    `json:"imageActualHeight"`
	Primary      bool   `json:"primaryImage"`
}

// Attribute is a named product attribute.
type Attribute struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// ProductSummary is the compact record returned by search and category
// listings. URI points at the full product resource.
type ProductSummary struct {
	SKU         string          `json:"sku,omitempty"`
	Name        string          `json:"name,omitempty"`
	URI         string          `json:"uri,omitempty"`
	Description string          `json:"description,omitempty"`
	SalePrice   json.RawMessage `json:"salePrice,omitempty"`
}

// SearchResult is a product listing. Depending on the endpoint the vendor
// populates either "elements" or "products".
type SearchResult struct {
	Elements []ProductSummary `json:"elements"`
	Products []ProductSummary `json:"products"`
	Total    int              `json:"total"`
}

// Items returns whichever listing sequence the vendor populated.
func (r *SearchResult) Items() []ProductSummary {
	if len(r.Elements) > 0 {
		return r.Elements
	}
	return r.Products
}

// CatalogItems converts the listing into the pricing package's input form.
func (r *SearchResult) CatalogItems() []pricing.CatalogItem {
	summaries := r.Items()
	items := make([]pricing.CatalogItem, len(summaries))
	for i, s := range summaries {
		items[i] = pricing.CatalogItem{
			SKU:         s.SKU,
			Name:        s.Name,
			URI:         s.URI,
			Description: s.Description,
			RawPrice:    s.SalePrice,
		}
	}
	return items
}

// Category is a catalog category node.
type Category struct {
	ID           string     `json:"id,omitempty"`
	UniqueID     string     `json:"uniqueId,omitempty"`
	Name         string     `json:"name,omitempty"`
	Description  string     `json:"description,omitempty"`
	CategoryPath []Category `json:"categoryPath,omitempty"`
}

// CategoryList is the response of the categories endpoint.
type CategoryList struct {
	Categories []Category `json:"categories"`
}

// Basket is a vendor shopping basket.
type Basket struct {
	BasketID  string          `json:"basketId,omitempty"`
	ID        string          `json:"id,omitempty"`
	Status    string          `json:"status,omitempty"`
	LineItems []LineItem      `json:"lineItems,omitempty"`
	Total     json.RawMessage `json:"total,omitempty"`
}

// Identifier returns whichever basket id field the vendor populated.
func (b *Basket) Identifier() string {
	if b.BasketID != "" {
		return b.BasketID
	}
	return b.ID
}

// LineItem is one basket position.
type LineItem struct {
	ItemID          string          `json:"itemId,omitempty"`
	SKU             string          `json:"sku"`
	Name            string          `json:"productName,omitempty"`
	Quantity        int             `json:"quantity"`
	SingleBasePrice json.RawMessage `json:"singleBasePrice,omitempty"`
}

// Review is a customer product review.
type Review struct {
	Title  string `json:"title,omitempty"`
	Text   string `json:"content,omitempty"`
	Rating int    `json:"rating,omitempty"`
}

// Availability is the per-SKU stock answer.
type Availability struct {
	SKU     string `json:"sku,omitempty"`
	InStock bool   `json:"inStock"`
}
