package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-bridge/internal/pricing"
	"storefront-bridge/internal/storefront"
)

const searchSummaryLimit = 5

// ProductView is the enriched listing entry returned by search tools.
type ProductView struct {
	SKU         string                `json:"sku"`
	Name        string                `json:"name,omitempty"`
	Description string                `json:"description,omitempty"`
	Price       *pricing.ProductPrice `json:"price,omitempty"`
}

type searchResponse struct {
	Count    int           `json:"count"`
	Query    string        `json:"query,omitempty"`
	Category string        `json:"category,omitempty"`
	Products []ProductView `json:"products"`
}

func (s *Server) searchProducts(ctx context.Context, query, category string, limit, offset int) (*searchResponse, error) {
	var (
		result *storefront.SearchResult
		err    error
	)
	if category != "" {
		result, err = s.store.GetCategoryProducts(ctx, category, storefront.SearchOptions{Limit: limit, Offset: offset})
	} else {
		result, err = s.store.SearchProducts(ctx, query, storefront.SearchOptions{Limit: limit, Offset: offset})
	}
	if err != nil {
		return nil, err
	}

	enriched := s.enricher.Enrich(ctx, result.CatalogItems())

	views := make([]ProductView, 0, searchSummaryLimit)
	for _, item := range enriched {
		if len(views) == searchSummaryLimit {
			break
		}
		views = append(views, ProductView{
			SKU:         item.SKU,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
		})
	}

	return &searchResponse{
		Count:    len(enriched),
		Query:    query,
		Category: category,
		Products: views,
	}, nil
}

type productDetailsResponse struct {
	SKU          string                 `json:"sku"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	ListPrice    *pricing.ProductPrice  `json:"listPrice,omitempty"`
	SalePrice    *pricing.ProductPrice  `json:"salePrice,omitempty"`
	InStock      bool                   `json:"inStock"`
	Shipment     string                 `json:"readyForShipment,omitempty"`
	Manufacturer string                 `json:"manufacturer,omitempty"`
	Attributes   map[string]string      `json:"attributes,omitempty"`
	Images       []storefront.ImageInfo `json:"images,omitempty"`
}

func (s *Server) productDetails(ctx context.Context, sku string) (*productDetailsResponse, error) {
	product, err := s.store.GetProduct(ctx, sku)
	if err != nil {
		return nil, err
	}

	resp := &productDetailsResponse{
		SKU:          product.SKU,
		Name:         product.Name,
		Description:  product.ShortDescription,
		ListPrice:    pricing.Normalize(product.ListPrice),
		SalePrice:    pricing.Normalize(product.SalePrice),
		InStock:      product.InStock,
		Manufacturer: product.Manufacturer,
		Attributes:   storefront.FormatAttributes(product),
		Images:       storefront.ExtractImages(product, s.opts.AssetBaseURL),
	}
	if product.ReadyForShipmentMax > 0 {
		resp.Shipment = fmt.Sprintf("%d-%d days", product.ReadyForShipmentMin, product.ReadyForShipmentMax)
	}
	return resp, nil
}

func (s *Server) manageBasket(ctx context.Context, action, basketID, sku, itemID string, quantity int) (any, error) {
	switch action {
	case "create":
		return s.store.CreateBasket(ctx)
	case "add_product":
		if basketID == "" || sku == "" {
			return nil, fmt.Errorf("basketId and sku are required for add_product")
		}
		return s.store.AddToBasket(ctx, basketID, sku, quantity)
	case "view":
		if basketID == "" {
			return nil, fmt.Errorf("basketId is required for view")
		}
		return s.store.GetBasket(ctx, basketID)
	case "update":
		if basketID == "" || itemID == "" {
			return nil, fmt.Errorf("basketId and itemId are required for update")
		}
		return s.store.UpdateBasketItem(ctx, basketID, itemID, quantity)
	case "remove":
		if basketID == "" || itemID == "" {
			return nil, fmt.Errorf("basketId and itemId are required for remove")
		}
		if err := s.store.RemoveFromBasket(ctx, basketID, itemID); err != nil {
			return nil, err
		}
		return map[string]string{"removed": itemID}, nil
	default:
		return nil, fmt.Errorf("unknown basket action: %s", action)
	}
}

type chatRequest struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context"`
}

type chatResponse struct {
	Success   bool      `json:"success"`
	Response  chatReply `json:"response"`
	Timestamp string    `json:"timestamp"`
}

type chatReply struct {
	Reply     string         `json:"reply"`
	Context   map[string]any `json:"context,omitempty"`
	ToolsUsed []string       `json:"tools_used"`
}

// handleChat routes a free-text message to a catalog search and replies with
// a short summary. It is the integration point for chatbot platforms that
// cannot call the tool endpoints directly.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message_required", `POST /chat with {"message": "...", "context": {}}`)
		return
	}

	result, err := s.searchProducts(r.Context(), req.Message, "", searchSummaryLimit, 0)
	if err != nil {
		s.logger.Error().Err(err).Msg("chat search failed")
		writeError(w, http.StatusBadGateway, "search_failed", err.Error())
		return
	}

	reply := fmt.Sprintf("Found %d products for %q.", result.Count, req.Message)
	if result.Count == 0 {
		reply = fmt.Sprintf("No products found for %q.", req.Message)
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Success: true,
		Response: chatReply{
			Reply:     reply,
			Context:   req.Context,
			ToolsUsed: []string{"search_products"},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
