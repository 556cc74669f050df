package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront-bridge/internal/apiclient"
)

// ToolInfo describes one dispatchable operation.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var toolCatalog = []ToolInfo{
	{Name: "search_products", Description: "Search the storefront catalog, optionally within a category"},
	{Name: "get_product_details", Description: "Retrieve a full product record with canonical prices"},
	{Name: "get_categories", Description: "List catalog categories or one category's details"},
	{Name: "manage_basket", Description: "Create, view, and modify shopping baskets"},
	{Name: "check_availability", Description: "Report whether a SKU is in stock"},
	{Name: "start_checkout", Description: "Begin checkout for an existing basket"},
	{Name: "call_custom_api", Description: "Call a configured external API by name"},
	{Name: "get_weather", Description: "Current weather or forecast for a city"},
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"tools":   toolCatalog,
		"count":   len(toolCatalog),
	})
}

type toolRequest struct {
	Parameters json.RawMessage `json:"parameters"`
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req toolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.dispatch(r, name, req.Parameters)
	if err != nil {
		status := http.StatusInternalServerError
		var unknown *unknownToolError
		if errors.As(err, &unknown) {
			status = http.StatusNotFound
		}
		writeError(w, status, "tool_execution_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"tool":      name,
		"result":    result,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type unknownToolError struct{ name string }

func (e *unknownToolError) Error() string { return fmt.Sprintf("unknown tool: %s", e.name) }

func (s *Server) dispatch(r *http.Request, name string, params json.RawMessage) (any, error) {
	ctx := r.Context()
	if params == nil {
		params = json.RawMessage(`{}`)
	}

	switch name {
	case "search_products":
		var p struct {
			Query    string `json:"query"`
			Category string `json:"category"`
			Limit    int    `json:"limit"`
			Offset   int    `json:"offset"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return s.searchProducts(ctx, p.Query, p.Category, p.Limit, p.Offset)

	case "get_product_details":
		var p struct {
			SKU string `json:"sku"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		if p.SKU == "" {
			return nil, fmt.Errorf("sku is required")
		}
		return s.productDetails(ctx, p.SKU)

	case "get_categories":
		var p struct {
			CategoryID string `json:"categoryId"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		if p.CategoryID != "" {
			return s.store.GetCategory(ctx, p.CategoryID)
		}
		return s.store.GetCategories(ctx)

	case "manage_basket":
		var p struct {
			Action   string `json:"action"`
			BasketID string `json:"basketId"`
			SKU      string `json:"sku"`
			ItemID   string `json:"itemId"`
			Quantity int    `json:"quantity"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return s.manageBasket(ctx, p.Action, p.BasketID, p.SKU, p.ItemID, p.Quantity)

	case "check_availability":
		var p struct {
			SKU string `json:"sku"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		if p.SKU == "" {
			return nil, fmt.Errorf("sku is required")
		}
		return s.store.CheckAvailability(ctx, p.SKU)

	case "call_custom_api":
		var p apiclient.CallParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		if p.API == "" {
			return nil, fmt.Errorf("api is required")
		}
		return s.apis.Call(ctx, p)

	case "get_weather":
		var p struct {
			City string `json:"city"`
			Days int    `json:"days"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		if p.City == "" {
			return nil, fmt.Errorf("city is required")
		}
		weather := s.apis.Weather()
		if weather == nil {
			return nil, fmt.Errorf("weather api is not configured")
		}
		if p.Days > 0 {
			return weather.Forecast(ctx, p.City, p.Days)
		}
		return weather.CurrentWeather(ctx, p.City)

	case "start_checkout":
		var p struct {
			BasketID string `json:"basketId"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		if p.BasketID == "" {
			return nil, fmt.Errorf("basketId is required")
		}
		return s.store.StartCheckout(ctx, p.BasketID)

	default:
		return nil, &unknownToolError{name: name}
	}
}
