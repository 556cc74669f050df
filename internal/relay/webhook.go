package relay

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Platform callbacks arrive in each chatbot platform's own payload shape and
// expect the answer wrapped in that platform's envelope. The handler extracts
// the user message, routes it through the catalog search like /chat, and
// replies in the caller's dialect.

const supportedPlatforms = "discord, slack, teams, telegram"

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	platform := r.PathValue("platform")

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		payload = nil
	}

	switch platform {
	case "discord", "slack", "teams", "telegram":
	default:
		writeError(w, http.StatusBadRequest, "unsupported_platform", "supported: "+supportedPlatforms)
		return
	}

	reply := "Hello! Send a product query to search the catalog."
	if message := extractWebhookMessage(platform, payload); strings.TrimSpace(message) != "" {
		result, err := s.searchProducts(r.Context(), message, "", searchSummaryLimit, 0)
		if err != nil {
			s.logger.Error().Err(err).Str("platform", platform).Msg("webhook search failed")
			writeError(w, http.StatusBadGateway, "webhook_processing_failed", err.Error())
			return
		}
		reply = fmt.Sprintf("Found %d products for %q.", result.Count, message)
		if result.Count == 0 {
			reply = fmt.Sprintf("No products found for %q.", message)
		}
	}

	writeJSON(w, http.StatusOK, webhookEnvelope(platform, payload, reply))
}

// extractWebhookMessage digs the user text out of the platform payload.
func extractWebhookMessage(platform string, payload map[string]any) string {
	switch platform {
	case "telegram":
		message, _ := payload["message"].(map[string]any)
		text, _ := message["text"].(string)
		return text
	case "slack":
		if text, ok := payload["text"].(string); ok {
			return text
		}
		event, _ := payload["event"].(map[string]any)
		text, _ := event["text"].(string)
		return text
	case "discord":
		data, _ := payload["data"].(map[string]any)
		content, _ := data["content"].(string)
		return content
	case "teams":
		text, _ := payload["text"].(string)
		return text
	}
	return ""
}

// webhookEnvelope wraps the reply in the platform's response shape.
func webhookEnvelope(platform string, payload map[string]any, reply string) any {
	switch platform {
	case "discord":
		return map[string]any{"type": 4, "data": map[string]any{"content": reply}}
	case "telegram":
		message, _ := payload["message"].(map[string]any)
		chat, _ := message["chat"].(map[string]any)
		return map[string]any{"method": "sendMessage", "chat_id": chat["id"], "text": reply}
	case "teams":
		return map[string]any{"type": "message", "text": reply}
	default:
		return map[string]any{"text": reply}
	}
}
