package apiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-bridge/internal/httpclient"
)

// GraphQL posts queries against a single GraphQL endpoint.
type GraphQL struct {
	endpoint string
	headers  map[string]string
	http     *httpclient.Client
}

// NewGraphQL constructs a GraphQL client.
func NewGraphQL(endpoint string, headers map[string]string, http *httpclient.Client) *GraphQL {
	return &GraphQL{endpoint: endpoint, headers: headers, http: http}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query executes a query or mutation and returns the data document. A
// non-empty errors array fails the call with the first message.
func (g *GraphQL) Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encode graphql request: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for key, value := range g.headers {
		headers[key] = value
	}

	resp, err := g.http.Do(ctx, httpclient.Request{
		Method:  "POST",
		URL:     g.endpoint,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, err
	}

	var result graphqlResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", result.Errors[0].Message)
	}
	return result.Data, nil
}
