package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Registry resolves configured API names to their clients so that callers
// can dispatch generic calls without knowing which protocol sits behind a
// name.
type Registry struct {
	rests    map[string]*REST
	graphqls map[string]*GraphQL
	weather  *Weather
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rests:    make(map[string]*REST),
		graphqls: make(map[string]*GraphQL),
	}
}

// RegisterREST adds a named REST endpoint.
func (r *Registry) RegisterREST(name string, client *REST) {
	r.rests[name] = client
}

// RegisterGraphQL adds a named GraphQL endpoint.
func (r *Registry) RegisterGraphQL(name string, client *GraphQL) {
	r.graphqls[name] = client
}

// SetWeather attaches the weather integration.
func (r *Registry) SetWeather(w *Weather) { r.weather = w }

// Weather returns the weather client, or nil when none is configured.
func (r *Registry) Weather() *Weather { return r.weather }

// Names lists the registered API names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rests)+len(r.graphqls))
	for name := range r.rests {
		names = append(names, name)
	}
	for name := range r.graphqls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallParams describe one dispatched call against a named API. Endpoint,
// Method, PathParams, Query and Payload apply to REST endpoints; Query
// and Variables apply to GraphQL endpoints.
type CallParams struct {
	API        string            `json:"api"`
	Method     string            `json:"method,omitempty"`
	Endpoint   string            `json:"endpoint,omitempty"`
	PathParams map[string]string `json:"pathParams,omitempty"`
	Query      map[string]string `json:"query,omitempty"`
	Payload    json.RawMessage   `json:"payload,omitempty"`

	GraphQLQuery string         `json:"graphqlQuery,omitempty"`
	Variables    map[string]any `json:"variables,omitempty"`
}

// Call dispatches to the named API and returns the raw response document.
func (r *Registry) Call(ctx context.Context, p CallParams) (json.RawMessage, error) {
	if client, ok := r.graphqls[p.API]; ok {
		if p.GraphQLQuery == "" {
			return nil, fmt.Errorf("graphqlQuery is required for api %s", p.API)
		}
		return client.Query(ctx, p.GraphQLQuery, p.Variables)
	}

	client, ok := r.rests[p.API]
	if !ok {
		return nil, fmt.Errorf("unknown api: %s", p.API)
	}

	query := url.Values{}
	for key, value := range p.Query {
		query.Set(key, value)
	}

	var payload any
	if len(p.Payload) > 0 {
		payload = p.Payload
	}

	switch strings.ToUpper(p.Method) {
	case "", http.MethodGet:
		return client.Get(ctx, p.Endpoint, query, p.PathParams)
	case http.MethodPost:
		return client.Post(ctx, p.Endpoint, payload, p.PathParams)
	case http.MethodPut:
		return client.Put(ctx, p.Endpoint, payload, p.PathParams)
	case http.MethodDelete:
		return client.Delete(ctx, p.Endpoint, p.PathParams)
	default:
		return nil, fmt.Errorf("unsupported method: %s", p.Method)
	}
}
