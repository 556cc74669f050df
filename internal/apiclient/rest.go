// Package apiclient provides thin generic clients for external JSON APIs:
// a plain REST client, a GraphQL client, and a weather integration.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"storefront-bridge/internal/httpclient"
)

// RESTOptions parameterise a generic REST endpoint.
type RESTOptions struct {
	BaseURL string
	Headers map[string]string
}

// REST is a generic JSON-over-HTTP client for configured third-party APIs.
type REST struct {
	opts RESTOptions
	http *httpclient.Client
}

// NewREST constructs a REST client over the shared retrying transport.
func NewREST(opts RESTOptions, http *httpclient.Client) *REST {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &REST{opts: opts, http: http}
}

// Get issues a GET request. pathParams interpolate "{key}" placeholders in
// the endpoint path; params become query parameters.
func (r *REST) Get(ctx context.Context, endpoint string, params url.Values, pathParams map[string]string) (json.RawMessage, error) {
	return r.send(ctx, "GET", endpoint, params, pathParams, nil)
}

// Post issues a POST request with a JSON body.
func (r *REST) Post(ctx context.Context, endpoint string, payload any, pathParams map[string]string) (json.RawMessage, error) {
	return r.send(ctx, "POST", endpoint, nil, pathParams, payload)
}

// Put issues a PUT request with a JSON body.
func (r *REST) Put(ctx context.Context, endpoint string, payload any, pathParams map[string]string) (json.RawMessage, error) {
	return r.send(ctx, "PUT", endpoint, nil, pathParams, payload)
}

// Delete issues a DELETE request.
func (r *REST) Delete(ctx context.Context, endpoint string, pathParams map[string]string) (json.RawMessage, error) {
	return r.send(ctx, "DELETE", endpoint, nil, pathParams, nil)
}

func (r *REST) send(ctx context.Context, method, endpoint string, params url.Values, pathParams map[string]string, payload any) (json.RawMessage, error) {
	target := r.opts.BaseURL + InterpolatePath(endpoint, pathParams)
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	headers := map[string]string{"Accept": "application/json"}
	for key, value := range r.opts.Headers {
		headers[key] = value
	}

	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = encoded
		headers["Content-Type"] = "application/json"
	}

	resp, err := r.http.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     target,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// InterpolatePath substitutes "{key}" placeholders with URL-escaped values.
func InterpolatePath(path string, params map[string]string) string {
	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", url.PathEscape(value))
	}
	return path
}
