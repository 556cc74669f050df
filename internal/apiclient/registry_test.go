package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegistryDispatchesRESTByMethod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path != "/items/5" || r.URL.Query().Get("fields") != "all" {
				t.Errorf("unexpected GET %s?%s", r.URL.Path, r.URL.RawQuery)
			}
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"name":"widget"}` {
				t.Errorf("unexpected POST body: %s", body)
			}
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	registry := NewRegistry()
	registry.RegisterREST("inventory", NewREST(RESTOptions{BaseURL: srv.URL}, newTransport(t)))

	_, err := registry.Call(context.Background(), CallParams{
		API:        "inventory",
		Endpoint:   "/items/{id}",
		PathParams: map[string]string{"id": "5"},
		Query:      map[string]string{"fields": "all"},
	})
	if err != nil {
		t.Fatalf("get dispatch: %v", err)
	}

	_, err = registry.Call(context.Background(), CallParams{
		API:      "inventory",
		Method:   "POST",
		Endpoint: "/items",
		Payload:  json.RawMessage(`{"name":"widget"}`),
	})
	if err != nil {
		t.Fatalf("post dispatch: %v", err)
	}
}

func TestRegistryDispatchesGraphQL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
			t.Errorf("expected graphql request, got err=%v query=%q", err, req.Query)
		}
		fmt.Fprint(w, `{"data":{"ping":"pong"}}`)
	}))
	defer srv.Close()

	registry := NewRegistry()
	registry.RegisterGraphQL("pingpong", NewGraphQL(srv.URL, nil, newTransport(t)))

	data, err := registry.Call(context.Background(), CallParams{
		API:          "pingpong",
		GraphQLQuery: `{ ping }`,
	})
	if err != nil {
		t.Fatalf("graphql dispatch: %v", err)
	}
	if string(data) != `{"ping":"pong"}` {
		t.Fatalf("unexpected data: %s", data)
	}

	if _, err := registry.Call(context.Background(), CallParams{API: "pingpong"}); err == nil {
		t.Fatal("expected error without a graphql query")
	}
}

func TestRegistryRejectsUnknownAPIAndMethod(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterREST("known", NewREST(RESTOptions{BaseURL: "http://localhost"}, newTransport(t)))

	if _, err := registry.Call(context.Background(), CallParams{API: "missing"}); err == nil {
		t.Fatal("expected unknown api error")
	}
	if _, err := registry.Call(context.Background(), CallParams{API: "known", Method: "PATCH"}); err == nil {
		t.Fatal("expected unsupported method error")
	}

	names := registry.Names()
	if len(names) != 1 || names[0] != "known" {
		t.Fatalf("unexpected names: %v", names)
	}
}
