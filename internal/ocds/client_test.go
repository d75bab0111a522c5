package ocds

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func TestSearch_SendsQueryParams(t *testing.T) {
	srv, queries := newTestServer(t, http.StatusOK, `{"data":[]}`)
	c := NewClient(Options{Endpoint: srv.URL})

	if _, err := c.Search(context.Background(), Query{Year: 2024, Search: "Azuay"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*queries) != 1 {
		t.Fatalf("requests = %d, want 1", len(*queries))
	}
	if got, want := (*queries)[0], "page=1&search=Azuay&year=2024"; got != want {
		t.Errorf("query = %q, want %q", got, want)
	}
}

func TestSearch_DecodesRecords(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"data":[
		{"title":"Compra de equipos","amount":"100.5","single_provider":"P1"},
		{"title":"Obra vial","amount":2500,"date":"2024-03-01T10:00:00-05:00"},
		"not-an-object",
		null
	],"total":2}`)
	c := NewClient(Options{Endpoint: srv.URL})

	recs, err := c.Search(context.Background(), Query{Year: 2024})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0]["amount"] != "100.5" {
		t.Errorf("amount = %v, want string 100.5", recs[0]["amount"])
	}
	n, ok := recs[1]["amount"].(json.Number)
	if !ok || n.String() != "2500" {
		t.Errorf("amount = %#v, want json.Number 2500", recs[1]["amount"])
	}
}

func TestSearch_NonOKStatus(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound, `not found`)
	c := NewClient(Options{Endpoint: srv.URL})

	recs, err := c.Search(context.Background(), Query{Year: 2024})
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("err = %v, want ErrUnexpectedStatus", err)
	}
	if recs != nil {
		t.Errorf("records = %v, want nil", recs)
	}
}

func TestSearch_EmptyAndMissingData(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"data":null}`, `{"data":[]}`} {
		srv, _ := newTestServer(t, http.StatusOK, body)
		c := NewClient(Options{Endpoint: srv.URL})

		recs, err := c.Search(context.Background(), Query{Year: 2024})
		if err != nil {
			t.Errorf("body %q: unexpected error: %v", body, err)
		}
		if len(recs) != 0 {
			t.Errorf("body %q: records = %d, want 0", body, len(recs))
		}
	}
}

func TestSearch_MalformedPayload(t *testing.T) {
	for _, body := range []string{`[1,2,3]`, `{"data":{"a":1}}`, `<html>`} {
		srv, _ := newTestServer(t, http.StatusOK, body)
		c := NewClient(Options{Endpoint: srv.URL})

		_, err := c.Search(context.Background(), Query{Year: 2024})
		if !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("body %q: err = %v, want ErrMalformedPayload", body, err)
		}
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{})
	if c.Endpoint() != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want default", c.Endpoint())
	}
	if c.limiter != nil {
		t.Error("limiter set without RatePerSec")
	}
	if c.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, defaultTimeout)
	}
}
