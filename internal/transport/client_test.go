package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoInjectsTokenAndDecodes(t *testing.T) {
	var gotAuth, gotPath, gotQuery, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"total":3}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/api/v1/", Credentials: StaticToken("tok-1")})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	var out struct {
		Total int `json:"total"`
	}
	q := NewQuery().Int("limit", 20).Int("offset", 0).Str("status", "").Str("userId", "u1")
	if err := c.Get(context.Background(), "/admin/conversations", q, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPath != "/api/v1/admin/conversations" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "limit=20&userId=u1" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotRequestID == "" {
		t.Fatalf("expected request id header")
	}
	if out.Total != 3 {
		t.Fatalf("expected total 3, got %d", out.Total)
	}
}

func TestDoOmitsAuthWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Credentials: StaticToken("")})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := c.Delete(context.Background(), "/projects/p1", nil, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDoSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		b, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(b, &body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["isEnabled"] != false {
			t.Errorf("unexpected body %s", b)
		}
		_, _ = w.Write([]byte(`{"name":"research-agent","isEnabled":false}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	var out map[string]any
	if err := c.Patch(context.Background(), "/config/agents/research-agent/toggle", map[string]bool{"isEnabled": false}, &out); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if out["name"] != "research-agent" {
		t.Fatalf("unexpected response %#v", out)
	}
}

func TestDoStatusErrorParsesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"maxUses must be positive","code":"invalid_input"}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = c.Post(context.Background(), "/invite-codes", map[string]int{"maxUses": -1}, nil)
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if te.StatusCode != http.StatusUnprocessableEntity || te.Message != "maxUses must be positive" || te.Code != "invalid_input" {
		t.Fatalf("unexpected error fields %+v", te)
	}
	if !IsValidation(err) || IsUnauthorized(err) {
		t.Fatalf("unexpected classification for %v", err)
	}
}

func TestDoUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Credentials: StaticToken("old")})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = c.Get(context.Background(), "/auth/me", nil, nil)
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestDoNetworkFailureHasZeroStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: base})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = c.Get(context.Background(), "/config/agents", nil, nil)
	if err == nil {
		t.Fatalf("expected network error")
	}
	if !IsNetwork(err) || StatusCode(err) != 0 {
		t.Fatalf("expected network classification, got %v", err)
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	if _, err := New(Config{BaseURL: ""}); err == nil {
		t.Fatalf("expected error for empty base url")
	}
	if _, err := New(Config{BaseURL: "ftp://example.com"}); err == nil {
		t.Fatalf("expected error for non-http scheme")
	}
}

func TestQueryOptionalValues(t *testing.T) {
	active := false
	zero := 0
	q := NewQuery().
		Str("search", "  ").
		OptBool("hasFiles", nil).
		OptBool("active_only", &active).
		OptInt("offset", &zero).
		Bool("include_audit", true)
	if got := q.Encode(); got != "active_only=false&include_audit=true&offset=0" {
		t.Fatalf("unexpected encoding %q", got)
	}
	var nilQuery *Query
	if nilQuery.Encode() != "" {
		t.Fatalf("nil query must encode to empty string")
	}
}
