package publishers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPPublisherPostsEvent(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected default POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := mustPrepare(t, PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: srv.URL, Headers: map[string]string{" X-Test ": "1", "X-Empty": " "}},
	})
	pub, err := newHTTPPublisher(context.Background(), cfg, nopLog)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if received.Lookup.ID != "lookup-1" {
		t.Fatalf("server did not receive the lookup, got %#v", received)
	}
	if received.Lookup.Result == nil || received.Lookup.Result.Extract == nil || received.Lookup.Result.Extract.ConcatenatedText != "Hello" {
		t.Fatalf("result not carried in body: %#v", received.Lookup.Result)
	}
}

func TestHTTPPublisherErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := mustPrepare(t, PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: srv.URL, Method: "put", TimeoutSeconds: 1},
	})
	pub, err := newHTTPPublisher(context.Background(), cfg, nopLog)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	if err := pub.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

func TestHTTPConfigNormalize(t *testing.T) {
	c := &HTTPPublisherConfig{URL: " https://hooks.example/in ", Method: " patch "}
	c.normalize()
	if c.URL != "https://hooks.example/in" || c.Method != http.MethodPatch {
		t.Fatalf("unexpected normalized config %#v", c)
	}
	if c.timeout() != httpDefaultTimeout {
		t.Fatalf("expected default timeout, got %v", c.timeout())
	}
	if err := (&HTTPPublisherConfig{URL: "hooks.example/in"}).check(); err == nil {
		t.Fatalf("expected relative url rejected")
	}
}
