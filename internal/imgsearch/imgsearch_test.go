package imgsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchReturnsFirstHit(t *testing.T) {
	var gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hits":[{"webformatURL":"https://cdn.example/shiba-1.jpg"},{"webformatURL":"https://cdn.example/shiba-2.jpg"}]}`))
	}))
	defer srv.Close()

	c := NewClient(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	url, err := c.Search(context.Background(), "柴犬")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.example/shiba-1.jpg" {
		t.Errorf("expected first hit, got %q", url)
	}
	if gotQuery != "柴犬" {
		t.Errorf("query param = %q", gotQuery)
	}
	if gotKey != "test-key" {
		t.Errorf("key param = %q", gotKey)
	}
}

func TestSearchNoHitsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hits":[]}`))
	}))
	defer srv.Close()

	c := NewClient(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	url, err := c.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "" {
		t.Errorf("expected empty URL, got %q", url)
	}
}

func TestSearchWithoutKeyOrQuerySkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	}))
	defer srv.Close()

	noKey := NewClient(WithBaseURL(srv.URL))
	if url, err := noKey.Search(context.Background(), "cat"); err != nil || url != "" {
		t.Errorf("missing key: url=%q err=%v", url, err)
	}

	withKey := NewClient(WithAPIKey("k"), WithBaseURL(srv.URL))
	if url, err := withKey.Search(context.Background(), ""); err != nil || url != "" {
		t.Errorf("empty query: url=%q err=%v", url, err)
	}
}

func TestSearchErrorPaths(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewClient(WithAPIKey("k"), WithBaseURL(srv.URL))
		if _, err := c.Search(context.Background(), "cat"); err == nil {
			t.Error("expected status error")
		}
	})
	t.Run("malformed payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		c := NewClient(WithAPIKey("k"), WithBaseURL(srv.URL))
		if _, err := c.Search(context.Background(), "cat"); err == nil {
			t.Error("expected decode error")
		}
	})
	t.Run("unreachable server", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := NewClient(WithAPIKey("k"), WithBaseURL(srv.URL))
		if _, err := c.Search(context.Background(), "cat"); err == nil {
			t.Error("expected transport error")
		}
	})
}
