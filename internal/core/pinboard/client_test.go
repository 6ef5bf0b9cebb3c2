package pinboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/pinwatch/pinwatch/internal/core/store"
)

// newTestClient returns a Client pointed at a test server that answers each
// path with the configured body and status.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("user:abc123", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c, srv
}

// TestNew tests client construction.
func TestNew(t *testing.T) {
	t.Run("rejects empty token", func(t *testing.T) {
		_, err := New("")
		if !errors.Is(err, ErrMissingToken) {
			t.Errorf("expected ErrMissingToken, got %v", err)
		}
	})

	t.Run("defaults to the production base URL", func(t *testing.T) {
		c, err := New("user:abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if c.baseURL != DefaultBaseURL {
			t.Errorf("expected %q, got %q", DefaultBaseURL, c.baseURL)
		}
		if c.httpClient == nil || c.httpClient.Timeout == 0 {
			t.Error("expected an HTTP client with a timeout")
		}
	})
}

// TestLastUpdate tests the posts/update call.
func TestLastUpdate(t *testing.T) {
	t.Run("returns the update stamp", func(t *testing.T) {
		var gotQuery url.Values
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/posts/update" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			gotQuery = r.URL.Query()
			w.Write([]byte(`{"update_time":"2026-08-30T12:00:00Z"}`))
		})

		stamp, err := c.LastUpdate(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if stamp != "2026-08-30T12:00:00Z" {
			t.Errorf("expected stamp, got %q", stamp)
		}
		if gotQuery.Get("auth_token") != "user:abc123" {
			t.Errorf("expected auth_token in query, got %q", gotQuery.Get("auth_token"))
		}
		if gotQuery.Get("format") != "json" {
			t.Errorf("expected format=json, got %q", gotQuery.Get("format"))
		}
	})

	t.Run("missing update_time is an error", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})
		if _, err := c.LastUpdate(context.Background()); err == nil {
			t.Error("expected error for missing update_time")
		}
	})

	t.Run("HTTP error is surfaced", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		})
		_, err := c.LastUpdate(context.Background())
		if err == nil || !strings.Contains(err.Error(), "HTTP 500") {
			t.Errorf("expected HTTP 500 error, got %v", err)
		}
	})
}

// TestAllPosts tests the posts/all call.
func TestAllPosts(t *testing.T) {
	t.Run("decodes the list in order", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/posts/all" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			w.Write([]byte(`[
				{"href":"https://example.com/a","description":"A","toread":"yes"},
				{"href":"https://example.com/b","description":"B","toread":"no"}
			]`))
		})

		posts, err := c.AllPosts(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(posts) != 2 {
			t.Fatalf("expected 2 posts, got %d", len(posts))
		}
		if posts[0].Description != "A" || posts[0].ToRead != store.ToReadYes {
			t.Errorf("unexpected first post %+v", posts[0])
		}
		if posts[1].Description != "B" || posts[1].Unread() {
			t.Errorf("unexpected second post %+v", posts[1])
		}
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"a list"}`))
		})
		if _, err := c.AllPosts(context.Background()); err == nil {
			t.Error("expected error for malformed response")
		}
	})
}

// TestMarkRead tests the posts/add call.
func TestMarkRead(t *testing.T) {
	bookmark := store.Bookmark{
		Href:        "https://example.com/a",
		Description: "A",
		ToRead:      store.ToReadYes,
	}

	t.Run("sends toread=no with replace", func(t *testing.T) {
		var mu sync.Mutex
		var gotQuery url.Values
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/posts/add" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			mu.Lock()
			gotQuery = r.URL.Query()
			mu.Unlock()
			w.Write([]byte(`{"result_code":"done"}`))
		})

		if err := c.MarkRead(context.Background(), bookmark); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotQuery.Get("url") != bookmark.Href {
			t.Errorf("expected url param %q, got %q", bookmark.Href, gotQuery.Get("url"))
		}
		if gotQuery.Get("description") != "A" {
			t.Errorf("expected description param A, got %q", gotQuery.Get("description"))
		}
		if gotQuery.Get("toread") != store.ToReadNo {
			t.Errorf("expected toread=no, got %q", gotQuery.Get("toread"))
		}
		if gotQuery.Get("replace") != "yes" {
			t.Errorf("expected replace=yes, got %q", gotQuery.Get("replace"))
		}
	})

	t.Run("non-done result code is an error", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result_code":"something went wrong"}`))
		})
		err := c.MarkRead(context.Background(), bookmark)
		if err == nil || !strings.Contains(err.Error(), "something went wrong") {
			t.Errorf("expected result code error, got %v", err)
		}
	})

	t.Run("missing result code is an error", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})
		if err := c.MarkRead(context.Background(), bookmark); err == nil {
			t.Error("expected error for missing result code")
		}
	})
}
