package pinboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pinwatch/pinwatch/internal/core/store"
)

// DefaultBaseURL is the production Pinboard v1 API root.
const DefaultBaseURL = "https://api.pinboard.in/v1"

// ResultDone is the result code the posts/add endpoint returns on success.
const ResultDone = "done"

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 32 * 1024 * 1024 // posts/all for a large account
	userAgent       = "Mozilla/5.0 (compatible; pinwatch/1.0)"
)

// ErrMissingToken is returned by New when no auth token is provided.
var ErrMissingToken = errors.New("missing auth token")

// Client talks to a Pinboard-style bookmarking API. All requests are
// authenticated GETs carrying auth_token and format=json.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (used in tests and
// for self-hosted mirrors).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the given API token ("user:hexkey").
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// get performs an authenticated GET against path and returns the body.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("auth_token", c.token)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: HTTP %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	return body, nil
}

// LastUpdate fetches the cheap last-modified marker (posts/update). The
// returned stamp is treated as opaque; callers only compare it for equality.
func (c *Client) LastUpdate(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/posts/update", nil)
	if err != nil {
		return "", err
	}
	stamp := gjson.GetBytes(body, "update_time")
	if !stamp.Exists() {
		return "", fmt.Errorf("posts/update: no update_time in response")
	}
	return stamp.String(), nil
}

// AllPosts fetches the complete bookmark list (posts/all) in the order the
// service returns it.
func (c *Client) AllPosts(ctx context.Context) ([]store.Bookmark, error) {
	body, err := c.get(ctx, "/posts/all", nil)
	if err != nil {
		return nil, err
	}
	var posts []store.Bookmark
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("posts/all: malformed response: %w", err)
	}
	return posts, nil
}

// MarkRead re-adds the bookmark with toread=no (posts/add with replace=yes,
// the API's update idiom). Any result code other than "done" is an error.
func (c *Client) MarkRead(ctx context.Context, b store.Bookmark) error {
	params := url.Values{}
	params.Set("url", b.Href)
	params.Set("description", b.Description)
	params.Set("toread", store.ToReadNo)
	params.Set("replace", "yes")

	body, err := c.get(ctx, "/posts/add", params)
	if err != nil {
		return err
	}
	if code := gjson.GetBytes(body, "result_code").String(); code != ResultDone {
		return fmt.Errorf("posts/add: result code %q for %s", code, b.Href)
	}
	return nil
}
