package canvas

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"canvas-syllabus/internal/httpx"
	"canvas-syllabus/internal/logging"
)

const (
	acceptJSON = "application/json"

	// Canvas caps per_page at 100.
	maxPageSize = 100
)

var ErrMissingToken = errors.New("canvas: missing access token (sign in first)")

type Client struct {
	BaseURL     string // protocol://domain, no trailing slash
	HTTP        *http.Client
	AccessToken string
	UserAgent   string
	PageSize    int
	MaxPages    int // <=0 means all
	Retry       httpx.RetryConfig

	// Tokens, when set, supplies the bearer token in place of AccessToken and refreshes
	// it once it expires.
	Tokens oauth2.TokenSource

	// Cache holds GET bodies; nil disables caching.
	Cache *ResponseCache

	Logger *zap.Logger
}

func New(baseURL, accessToken string) *Client {
	tr := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		AccessToken: accessToken,
		UserAgent:   "canvas-syllabus",
		PageSize:    maxPageSize,
		Retry:       httpx.DefaultRetryConfig(),
		HTTP: &http.Client{
			Timeout:   time.Minute,
			Transport: tr,
		},
		Logger: zap.NewNop(),
	}
}

func (c *Client) pageSize() int {
	if c.PageSize <= 0 || c.PageSize > maxPageSize {
		return maxPageSize
	}
	return c.PageSize
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.BaseURL + "/api/v1" + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, forceRefresh bool) (*http.Request, error) {
	r, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Accept", acceptJSON)
	r.Header.Set("Accept-Encoding", httpx.AcceptEncoding)
	if c.Tokens != nil {
		tok, err := c.Tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("canvas: access token: %w", err)
		}
		tok.SetAuthHeader(r)
	} else {
		r.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}
	if c.UserAgent != "" {
		r.Header.Set("User-Agent", c.UserAgent)
	}
	if forceRefresh {
		r.Header.Set("Cache-Control", "no-cache")
	}
	return r, nil
}

// getJSON GETs rawURL into out and returns the rel="next" link, if any.
// Cached bodies are served unless forceRefresh is set; fresh bodies always refresh the cache.
func (c *Client) getJSON(ctx context.Context, rawURL string, forceRefresh bool, out any) (string, error) {
	if c.AccessToken == "" && c.Tokens == nil {
		return "", ErrMissingToken
	}

	if !forceRefresh && c.Cache != nil {
		if e, ok := c.Cache.Get(rawURL); ok {
			logging.OrNop(c.Logger).Debug("canvas cache hit", zap.String("url", rawURL))
			return e.Next, httpx.DecodeJSON(e.Body, out)
		}
	}

	resp, body, err := httpx.DoWithRetry(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			return c.newRequest(ctx, http.MethodGet, rawURL, forceRefresh)
		},
		c.Retry,
	)
	if err != nil {
		return "", err
	}

	next := httpx.NextLink(resp.Header)
	if c.Cache != nil {
		c.Cache.Put(rawURL, CacheEntry{Body: body, Next: next})
	}
	return next, httpx.DecodeJSON(body, out)
}

// getAll walks every page starting at firstURL.
func getAll[T any](ctx context.Context, c *Client, firstURL string, forceRefresh bool) ([]T, error) {
	var all []T
	next := firstURL
	for page := 1; next != ""; page++ {
		if c.MaxPages > 0 && page > c.MaxPages {
			break
		}

		var batch []T
		n, err := c.getJSON(ctx, next, forceRefresh, &batch)
		if err != nil {
			return nil, fmt.Errorf("page=%d: %w", page, err)
		}
		logging.OrNop(c.Logger).Debug("canvas page",
			zap.Int("page", page),
			zap.Int("results", len(batch)),
			zap.Bool("hasNext", n != ""))

		all = append(all, batch...)
		next = n
	}
	return all, nil
}
