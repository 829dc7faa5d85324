package auth

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"canvas-syllabus/internal/httpx"
)

// Client talks to the unauthenticated sign-in endpoints: mobile verify and the OAuth token
// exchange.
type Client struct {
	HTTP            *http.Client
	UserAgent       string
	MobileVerifyURL string
	Retry           httpx.RetryConfig
	Logger          *zap.Logger
}

func NewClient(mobileVerifyURL, userAgent string) *Client {
	return &Client{
		HTTP:            &http.Client{Timeout: 30 * time.Second},
		UserAgent:       userAgent,
		MobileVerifyURL: mobileVerifyURL,
		Retry: httpx.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    5 * time.Second,
			Retry5xx:    true,
		},
		Logger: zap.NewNop(),
	}
}

func (c *Client) setHeaders(r *http.Request) {
	r.Header.Set("Accept", "application/json")
	r.Header.Set("Accept-Encoding", httpx.AcceptEncoding)
	if c.UserAgent != "" {
		r.Header.Set("User-Agent", c.UserAgent)
	}
}
