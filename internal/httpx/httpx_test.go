package httpx

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
)

func TestSnippet(t *testing.T) {
	testCases := []struct {
		input    string
		max      int
		expected string
	}{
		{"short text", 100, "short text"},
		{"", 100, ""},
		{"  trimmed  ", 100, "trimmed"},
		{"long text that should be truncated", 10, "long text …"},
	}

	for _, tc := range testCases {
		result := snippet([]byte(tc.input), tc.max)
		if result != tc.expected {
			t.Errorf("snippet(%q, %d) = %q, want %q", tc.input, tc.max, result, tc.expected)
		}
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{
		Method:     "GET",
		URL:        "https://canvas.test/api/v1/courses/1",
		StatusCode: 404,
		Body:       []byte("Not Found"),
	}

	expected := "http error: GET https://canvas.test/api/v1/courses/1 status=404 body=Not Found"
	if err.Error() != expected {
		t.Errorf("HTTPError.Error() = %q, want %q", err.Error(), expected)
	}

	if !IsStatus(err, 401, 404) {
		t.Error("Expected IsStatus to match 404")
	}
	if IsStatus(errors.New("plain"), 404) {
		t.Error("Expected IsStatus to be false for non-HTTP errors")
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxAttempts != 8 {
		t.Errorf("Expected MaxAttempts to be 8, got %d", cfg.MaxAttempts)
	}
	if cfg.BaseDelay != 700*time.Millisecond {
		t.Errorf("Expected BaseDelay to be 700ms, got %v", cfg.BaseDelay)
	}
	if !cfg.Retry5xx {
		t.Error("Expected Retry5xx to be true")
	}
	for _, status := range []int{429, 408, 425, 503, 502, 504} {
		if !cfg.RetryStatuses[status] {
			t.Errorf("Expected status %d to be retryable", status)
		}
	}
}

func TestIsRetryableStatus(t *testing.T) {
	cfg := DefaultRetryConfig()

	for _, status := range []int{500, 502, 599, 429} {
		if !isRetryableStatus(status, cfg) {
			t.Errorf("Expected status %d to be retryable", status)
		}
	}
	for _, status := range []int{400, 401, 403, 404, 422} {
		if isRetryableStatus(status, cfg) {
			t.Errorf("Expected status %d to not be retryable", status)
		}
	}

	cfg.Retry5xx = false
	if isRetryableStatus(500, cfg) {
		t.Error("Expected status 500 to not be retryable when Retry5xx is false")
	}
	if !isRetryableStatus(429, cfg) {
		t.Error("Expected status 429 to be retryable regardless of Retry5xx")
	}
}

func TestIsRetryableNetErr(t *testing.T) {
	if isRetryableNetErr(context.Canceled) {
		t.Error("Expected context.Canceled to not be retryable")
	}
	if !isRetryableNetErr(context.DeadlineExceeded) {
		t.Error("Expected context.DeadlineExceeded to be retryable")
	}
	if !isRetryableNetErr(&timeoutError{}) {
		t.Error("Expected timeout error to be retryable")
	}
	for _, msg := range []string{"connection reset by peer", "write: broken pipe", "unexpected EOF"} {
		if !isRetryableNetErr(errors.New(msg)) {
			t.Errorf("Expected %q to be retryable", msg)
		}
	}
	if isRetryableNetErr(errors.New("some other error")) {
		t.Error("Expected 'some other error' to not be retryable")
	}
}

const retryAfterHeader = "Retry-After"

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}

	resp.Header.Set(retryAfterHeader, "30")
	if d := ParseRetryAfter(resp); d != 30*time.Second {
		t.Errorf("Expected 30s, got %v", d)
	}

	resp.Header.Set(retryAfterHeader, time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat))
	if d := ParseRetryAfter(resp); d != 0 {
		t.Errorf("Expected 0 for past date, got %v", d)
	}

	resp.Header.Set(retryAfterHeader, "invalid")
	if d := ParseRetryAfter(resp); d != 0 {
		t.Errorf("Expected 0 for invalid format, got %v", d)
	}

	resp.Header.Del(retryAfterHeader)
	if d := ParseRetryAfter(resp); d != 0 {
		t.Errorf("Expected 0 for empty header, got %v", d)
	}
}

func TestNextLink(t *testing.T) {
	testCases := []struct {
		name     string
		links    []string
		expected string
	}{
		{"none", nil, ""},
		{
			"canvas style",
			[]string{`<https://c.test/api/v1/calendar_events?page=1&per_page=100>; rel="current",<https://c.test/api/v1/calendar_events?page=2&per_page=100>; rel="next",<https://c.test/api/v1/calendar_events?page=1&per_page=100>; rel="first"`},
			"https://c.test/api/v1/calendar_events?page=2&per_page=100",
		},
		{
			"last page",
			[]string{`<https://c.test/x?page=3>; rel="current", <https://c.test/x?page=1>; rel="first"`},
			"",
		},
		{
			"unquoted rel split over headers",
			[]string{`<https://c.test/x?page=1>; rel=prev`, `<https://c.test/x?page=3>; rel=next`},
			"https://c.test/x?page=3",
		},
		{
			"extra params around rel",
			[]string{`<https://c.test/x?page=1>; type="application/json"; rel="prev", <https://c.test/x?page=2>; rel="next"; type="application/json"`},
			"https://c.test/x?page=2",
		},
		{
			"rel list",
			[]string{`<https://c.test/x?page=4>; rel="next last"`},
			"https://c.test/x?page=4",
		},
		{
			"missing target",
			[]string{`rel="next"`},
			"",
		},
	}

	for _, tc := range testCases {
		h := http.Header{}
		for _, l := range tc.links {
			h.Add("Link", l)
		}
		if got := NextLink(h); got != tc.expected {
			t.Errorf("%s: NextLink = %q, want %q", tc.name, got, tc.expected)
		}
	}
}

func TestReadBodyDecodesBrotli(t *testing.T) {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	w.Write([]byte(`{"id": 7}`))
	w.Close()

	resp := &http.Response{
		Header: http.Header{"Content-Encoding": []string{"br"}},
		Body:   io.NopCloser(&buf),
	}
	body, err := readBody(resp)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != `{"id": 7}` {
		t.Errorf("Expected decoded body, got %q", string(body))
	}
}

func TestReadBodyDecodesGzip(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Write([]byte(`[1,2,3]`))
	w.Close()

	resp := &http.Response{
		Header: http.Header{"Content-Encoding": []string{"gzip"}},
		Body:   io.NopCloser(&buf),
	}
	body, err := readBody(resp)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != `[1,2,3]` {
		t.Errorf("Expected decoded body, got %q", string(body))
	}
}

func TestReadAndClose(t *testing.T) {
	data, err := readAndClose(io.NopCloser(bytes.NewBufferString("test data")))
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if string(data) != "test data" {
		t.Errorf("Expected %q, got %q", "test data", string(data))
	}
}

// Mock implementation of net.Error for testing
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "timeout error" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
