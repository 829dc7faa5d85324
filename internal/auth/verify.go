package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"canvas-syllabus/internal/httpx"
	"canvas-syllabus/internal/logging"
)

// VerifyResult is the result code returned by mobile_verify.json.
type VerifyResult int

const (
	VerifySuccess VerifyResult = iota
	VerifyGeneralError
	VerifyDomainNotAuthorized
	VerifyUnknownUserAgent
)

var (
	ErrVerifyGeneral          = errors.New("auth: mobile verify failed")
	ErrDomainNotAuthorized    = errors.New("auth: domain is not authorized for mobile sign-in")
	ErrUnknownUserAgent       = errors.New("auth: user agent is not authorized")
	ErrVerifyUnexpectedResult = errors.New("auth: unexpected mobile verify result")
)

func (r VerifyResult) Err() error {
	switch r {
	case VerifySuccess:
		return nil
	case VerifyGeneralError:
		return ErrVerifyGeneral
	case VerifyDomainNotAuthorized:
		return ErrDomainNotAuthorized
	case VerifyUnknownUserAgent:
		return ErrUnknownUserAgent
	}
	return fmt.Errorf("%w: %d", ErrVerifyUnexpectedResult, int(r))
}

// DomainVerification is a successful mobile verify: the OAuth client credentials and the
// host to sign in against, which may differ from the one the user typed.
type DomainVerification struct {
	Result       VerifyResult
	Domain       string
	Protocol     string
	ClientID     string
	ClientSecret string
}

func (v DomainVerification) BaseURL() string {
	return v.Protocol + "://" + v.Domain
}

type verifyResponse struct {
	Authorized   bool         `json:"authorized"`
	Result       VerifyResult `json:"result"`
	ClientID     string       `json:"client_id"`
	ClientSecret string       `json:"client_secret"`
	APIKey       string       `json:"api_key"`
	BaseURL      string       `json:"base_url"`
	Protocol     string       `json:"protocol"`
}

// MobileVerify asks Canvas whether domain accepts mobile sign-in and for which client.
// A non-success result code comes back as one of the ErrVerify* / ErrDomainNotAuthorized /
// ErrUnknownUserAgent sentinels.
func (c *Client) MobileVerify(ctx context.Context, domain string) (DomainVerification, error) {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), "/")
	if domain == "" {
		return DomainVerification{}, errors.New("auth: empty domain")
	}

	u, err := url.Parse(c.MobileVerifyURL)
	if err != nil {
		return DomainVerification{}, fmt.Errorf("auth: mobile verify url: %w", err)
	}
	q := u.Query()
	q.Set("domain", domain)
	u.RawQuery = q.Encode()
	endpoint := u.String()

	var resp verifyResponse
	err = httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(r)
		return r, nil
	}, &resp, c.Retry)
	if err != nil {
		return DomainVerification{}, fmt.Errorf("auth: mobile verify %s: %w", domain, err)
	}

	if err := resp.Result.Err(); err != nil {
		logging.OrNop(c.Logger).Warn("mobile verify rejected", zap.String("domain", domain), zap.Int("result", int(resp.Result)))
		return DomainVerification{Result: resp.Result}, err
	}

	out := DomainVerification{
		Result:       resp.Result,
		Domain:       domain,
		Protocol:     resp.Protocol,
		ClientID:     resp.ClientID,
		ClientSecret: resp.ClientSecret,
	}
	// base_url may move us to another host, with or without a scheme.
	if base := strings.TrimSpace(resp.BaseURL); base != "" {
		if bu, err := url.Parse(base); err == nil && bu.Scheme != "" && bu.Host != "" {
			out.Domain = bu.Host
			if out.Protocol == "" {
				out.Protocol = bu.Scheme
			}
		} else {
			out.Domain = base
		}
	}
	out.Domain = strings.TrimSuffix(out.Domain, "/")
	if out.Protocol == "" {
		out.Protocol = "https"
	}
	return out, nil
}
