package auth

import (
	"strings"

	"golang.org/x/oauth2"
)

// Flow picks how the login page is presented.
type Flow int

const (
	FlowNormal Flow = iota
	// FlowCanvasLogin forces Canvas' own login form instead of the institution SSO.
	FlowCanvasLogin
	// FlowSkipVerify signs in with client credentials supplied by hand, without mobile verify.
	FlowSkipVerify
)

func (f Flow) String() string {
	switch f {
	case FlowCanvasLogin:
		return "canvas-login"
	case FlowSkipVerify:
		return "skip-verify"
	}
	return "normal"
}

const (
	OOBRedirectURI    = "urn:ietf:wg:oauth:2.0:oob"
	CanvasRedirectURI = "https://canvas.instructure.com/login/oauth2/auth"

	defaultDevice = "unknown_device"
)

type AuthURLParams struct {
	Protocol string
	Domain   string
	ClientID string
	// Device is sent as "purpose" and shows up in the user's approved integrations.
	Device                 string
	AuthenticationProvider string
	Flow                   Flow
	ForceOOBRedirect       bool
}

// RedirectURI is the OAuth redirect_uri for p.
func (p AuthURLParams) RedirectURI() string {
	if p.ForceOOBRedirect || p.Flow == FlowSkipVerify || strings.Contains(p.Domain, ".test.") {
		return OOBRedirectURI
	}
	return CanvasRedirectURI
}

// BuildAuthURL builds the /login/oauth2/auth URL the user opens in a browser.
func BuildAuthURL(p AuthURLParams) string {
	protocol := p.Protocol
	if protocol == "" {
		protocol = "https"
	}
	domain := strings.TrimSuffix(p.Domain, "/")

	device := strings.TrimSpace(p.Device)
	if device == "" {
		device = defaultDevice
	}
	device = strings.ReplaceAll(device, " ", "_")

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("mobile", "1"),
		oauth2.SetAuthURLParam("purpose", device),
	}
	if ap := strings.TrimSpace(p.AuthenticationProvider); ap != "" && !strings.EqualFold(ap, "null") {
		opts = append(opts, oauth2.SetAuthURLParam("authentication_provider", ap))
	}
	if p.Flow == FlowCanvasLogin {
		opts = append(opts, oauth2.SetAuthURLParam("canvas_login", "1"))
	}

	// Canvas' mobile flow carries no state; the code is pasted back by hand.
	cfg := OAuthConfig(protocol+"://"+domain, p.ClientID, "", p.RedirectURI())
	return cfg.AuthCodeURL("", opts...)
}
