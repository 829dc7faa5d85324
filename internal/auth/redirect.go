package auth

import "strings"

const (
	successMarker = "/login/oauth2/auth?code="
	deniedMarker  = "/login/oauth2/auth?error=access_denied"

	// Santa Fe College's IdP hands the code back on its own host as hash=<code>.
	santafeMarker = "idp.sfcollege.edu/idp/santafe"
	hashMarker    = "hash="
)

type RedirectKind int

const (
	// RedirectContinue means the URL is an intermediate page; keep following it.
	RedirectContinue RedirectKind = iota
	RedirectAuthorized
	RedirectAccessDenied
)

func (k RedirectKind) String() string {
	switch k {
	case RedirectAuthorized:
		return "authorized"
	case RedirectAccessDenied:
		return "access_denied"
	}
	return "continue"
}

type Redirect struct {
	Kind RedirectKind
	Code string
}

// ClassifyRedirect inspects a URL the browser landed on during sign-in.
func ClassifyRedirect(rawURL string) Redirect {
	switch {
	case strings.Contains(rawURL, successMarker):
		code := rawURL[strings.Index(rawURL, successMarker)+len(successMarker):]
		return authorized(code)
	case strings.Contains(rawURL, santafeMarker) && strings.Contains(rawURL, hashMarker):
		_, code, _ := strings.Cut(rawURL, hashMarker)
		return authorized(code)
	case strings.Contains(rawURL, deniedMarker):
		return Redirect{Kind: RedirectAccessDenied}
	}
	return Redirect{Kind: RedirectContinue}
}

// authorized trims trailing query parameters or fragments off the code.
func authorized(code string) Redirect {
	if i := strings.IndexAny(code, "&#"); i >= 0 {
		code = code[:i]
	}
	if code == "" {
		return Redirect{Kind: RedirectContinue}
	}
	return Redirect{Kind: RedirectAuthorized, Code: code}
}
