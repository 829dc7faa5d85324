package auth

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"canvas-syllabus/internal/domain"
)

// OAuthConfig describes the Canvas instance at baseURL as an OAuth2 provider. Canvas
// reads the client credentials from the form body, never from basic auth.
func OAuthConfig(baseURL, clientID, clientSecret, redirectURI string) *oauth2.Config {
	base := strings.TrimSuffix(baseURL, "/")
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:   base + "/login/oauth2/auth",
			TokenURL:  base + "/login/oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// TokenSource hands out u's access token and refreshes it with u's refresh token once it
// expires. hc, when set, carries the refresh requests.
func TokenSource(ctx context.Context, hc *http.Client, u domain.SignedInUser) oauth2.TokenSource {
	if hc != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	}
	return OAuthConfig(u.BaseURL(), u.ClientID, u.ClientSecret, "").TokenSource(ctx, &oauth2.Token{
		AccessToken:  u.AccessToken,
		RefreshToken: u.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       u.TokenExpiry,
	})
}
