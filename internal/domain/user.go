package domain

import (
	"strconv"
	"time"
)

// User is the Canvas profile of the signed-in user.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ShortName    string `json:"short_name,omitempty"`
	LoginID      string `json:"login_id,omitempty"`
	PrimaryEmail string `json:"primary_email,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
}

// SignedInUser is what gets persisted after a successful OAuth exchange.
type SignedInUser struct {
	User         User      `json:"user"`
	Domain       string    `json:"domain"`
	Protocol     string    `json:"protocol"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenExpiry  time.Time `json:"token_expiry"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	SignedInAt   time.Time `json:"signed_in_at"`
}

// Key identifies a sign-in; one user per domain is kept.
func (u SignedInUser) Key() string {
	return u.Domain + "|" + strconv.FormatInt(u.User.ID, 10)
}

// BaseURL is protocol://domain, defaulting to https.
func (u SignedInUser) BaseURL() string {
	p := u.Protocol
	if p == "" {
		p = "https"
	}
	return p + "://" + u.Domain
}
