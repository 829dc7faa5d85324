package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
)

type Credentials struct {
	BaseURL      string // protocol://domain
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Token is what /login/oauth2/token hands back, including the "user" object Canvas
// adds next to the standard OAuth2 fields.
type Token struct {
	AccessToken  string `validate:"required"`
	RefreshToken string `validate:"required"`
	TokenType    string
	Expiry       time.Time
	UserID       int64
	UserName     string
}

var ErrEmptyCode = errors.New("auth: empty authorization code")

var validate = validator.New()

// ExchangeCode trades an authorization code for tokens. The code is single use, so the
// POST is never retried.
func (c *Client) ExchangeCode(ctx context.Context, creds Credentials, code string) (Token, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Token{}, ErrEmptyCode
	}

	if c.HTTP != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTP)
	}
	cfg := OAuthConfig(creds.BaseURL, creds.ClientID, creds.ClientSecret, creds.RedirectURI)
	ot, err := cfg.Exchange(ctx, code)
	if err != nil {
		return Token{}, fmt.Errorf("auth: token exchange: %w", err)
	}

	tok := Token{
		AccessToken:  ot.AccessToken,
		RefreshToken: ot.RefreshToken,
		TokenType:    ot.TokenType,
		Expiry:       ot.Expiry,
	}
	if user, ok := ot.Extra("user").(map[string]any); ok {
		if id, ok := user["id"].(float64); ok {
			tok.UserID = int64(id)
		}
		tok.UserName, _ = user["name"].(string)
	}
	if err := validate.Struct(tok); err != nil {
		return Token{}, fmt.Errorf("auth: token response: %w", err)
	}
	return tok, nil
}
