package auth

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"canvas-syllabus/internal/domain"
	"canvas-syllabus/internal/logging"
	"canvas-syllabus/internal/providers/canvas"
)

type SignInRequest struct {
	Domain       string
	Protocol     string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Code         string
}

func (r SignInRequest) baseURL() string {
	p := r.Protocol
	if p == "" {
		p = "https"
	}
	return p + "://" + r.Domain
}

// Signer completes a sign-in once the browser produced an authorization code.
type Signer struct {
	Auth  *Client
	Store *UserStore

	// Canvas builds the API client used to fetch the profile; nil uses canvas.New.
	Canvas func(baseURL, accessToken string) *canvas.Client

	Now    func() time.Time
	Logger *zap.Logger
}

// SignIn exchanges the code, fetches the user's profile and persists the result as the
// current user.
func (s *Signer) SignIn(ctx context.Context, req SignInRequest) (domain.SignedInUser, error) {
	log := logging.OrNop(s.Logger).With(zap.String("domain", req.Domain))
	base := req.baseURL()

	tok, err := s.Auth.ExchangeCode(ctx, Credentials{
		BaseURL:      base,
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		RedirectURI:  req.RedirectURI,
	}, req.Code)
	if err != nil {
		log.Warn("token exchange failed", zap.Error(err))
		return domain.SignedInUser{}, err
	}

	newClient := s.Canvas
	if newClient == nil {
		newClient = canvas.New
	}
	self, err := canvas.Provider{C: newClient(base, tok.AccessToken)}.Self(ctx)
	if err != nil {
		return domain.SignedInUser{}, fmt.Errorf("auth: fetch profile: %w", err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	protocol := req.Protocol
	if protocol == "" {
		protocol = "https"
	}
	u := domain.SignedInUser{
		User:         self,
		Domain:       req.Domain,
		Protocol:     protocol,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenExpiry:  tok.Expiry.UTC(),
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		SignedInAt:   now().UTC(),
	}
	if err := s.Store.Add(u); err != nil {
		return domain.SignedInUser{}, err
	}
	log.Info("signed in", zap.Int64("userID", self.ID), zap.String("name", self.Name))
	return u, nil
}
