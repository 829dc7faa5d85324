package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"canvas-syllabus/internal/auth"
	"canvas-syllabus/internal/config"
	"canvas-syllabus/internal/domain"
	"canvas-syllabus/internal/logging"
	"canvas-syllabus/internal/providers/canvas"
	"canvas-syllabus/internal/syllabus"
)

const defaultEnvFile = ".env"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	var (
		debug   bool
		envFile string
	)
	a := &app{log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:          "syllabus",
		Short:        "Load, print and export Canvas course syllabi",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// The default .env is optional; one named on the command line is not.
			optional := !cmd.Flags().Changed("env-file")
			if err := config.LoadEnvFile(envFile, optional); err != nil {
				return err
			}

			a.cfg = config.Load()
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			l, err := logging.New(debug)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			a.log = l
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.log.Sync()
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose console logging")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file to load before reading the environment")

	cmd.AddCommand(
		loginCmd(a),
		usersCmd(a),
		showCmd(a),
		exportCmd(a),
		diffCmd(a),
	)
	return cmd
}

func (a *app) store() *auth.UserStore {
	return auth.NewUserStore(a.cfg.UsersFile)
}

func (a *app) authClient() *auth.Client {
	c := auth.NewClient(a.cfg.CanvasMobileVerifyURL, a.cfg.CanvasUserAgent)
	c.Logger = a.log.Named("auth")
	return c
}

// newCanvas builds an API client with the configured paging, cache and user agent.
func (a *app) newCanvas(baseURL, token string) *canvas.Client {
	c := canvas.New(baseURL, token)
	c.UserAgent = a.cfg.CanvasUserAgent
	c.PageSize = a.cfg.PageSize
	c.Logger = a.log.Named("canvas")
	if a.cfg.CacheTTL > 0 {
		c.Cache = canvas.NewResponseCache(a.cfg.CacheTTL)
	}
	return c
}

var errNoSession = errors.New("not signed in: run `syllabus login` or set CANVAS_DOMAIN and CANVAS_ACCESS_TOKEN")

// session is the Canvas host and credentials a command talks to.
type session struct {
	baseURL string
	token   string
	// user is set when the credentials come from the user store.
	user *domain.SignedInUser
}

// resolveSession picks the Canvas host and token: explicit env wins over the stored user.
func resolveSession(cfg config.Config, store *auth.UserStore) (session, error) {
	if cfg.CanvasDomain != "" && cfg.CanvasAccessToken != "" {
		return session{
			baseURL: cfg.CanvasProtocol + "://" + strings.TrimSuffix(cfg.CanvasDomain, "/"),
			token:   cfg.CanvasAccessToken,
		}, nil
	}
	u, err := store.Current()
	if errors.Is(err, auth.ErrNoUser) {
		return session{}, errNoSession
	}
	if err != nil {
		return session{}, err
	}
	return session{baseURL: u.BaseURL(), token: u.AccessToken, user: &u}, nil
}

// canvasFor builds the API client for s. Stored sign-ins refresh their access token
// through the OAuth client they were issued to.
func (a *app) canvasFor(ctx context.Context, s session) *canvas.Client {
	c := a.newCanvas(s.baseURL, s.token)
	if u := s.user; u != nil && u.RefreshToken != "" && u.ClientID != "" {
		c.Tokens = auth.TokenSource(ctx, c.HTTP, *u)
	}
	return c
}

func (a *app) loader(ctx context.Context) (*syllabus.Loader, string, error) {
	s, err := resolveSession(a.cfg, a.store())
	if err != nil {
		return nil, "", err
	}
	p := canvas.Provider{C: a.canvasFor(ctx, s)}
	return syllabus.NewLoader(p, p, a.log.Named("syllabus")), s.baseURL, nil
}

const loadTimeout = 2 * time.Minute
