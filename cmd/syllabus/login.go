package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"canvas-syllabus/internal/auth"
)

func loginCmd(a *app) *cobra.Command {
	var (
		domainName   string
		flowName     string
		clientID     string
		clientSecret string
		protocol     string
		provider     string
		device       string
		code         string
	)

	c := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a Canvas instance and remember the user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flow, err := parseFlow(flowName)
			if err != nil {
				return err
			}
			if domainName == "" {
				domainName = a.cfg.CanvasDomain
			}
			if domainName == "" {
				return errors.New("--domain is required (or set CANVAS_DOMAIN)")
			}
			if device == "" {
				device, _ = os.Hostname()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
			defer cancel()

			ac := a.authClient()

			req := auth.SignInRequest{
				Domain:       strings.TrimSuffix(domainName, "/"),
				Protocol:     protocol,
				ClientID:     clientID,
				ClientSecret: clientSecret,
			}
			if flow == auth.FlowSkipVerify {
				if clientID == "" || clientSecret == "" {
					return errors.New("--client-id and --client-secret are required with --flow skip-verify")
				}
			} else {
				v, err := ac.MobileVerify(ctx, domainName)
				if err != nil {
					return err
				}
				req.Domain, req.Protocol = v.Domain, v.Protocol
				req.ClientID, req.ClientSecret = v.ClientID, v.ClientSecret
			}

			params := auth.AuthURLParams{
				Protocol:               req.Protocol,
				Domain:                 req.Domain,
				ClientID:               req.ClientID,
				Device:                 device,
				AuthenticationProvider: provider,
				Flow:                   flow,
			}
			req.RedirectURI = params.RedirectURI()

			out := cmd.OutOrStdout()
			if code == "" {
				fmt.Fprintf(out, "Open this URL and sign in:\n\n  %s\n\n", auth.BuildAuthURL(params))
				fmt.Fprint(out, "Paste the URL you were redirected to (or the code): ")
				code, err = readCode(cmd.InOrStdin())
				if err != nil {
					return err
				}
			} else if code, err = resolveCode(code); err != nil {
				return err
			}
			req.Code = code

			signer := &auth.Signer{
				Auth:   ac,
				Store:  a.store(),
				Canvas: a.newCanvas,
				Logger: a.log.Named("signin"),
			}
			u, err := signer.SignIn(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Signed in as %s on %s\n", u.User.Name, u.Domain)
			return nil
		},
	}

	c.Flags().StringVar(&domainName, "domain", "", "Canvas domain, e.g. school.instructure.com")
	c.Flags().StringVar(&flowName, "flow", "normal", "Sign-in flow: normal|canvas-login|skip-verify")
	c.Flags().StringVar(&clientID, "client-id", "", "OAuth client id (skip-verify flow)")
	c.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret (skip-verify flow)")
	c.Flags().StringVar(&protocol, "protocol", "https", "Protocol for the skip-verify flow")
	c.Flags().StringVar(&provider, "provider", "", "Authentication provider to pass to Canvas")
	c.Flags().StringVar(&device, "device", "", "Device name shown in Canvas (defaults to the hostname)")
	c.Flags().StringVar(&code, "code", "", "Authorization code or redirect URL (skips the prompt)")
	return c
}

func parseFlow(s string) (auth.Flow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return auth.FlowNormal, nil
	case "canvas-login":
		return auth.FlowCanvasLogin, nil
	case "skip-verify":
		return auth.FlowSkipVerify, nil
	}
	return 0, fmt.Errorf("unsupported flow %q (expected normal|canvas-login|skip-verify)", s)
}

func readCode(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read code: %w", err)
	}
	return resolveCode(line)
}

// resolveCode accepts either a bare authorization code or the URL the browser ended on.
func resolveCode(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", auth.ErrEmptyCode
	}
	if !strings.Contains(input, "://") {
		return input, nil
	}
	switch r := auth.ClassifyRedirect(input); r.Kind {
	case auth.RedirectAuthorized:
		return r.Code, nil
	case auth.RedirectAccessDenied:
		return "", errors.New("sign-in was denied")
	}
	return "", fmt.Errorf("%q does not carry an authorization code", input)
}
