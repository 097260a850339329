// Package auth supplies bearer credentials for API requests.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"

	"taskmgmt/internal/config"
)

// Provider supplies a short-lived bearer credential on demand.
// It may fail, or succeed with an empty token; the request executor
// maps both cases to its error taxonomy.
type Provider interface {
	// Ready reports whether the identity subsystem is initialized.
	Ready() bool

	// Token returns the current bearer credential, refreshing it if
	// the underlying source supports that.
	Token(ctx context.Context) (string, error)
}

// SessionProvider is a Provider backed by an oauth2.TokenSource built
// from the stored session token.
type SessionProvider struct {
	src oauth2.TokenSource
}

// NewSessionProvider loads the session token from the config directory.
// When a token endpoint is configured the token auto-refreshes through
// it; otherwise the stored token is served as-is until it expires.
func NewSessionProvider(ctx context.Context, cfg *config.Config) (*SessionProvider, error) {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.TokenFile, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.TokenFile, err)
	}

	var src oauth2.TokenSource
	if cfg.TokenURL != "" {
		oc := &oauth2.Config{
			ClientID: cfg.ClientID,
			Endpoint: oauth2.Endpoint{TokenURL: cfg.TokenURL},
			// The credential template is requested as a scope so the
			// refreshed token carries the same API grant as the
			// original login.
			Scopes: []string{cfg.TokenTemplate},
		}
		src = oc.TokenSource(ctx, &token)
	} else {
		src = oauth2.ReuseTokenSource(&token, oauth2.StaticTokenSource(&token))
	}

	return &SessionProvider{src: src}, nil
}

// Ready implements Provider.
func (p *SessionProvider) Ready() bool {
	return p != nil && p.src != nil
}

// Token implements Provider.
func (p *SessionProvider) Token(ctx context.Context) (string, error) {
	tok, err := p.src.Token()
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Static is a fixed-token Provider for tests.
type Static string

// Ready implements Provider.
func (s Static) Ready() bool { return true }

// Token implements Provider.
func (s Static) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// SaveToken persists a session token to path with mode 0600.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
