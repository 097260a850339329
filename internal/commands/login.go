package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"taskmgmt/internal/auth"
	"taskmgmt/internal/config"
	"taskmgmt/internal/exitcode"
	"taskmgmt/internal/store"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd stores a session token issued by the identity provider.
// The provider's own flow (browser, verification codes) happens out of
// band; this command only imports the result. Input is either an OAuth
// token JSON document or a bare bearer token, read from --token-file
// or stdin.
type LoginCmd struct {
	tokenFile string
}

// SetTokenFile sets the token file path (for testing).
func (c *LoginCmd) SetTokenFile(path string) {
	c.tokenFile = path
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Store a session token" }
func (c *LoginCmd) Usage() string     { return "taskmgmt login [--token-file <path>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.tokenFile, "token-file", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	var data []byte
	var err error
	if c.tokenFile != "" {
		data, err = os.ReadFile(c.tokenFile)
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to read token file: %v\n", err)
			return exitcode.AuthError
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to read token from stdin: %v\n", err)
			return exitcode.AuthError
		}
	}

	token, err := parseToken(data)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}

	if err := auth.SaveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseToken accepts an oauth2.Token JSON document or a bare bearer
// token string.
func parseToken(data []byte) (*oauth2.Token, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("empty token")
	}

	if strings.HasPrefix(trimmed, "{") {
		var token oauth2.Token
		if err := json.Unmarshal([]byte(trimmed), &token); err != nil {
			return nil, fmt.Errorf("invalid token document: %v", err)
		}
		if token.AccessToken == "" && token.RefreshToken == "" {
			return nil, fmt.Errorf("token document has no access or refresh token")
		}
		return &token, nil
	}

	// Bare bearer token; no expiry known, served as-is until rejected.
	return &oauth2.Token{AccessToken: trimmed, TokenType: "Bearer", Expiry: time.Time{}}, nil
}
