package databricks

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dbsmoke/internal/config"
	"dbsmoke/pkg/logging"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// oidcTokenPath is the workspace endpoint for OAuth M2M token grants.
const oidcTokenPath = "/oidc/v1/token"

// ErrNoCredentials indicates that neither a token nor OAuth client
// credentials were available.
var ErrNoCredentials = errors.New("no Databricks credentials available; set DATABRICKS_TOKEN or run 'databricks auth login'")

// NewAuthenticatedClient builds an HTTP client whose transport carries
// workspace credentials. A personal access token takes precedence; OAuth
// client credentials are the fallback, with token refresh handled by
// x/oauth2.
func NewAuthenticatedClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	ts, err := tokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = 60 * time.Second
	return hc, nil
}

func tokenSource(ctx context.Context, cfg *config.Config) (oauth2.TokenSource, error) {
	if cfg.Token != "" {
		logging.Debug("Databricks", "authenticating with personal access token")
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}), nil
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		logging.Debug("Databricks", "authenticating with OAuth client credentials for %s", cfg.ClientID)
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.Host + oidcTokenPath,
			Scopes:       []string{"all-apis"},
		}
		return cc.TokenSource(ctx), nil
	}
	return nil, ErrNoCredentials
}
