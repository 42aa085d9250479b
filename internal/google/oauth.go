package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
)

// Credentials holds the OAuth client identity used for the installed-app flow.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// FromEnv fills empty credential fields from the environment.
func (c Credentials) FromEnv() Credentials {
	if c.ClientID == "" {
		c.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		c.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	return c
}

// Valid reports whether both credential fields are set.
func (c Credentials) Valid() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// HasToken checks if an OAuth token file exists.
func HasToken() bool {
	_, err := os.ReadFile(tokenFile())
	return err == nil
}

// AuthURL returns the OAuth URL the user must visit to authorize access.
func AuthURL(creds Credentials) string {
	return oauthConfig(creds).AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// SaveToken exchanges an authorization code for tokens and caches them.
func SaveToken(ctx context.Context, creds Credentials, authCode string) error {
	conf := oauthConfig(creds)

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	if err := os.MkdirAll(cacheDir(), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(tokenFile(), []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// TokenSource returns a refreshing OAuth2 token source for the cached token.
func TokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	conf := oauthConfig(creds)

	slurp, err := os.ReadFile(tokenFile())
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token found; run 'mailpilot auth' first")
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format in %s", tokenFile())
	}

	// Expiry in the past forces an immediate refresh through the source.
	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}

	return ts, nil
}

// HTTPClient returns an HTTP client configured with OAuth2 authentication.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func HTTPClient(ctx context.Context, creds Credentials) (*http.Client, error) {
	ts, err := TokenSource(ctx, creds)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client, nil
}

func oauthConfig(creds Credentials) *oauth2.Config {
	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     googleauth.Endpoint,
		RedirectURL:  oob,
		Scopes:       OAuthScopes,
	}
}

func tokenFile() string {
	return filepath.Join(cacheDir(), "google.token")
}

func cacheDir() string {
	return filepath.Join(userCacheDir(), "mailpilot")
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
