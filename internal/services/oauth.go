package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/desertthunder/ytui/internal/shared"
	"golang.org/x/oauth2"
)

const youtubeScope = "https://www.googleapis.com/auth/youtube"

// GoogleEndpoint is the Google OAuth endpoint including device authorization.
var GoogleEndpoint = oauth2.Endpoint{
	AuthURL:       "https://accounts.google.com/o/oauth2/auth",
	DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
	TokenURL:      "https://oauth2.googleapis.com/token",
	AuthStyle:     oauth2.AuthStyleInParams,
}

// NewOAuthConfig builds the device-flow client for YouTube Music.
func NewOAuthConfig(creds shared.OAuthConfig) (*oauth2.Config, error) {
	if !creds.Configured() {
		return nil, fmt.Errorf("%w: credentials.oauth client_id and client_secret", shared.ErrMissingCredentials)
	}
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Scopes:       []string{youtubeScope},
		Endpoint:     GoogleEndpoint,
	}, nil
}

// DeviceLogin runs the device authorization flow. prompt is called with the
// verification URL and user code, then the call blocks until the user approves,
// the code expires or ctx is done.
func DeviceLogin(ctx context.Context, conf *oauth2.Config, prompt func(url, code string)) (*oauth2.Token, error) {
	da, err := conf.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: device authorization: %w", shared.ErrAuthFailed, err)
	}

	url := da.VerificationURIComplete
	if url == "" {
		url = da.VerificationURI
	}
	prompt(url, da.UserCode)

	tok, err := conf.DeviceAccessToken(ctx, da)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	return tok, nil
}

// LoadToken reads a token written by [SaveToken].
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrNotAuthenticated, err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("%w: malformed token file: %w", shared.ErrInvalidInput, err)
	}
	return &tok, nil
}

// SaveToken writes tok as JSON readable only by the owner.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// FileTokenSource wraps a refreshing source and saves each new access token to path.
type FileTokenSource struct {
	mu     sync.Mutex
	src    oauth2.TokenSource
	path   string
	last   string
	onSave func(*oauth2.Token, error)
}

// NewFileTokenSource returns a source seeded with tok that refreshes through conf.
func NewFileTokenSource(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token, path string) *FileTokenSource {
	return &FileTokenSource{
		src:  conf.TokenSource(ctx, tok),
		path: path,
		last: tok.AccessToken,
	}
}

// OnSave registers a callback invoked after each attempt to persist a refreshed token.
func (f *FileTokenSource) OnSave(fn func(*oauth2.Token, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSave = fn
}

// Token implements [oauth2.TokenSource].
func (f *FileTokenSource) Token() (*oauth2.Token, error) {
	tok, err := f.src.Token()
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if tok.AccessToken != f.last {
		f.last = tok.AccessToken
		saveErr := SaveToken(f.path, tok)
		if f.onSave != nil {
			f.onSave(tok, saveErr)
		}
	}
	return tok, nil
}

// OAuthClient returns an HTTP client authorised by src.
func OAuthClient(ctx context.Context, src oauth2.TokenSource) *http.Client {
	return oauth2.NewClient(ctx, src)
}
