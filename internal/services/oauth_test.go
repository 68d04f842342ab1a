package services

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/ytui/internal/shared"
	"golang.org/x/oauth2"
)

// mockTokenSource implements [oauth2.TokenSource] for testing
type mockTokenSource struct {
	token *oauth2.Token
	err   error
}

func (m *mockTokenSource) Token() (*oauth2.Token, error) {
	return m.token, m.err
}

func TestNewOAuthConfig(t *testing.T) {
	if _, err := NewOAuthConfig(shared.OAuthConfig{ClientID: "your_oauth_client_id", ClientSecret: "x"}); !errors.Is(err, shared.ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials for placeholder client, got %v", err)
	}

	conf, err := NewOAuthConfig(shared.OAuthConfig{ClientID: "id", ClientSecret: "secret"})
	if err != nil {
		t.Fatalf("NewOAuthConfig() error = %v", err)
	}
	if conf.Endpoint.DeviceAuthURL == "" {
		t.Error("endpoint should support the device flow")
	}
	if len(conf.Scopes) != 1 || conf.Scopes[0] != youtubeScope {
		t.Errorf("unexpected scopes %v", conf.Scopes)
	}
}

func TestTokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oauth.json")

	t.Run("missing", func(t *testing.T) {
		if _, err := LoadToken(path); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}
		if err := SaveToken(path, tok); err != nil {
			t.Fatalf("SaveToken() error = %v", err)
		}
		got, err := LoadToken(path)
		if err != nil {
			t.Fatalf("LoadToken() error = %v", err)
		}
		if got.AccessToken != "a" || got.RefreshToken != "r" {
			t.Errorf("unexpected token %+v", got)
		}
	})
}

func TestFileTokenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oauth.json")
	mock := &mockTokenSource{token: &oauth2.Token{AccessToken: "token1"}}
	src := &FileTokenSource{src: mock, path: path, last: "token1"}

	var saved []string
	src.OnSave(func(tok *oauth2.Token, err error) {
		if err != nil {
			t.Errorf("save failed: %v", err)
		}
		saved = append(saved, tok.AccessToken)
	})

	t.Run("unchanged token is not saved", func(t *testing.T) {
		if _, err := src.Token(); err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if len(saved) != 0 {
			t.Errorf("expected no saves, got %v", saved)
		}
	})

	t.Run("refreshed token is saved", func(t *testing.T) {
		mock.token = &oauth2.Token{AccessToken: "token2"}
		if _, err := src.Token(); err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if _, err := src.Token(); err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if len(saved) != 1 || saved[0] != "token2" {
			t.Errorf("expected one save of token2, got %v", saved)
		}
		got, err := LoadToken(path)
		if err != nil || got.AccessToken != "token2" {
			t.Errorf("token file not updated: %v %v", got, err)
		}
	})

	t.Run("source error", func(t *testing.T) {
		mock.err = errors.New("refresh failed")
		if _, err := src.Token(); err == nil {
			t.Error("expected refresh error")
		}
	})
}
