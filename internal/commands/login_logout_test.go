package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orange/internal/commands"
	"orange/internal/config"
	"orange/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test",` +
	`"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",` +
	`"redirect_uris":["http://localhost"]}}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func runAuth(t *testing.T, ctx context.Context, cmd commands.Command, dir string, quiet bool) (string, string, int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: dir, Quiet: quiet}
	code := cmd.Run(ctx, cfg, nil, nil, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestLoginCommand_NoOAuthClient(t *testing.T) {
	stdout, stderr, code := runAuth(t, context.Background(), &commands.LoginCmd{}, t.TempDir(), false)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	for _, want := range []string{"oauth_client.json not found", "orange login", "backend = \"googletasks\""} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr should mention %q, got %q", want, stderr)
		}
	}
}

func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.OAuthClientFile, testOAuthClient)
	// An unexpired access token is returned by the token source as is.
	writeFile(t, dir, config.TokenFile, `{"access_token":"a","token_type":"Bearer","refresh_token":"r","expiry":"2999-01-01T00:00:00Z"}`)

	stdout, stderr, code := runAuth(t, context.Background(), &commands.LoginCmd{}, dir, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "already logged in\n" {
		t.Errorf("expected 'already logged in', got %q", stdout)
	}
}

func TestLoginCommand_StartsFlowForUnusableToken(t *testing.T) {
	tokens := map[string]string{
		"corrupt":    `{"access_token":`,
		"no refresh": `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`,
	}

	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, config.OAuthClientFile, testOAuthClient)
			writeFile(t, dir, config.TokenFile, token)

			// A cancelled context stops the flow before it waits for the callback.
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			stdout, stderr, code := runAuth(t, ctx, &commands.LoginCmd{}, dir, false)

			if stdout == "already logged in\n" {
				t.Error("should not report an unusable token as logged in")
			}
			if code != exitcode.ConfigError {
				t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
			}
			if !strings.Contains(stderr, "accounts.google.com") {
				t.Errorf("expected consent URL on stderr, got %q", stderr)
			}
		})
	}
}

func TestLogoutCommand(t *testing.T) {
	tests := []struct {
		name      string
		withToken bool
		quiet     bool
		want      string
	}{
		{"logged in", true, false, "ok\n"},
		{"logged in quiet", true, true, ""},
		{"not logged in", false, false, "not logged in\n"},
		{"not logged in quiet", false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			oauthPath := writeFile(t, dir, config.OAuthClientFile, testOAuthClient)
			tokenPath := filepath.Join(dir, config.TokenFile)
			if tt.withToken {
				writeFile(t, dir, config.TokenFile, `{"access_token":"test","refresh_token":"test"}`)
			}

			stdout, stderr, code := runAuth(t, context.Background(), &commands.LogoutCmd{}, dir, tt.quiet)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if stderr != "" {
				t.Errorf("expected no stderr, got %q", stderr)
			}
			if stdout != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stdout)
			}
			if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
				t.Error("token.json should be gone")
			}
			if _, err := os.Stat(oauthPath); err != nil {
				t.Error("oauth_client.json should be kept")
			}
		})
	}
}
