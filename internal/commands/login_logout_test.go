package commands_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskpad/internal/backend/googletasks"
	"taskpad/internal/commands"
	"taskpad/internal/config"
	"taskpad/internal/exitcode"
)

// writeOAuthClient writes oauth_client.json whose token endpoint is tokenURL.
func writeOAuthClient(t *testing.T, dir, tokenURL string) {
	t.Helper()
	client := fmt.Sprintf(`{"installed":{"client_id":"test","client_secret":"test",`+
		`"token_uri":%q,"redirect_uris":["http://localhost"]}}`, tokenURL)
	if err := os.WriteFile(filepath.Join(dir, "oauth_client.json"), []byte(client), 0600); err != nil {
		t.Fatalf("failed to write oauth_client.json: %v", err)
	}
}

// tokenEndpoint answers refresh requests, accepting them unless reject is set.
func tokenEndpoint(t *testing.T, reject bool) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if reject {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"invalid_grant"}`)
			return
		}
		io.WriteString(w, `{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

const staleToken = `{"access_token":"expired","refresh_token":"rt","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`

// TestLoginCommand_NoOAuthClient verifies login fails without oauth_client.json
func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cmd := &commands.LoginCmd{}

	var outBuf, errBuf bytes.Buffer
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}

	code := cmd.Run(context.Background(), authEnv(cfg), nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if !strings.Contains(errBuf.String(), filepath.Join(dir, "oauth_client.json")) {
		t.Errorf("expected setup help naming the credentials path, got %q", errBuf.String())
	}
}

// TestLoginCommand_RejectsArguments verifies login takes no positional args
func TestLoginCommand_RejectsArguments(t *testing.T) {
	cmd := &commands.LoginCmd{}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}

	code := cmd.Run(context.Background(), authEnv(cfg), []string{"now"}, &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errBuf.String() != "error: unexpected argument: now\n" {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
}

// TestLoginCommand_AlreadyLoggedIn verifies a refreshable token skips the browser flow
func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	cmd := &commands.LoginCmd{}

	dir := t.TempDir()
	writeOAuthClient(t, dir, tokenEndpoint(t, false))
	if err := os.WriteFile(filepath.Join(dir, "token.json"), []byte(staleToken), 0600); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: dir}

	code := cmd.Run(context.Background(), authEnv(cfg), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "already logged in\n" {
		t.Errorf("expected 'already logged in', got %q", outBuf.String())
	}
}

// TestLoginCommand_RevokedToken verifies login starts the flow when the refresh is refused
func TestLoginCommand_RevokedToken(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cmd.SetFlow(&googletasks.Loopback{Timeout: 20 * time.Millisecond})

	dir := t.TempDir()
	writeOAuthClient(t, dir, tokenEndpoint(t, true))
	if err := os.WriteFile(filepath.Join(dir, "token.json"), []byte(staleToken), 0600); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: dir}

	code := cmd.Run(context.Background(), authEnv(cfg), nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("should not report success, got %q", outBuf.String())
	}
	if !strings.Contains(errBuf.String(), "Open this URL in your browser:") {
		t.Errorf("expected consent prompt, got %q", errBuf.String())
	}
	if !strings.HasSuffix(errBuf.String(), "error: oauth callback timed out\n") {
		t.Errorf("expected callback timeout, got %q", errBuf.String())
	}
}

// TestLoginCommand_NoRefreshToken verifies login proceeds when token has no refresh token
func TestLoginCommand_NoRefreshToken(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cmd.SetFlow(&googletasks.Loopback{Timeout: time.Minute})

	dir := t.TempDir()
	writeOAuthClient(t, dir, tokenEndpoint(t, false))
	tokenWithoutRefresh := `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`
	if err := os.WriteFile(filepath.Join(dir, "token.json"), []byte(tokenWithoutRefresh), 0600); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: dir}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := cmd.Run(ctx, authEnv(cfg), nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("should not say 'already logged in', got %q", outBuf.String())
	}
	if !strings.HasSuffix(errBuf.String(), "error: cancelled\n") {
		t.Errorf("expected cancellation, got %q", errBuf.String())
	}
}

// TestLogoutCommand_OnlyRemovesToken verifies logout only removes token.json
func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	tmpDir := t.TempDir()

	oauthClient := `{"installed":{"client_id":"test","client_secret":"test"}}`
	oauthPath := filepath.Join(tmpDir, "oauth_client.json")
	if err := os.WriteFile(oauthPath, []byte(oauthClient), 0600); err != nil {
		t.Fatalf("failed to write oauth_client.json: %v", err)
	}

	tokenPath := filepath.Join(tmpDir, "token.json")
	if err := os.WriteFile(tokenPath, []byte(`{"access_token":"test","refresh_token":"test"}`), 0600); err != nil {
		t.Fatalf("failed to write token.json: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: tmpDir}

	code := cmd.Run(context.Background(), authEnv(cfg), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}

	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(oauthPath); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

// TestLogoutCommand_RejectsArguments verifies logout leaves the token alone on bad usage
func TestLogoutCommand_RejectsArguments(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	tmpDir := t.TempDir()
	tokenPath := filepath.Join(tmpDir, "token.json")
	if err := os.WriteFile(tokenPath, []byte(`{"access_token":"test"}`), 0600); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: tmpDir}

	code := cmd.Run(context.Background(), authEnv(cfg), []string{"all"}, &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errBuf.String() != "error: unexpected argument: all\n" {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
	if _, err := os.Stat(tokenPath); err != nil {
		t.Error("token.json should NOT have been deleted")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}

	code := cmd.Run(context.Background(), authEnv(cfg), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", outBuf.String())
	}
}

// TestLogoutCommand_NotLoggedInQuiet verifies logout is quiet when not logged in
func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir(), Quiet: true}

	code := cmd.Run(context.Background(), authEnv(cfg), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", outBuf.String())
	}
}
