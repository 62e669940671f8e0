package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"adminconsole/internal/api"
	"adminconsole/internal/app"
	"adminconsole/internal/apitest"
	"adminconsole/internal/session"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRoot()
	if cmd == nil || cmd.Use != "adminctl" {
		t.Fatalf("expected root command")
	}
	want := []string{"login", "logout", "whoami", "prefs", "dashboard", "users", "projects", "conversations",
		"sessions", "feedback", "context", "agents", "orchestrator", "tools", "models", "invite-codes",
		"admins", "playbooks", "usage", "audit"}
	have := map[string]bool{}
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Fatalf("expected %s command", name)
		}
	}
}

func setupEnv(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	t.Setenv("ADMIN_CONFIG_FILE", "")
	t.Setenv("ADMIN_API_URL", srv.BaseURL())
	t.Setenv("STATE_DRIVER", "sqlite")
	t.Setenv("STATE_DSN", filepath.Join(t.TempDir(), "state.db"))
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("TOKEN_VAULT", "db")
	t.Setenv("STATE_KEY_B64", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32)))
	t.Setenv("LOG_LEVEL", "error")
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRoot()
	cmd.SetArgs(args)
	out := bytes.NewBuffer(nil)
	cmd.SetOut(out)
	cmd.SetErr(bytes.NewBuffer(nil))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func login(t *testing.T) {
	t.Helper()
	out, err := run(t, "login", "--email", apitest.AdminEmail, "--password", apitest.AdminPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, apitest.AdminEmail) {
		t.Fatalf("unexpected login output %q", out)
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "agents", "list")
	if !errors.Is(err, app.ErrSignInRequired) || !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected sign-in error, got %v", err)
	}
}

func TestLoginPersistsAcrossCommands(t *testing.T) {
	setupEnv(t)
	login(t)

	out, err := run(t, "whoami", "--json")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	var u session.User
	if err := json.Unmarshal([]byte(out), &u); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if u.Email != apitest.AdminEmail || !u.IsAdmin {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestNonAdminLoginFails(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "login", "--email", apitest.UserEmail, "--password", apitest.UserPassword)
	if !errors.Is(err, session.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if _, err := run(t, "whoami"); !errors.Is(err, app.ErrSignInRequired) {
		t.Fatalf("rejected login must not leave a session, got %v", err)
	}
}

func TestToggleAgentThenList(t *testing.T) {
	setupEnv(t)
	login(t)

	if _, err := run(t, "agents", "toggle", "research-agent", "off"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	out, err := run(t, "agents", "list", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var agents []api.AgentConfig
	if err := json.Unmarshal([]byte(out), &agents); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	for _, a := range agents {
		if a.Name == "research-agent" && a.IsEnabled {
			t.Fatalf("research-agent still enabled")
		}
	}
}

func TestConversationsListTable(t *testing.T) {
	setupEnv(t)
	login(t)

	out, err := run(t, "conversations", "list", "--status", "completed", "--page", "3", "--page-size", "20")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "page 3 of 3, 45 total") {
		t.Fatalf("unexpected footer in %q", out)
	}
	if strings.Contains(out, "next:") {
		t.Fatalf("last page must not offer a next page: %q", out)
	}
}

func TestConversationsRejectsUnknownStatus(t *testing.T) {
	setupEnv(t)
	if _, err := run(t, "conversations", "list", "--status", "bogus"); err == nil || !strings.Contains(err.Error(), "--status") {
		t.Fatalf("expected status validation error, got %v", err)
	}
}

func TestInviteCodeCreateThenList(t *testing.T) {
	setupEnv(t)
	login(t)

	if _, err := run(t, "invite-codes", "create", "--max-uses", "3", "--note", "beta"); err != nil {
		t.Fatalf("create: %v", err)
	}
	out, err := run(t, "invite-codes", "list", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var list api.InviteCodeList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	found := false
	for _, c := range list.Codes {
		if c.MaxUses == 3 && c.Note != nil && *c.Note == "beta" {
			found = true
		}
	}
	if !found {
		t.Fatalf("created code missing from %+v", list.Codes)
	}
}

func TestLogoutForgetsSession(t *testing.T) {
	setupEnv(t)
	login(t)

	out, err := run(t, "logout")
	if err != nil || !strings.Contains(out, "signed out") {
		t.Fatalf("logout: %q err=%v", out, err)
	}
	if _, err := run(t, "whoami"); !errors.Is(err, app.ErrSignInRequired) {
		t.Fatalf("expected sign-in error after logout, got %v", err)
	}
}

func TestPrefs(t *testing.T) {
	setupEnv(t)
	if _, err := run(t, "prefs", "--theme", "dark", "--lang", "zh"); err != nil {
		t.Fatalf("set prefs: %v", err)
	}
	out, err := run(t, "prefs", "--json")
	if err != nil {
		t.Fatalf("prefs: %v", err)
	}
	var prefs map[string]string
	if err := json.Unmarshal([]byte(out), &prefs); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if prefs["theme"] != "dark" || prefs["language"] != "zh" {
		t.Fatalf("unexpected prefs %v", prefs)
	}
	if _, err := run(t, "prefs", "--theme", "sepia"); !errors.Is(err, session.ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}
