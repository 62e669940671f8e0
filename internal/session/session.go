package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"adminconsole/internal/api"
	"adminconsole/internal/storage"
	"adminconsole/internal/transport"
)

var (
	ErrNoSession    = errors.New("not signed in")
	ErrNotAdmin     = errors.New("account is not an administrator")
	ErrInvalidTheme = errors.New("theme must be light, dark or system")
)

// Authenticator is the subset of the auth endpoints a session needs.
type Authenticator interface {
	Login(ctx context.Context, req api.LoginRequest) (api.LoginResponse, error)
	Me(ctx context.Context) (api.MeResponse, error)
	Logout(ctx context.Context) error
}

// User is the minimal record persisted under admin_user.
type User struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	IsAdmin   bool    `json:"isAdmin"`
	CreatedAt string  `json:"createdAt"`
}

type Config struct {
	Store  *storage.Store
	Vault  storage.TokenVault
	Logger zerolog.Logger
	// OnClear runs after the local session is dropped, e.g. to reset caches.
	OnClear func(ctx context.Context)
}

// Manager owns the bearer token. It satisfies transport.Credentials, so the
// token it holds is attached to every request.
type Manager struct {
	store   *storage.Store
	vault   storage.TokenVault
	log     zerolog.Logger
	onClear func(ctx context.Context)

	token atomic.Pointer[string]
	user  atomic.Pointer[User]

	mu   sync.Mutex
	auth Authenticator
}

var _ transport.Credentials = (*Manager)(nil)

func New(cfg Config) *Manager {
	return &Manager{store: cfg.Store, vault: cfg.Vault, log: cfg.Logger, onClear: cfg.OnClear}
}

// Bind attaches the auth endpoints. The transport that reaches them is built
// with the Manager as its credentials, so binding happens after construction.
func (m *Manager) Bind(auth Authenticator) {
	m.mu.Lock()
	m.auth = auth
	m.mu.Unlock()
}

func (m *Manager) authenticator() (Authenticator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auth == nil {
		return nil, fmt.Errorf("session has no auth client bound")
	}
	return m.auth, nil
}

func (m *Manager) Token() string {
	if p := m.token.Load(); p != nil {
		return *p
	}
	return ""
}

// User returns the signed-in user, or nil.
func (m *Manager) User() *User {
	return m.user.Load()
}

// Login exchanges credentials for a token, then reads /auth/me to learn whether
// the account is an administrator. Non-admin accounts are signed out again.
func (m *Manager) Login(ctx context.Context, email, password string) (*User, error) {
	auth, err := m.authenticator()
	if err != nil {
		return nil, err
	}
	noSession := false
	resp, err := auth.Login(ctx, api.LoginRequest{Email: email, Password: password, CreateSession: &noSession})
	if err != nil {
		return nil, err
	}
	m.setToken(resp.Token)

	u, err := m.refresh(ctx, auth)
	if err != nil {
		m.clear(ctx)
		return nil, err
	}
	if !u.IsAdmin {
		m.clear(ctx)
		return nil, ErrNotAdmin
	}
	if err := m.vault.Save(ctx, resp.Token); err != nil {
		m.clear(ctx)
		return nil, fmt.Errorf("persist token: %w", err)
	}
	m.log.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("signed in")
	return u, nil
}

// Restore loads a persisted session and revalidates it against /auth/me. The
// stored user record is available through User while the check runs. A 401
// clears the session; other failures keep it.
func (m *Manager) Restore(ctx context.Context) (*User, error) {
	token, err := m.vault.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && token == "") {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	m.setToken(token)
	if u := m.loadUser(ctx); u != nil {
		m.user.Store(u)
	}

	auth, err := m.authenticator()
	if err != nil {
		return nil, err
	}
	u, err := m.refresh(ctx, auth)
	if err != nil {
		m.HandleError(ctx, err)
		return nil, err
	}
	return u, nil
}

func (m *Manager) refresh(ctx context.Context, auth Authenticator) (*User, error) {
	me, err := auth.Me(ctx)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:        me.User.ID,
		Email:     me.User.Email,
		Name:      me.User.Name,
		IsAdmin:   me.IsAdmin,
		CreatedAt: me.User.CreatedAt,
	}
	m.user.Store(u)
	if m.store != nil {
		b, err := json.Marshal(u)
		if err != nil {
			return nil, err
		}
		if err := m.store.Put(ctx, storage.KeyUser, string(b)); err != nil {
			m.log.Warn().Err(err).Msg("persist user")
		}
	}
	return u, nil
}

func (m *Manager) loadUser(ctx context.Context) *User {
	if m.store == nil {
		return nil
	}
	rec, err := m.store.Get(ctx, storage.KeyUser)
	if err != nil {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(rec.Value), &u); err != nil {
		return nil
	}
	return &u
}

// Logout tells the server and always drops the local session, even when the
// server call fails.
func (m *Manager) Logout(ctx context.Context) error {
	if m.Token() != "" {
		if auth, err := m.authenticator(); err == nil {
			if err := auth.Logout(ctx); err != nil {
				m.log.Warn().Err(err).Msg("server logout failed")
			}
		}
	}
	m.clear(ctx)
	m.log.Info().Msg("signed out")
	return nil
}

// HandleError clears the session when err is an authorization failure and
// reports whether it did.
func (m *Manager) HandleError(ctx context.Context, err error) bool {
	if !transport.IsUnauthorized(err) {
		return false
	}
	m.log.Warn().Err(err).Msg("token rejected, clearing session")
	m.clear(ctx)
	return true
}

// Expired reports whether the token's exp claim is at or before now. Tokens
// that are not JWTs, or carry no exp, never expire locally.
func (m *Manager) Expired(now time.Time) bool {
	token := m.Token()
	if token == "" {
		return true
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

func (m *Manager) setToken(token string) {
	m.token.Store(&token)
}

func (m *Manager) clear(ctx context.Context) {
	m.token.Store(nil)
	m.user.Store(nil)
	if err := m.vault.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("clear token")
	}
	if m.store != nil {
		if err := m.store.Delete(ctx, storage.KeyUser); err != nil {
			m.log.Warn().Err(err).Msg("clear user")
		}
	}
	if m.onClear != nil {
		m.onClear(ctx)
	}
}

// Language returns the stored UI language, or def when none is stored.
func (m *Manager) Language(ctx context.Context, def string) string {
	return m.pref(ctx, storage.KeyLanguage, def)
}

func (m *Manager) SetLanguage(ctx context.Context, lang string) error {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return fmt.Errorf("language is empty")
	}
	return m.store.Put(ctx, storage.KeyLanguage, lang)
}

func (m *Manager) Theme(ctx context.Context, def string) string {
	return m.pref(ctx, storage.KeyTheme, def)
}

func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	switch theme {
	case "light", "dark", "system":
	default:
		return ErrInvalidTheme
	}
	return m.store.Put(ctx, storage.KeyTheme, theme)
}

func (m *Manager) pref(ctx context.Context, key, def string) string {
	if m.store == nil {
		return def
	}
	rec, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.log.Warn().Err(err).Str("key", key).Msg("read preference")
		}
		return def
	}
	return rec.Value
}
