package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"

	"adminconsole/internal/crypto"
)

// TokenVault holds the bearer token. Load returns ErrNotFound when no token is stored.
type TokenVault interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// DBVault keeps the token in kv_state, sealed when a Sealer is configured.
type DBVault struct {
	store  *Store
	sealer *crypto.Sealer
	log    zerolog.Logger
}

func NewDBVault(store *Store, sealer *crypto.Sealer, log zerolog.Logger) *DBVault {
	return &DBVault{store: store, sealer: sealer, log: log}
}

func (v *DBVault) Load(ctx context.Context) (string, error) {
	rec, err := v.store.Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	raw := rec.Value
	if !crypto.IsSealed(raw) {
		if v.sealer != nil {
			// Stored before encryption was enabled.
			if err := v.Save(ctx, raw); err != nil {
				v.log.Warn().Err(err).Msg("seal legacy token")
			}
		}
		return raw, nil
	}
	if v.sealer == nil {
		return "", fmt.Errorf("stored token is sealed but no state key is configured")
	}

	token, err := v.sealer.Open(KeyToken, raw)
	if err != nil {
		return "", fmt.Errorf("open token: %w", err)
	}
	if fresh, changed, err := v.sealer.Reseal(KeyToken, raw); err == nil && changed {
		if err := v.store.Put(ctx, KeyToken, fresh); err != nil {
			v.log.Warn().Err(err).Msg("reseal token")
		} else {
			v.log.Info().Str("key_id", v.sealer.CurrentKeyID()).Msg("token resealed under current key")
		}
	}
	return token, nil
}

func (v *DBVault) Save(ctx context.Context, token string) error {
	value := token
	if v.sealer != nil {
		sealed, err := v.sealer.Seal(KeyToken, token)
		if err != nil {
			return fmt.Errorf("seal token: %w", err)
		}
		value = sealed
	}
	return v.store.Put(ctx, KeyToken, value)
}

func (v *DBVault) Clear(ctx context.Context) error {
	return v.store.Delete(ctx, KeyToken)
}

// KeyringVault keeps the token in the OS credential store.
type KeyringVault struct {
	service string
	user    string
}

func NewKeyringVault(service, user string) *KeyringVault {
	if service == "" {
		service = "adminconsole"
	}
	if user == "" {
		user = KeyToken
	}
	return &KeyringVault{service: service, user: user}
}

func (v *KeyringVault) Load(context.Context) (string, error) {
	token, err := keyring.Get(v.service, v.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keyring get: %w", err)
	}
	return token, nil
}

func (v *KeyringVault) Save(_ context.Context, token string) error {
	if err := keyring.Set(v.service, v.user, token); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

func (v *KeyringVault) Clear(context.Context) error {
	err := keyring.Delete(v.service, v.user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}
