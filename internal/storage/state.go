package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var ErrNotFound = errors.New("not found")

// Fixed keys of the persisted client state.
const (
	KeyToken    = "admin_token"
	KeyUser     = "admin_user"
	KeyLanguage = "admin_lang"
	KeyTheme    = "admin_theme"
)

type Record struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

func (s *Store) Get(ctx context.Context, key string) (Record, error) {
	q := s.sql.Select("state_key", "value", "updated_at").
		From("kv_state").
		Where(sq.Eq{"state_key": key})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return Record{}, fmt.Errorf("build get state query: %w", err)
	}

	var r Record
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&r.Key, &r.Value, &r.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("get state %s: %w", key, err)
	}
	return r, nil
}

func (s *Store) Put(ctx context.Context, key, value string) error {
	q := s.sql.Insert("kv_state").
		Columns("state_key", "value", "updated_at").
		Values(key, value, s.now().UTC()).
		Suffix("ON CONFLICT(state_key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build put state query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("put state %s: %w", key, err)
	}
	return nil
}

// Delete is a no-op for a missing key.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	sqlStr, args, err := s.sql.Delete("kv_state").Where(sq.Eq{"state_key": keys}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete state query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}
