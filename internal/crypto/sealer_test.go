package crypto

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestSealOpen(t *testing.T) {
	s, err := NewSealer("k1", map[string][]byte{"k1": mustKey(t, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")})
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}

	sealed, err := s.Seal("admin_token", "eyJhbGciOi.payload.sig")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if !IsSealed(sealed) || !strings.HasPrefix(sealed, "enc:v1:k1:") {
		t.Fatalf("unexpected sealed form %q", sealed)
	}
	if strings.Contains(sealed, "payload") {
		t.Fatalf("plaintext leaked into %q", sealed)
	}

	out, err := s.Open("admin_token", sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if out != "eyJhbGciOi.payload.sig" {
		t.Fatalf("unexpected plaintext %q", out)
	}

	if _, err := s.Open("admin_user", sealed); err == nil {
		t.Fatalf("expected label mismatch to fail")
	}
}

func TestResealAfterRotation(t *testing.T) {
	oldKey := mustKey(t, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")
	newKey := mustKey(t, "AQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQE=")

	before, err := NewSealer("old", map[string][]byte{"old": oldKey})
	if err != nil {
		t.Fatalf("old sealer: %v", err)
	}
	legacy, err := before.Seal("admin_token", "legacy")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	rotated, err := NewSealer("new", map[string][]byte{"old": oldKey, "new": newKey})
	if err != nil {
		t.Fatalf("rotated sealer: %v", err)
	}
	if plain, err := rotated.Open("admin_token", legacy); err != nil || plain != "legacy" {
		t.Fatalf("open with old key: %q err=%v", plain, err)
	}

	fresh, changed, err := rotated.Reseal("admin_token", legacy)
	if err != nil || !changed {
		t.Fatalf("expected reseal, changed=%v err=%v", changed, err)
	}
	if !strings.HasPrefix(fresh, "enc:v1:new:") {
		t.Fatalf("resealed under wrong key: %q", fresh)
	}
	same, changed, err := rotated.Reseal("admin_token", fresh)
	if err != nil || changed || same != fresh {
		t.Fatalf("current-key value must be left alone")
	}
}

func TestOpenRejectsUnknownKeyAndGarbage(t *testing.T) {
	s, err := NewSealer("k1", map[string][]byte{"k1": mustKey(t, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")})
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	if _, err := s.Open("x", "enc:v1:gone:AAAA"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if _, err := s.Open("x", "plain-token"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if _, err := NewSealer("k1", map[string][]byte{"k1": []byte("short")}); err == nil {
		t.Fatalf("expected short key to be rejected")
	}
}

func mustKey(t *testing.T, b64 string) []byte {
	t.Helper()
	k, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("decode key: %v", err)
	}
	if len(k) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(k))
	}
	return k
}
