package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Sealed values look like "enc:v1:<key id>:<base64url(nonce || ciphertext)>".
const sealedPrefix = "enc:v1:"

var (
	ErrMalformed  = errors.New("malformed sealed value")
	ErrUnknownKey = errors.New("unknown key id")
)

// Sealer encrypts short secrets with AES-256-GCM. Every key it was built with
// can open; only the current key seals.
type Sealer struct {
	current string
	aeads   map[string]cipher.AEAD
}

func NewSealer(currentKeyID string, keys map[string][]byte) (*Sealer, error) {
	if currentKeyID == "" {
		return nil, fmt.Errorf("current key id is empty")
	}
	if _, ok := keys[currentKeyID]; !ok {
		return nil, fmt.Errorf("current key id %q not found", currentKeyID)
	}
	aeads := make(map[string]cipher.AEAD, len(keys))
	for id, key := range keys {
		if id == "" || strings.Contains(id, ":") {
			return nil, fmt.Errorf("invalid key id %q", id)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("key %q must be 32 bytes", id)
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("new cipher: %w", err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("new gcm: %w", err)
		}
		aeads[id] = aead
	}
	return &Sealer{current: currentKeyID, aeads: aeads}, nil
}

func (s *Sealer) CurrentKeyID() string { return s.current }

// Seal encrypts plaintext bound to label. Opening with another label fails,
// so a sealed token cannot be replayed as a different stored value.
func (s *Sealer) Seal(label, plaintext string) (string, error) {
	aead := s.aeads[s.current]
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	out := aead.Seal(nonce, nonce, []byte(plaintext), []byte(label))
	return sealedPrefix + s.current + ":" + base64.RawURLEncoding.EncodeToString(out), nil
}

func (s *Sealer) Open(label, sealed string) (string, error) {
	keyID, payload, err := split(sealed)
	if err != nil {
		return "", err
	}
	aead, ok := s.aeads[keyID]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownKey, keyID)
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrMalformed
	}
	nonce, ct := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	pt, err := aead.Open(nil, nonce, ct, []byte(label))
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(pt), nil
}

// Reseal re-encrypts a value sealed under an older key. It reports false and
// returns sealed unchanged when the current key was already used.
func (s *Sealer) Reseal(label, sealed string) (string, bool, error) {
	keyID, _, err := split(sealed)
	if err != nil {
		return "", false, err
	}
	if keyID == s.current {
		return sealed, false, nil
	}
	plain, err := s.Open(label, sealed)
	if err != nil {
		return "", false, err
	}
	out, err := s.Seal(label, plain)
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// IsSealed reports whether v carries the sealed-value prefix.
func IsSealed(v string) bool {
	return strings.HasPrefix(v, sealedPrefix)
}

func split(sealed string) (keyID, payload string, err error) {
	if !IsSealed(sealed) {
		return "", "", ErrMalformed
	}
	keyID, payload, ok := strings.Cut(strings.TrimPrefix(sealed, sealedPrefix), ":")
	if !ok || keyID == "" || payload == "" {
		return "", "", ErrMalformed
	}
	return keyID, payload, nil
}
