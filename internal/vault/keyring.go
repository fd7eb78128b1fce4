package vault

import (
	"encoding/base64"
	"fmt"

	"github.com/MandarKelkarOfficial/talent-sync/internal/common"
)

// Secret holds the AES-256 key. It is constructed exactly once at startup and
// is immutable afterwards; a Vault cannot be built without one, so there is no
// code path that writes plaintext because a key was "not set yet".
type Secret struct {
	key []byte
}

// NewSecret wraps a raw 32-byte key.
func NewSecret(key []byte) (*Secret, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("AES key must be 32 bytes, got %d: %w", len(key), common.ErrInvalidInput)
	}
	k := make([]byte, 32)
	copy(k, key)
	return &Secret{key: k}, nil
}

// SecretFromBase64 decodes and wraps a base64-encoded 32-byte key.
func SecretFromBase64(encoded string) (*Secret, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode AES key: %w", err)
	}
	return NewSecret(raw)
}
