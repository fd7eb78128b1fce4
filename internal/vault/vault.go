package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MandarKelkarOfficial/talent-sync/internal/common"
)

// Vault encrypts original artifacts at rest (AES-256-GCM, random 96-bit nonce
// per call, no associated data) and computes their content hash.
type Vault struct {
	secret *Secret
	dir    string
	logger *slog.Logger
}

// SealResult references a sealed artifact.
type SealResult struct {
	ContentHash string // hex-encoded SHA-256 of the plaintext
	Path        string // on-disk .enc file
}

// New builds a Vault. The secret is required at construction: calling any
// vault operation before the key exists is impossible by design rather than
// guarded by a runtime nil check.
func New(secret *Secret, dir string, logger *slog.Logger) (*Vault, error) {
	if secret == nil {
		return nil, common.ErrKeyNotInitialized
	}
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = "./encrypted_uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Vault{secret: secret, dir: dir, logger: logger}, nil
}

// Seal hashes and encrypts plaintext, persists the blob as two base64 lines
// (nonce, then ciphertext) and returns the hash plus the file path. The file
// name derives from the job id and a sanitized filename hint.
func (v *Vault) Seal(jobID string, filenameHint string, plaintext []byte) (SealResult, error) {
	sum := sha256.Sum256(plaintext)
	hashHex := hex.EncodeToString(sum[:])

	nonceB64, ctB64, err := v.Encrypt(plaintext)
	if err != nil {
		return SealResult{}, err
	}

	name := jobID
	if safe := SanitizeFilename(filenameHint); safe != "" {
		name = jobID + "_" + safe
	}
	path := filepath.Join(v.dir, name+".enc")

	if err := os.WriteFile(path, []byte(nonceB64+"\n"+ctB64), 0o600); err != nil {
		return SealResult{}, fmt.Errorf("write encrypted blob: %w", err)
	}

	v.logger.Debug("artifact sealed", "job_id", jobID, "path", path, "plaintext_bytes", len(plaintext))
	return SealResult{ContentHash: hashHex, Path: path}, nil
}

// Open reads a sealed blob back and decrypts it.
func (v *Vault) Open(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read encrypted blob: %w", err)
	}
	nonceB64, ctB64, ok := strings.Cut(string(raw), "\n")
	if !ok {
		return nil, fmt.Errorf("blob %s is not in nonce/ciphertext form: %w", path, common.ErrCiphertextCorrupt)
	}
	return v.Decrypt(nonceB64, ctB64)
}

// Encrypt seals plaintext and returns base64-encoded nonce and ciphertext.
func (v *Vault) Encrypt(plaintext []byte) (nonceB64, ciphertextB64 string, err error) {
	aead, err := v.aead()
	if err != nil {
		return "", "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", "", fmt.Errorf("generate nonce: %w", err)
	}
	ct := aead.Seal(nil, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(nonce), base64.StdEncoding.EncodeToString(ct), nil
}

// Decrypt is the inverse of Encrypt. A failed authentication tag surfaces as
// common.ErrCiphertextCorrupt, never as a generic error.
func (v *Vault) Decrypt(nonceB64, ciphertextB64 string) ([]byte, error) {
	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return nil, fmt.Errorf("decode nonce: %w", common.ErrCiphertextCorrupt)
	}
	ct, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", common.ErrCiphertextCorrupt)
	}
	aead, err := v.aead()
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("bad nonce length %d: %w", len(nonce), common.ErrCiphertextCorrupt)
	}
	plaintext, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("authenticated decryption failed: %w", common.ErrCiphertextCorrupt)
	}
	return plaintext, nil
}

func (v *Vault) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(v.secret.key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// SanitizeFilename keeps alphanumerics plus "._-" and truncates to 60 runes.
func SanitizeFilename(hint string) string {
	var b strings.Builder
	for _, r := range hint {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
		if b.Len() >= 60 {
			break
		}
	}
	return b.String()
}
