package vault

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MandarKelkarOfficial/talent-sync/internal/common"
)

func testVault(t *testing.T) *Vault {
	t.Helper()
	secret, err := NewSecret(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)
	v, err := New(secret, t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return v
}

func TestNewSecretRejectsBadKeyLength(t *testing.T) {
	_, err := NewSecret([]byte("short"))
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = NewSecret(bytes.Repeat([]byte{1}, 16))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSecretFromBase64(t *testing.T) {
	ok := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	_, err := SecretFromBase64(ok)
	assert.NoError(t, err)

	_, err = SecretFromBase64("not base64 !!!")
	assert.Error(t, err)
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(nil, t.TempDir(), nil)
	assert.ErrorIs(t, err, common.ErrKeyNotInitialized)
}

func TestSealOpenRoundTrip(t *testing.T) {
	v := testVault(t)
	plaintext := []byte("certificate bytes, honest")

	res, err := v.Seal("job-1", "cert.pdf", plaintext)
	require.NoError(t, err)

	sum := sha256.Sum256(plaintext)
	assert.Equal(t, hex.EncodeToString(sum[:]), res.ContentHash)
	assert.True(t, strings.HasSuffix(res.Path, "job-1_cert.pdf.enc"))

	// on-disk format is two base64 lines, never plaintext
	raw, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	lines := strings.SplitN(string(raw), "\n", 2)
	require.Len(t, lines, 2)
	_, err = base64.StdEncoding.DecodeString(lines[0])
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), "certificate bytes")

	got, err := v.Open(res.Path)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestSealEmptyPlaintext(t *testing.T) {
	v := testVault(t)

	res, err := v.Seal("job-2", "", []byte{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Path, "job-2.enc"))

	got, err := v.Open(res.Path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenDetectsTampering(t *testing.T) {
	v := testVault(t)

	res, err := v.Seal("job-3", "x.png", []byte("original"))
	require.NoError(t, err)

	raw, err := os.ReadFile(res.Path)
	require.NoError(t, err)

	// flip one ciphertext byte underneath the base64
	nonceB64, ctB64, ok := strings.Cut(string(raw), "\n")
	require.True(t, ok)
	ct, err := base64.StdEncoding.DecodeString(ctB64)
	require.NoError(t, err)
	ct[0] ^= 0xFF
	tampered := nonceB64 + "\n" + base64.StdEncoding.EncodeToString(ct)
	require.NoError(t, os.WriteFile(res.Path, []byte(tampered), 0o600))

	_, err = v.Open(res.Path)
	assert.ErrorIs(t, err, common.ErrCiphertextCorrupt)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	v := testVault(t)

	_, err := v.Decrypt("!!not-base64!!", "")
	assert.ErrorIs(t, err, common.ErrCiphertextCorrupt)

	// valid base64 but wrong nonce length
	short := base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
	_, err = v.Decrypt(short, base64.StdEncoding.EncodeToString([]byte("ct")))
	assert.ErrorIs(t, err, common.ErrCiphertextCorrupt)
}

func TestOpenRejectsSingleLineBlob(t *testing.T) {
	v := testVault(t)
	path := v.dir + "/broken.enc"
	require.NoError(t, os.WriteFile(path, []byte("just-one-line"), 0o600))

	_, err := v.Open(path)
	assert.ErrorIs(t, err, common.ErrCiphertextCorrupt)
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	v := testVault(t)

	n1, c1, err := v.Encrypt([]byte("same input"))
	require.NoError(t, err)
	n2, c2, err := v.Encrypt([]byte("same input"))
	require.NoError(t, err)

	assert.NotEqual(t, n1, n2)
	assert.NotEqual(t, c1, c2)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cert.pdf", "cert.pdf"},
		{"../../etc/passwd", "....etcpasswd"},
		{"my cert (final).PDF", "mycertfinal.PDF"},
		{"", ""},
		{strings.Repeat("a", 100), strings.Repeat("a", 60)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}
