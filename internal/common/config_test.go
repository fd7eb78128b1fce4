package common

import (
	"bytes"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validKey() string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{9}, 32))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, ":8000", cfg.Server.HTTPAddr)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "./encrypted_uploads", cfg.Vault.UploadDir)
	assert.Equal(t, "http://localhost:5000/api/certificates", cfg.Dispatch.Endpoint)
	assert.Equal(t, 3, cfg.Dispatch.PostRetries)
	assert.Equal(t, 10*time.Second, cfg.Dispatch.PostTimeout)
	assert.Equal(t, time.Second, cfg.Dispatch.Backoff)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("JOB_STORE", "sqlite")
	t.Setenv("JOB_STORE_DSN", "/tmp/jobs.db")
	t.Setenv("POST_RETRIES", "7")
	t.Setenv("POST_BACKOFF", "250ms")

	cfg := LoadConfig()
	assert.Equal(t, ":9999", cfg.Server.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/jobs.db", cfg.Store.DSN)
	assert.Equal(t, 7, cfg.Dispatch.PostRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Dispatch.Backoff)
}

func TestDecodeAESKey(t *testing.T) {
	t.Run("valid 32-byte key", func(t *testing.T) {
		cfg := &Config{Vault: VaultConfig{AESKeyBase64: validKey()}}
		key, err := cfg.DecodeAESKey()
		require.NoError(t, err)
		assert.Len(t, key, 32)
	})

	t.Run("missing key", func(t *testing.T) {
		cfg := &Config{}
		_, err := cfg.DecodeAESKey()
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not base64", func(t *testing.T) {
		cfg := &Config{Vault: VaultConfig{AESKeyBase64: "!!!"}}
		_, err := cfg.DecodeAESKey()
		assert.Error(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		cfg := &Config{Vault: VaultConfig{
			AESKeyBase64: base64.StdEncoding.EncodeToString([]byte("too short")),
		}}
		_, err := cfg.DecodeAESKey()
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Store:    StoreConfig{Backend: "memory"},
			Vault:    VaultConfig{AESKeyBase64: validKey()},
			Dispatch: DispatchConfig{Endpoint: "http://downstream/api", PostRetries: 3},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing endpoint", func(t *testing.T) {
		cfg := base()
		cfg.Dispatch.Endpoint = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero retries", func(t *testing.T) {
		cfg := base()
		cfg.Dispatch.PostRetries = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres needs a DSN", func(t *testing.T) {
		cfg := base()
		cfg.Store.Backend = "postgres"
		assert.Error(t, cfg.Validate())
		cfg.Store.DSN = "postgres://localhost/jobs"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := base()
		cfg.Store.Backend = "redis"
		assert.Error(t, cfg.Validate())
	})
}
