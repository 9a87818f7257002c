// internal/credentials/store_test.go
package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"contest-console/internal/common/config"
	"contest-console/internal/common/logger"
	"contest-console/internal/models"
	"contest-console/internal/repository"
)

type stubProviders struct {
	repository.ProviderRepository
	provider *models.AIProvider
	err      error
}

func (s *stubProviders) FindByCode(ctx context.Context, code string) (*models.AIProvider, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.provider, nil
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := DeriveKey("master-key")

	sealed, err := Encrypt(key, "sk-live-secret")
	assert.NoError(t, err)
	assert.NotContains(t, sealed, "sk-live-secret")

	plain, err := Decrypt(key, sealed)
	assert.NoError(t, err)
	assert.Equal(t, "sk-live-secret", plain)

	// a second encryption uses a fresh nonce
	again, err := Encrypt(key, "sk-live-secret")
	assert.NoError(t, err)
	assert.NotEqual(t, sealed, again)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	sealed, err := Encrypt(DeriveKey("right"), "sk-live-secret")
	assert.NoError(t, err)

	plain, err := Decrypt(DeriveKey("wrong"), sealed)
	assert.Error(t, err)
	assert.Empty(t, plain)
}

func TestGetDecryptedCredential_HappyPath(t *testing.T) {
	cfg := config.CredentialConfig{MasterKey: "master-key"}
	sealed, err := Encrypt(DeriveKey(cfg.MasterKey), "sk-live-secret")
	assert.NoError(t, err)

	store := NewAESStore(&stubProviders{
		provider: &models.AIProvider{Code: "openai", EncryptedCredential: sealed},
	}, cfg, logger.NewTestLogger(t))

	assert.Equal(t, "sk-live-secret", store.GetDecryptedCredential(context.Background(), "openai"))
}

func TestGetDecryptedCredential_WrongMasterKeyYieldsEmpty(t *testing.T) {
	// A rotated master key must read as not-configured, never as an error
	// the conversation can see.
	sealed, err := Encrypt(DeriveKey("old-key"), "sk-live-secret")
	assert.NoError(t, err)

	store := NewAESStore(&stubProviders{
		provider: &models.AIProvider{Code: "openai", EncryptedCredential: sealed},
	}, config.CredentialConfig{MasterKey: "new-key"}, logger.NewTestLogger(t))

	assert.Empty(t, store.GetDecryptedCredential(context.Background(), "openai"))
}

func TestGetDecryptedCredential_MissingProviderYieldsEmpty(t *testing.T) {
	store := NewAESStore(&stubProviders{err: repository.ErrNotFound},
		config.CredentialConfig{MasterKey: "k"}, logger.NewTestLogger(t))

	assert.Empty(t, store.GetDecryptedCredential(context.Background(), "gemini"))
}

func TestGetDecryptedCredential_NoStoredCredentialYieldsEmpty(t *testing.T) {
	store := NewAESStore(&stubProviders{
		provider: &models.AIProvider{Code: "openai"},
	}, config.CredentialConfig{MasterKey: "k"}, logger.NewTestLogger(t))

	assert.Empty(t, store.GetDecryptedCredential(context.Background(), "openai"))
}
