// internal/credentials/store.go
package credentials

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"contest-console/internal/common/config"
	"contest-console/internal/common/logger"
	"contest-console/internal/repository"
)

// Store decrypts provider API keys. A missing or undecryptable credential
// yields "", which the gateway treats as not-configured.
type Store interface {
	GetDecryptedCredential(ctx context.Context, providerCode string) string
}

type AESStore struct {
	providers repository.ProviderRepository
	key       []byte
	logger    logger.Logger
}

func NewAESStore(providers repository.ProviderRepository, cfg config.CredentialConfig, log logger.Logger) *AESStore {
	// Any master key length is accepted; it is stretched to AES-256.
	sum := sha256.Sum256([]byte(cfg.MasterKey))
	return &AESStore{
		providers: providers,
		key:       sum[:],
		logger:    log.With(map[string]interface{}{"component": "credentials"}),
	}
}

func (s *AESStore) GetDecryptedCredential(ctx context.Context, providerCode string) string {
	provider, err := s.providers.FindByCode(ctx, providerCode)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.WithError(err).Warn("credential lookup failed", map[string]interface{}{
				"providerCode": providerCode,
			})
		}
		return ""
	}
	if provider.EncryptedCredential == "" {
		return ""
	}

	plain, err := Decrypt(s.key, provider.EncryptedCredential)
	if err != nil {
		s.logger.WithError(err).Warn("credential decrypt failed", map[string]interface{}{
			"providerCode": providerCode,
		})
		return ""
	}
	return plain
}

// Encrypt seals a credential with AES-256-GCM and base64-encodes the
// nonce-prefixed ciphertext.
func Encrypt(key []byte, plaintext string) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func Decrypt(key []byte, encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode credential: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("credential ciphertext too short")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]

	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open credential: %w", err)
	}
	return string(plain), nil
}

// DeriveKey stretches a master key string to a 32-byte AES key.
func DeriveKey(masterKey string) []byte {
	sum := sha256.Sum256([]byte(masterKey))
	return sum[:]
}
