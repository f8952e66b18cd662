package utils

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// RememberedCredentials represents the stored credentials for "Remember Me"
type RememberedCredentials struct {
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	UserID     string    `json:"userId"`
	ExpiresAt  time.Time `json:"expiresAt"`
	DeviceInfo string    `json:"deviceInfo"`
}

const rememberMeTTL = 30 * 24 * time.Hour

// GenerateRememberMeToken generates a secure token for "Remember Me"
func GenerateRememberMeToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

func encryptionKey() []byte {
	key := os.Getenv("REMEMBER_ME_ENCRYPTION_KEY")
	if len(key) < 32 {
		key = key + "00000000000000000000000000000000"
	}
	return []byte(key[:32])
}

// EncryptCredentials encrypts the credentials before storing in Redis
func EncryptCredentials(credentials RememberedCredentials) (string, error) {
	jsonData, err := json.Marshal(credentials)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(encryptionKey())
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

	ciphertext := gcm.Seal(nonce, nonce, jsonData, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptCredentials decrypts the credentials from Redis
func DecryptCredentials(encryptedData string) (*RememberedCredentials, error) {
	data, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encryptionKey())
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(data) < gcm.NonceSize() {
		return nil, errors.New("invalid encrypted data")
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}

	var credentials RememberedCredentials
	if err := json.Unmarshal(plaintext, &credentials); err != nil {
		return nil, err
	}

	return &credentials, nil
}

// StoreRememberedCredentials encrypts and stores credentials in Redis keyed
// by the remember-me token
func StoreRememberedCredentials(ctx context.Context, rdb *redis.Client, token string, credentials RememberedCredentials) error {
	if rdb == nil {
		return errors.New("redis not available")
	}

	encrypted, err := EncryptCredentials(credentials)
	if err != nil {
		return err
	}

	return rdb.Set(ctx, rememberMeKey(token), encrypted, rememberMeTTL).Err()
}

// RetrieveRememberedCredentials loads and decrypts credentials for a token.
// Expired or unknown tokens return an error.
func RetrieveRememberedCredentials(ctx context.Context, rdb *redis.Client, token string) (*RememberedCredentials, error) {
	if rdb == nil {
		return nil, errors.New("redis not available")
	}

	encrypted, err := rdb.Get(ctx, rememberMeKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.New("remember-me token not found or expired")
		}
		return nil, err
	}

	credentials, err := DecryptCredentials(encrypted)
	if err != nil {
		return nil, err
	}

	if time.Now().After(credentials.ExpiresAt) {
		_ = rdb.Del(ctx, rememberMeKey(token)).Err()
		return nil, errors.New("remembered credentials expired")
	}

	return credentials, nil
}

// ForgetRememberedCredentials removes a stored token (logout)
func ForgetRememberedCredentials(ctx context.Context, rdb *redis.Client, token string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, rememberMeKey(token)).Err()
}

func rememberMeKey(token string) string {
	return fmt.Sprintf("remember_me:%s", token)
}
