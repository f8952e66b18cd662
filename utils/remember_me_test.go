package utils

import (
	"testing"
	"time"
)

func TestEncryptDecryptCredentialsRoundTrip(t *testing.T) {
	t.Setenv("REMEMBER_ME_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	creds := RememberedCredentials{
		Email:      "jane@avelocapital.com",
		Role:       "introducer",
		UserID:     "64a1f0c2e4b0a1b2c3d4e5f6",
		ExpiresAt:  time.Now().Add(24 * time.Hour).Truncate(time.Second),
		DeviceInfo: "test-device",
	}

	encrypted, err := EncryptCredentials(creds)
	if err != nil {
		t.Fatalf("EncryptCredentials() error = %v", err)
	}
	if encrypted == "" {
		t.Fatal("EncryptCredentials() returned empty string")
	}

	decrypted, err := DecryptCredentials(encrypted)
	if err != nil {
		t.Fatalf("DecryptCredentials() error = %v", err)
	}

	if decrypted.Email != creds.Email || decrypted.Role != creds.Role || decrypted.UserID != creds.UserID {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decrypted, creds)
	}
	if !decrypted.ExpiresAt.Equal(creds.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", decrypted.ExpiresAt, creds.ExpiresAt)
	}
}

func TestEncryptCredentialsNonDeterministic(t *testing.T) {
	t.Setenv("REMEMBER_ME_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	creds := RememberedCredentials{Email: "a@b.co", UserID: "x"}
	first, err := EncryptCredentials(creds)
	if err != nil {
		t.Fatal(err)
	}
	second, err := EncryptCredentials(creds)
	if err != nil {
		t.Fatal(err)
	}
	// GCM with a random nonce never repeats ciphertext
	if first == second {
		t.Error("two encryptions produced identical ciphertext")
	}
}

func TestDecryptCredentialsGarbage(t *testing.T) {
	t.Setenv("REMEMBER_ME_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	if _, err := DecryptCredentials("not base64 !!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := DecryptCredentials("YWJj"); err == nil {
		t.Error("expected error for truncated ciphertext")
	}
}

func TestGenerateRememberMeToken(t *testing.T) {
	first, err := GenerateRememberMeToken()
	if err != nil {
		t.Fatalf("GenerateRememberMeToken() error = %v", err)
	}
	second, err := GenerateRememberMeToken()
	if err != nil {
		t.Fatalf("GenerateRememberMeToken() error = %v", err)
	}
	if first == second {
		t.Error("tokens should not repeat")
	}
	if len(first) < 32 {
		t.Errorf("token too short: %d chars", len(first))
	}
}
