package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHexKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestEncryptor(t *testing.T) *Encryptor {
	t.Helper()
	enc, err := NewEncryptor(testHexKey)
	require.NoError(t, err)
	return enc
}

func TestNewEncryptor_InvalidKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"not hex", "zzzz"},
		{"too short", "0123456789abcdef"},
		{"too long", testHexKey + "00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncryptor(tt.key)
			assert.Error(t, err)
		})
	}
}

func TestEncryptor_RoundTrip(t *testing.T) {
	enc := newTestEncryptor(t)

	plaintext := []byte("5f2b8a0c9d1e4f3a6b7c8d9e0f1a2b3c")
	sealed, err := enc.Encrypt(plaintext)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(sealed, plaintext))

	got, err := enc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncryptor_NonceIsRandom(t *testing.T) {
	enc := newTestEncryptor(t)

	a, err := enc.EncryptString("same")
	require.NoError(t, err)
	b, err := enc.EncryptString("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEncryptor_DecryptRejectsTampering(t *testing.T) {
	enc := newTestEncryptor(t)

	sealed, err := enc.Encrypt([]byte("secret"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = enc.Decrypt(sealed)
	assert.True(t, errors.Is(err, ErrDecrypt))

	_, err = enc.Decrypt([]byte("short"))
	assert.True(t, errors.Is(err, ErrDecrypt))

	_, err = enc.DecryptString("not-hex!")
	assert.True(t, errors.Is(err, ErrDecrypt))
}

func TestEncryptor_WrongKey(t *testing.T) {
	enc := newTestEncryptor(t)
	other, err := NewEncryptor(strings.Repeat("ab", 32))
	require.NoError(t, err)

	sealed, err := enc.EncryptString("secret")
	require.NoError(t, err)

	_, err = other.DecryptString(sealed)
	assert.Error(t, err)
}

func TestTokenHasher(t *testing.T) {
	h := NewTokenHasher("server-secret-server-secret-1234")

	hash := h.Hash("token")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, h.Hash("token"), "hash is deterministic")
	assert.NotEqual(t, hash, h.Hash("token2"))
	assert.NotEqual(t, hash, NewTokenHasher("another-secret-another-secret-12").Hash("token"))

}

func TestGenerateToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := GenerateToken()
		require.NoError(t, err)
		assert.Len(t, tok, 32)
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}
