package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCipher 生成随机密钥的 Cipher
func newTestCipher(t *testing.T) *Cipher {
	key, err := GenerateKey()
	require.NoError(t, err)

	c, err := NewCipherFromBase64(key)
	require.NoError(t, err)
	return c
}

func TestCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	testCases := []string{
		"sk-test-key-12345",
		"very-long-api-key-with-many-characters-1234567890",
		"",
		"特殊字符!@#$%^&*()",
	}

	for _, plaintext := range testCases {
		t.Run(plaintext, func(t *testing.T) {
			ciphertext, err := c.EncryptString(plaintext)
			require.NoError(t, err)
			assert.NotEqual(t, plaintext, ciphertext)

			decrypted, err := c.DecryptString(ciphertext)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		})
	}
}

func TestCipher_NonceRandomness(t *testing.T) {
	c := newTestCipher(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		ciphertext, err := c.EncryptString("sk-test-key-12345")
		require.NoError(t, err)
		assert.False(t, seen[ciphertext], "same ciphertext produced twice")
		seen[ciphertext] = true
	}
}

func TestCipher_WrongKey(t *testing.T) {
	c1 := newTestCipher(t)
	c2 := newTestCipher(t)

	ciphertext, err := c1.EncryptString("sk-test-key-12345")
	require.NoError(t, err)

	_, err = c2.DecryptString(ciphertext)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestCipher_InvalidCiphertext(t *testing.T) {
	c := newTestCipher(t)

	testCases := []struct {
		name       string
		ciphertext string
		wantErr    error
	}{
		{"invalid base64", "not-valid-base64!@#", ErrInvalidCiphertext},
		{"too short", "YWJj", ErrInvalidCiphertext},
		{"corrupted data", base64.StdEncoding.EncodeToString(make([]byte, 40)), ErrDecryptionFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.DecryptString(tc.ciphertext)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewCipher_InvalidKey(t *testing.T) {
	for _, size := range []int{0, 5, 16, 64} {
		_, err := NewCipher(make([]byte, size))
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	}
}

func TestParseKey(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	raw, err := ParseKey(key)
	require.NoError(t, err)
	assert.Len(t, raw, KeySize)

	_, err = ParseKey("%%%")
	assert.Error(t, err)

	_, err = ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func BenchmarkCipher_EncryptString(b *testing.B) {
	key, _ := GenerateKey()
	c, _ := NewCipherFromBase64(key)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.EncryptString("sk-test-key-12345")
	}
}
