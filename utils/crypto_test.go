package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintexts := []string{
		"123456",
		"999999",
		"hello world",
		"!@#$%^&*()_+-=[]{};':\",./<>?",
		"",
	}

	for _, plain := range plaintexts {
		encrypted, err := EncryptSecret(plain)
		assert.NoError(t, err)
		assert.Contains(t, encrypted, ":")
		assert.Equal(t, plain, DecryptSecret(encrypted))
	}
}

func TestEncryptUsesFreshIV(t *testing.T) {
	a, err := EncryptSecret("123456")
	assert.NoError(t, err)
	b, err := EncryptSecret("123456")
	assert.NoError(t, err)

	assert.NotEqual(t, a, b, "same plaintext must not produce the same ciphertext")
}

func TestDecryptLegacyPlaintextFallback(t *testing.T) {
	// Records written before encryption have no separator and pass through.
	assert.Equal(t, "plainNoColon", DecryptSecret("plainNoColon"))
	assert.Equal(t, "482913", DecryptSecret("482913"))
}

func TestDecryptCorruptInputFallsBack(t *testing.T) {
	// IV of the wrong length
	assert.Equal(t, "abcd:1234", DecryptSecret("abcd:1234"))
	// IV that is not hex at all
	bad := strings.Repeat("zz", 16) + ":1234"
	assert.Equal(t, bad, DecryptSecret(bad))
	// Valid IV but non-hex ciphertext
	valid, err := EncryptSecret("123456")
	assert.NoError(t, err)
	iv := strings.Split(valid, ":")[0]
	assert.Equal(t, iv+":nothex", DecryptSecret(iv+":nothex"))
}
