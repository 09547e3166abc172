package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"

	"subman/config"
)

// encryptionKey derives the fixed AES-256 key from the configured secret.
func encryptionKey() []byte {
	secret := "defaultSecret"
	if config.AppConfig != nil {
		secret = config.AppConfig.EncryptionKey
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// EncryptSecret encrypts a short secret with AES-256-CTR under a fresh
// random IV and returns "ivHex:cipherHex".
func EncryptSecret(plaintext string) (string, error) {
	block, err := aes.NewCipher(encryptionKey())
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	out := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(out, []byte(plaintext))

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// DecryptSecret reverses EncryptSecret. Inputs without a ":" are treated as
// legacy plaintext written before encryption was introduced and returned
// unchanged. Corrupt inputs are also returned unchanged; this never fails
// outward to the caller.
func DecryptSecret(ciphertext string) string {
	idx := strings.Index(ciphertext, ":")
	if idx < 0 {
		return ciphertext
	}

	iv, err := hex.DecodeString(ciphertext[:idx])
	if err != nil || len(iv) != aes.BlockSize {
		log.Printf("Warning: invalid IV in encrypted value, returning raw input")
		return ciphertext
	}

	data, err := hex.DecodeString(ciphertext[idx+1:])
	if err != nil {
		log.Printf("Warning: invalid ciphertext hex, returning raw input")
		return ciphertext
	}

	block, err := aes.NewCipher(encryptionKey())
	if err != nil {
		return ciphertext
	}

	out := make([]byte, len(data))
	cipher.NewCTR(block, iv).XORKeyStream(out, data)
	return string(out)
}
