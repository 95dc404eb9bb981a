package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Parameters match the credential material already stored for existing
// users: PBKDF2-SHA256, 150000 iterations, 16-byte salt, hex encoding.
const (
	pbkdf2Iterations = 150_000
	saltBytes        = 16
	keyBytes         = 32
)

// HashPassword derives a password hash with a fresh random salt. Both
// return values are hex-encoded.
func HashPassword(password string) (hash, salt string, err error) {
	rawSalt := make([]byte, saltBytes)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), rawSalt, pbkdf2Iterations, keyBytes, sha256.New)
	return hex.EncodeToString(key), hex.EncodeToString(rawSalt), nil
}

// VerifyPassword checks a password against stored hex-encoded hash and
// salt in constant time.
func VerifyPassword(storedHash, storedSalt, password string) bool {
	rawSalt, err := hex.DecodeString(storedSalt)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}
	key := pbkdf2.Key([]byte(password), rawSalt, pbkdf2Iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1
}
