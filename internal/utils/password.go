package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes and rejects longer input
const maxPasswordBytes = 72

// HashPassword hashes a password with bcrypt. Bytes past the 72nd are ignored.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword(passwordBytes(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with a bcrypt hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(password))
}

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
