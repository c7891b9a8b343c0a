package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// API keys are stored bcrypt-hashed; the raw key is only ever shown once.

func HashAPIKey(rawKey string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), 10)
	return string(bytes), err
}

func CompareAPIKey(keyHash string, rawKey string) error {
	return bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(rawKey))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func ComparePasswords(passwordHash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
}

// GenerateSecureToken returns a hex token of 2*length characters.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}
