package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Crypto utilities for the admin key that guards question management
func HashAdminKey(key string) (string, error) {
	if len(key) < 8 {
		return "", fmt.Errorf("admin key must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckAdminKey(hashedKey, key string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(key))
	return err == nil
}
