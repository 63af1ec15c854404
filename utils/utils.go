package utils

import (
	"os"
	"strconv"
	"strings"
)

// Environment utilities
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// Answer checking utilities
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// CheckAnswer compares a submitted answer against the stored one.
// Works for both multiple choice letters ("B") and grid-in values
// ("3/4", "0.75") since both are stored as plain text.
func CheckAnswer(storedAnswer, userAnswer string) bool {
	return NormalizeAnswer(userAnswer) == NormalizeAnswer(storedAnswer)
}
