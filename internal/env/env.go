package env

import (
	"os"
	"strconv"
)

// GetString returns the value of an environment variable, or fallback when
// the variable is unset.
func GetString(key, fallback string) string {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return val
}

// GetInt returns the integer value of an environment variable, or fallback
// when the variable is unset or not a valid integer.
func GetInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	valInt, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return valInt
}
