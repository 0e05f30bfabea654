// Package env reads process environment variables with defaults.
package env

import "os"

// Get looks up key in the process environment, falling back to the
// provided default when the variable is unset or empty.
func Get(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
