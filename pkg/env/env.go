package env

import "os"

// Get reads an environment variable, returning fallback when it is unset or
// empty. Used for knobs read before config parsing (LOG_FORMAT).
func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
