package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustMinBytes guards HMAC secrets against trivially short values.
func MustMinBytes(value []byte, min int, envName string) {
	if len(value) < min {
		log.Fatalf("env %s must be at least %d bytes", envName, min)
	}
}
