// Package config provides shared configuration utilities and the tunable
// constants of the spotlight engine.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by
// the key. ok is false when the variable is unset or not an integer.
func GetEnvInt(key string, fallback int) (int, bool) {
	value, set := os.LookupEnv(key)
	if !set {
		return fallback, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback, false
	}
	return n, true
}

// GetEnvFloat returns the float value of the environment variable named by
// the key. ok is false when the variable is set but cannot be parsed.
func GetEnvFloat(key string, fallback float64) (float64, bool) {
	value, set := os.LookupEnv(key)
	if !set {
		return fallback, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback, false
	}
	return f, true
}

// GetEnvBool returns the boolean value of the environment variable named by
// the key. Accepts the forms understood by strconv.ParseBool.
func GetEnvBool(key string, fallback bool) (bool, bool) {
	value, set := os.LookupEnv(key)
	if !set {
		return fallback, true
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback, false
	}
	return b, true
}

// GetEnvDuration returns the duration value of the environment variable named
// by the key. Bare integers are read as milliseconds ("30" == "30ms").
func GetEnvDuration(key string, fallback time.Duration) (time.Duration, bool) {
	value, set := os.LookupEnv(key)
	if !set {
		return fallback, true
	}
	value = strings.TrimSpace(value)
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond, true
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback, false
	}
	return d, true
}
