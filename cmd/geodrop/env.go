package main

import (
	"os"
	"path/filepath"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// defaultHome is the -home value used when no flag is given.
func defaultHome() string {
	return env("GEODROP_HOME", filepath.Join(os.Getenv("HOME"), ".geodrop"))
}
