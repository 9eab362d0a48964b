/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, the banned-term list
used by the content filter, and the flat credential table used by the login check.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// BannedWords overrides the content filter's built-in banned-term list when non-empty.
	BannedWords []string

	// Users maps username to password for the flat login check.
	Users map[string]string
}

// defaultUsers is the predefined credential table used when RELAY_USERS is not set.
// It mirrors the development accounts the relay ships with; there is no hashing or
// account management by design.
var defaultUsers = map[string]string{
	"manu":   "manu@123",
	"ishika": "ishika@123",
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
// It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Content Filter Settings ---
	// BannedWords (optional override of the built-in list)
	wordsStr := os.Getenv("BANNED_WORDS")
	if wordsStr != "" {
		words := strings.Split(wordsStr, ",")
		for _, word := range words {
			trimmed := strings.TrimSpace(word)
			if trimmed != "" {
				cfg.BannedWords = append(cfg.BannedWords, trimmed)
			}
		}
	}

	// --- Login Settings ---
	// Users ("name:password" pairs, comma separated)
	usersStr := os.Getenv("RELAY_USERS")
	if usersStr == "" {
		cfg.Users = defaultUsers
	} else {
		cfg.Users = make(map[string]string)
		pairs := strings.Split(usersStr, ",")
		for _, pair := range pairs {
			trimmed := strings.TrimSpace(pair)
			if trimmed == "" {
				continue
			}
			name, password, found := strings.Cut(trimmed, ":")
			if !found || name == "" || password == "" {
				return nil, fmt.Errorf("invalid RELAY_USERS entry %q, expected name:password", trimmed)
			}
			cfg.Users[name] = password
		}
		if len(cfg.Users) == 0 {
			return nil, fmt.Errorf("RELAY_USERS is set but contains no valid name:password entries")
		}
	}

	return cfg, nil
}
