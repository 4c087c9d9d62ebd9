package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable that overrides the config
// file location.
const EnvConfigPath = "GOAP_CONFIG"

// GetConfigPath returns $GOAP_CONFIG if set, else ~/.goap/config.
func GetConfigPath() (string, error) {
	if configPath := os.Getenv(EnvConfigPath); configPath != "" {
		return configPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".goap", "config"), nil
}
