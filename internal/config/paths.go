package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// FileNames are the config file names looked up in each directory, in order.
var FileNames = []string{"eventbus.json", "eventbus.jsonc", "eventbus.yaml", "eventbus.yml"}

// GlobalDir returns the user-level config directory.
func GlobalDir() string {
	return filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), "eventbus")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}
