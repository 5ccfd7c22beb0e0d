package config

import (
	"os"
	"path/filepath"
)

const appDirName = "termapi"

// Dir returns the per-user configuration directory. TERMAPI_CONFIG_DIR
// overrides it, mainly for tests and portable installs.
func Dir() string {
	if override := os.Getenv("TERMAPI_CONFIG_DIR"); override != "" {
		return override
	}
	base, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return appDirName
		}
		return filepath.Join(home, "."+appDirName)
	}
	return filepath.Join(base, appDirName)
}

func HistoryPath() string {
	return filepath.Join(Dir(), "history.json")
}

func EnvironmentsPath() string {
	return filepath.Join(Dir(), "environments.yaml")
}
