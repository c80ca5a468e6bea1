// Package paths resolves the configuration and data directories.
// Precedence everywhere is flag, then configuration, then environment,
// then platform default; the first non-empty value wins and is made
// absolute.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the per-application directory appended to every
// platform base directory.
const appDirName = "organza"

// DefaultDataDirName is the CWD-relative sqlite data directory used
// when nothing else selects one.
const DefaultDataDirName = ".organza-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ORGANZA_CONFIG_DIR"
	EnvDataDir   = "ORGANZA_DATA_DIR"
)

// DefaultConfigDir returns the platform default configuration
// directory: $XDG_CONFIG_HOME/organza (fallback ~/.config/organza) on
// Linux, os.UserConfigDir()/organza elsewhere (~/Library/Application
// Support on macOS, %APPDATA% on Windows).
func DefaultConfigDir() (string, error) {
	return platformDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform default data directory:
// $XDG_DATA_HOME/organza (fallback ~/.local/share/organza) on Linux,
// the same directory as DefaultConfigDir elsewhere.
func DefaultDataDir() (string, error) {
	return platformDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// platformDir resolves one XDG base-directory pair on Linux and defers
// to os.UserConfigDir everywhere else.
func platformDir(xdgVar, homeFallback string) (string, error) {
	if runtime.GOOS != "linux" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, appDirName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, appDirName), nil
}

// ResolveConfigDir picks the configuration directory: the flag value,
// then ORGANZA_CONFIG_DIR, then the platform default.
func ResolveConfigDir(flag string) (string, error) {
	for _, dir := range []string{flag, os.Getenv(EnvConfigDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the sqlite data directory: the flag value, then
// the config.yaml data_dir, then ORGANZA_DATA_DIR, then
// $(CWD)/.organza-db. The CWD-relative default keeps session data next
// to the project being planned.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, dir := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
