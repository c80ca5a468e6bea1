// Package config loads the organza configuration with Viper: a
// config.yaml in the resolved config directory, overridable through
// ORGANZA_* environment variables. A missing config file is not an
// error; every setting has a workable default, and missing credentials
// mean a local-only session rather than a failure.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/viniciusgf/organza/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// ConfigFileBasename is the file the init command writes.
	ConfigFileBasename = "config.yaml"

	// Config keys.
	KeyProjectID       = "project_id"
	KeyCredentialsFile = "credentials_file"
	KeyLocalBackend    = "local_backend"
	KeyDataDir         = "data_dir"
	KeyGeminiAPIKey    = "gemini_api_key"
	KeyGeminiModel     = "gemini_model"
)

// App holds everything the CLI needs at startup: the store config plus
// the plan-generation collaborator settings.
type App struct {
	Store       types.Config
	GeminiKey   string
	GeminiModel string
}

// Load reads config.yaml from configDir, applying defaults and
// environment overrides. A missing config.yaml is not an error.
func Load(configDir string) (App, error) {
	v := viper.New()
	v.SetDefault(KeyLocalBackend, types.BackendMemory)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("ORGANZA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return App{}, fmt.Errorf("read config: %w", err)
		}
	}

	app := App{
		Store: types.Config{
			ProjectID:       v.GetString(KeyProjectID),
			CredentialsFile: v.GetString(KeyCredentialsFile),
			LocalBackend:    v.GetString(KeyLocalBackend),
			DataDir:         v.GetString(KeyDataDir),
		},
		GeminiKey:   v.GetString(KeyGeminiAPIKey),
		GeminiModel: v.GetString(KeyGeminiModel),
	}
	// Relative credential paths are taken relative to the config dir,
	// so a credentials file can travel with its config.
	if app.Store.CredentialsFile != "" && !filepath.IsAbs(app.Store.CredentialsFile) {
		app.Store.CredentialsFile = filepath.Join(configDir, app.Store.CredentialsFile)
	}
	return app, nil
}
