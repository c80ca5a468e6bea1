package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/viniciusgf/organza/internal/paths"
	"github.com/viniciusgf/organza/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	ProjectID       string `yaml:"project_id,omitempty"`
	CredentialsFile string `yaml:"credentials_file,omitempty"`
	LocalBackend    string `yaml:"local_backend"`
	DataDir         string `yaml:"data_dir,omitempty"`
	GeminiAPIKey    string `yaml:"gemini_api_key,omitempty"`
}

func newInitCmd() *cobra.Command {
	var projectID, credentialsFile, localBackend string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize organza configuration",
		Long:  "Create the configuration directory and a config.yaml with the chosen storage settings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, projectID, credentialsFile, localBackend)
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Firestore project id (empty: local-only sessions)")
	cmd.Flags().StringVar(&credentialsFile, "credentials", "", "path to a service-account credentials file")
	cmd.Flags().StringVar(&localBackend, "local-backend", types.BackendMemory, "local tier backend (memory or sqlite)")
	return cmd
}

func runInit(cmd *cobra.Command, projectID, credentialsFile, localBackend string) error {
	cfg := types.Config{
		ProjectID:       projectID,
		CredentialsFile: credentialsFile,
		LocalBackend:    localBackend,
	}
	// The data dir is resolved below, so its absence is not an error yet.
	if err := cfg.Validate(); err != nil && !errors.Is(err, types.ErrDataDirEmpty) {
		return exitError(exitUserError, err.Error())
	}

	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("resolve config dir: %s", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return exitError(exitSysError, fmt.Sprintf("create config directory: %s", err))
	}

	var dataDir string
	if cfg.LocalBackend == types.BackendSQLite {
		dataDir, err = paths.ResolveDataDir(flags.dataDir, "")
		if err != nil {
			return exitError(exitSysError, fmt.Sprintf("resolve data dir: %s", err))
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return exitError(exitSysError, fmt.Sprintf("create data directory: %s", err))
		}
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := writeConfigIfMissing(configPath, cfg, dataDir); err != nil {
		return exitError(exitSysError, fmt.Sprintf("write config: %s", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized organza configuration in %s\n", configDir)
	if cfg.ProjectID == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No Firestore project configured; sessions will run local-only.")
	}
	return nil
}

// writeConfigIfMissing creates config.yaml unless it already exists.
// An existing config is never overwritten.
func writeConfigIfMissing(path string, cfg types.Config, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(configFile{
		ProjectID:       cfg.ProjectID,
		CredentialsFile: cfg.CredentialsFile,
		LocalBackend:    cfg.LocalBackend,
		DataDir:         dataDir,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
