// Package cli implements the organza command-line interface. Each UI
// module of the planner (tasks, plans, history, status) is a
// subcommand; they all share one session built from the resolved
// configuration, so every module reads and writes through the same
// tiered store and bulletin board.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/viniciusgf/organza/internal/config"
	"github.com/viniciusgf/organza/internal/paths"
	"github.com/viniciusgf/organza/internal/session"
	"github.com/viniciusgf/organza/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "organza" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "organza",
		Short: "A task and plan organizer with tiered storage",
		Long: "Organza manages tasks, plans, and their history in Firestore,\n" +
			"falling back to a session-local store when the remote tier is\n" +
			"unreachable.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory for the sqlite local backend")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newTaskCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newHistoryCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		var coded *codedError
		if errors.As(err, &coded) {
			os.Exit(coded.code)
		}
		os.Exit(exitUserError)
	}
}

// codedError carries the process exit code Execute applies. Returned
// instead of calling os.Exit inside a command body, so deferred
// cleanups such as session Close still run.
type codedError struct {
	code int
	msg  string
}

func (e *codedError) Error() string { return e.msg }

// exitError builds the error for a command failure with a specific
// exit code. Cobra prints the message to stderr.
func exitError(code int, msg string) error {
	return &codedError{code: code, msg: msg}
}

// newLogger builds the slog logger shared by one command invocation.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadApp resolves the config directory and loads the configuration.
func loadApp() (config.App, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return config.App{}, fmt.Errorf("resolve config dir: %w", err)
	}
	app, err := config.Load(configDir)
	if err != nil {
		return config.App{}, err
	}
	if app.Store.LocalBackend == types.BackendSQLite {
		dataDir, err := paths.ResolveDataDir(flags.dataDir, app.Store.DataDir)
		if err != nil {
			return config.App{}, fmt.Errorf("resolve data dir: %w", err)
		}
		app.Store.DataDir = dataDir
	}
	return app, nil
}

// newSession builds the per-invocation session. The caller must defer
// sess.Close().
func newSession(cmd *cobra.Command) (*session.Session, config.App, error) {
	app, err := loadApp()
	if err != nil {
		return nil, config.App{}, err
	}
	sess, err := session.New(cmd.Context(), app.Store, newLogger())
	if err != nil {
		return nil, config.App{}, err
	}
	return sess, app, nil
}

// notifyDegraded prints the informational degraded-mode notice. Never
// an error the user must act on.
func notifyDegraded(cmd *cobra.Command, degraded bool) {
	if degraded {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: remote store unreachable; change saved to this session only")
	}
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
