// Package main is the modelswitch command: it picks the model of a chat
// session before the assistant has answered, either standalone or for a
// session kept in the local database.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nhle/modelswitch/internal/logging"
	"github.com/nhle/modelswitch/internal/model"
	"github.com/nhle/modelswitch/internal/store"
	"github.com/nhle/modelswitch/internal/theme"
)

// version is set at build time.
var version = "dev"

// errCancelled makes the process exit 1 without printing anything.
var errCancelled = errors.New("cancelled")

var (
	successStyle = lipgloss.NewStyle().Foreground(theme.ColorGreen)
	errorStyle   = lipgloss.NewStyle().Foreground(theme.ColorRed)
	dimStyle     = theme.DimmedStyle
)

// env holds what the persistent flags resolve to.
type env struct {
	configPath string
	dbPath     string
	logPath    string
	verbose    bool

	cfg      *model.AppConfig
	closeLog func() error
}

// openStore opens the session database, creating its directory.
func (e *env) openStore() (*store.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(e.dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return store.NewSQLiteStore(e.dbPath)
}

func newRootCmd() *cobra.Command {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:           "modelswitch",
		Short:         "Pick the model of a chat session",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := logging.Setup(e.logPath, e.verbose)
			if err != nil {
				return err
			}
			e.closeLog = closeLog

			cfg, err := model.LoadConfig(e.configPath)
			if err != nil {
				return err
			}
			e.cfg = cfg
			if e.dbPath == "" {
				e.dbPath = cfg.Session.DBPath
			}

			log.Debug().Str("config", e.configPath).Str("db", e.dbPath).Str("cmd", cmd.Name()).Msg("starting")
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.closeLog == nil {
				return nil
			}
			return e.closeLog()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&e.configPath, "config", model.DefaultConfigPath(), "config file")
	flags.StringVar(&e.dbPath, "db", "", "session database (default from config)")
	flags.StringVar(&e.logPath, "log", model.DefaultLogPath(), "log file, empty to disable")
	flags.BoolVarP(&e.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newPickCmd(e),
		newSwitchCmd(e),
		newSessionCmd(e),
		newLoginCmd(),
		newModelsCmd(e),
		newConfigCmd(e),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errCancelled) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		}
		os.Exit(1)
	}
}
