package app

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fmtbot/fmtbot/internal/config"
	"github.com/fmtbot/fmtbot/internal/format"
	"github.com/fmtbot/fmtbot/internal/fs"
	"github.com/fmtbot/fmtbot/internal/repo"
	"github.com/fmtbot/fmtbot/internal/status"
	"github.com/fmtbot/fmtbot/internal/validator"
)

// Version is the current version of fmtbot, set at build time.
var Version = "dev"

const InitCmdName = "init"

// Environment variables consulted for platform credentials. FMTBOT_GITHUB_TOKEN
// wins over the conventional GITHUB_TOKEN.
const (
	TokenEnvVar         = "FMTBOT_GITHUB_TOKEN"
	FallbackTokenEnvVar = "GITHUB_TOKEN"
)

// Banner with colour codes.
var Banner = "\033[32m" + `
   ____          __  __          __
  / __/__ _  ___/ /_/ /  ___  __/ /_
 / /_/ '  \/ __/ __/ _ \/ _ \/_  __/
/_/ /_/_/_/\__/\__/_.__/\___/ /_/
` + "\033[0m"

var LongDescription = `
fmtbot keeps repositories canonically formatted. Triggered by a push or pull
request event, it checks out the event's ref, runs the configured formatters
over the tree, and - only when a formatter rewrote something - commits the
result and pushes it back to the same ref. An already-formatted tree produces
no commit at all.
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stderr io.Writer, envProvider fs.EnvProvider) *cobra.Command {
	var debug bool
	var noColour bool
	var configPath pathValue
	var repoDir pathValue = "."

	rootCmd := &cobra.Command{
		Use:           "fmtbot",
		Short:         "An auto-formatting pipeline for repositories",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          Banner + "\n" + LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for help, completion and init commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == InitCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				if debug {
					ll.Set(slog.LevelDebug)
				}
				return nil
			}

			// 1. Setup Logging
			if debug {
				ll.Set(slog.LevelDebug)
			}
			logger, _, err := setupLogger(stderr, ll, string(repoDir))
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			// 2. Build Dependencies
			compiler := validator.NewSanthoshCompiler()

			var cfg *config.Config
			var cfgErr error
			if configPath != "" {
				cfg, cfgErr = config.Load(string(configPath), compiler)
			} else {
				cfg, cfgErr = config.LoadOrDefault(filepath.Join(string(repoDir), config.ConfigFile), compiler)
			}
			if cfgErr != nil {
				return fmt.Errorf("configuration failed: %w", cfgErr)
			}

			token := envProvider.Get(TokenEnvVar)
			if token == "" {
				token = envProvider.Get(FallbackTokenEnvVar)
			}

			var statusRep status.Reporter = status.NopReporter{}
			if cfg.Status.Enabled && token != "" {
				statusRep = status.NewGitHubReporter(token, cfg.Status.Context)
			}

			runner := format.NewRunner(logger, stderr, stderr)
			cloner := repo.NewCloner(token)

			// 3. Hydrate the Lazy Wrapper
			realMgr := NewBotManager(logger, cfg, runner, cloner, statusRep, string(repoDir))
			lazy.SetInner(realMgr)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().VarP(&repoDir, "repo-dir", "r", "path to the repository to operate on")
	rootCmd.PersistentFlags().Var(&configPath, "config", "path to the workflow configuration (overrides <repo-dir>/"+config.ConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")

	// Subcommands
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewRunCmd(lazy, envProvider, &noColour))
	rootCmd.AddCommand(NewCheckCmd(lazy))
	rootCmd.AddCommand(NewWatchCmd(lazy))

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
