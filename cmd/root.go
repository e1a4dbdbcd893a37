package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/physiq/internal/config"
	"github.com/abhisek/physiq/internal/logging"
	"github.com/abhisek/physiq/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "physiq",
	Short: "Skill progression for a medical physics residency game",
	Long: `physiq keeps a player's skill tree: reputation unlocks nodes for good,
skill points activate them for a run, and active nodes add up to gameplay
effects. Run without a subcommand to open the terminal UI.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to an HCL config file (overrides PHYSIQ_CONFIG env var)")
	pf.String("db", "", "Path to SQLite database file (overrides PHYSIQ_DB env var)")
	pf.String("graph", "", "Path to a skill graph file (.json, .yaml or .hcl)")
	pf.String("character", "", "Character id to load and save")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(currencyCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// cfg and logger are filled in by setup before any command runs.
var (
	cfg    config.Config
	logger = slog.Default()
)

// setup loads .env, the config file and flag overrides, then builds the
// logger. Later sources win: defaults, file, environment, flags.
func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: loading .env:", err)
	}

	explicit, _ := cmd.Flags().GetString("config")
	c, err := config.Load(config.ResolvePath(explicit))
	if err != nil {
		return err
	}
	applyFlags(cmd, &c)
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	set := func(name string, dst *string) {
		if v, _ := cmd.Flags().GetString(name); v != "" {
			*dst = v
		}
	}
	set("db", &c.StorePath)
	set("graph", &c.GraphPath)
	set("character", &c.CharacterID)
	set("log-level", &c.LogLevel)
	set("log-format", &c.LogFormat)
}

// resolveDBPath returns the database path from --db or config (highest
// priority), then PHYSIQ_DB, then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.StorePath != "" {
		return cfg.StorePath, store.EnsureDir(cfg.StorePath)
	}
	return store.DefaultDBPath()
}
