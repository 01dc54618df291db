package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/skelly/internal/config"
	"github.com/aretw0/skelly/internal/logging"
	"github.com/spf13/cobra"
)

// settings are resolved once per invocation in the root PersistentPreRunE.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "skelly",
	Short: "Skelly splits motion-capture tracker output into anatomical aspects",
	Long: `Skelly maps the raw landmark arrays emitted by pose trackers onto actors
made of anatomical aspects (body, face, hands), each with its own named
landmarks and trajectories.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		level, err := logging.ParseLevel(loaded.Log.Level)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "skelly.toml", "Path to the TOML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
