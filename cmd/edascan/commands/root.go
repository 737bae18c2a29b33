// Package commands wires the edascan CLI: a cobra root command plus the
// scan subcommand that drives one file through the streaming EDA engine.
package commands

import (
	"os"

	"mcs-mcp/internal/config"
	"mcs-mcp/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "edascan",
	Short: "edascan is a streaming, memory-bounded exploratory data analysis engine",
	Long: `edascan profiles tabular data (CSV, XLSX, Parquet) in a single
memory-bounded pass: type detection, univariate and bivariate statistics,
and a structured report — without loading the dataset into memory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv("VERBOSE", "true")
		}
		logging.Init()

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("edascan starting")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(scanCmd)
}
