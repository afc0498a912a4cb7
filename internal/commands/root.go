package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/nda2ynab/internal/buildinfo"
	"github.com/cleared-dev/nda2ynab/internal/config"
	"github.com/cleared-dev/nda2ynab/internal/convert"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string
	var outPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "nda2ynab <directory>",
		Short: "Convert Nordea CSV exports to YNAB's CSV format",
		Long: `Point nda2ynab at the directory where your Nordea CSV exports are stored
(for example your Downloads directory). It picks the most recent export,
finds the previous export of the same account, and writes a YNAB CSV that
contains only the transactions added since that previous export.`,
		Version: buildinfo.String(),
		Args:    cobra.ExactArgs(1),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if outPath != "" {
				cfg.Output.Path = outPath
			}

			logger := newLogger(verbose)
			return runConvert(cmd, cfg, logger, args[0])
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a nda2ynab.yaml config (defaults to Nordea Finland)")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (overrides output.path)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Level: level})
}

func runConvert(cmd *cobra.Command, cfg *config.Config, logger *log.Logger, dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	res, err := convert.NewService(cfg, logger).Run(absDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transaction(s) to %s (net %s)\n",
		res.Written, res.OutputPath, res.Net.StringFixed(2))
	return nil
}
