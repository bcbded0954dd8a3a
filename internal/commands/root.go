package commands

import (
	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/buildinfo"
	"github.com/spendlens/spendlens/internal/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
}

// configRequired reports whether the user pointed at a config file
// explicitly, in which case a missing file is an error.
func (o *globalOptions) configRequired(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("config")
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "spendlens",
		Short:   "Classify bank statement transactions and summarize spending",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultFile, "path to config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newCategoriesCommand())
	rootCmd.AddCommand(newAnalyzeCommand(opts))

	return rootCmd
}
