package cli

import (
	"github.com/spf13/cobra"
)

// GlobalOptions are shared by every sub-command.
type GlobalOptions struct {
	ConfigFile string
	LogFile    string
	Debug      bool
}

func NewRootCmd() *cobra.Command {
	opts := &GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "pghdfs",
		Short: "pghdfs - copy relational tables into HDFS as CSV",
		Long: `pghdfs reads whole tables from PostgreSQL (or SQL Server / MySQL), writes
each one as CSV and loads it into HDFS through the container that hosts the
hdfs command line tools. Every table is handled on its own: a failing table
is reported and the run continues with the next one.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "Path to the job file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "Also write logs to this file (rotated)")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewExportCmd(opts), NewStatusCmd(opts))

	return rootCmd
}
