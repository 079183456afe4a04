package cli

import (
	"github.com/spf13/cobra"
)

type StatusOptions struct {
	Tables    []string
	NameNodes []string
}

// NewStatusCmd shows what the last runs left in HDFS. It talks to the
// NameNode directly and never touches the database or the container.
func NewStatusCmd(global *GlobalOptions) *cobra.Command {
	opts := &StatusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "List the exported files of every table in HDFS",
		RunE: func(c *cobra.Command, args []string) error {
			return runStatus(c, global, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Tables, "tables", "t", nil, "Tables to inspect, overrides the job file")
	cmd.Flags().StringSliceVar(&opts.NameNodes, "namenode", nil, "NameNode address (host:port), may be repeated")

	return cmd
}
