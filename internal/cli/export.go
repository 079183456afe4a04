package cli

import (
	"github.com/spf13/cobra"
)

type ExportOptions struct {
	Tables        []string
	Container     string
	HDFSPath      string
	TempDir       string
	BatchSize     int
	NullString    string
	DryRun        bool
	MetricsFile   string
	SkipRunReport bool
}

func NewExportCmd(global *GlobalOptions) *cobra.Command {
	return newExportCmd(global, &ExportOptions{})
}

func newExportCmd(global *GlobalOptions, opts *ExportOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the configured tables into HDFS",
		Example: `  pghdfs export -c configs/job.yaml
  pghdfs export -c configs/job.yaml --tables customers,orders --dry-run`,
		RunE: func(c *cobra.Command, args []string) error {
			return runExport(c, global, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Tables, "tables", "t", nil, "Tables to export, overrides the job file")
	cmd.Flags().StringVar(&opts.Container, "container", "", "Container running the hdfs client tools")
	cmd.Flags().StringVar(&opts.HDFSPath, "hdfs-path", "", "Root directory in HDFS")
	cmd.Flags().StringVar(&opts.TempDir, "container-temp-dir", "", "Staging directory inside the container")
	cmd.Flags().IntVarP(&opts.BatchSize, "batch-size", "b", 1000, "Rows fetched per batch")
	cmd.Flags().StringVar(&opts.NullString, "null-string", "", `Text written for NULL (e.g. \N); empty by default`)
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write run metrics to this node-exporter textfile")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print what would be done and exit")
	cmd.Flags().BoolVar(&opts.SkipRunReport, "no-run-report", false, "Do not store the run report in MongoDB")

	return cmd
}

// overrides returns the config keys of the flags set on the command line.
func (o *ExportOptions) overrides(cmd *cobra.Command) map[string]interface{} {
	flagKeys := map[string]struct {
		key string
		val interface{}
	}{
		"tables":             {"tables", o.Tables},
		"container":          {"hdfs_container", o.Container},
		"hdfs-path":          {"hdfs_path", o.HDFSPath},
		"container-temp-dir": {"container_temp_dir", o.TempDir},
		"batch-size":         {"batch_size", o.BatchSize},
		"null-string":        {"null_string", o.NullString},
		"metrics-file":       {"metrics.textfile", o.MetricsFile},
	}

	out := make(map[string]interface{})
	for flag, kv := range flagKeys {
		if cmd.Flags().Changed(flag) {
			out[kv.key] = kv.val
		}
	}
	return out
}
