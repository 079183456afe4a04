package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/BartekS5/pghdfs/internal/config"
	"github.com/BartekS5/pghdfs/internal/etl"
	"github.com/BartekS5/pghdfs/internal/metrics"
	"github.com/BartekS5/pghdfs/pkg/database"
	"github.com/BartekS5/pghdfs/pkg/hdfs"
	"github.com/BartekS5/pghdfs/pkg/logger"
	"github.com/BartekS5/pghdfs/pkg/models"
	"github.com/BartekS5/pghdfs/pkg/relay"
)

func setupLogging(global *GlobalOptions) error {
	level := logger.INFO
	if global.Debug {
		level = logger.DEBUG
	}
	if global.LogFile == "" {
		logger.InitConsole(level)
		return nil
	}
	return logger.InitLogger(global.LogFile, level)
}

func newProvider(ctx context.Context, job *models.ExportJob) (etl.ConnProvider, error) {
	if job.PG.Driver == models.DriverPgx {
		if job.ConnectionMode == models.ModePool {
			return etl.NewPgxPoolProvider(ctx, job.PG)
		}
		return etl.NewPgxProvider(job.PG), nil
	}
	return etl.NewSQLProvider(job.PG, job.ConnectionMode)
}

func runExport(cmd *cobra.Command, global *GlobalOptions, opts *ExportOptions) error {
	if err := setupLogging(global); err != nil {
		return err
	}
	defer logger.Close()

	job, err := config.Load(global.ConfigFile, opts.overrides(cmd))
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if opts.DryRun {
		exporter := etl.NewTableExporter(job, nil, nil)
		printPlan(out, job, exporter.Plan())
		return nil
	}

	provider, err := newProvider(ctx, job)
	if err != nil {
		return err
	}
	defer provider.Close()

	exporter := etl.NewTableExporter(job, provider,
		relay.NewDockerRelay(job.RelayBinary, job.HDFSContainer, job.CommandTimeout))
	exporter.Metrics = metrics.NewCollector()

	logger.Infof("Starting export of %d tables to %s via %s", len(job.Tables), job.HDFSPath, job.HDFSContainer)
	result := exporter.ExportTables(ctx)
	report := exporter.Report()

	printSummary(out, result, report)

	if job.Metrics.TextfilePath != "" {
		if err := exporter.Metrics.WriteTextfile(job.Metrics.TextfilePath); err != nil {
			logger.Warnf("Failed to write metrics to %s: %v", job.Metrics.TextfilePath, err)
		}
	}
	if job.Report.MongoConnString != "" && !opts.SkipRunReport {
		saveRunReport(ctx, job, report)
	}

	if failed := result.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d tables failed: %v", len(failed), result.Len(), failed)
	}
	return nil
}

// saveRunReport never fails the run; the export itself already happened.
func saveRunReport(ctx context.Context, job *models.ExportJob, report models.RunReport) {
	client, err := database.ConnectMongo(job.Report.MongoConnString)
	if err != nil {
		logger.Warnf("Run report not stored: %v", err)
		return
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	sink := etl.NewMongoReportSink(client, job.Report.Database, job.Report.Collection)
	if err := sink.Save(context.WithoutCancel(ctx), report); err != nil {
		logger.Warnf("Run report not stored: %v", err)
	}
}

func printPlan(out io.Writer, job *models.ExportJob, plans []etl.TablePlan) {
	fmt.Fprintf(out, "Dry run: %d tables, batch size %d, container %s\n\n",
		len(plans), job.BatchSize, job.HDFSContainer)

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("TABLE", "STAGING FILE", "CONTAINER FILE", "HDFS DIR")
	for _, p := range plans {
		table.AddRow(p.Table, p.StagingPath, p.ContainerPath, p.TargetDir)
	}
	fmt.Fprintln(out, table)
}

func printSummary(out io.Writer, result *etl.ExportResult, report models.RunReport) {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	byTable := make(map[string]models.TableReport, len(report.Tables))
	for _, tr := range report.Tables {
		byTable[tr.Table] = tr
	}

	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("TABLE", "STATUS", "ROWS", "SIZE", "TIME")
	for _, name := range result.Tables() {
		status, _ := result.Get(name)
		tr := byTable[name]
		shown := ok(status)
		if status != etl.StatusSuccess {
			shown = bad(status)
		}
		table.AddRow(name, shown, humanize.Comma(tr.Rows),
			humanize.Bytes(uint64(tr.Bytes)), tr.Duration.Round(time.Millisecond))
	}
	fmt.Fprintln(out, table)
	fmt.Fprintf(out, "\nRun %s: %d/%d tables loaded\n",
		report.RunID, result.Len()-len(result.Failed()), result.Len())
}

func runStatus(cmd *cobra.Command, global *GlobalOptions, opts *StatusOptions) error {
	if err := setupLogging(global); err != nil {
		return err
	}
	defer logger.Close()

	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("tables") {
		overrides["tables"] = opts.Tables
	}
	if cmd.Flags().Changed("namenode") {
		overrides["hdfs.namenodes"] = opts.NameNodes
	}
	job, err := config.Load(global.ConfigFile, overrides)
	if err != nil {
		return err
	}
	if len(job.HDFS.NameNodes) == 0 {
		return fmt.Errorf("status needs hdfs.namenodes (or HDFS_NAMENODES) to reach HDFS")
	}

	client, err := hdfs.NewClient(hdfs.Config{NameNodes: job.HDFS.NameNodes, Username: job.HDFS.User})
	if err != nil {
		return err
	}
	defer client.Close()

	states, err := client.Inspect(job.HDFSPath, job.Tables)
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), states)
	return nil
}

func printStatus(out io.Writer, states []hdfs.TableState) {
	missing := color.New(color.FgYellow).SprintFunc()

	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("TABLE", "FILE", "OWNER", "SIZE", "MODIFIED")
	for _, s := range states {
		if !s.Exists {
			table.AddRow(s.Table, missing("not loaded ("+s.Dir+")"), "", "", "")
			continue
		}
		if len(s.Files) == 0 {
			table.AddRow(s.Table, missing("empty ("+s.Dir+")"), "", "", "")
			continue
		}
		for _, f := range s.Files {
			table.AddRow(s.Table, f.Name, f.Owner, humanize.Bytes(uint64(f.Size)), humanize.Time(f.ModTime))
		}
	}
	fmt.Fprintln(out, table)
}
