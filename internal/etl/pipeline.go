package etl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/BartekS5/pghdfs/internal/metrics"
	"github.com/BartekS5/pghdfs/pkg/logger"
	"github.com/BartekS5/pghdfs/pkg/models"
	"github.com/BartekS5/pghdfs/pkg/relay"
)

// TableExporter copies whole tables into HDFS, one table at a time:
// full read to CSV, relay into the HDFS container, hdfs dfs -put.
type TableExporter struct {
	Job         *models.ExportJob
	Provider    ConnProvider
	Relay       Relay
	Transformer *Transformer
	Metrics     *metrics.Collector

	report models.RunReport
}

func NewTableExporter(job *models.ExportJob, provider ConnProvider, r Relay) *TableExporter {
	return &TableExporter{
		Job:         job,
		Provider:    provider,
		Relay:       r,
		Transformer: NewTransformer(job.NullString),
	}
}

// TablePlan is what a run would do for one table.
type TablePlan struct {
	Table         string
	StagingPath   string
	ContainerPath string
	TargetDir     string
}

func (e *TableExporter) Plan() []TablePlan {
	plans := make([]TablePlan, 0, len(e.Job.Tables))
	for _, table := range e.Job.Tables {
		plans = append(plans, TablePlan{
			Table:         table,
			StagingPath:   e.stagingPath(table),
			ContainerPath: e.Job.ContainerCSVPath(table),
			TargetDir:     e.targetDir(table),
		})
	}
	return plans
}

func (e *TableExporter) stagingPath(table string) string {
	return filepath.Join(e.Job.HostStagingDir, table+".csv")
}

func (e *TableExporter) targetDir(table string) string {
	return path.Join(e.Job.HDFSPath, table)
}

// ExportTable stages table as CSV inside the HDFS container and returns the
// container-local path of the file.
func (e *TableExporter) ExportTable(ctx context.Context, table string) (string, error) {
	_, containerPath, err := e.exportTable(ctx, table)
	return containerPath, err
}

func (e *TableExporter) exportTable(ctx context.Context, table string) (*TableSnapshot, string, error) {
	if err := ValidateTableName(table); err != nil {
		return nil, "", err
	}
	containerPath := e.Job.ContainerCSVPath(table)

	conn, err := e.Provider.Acquire(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		if err := conn.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warnf("Closing connection after %s: %v", table, err)
		}
	}()

	queryCtx := ctx
	if e.Job.QueryTimeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, e.Job.QueryTimeout)
		defer cancel()
	}

	rows, err := conn.QueryTable(queryCtx, table)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	snap, err := BuildSnapshot(table, rows, e.Job.BatchSize, e.Transformer)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read table %s: %w", table, err)
	}
	logger.Infof("Read %d rows from %s in %d batches", snap.Rows, table, snap.Batches)

	if err := os.MkdirAll(e.Job.HostStagingDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create staging dir: %w", err)
	}
	hostPath := e.stagingPath(table)
	if err := os.WriteFile(hostPath, snap.Data, 0o644); err != nil {
		return nil, "", fmt.Errorf("failed to write staging file: %w", err)
	}

	if err := e.Relay.CopyFile(ctx, hostPath, containerPath); err != nil {
		return nil, "", fmt.Errorf("failed to copy %s into container: %w", hostPath, err)
	}

	if err := os.Remove(hostPath); err != nil {
		return nil, "", fmt.Errorf("failed to remove staging file: %w", err)
	}

	return snap, containerPath, nil
}

// LoadToFilesystem puts the staged CSV into <hdfs_path>/<table>. A command
// that exits non-zero yields (false, nil); other errors are returned. The
// container copy is removed afterwards whatever happened.
func (e *TableExporter) LoadToFilesystem(ctx context.Context, table, containerCSVPath string) (bool, error) {
	dir := e.targetDir(table)

	defer func() {
		if err := e.Relay.Exec(context.WithoutCancel(ctx), "rm", "-f", containerCSVPath); err != nil {
			logger.Debugf("Cleanup of %s failed: %v", containerCSVPath, err)
		}
	}()

	if err := e.Relay.Exec(ctx, "hdfs", "dfs", "-mkdir", "-p", dir); err != nil {
		return loadFailed(table, err)
	}
	if err := e.Relay.Exec(ctx, "hdfs", "dfs", "-put", "-f", containerCSVPath, dir); err != nil {
		return loadFailed(table, err)
	}
	return true, nil
}

func loadFailed(table string, err error) (bool, error) {
	var cmdErr *relay.CommandError
	if errors.As(err, &cmdErr) {
		logger.Errorf("Error loading %s to HDFS: %v", table, err)
		return false, nil
	}
	return false, err
}

// ExportTables processes every configured table in order. A failing table
// is recorded and the run moves on.
func (e *TableExporter) ExportTables(ctx context.Context) *ExportResult {
	result := NewExportResult()
	e.report = models.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		HDFSPath:  e.Job.HDFSPath,
		Container: e.Job.HDFSContainer,
	}

	for _, table := range e.Job.Tables {
		logger.Infof("Exporting table: %s", table)
		start := time.Now()

		status, snap := e.exportOne(ctx, table)
		elapsed := time.Since(start)
		result.Set(table, status)

		tr := models.TableReport{Table: table, Status: status, Duration: elapsed}
		if snap != nil {
			tr.Rows = snap.Rows
			tr.Bytes = int64(len(snap.Data))
			e.Metrics.Staged(snap.Rows, len(snap.Data))
		}
		e.report.Tables = append(e.report.Tables, tr)

		if status == StatusSuccess {
			e.Metrics.TableDone("success", elapsed)
			logger.Infof("Table %s loaded into %s (%s)", table, e.targetDir(table), elapsed.Round(time.Millisecond))
		} else {
			e.Metrics.TableDone("failed", elapsed)
		}
	}

	e.report.FinishedAt = time.Now().UTC()
	e.Metrics.RunFinished(e.report.FinishedAt)
	return result
}

func (e *TableExporter) exportOne(ctx context.Context, table string) (string, *TableSnapshot) {
	snap, containerPath, err := e.exportTable(ctx, table)
	if err != nil {
		logger.Errorf("Error exporting table %s: %v", table, err)
		return FailedWith(err), nil
	}

	ok, err := e.LoadToFilesystem(ctx, table, containerPath)
	if err != nil {
		logger.Errorf("Error exporting table %s: %v", table, err)
		return FailedWith(err), snap
	}
	if !ok {
		return StatusFailed, snap
	}
	return StatusSuccess, snap
}

// Report describes the last ExportTables call.
func (e *TableExporter) Report() models.RunReport {
	return e.report
}
