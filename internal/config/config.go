// Package config builds the export job from a job file, the environment
// (populated from .env in main.go) and command line overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/BartekS5/pghdfs/pkg/models"
)

// Load reads the job definition. path may be empty, in which case only
// defaults and environment variables are used. overrides are keyed by
// config key (e.g. "tables", "pg_config.host") and win over everything.
func Load(path string, overrides map[string]interface{}) (*models.ExportJob, error) {
	v := newViper()
	if path != "" {
		if err := readJobFile(v, path); err != nil {
			return nil, err
		}
	}
	for key, val := range overrides {
		v.Set(key, val)
	}

	var job models.ExportJob
	if err := v.Unmarshal(&job); err != nil {
		return nil, fmt.Errorf("failed to decode job config: %w", err)
	}

	Normalize(&job)
	if err := Validate(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Normalize cleans list values coming from comma separated env vars and
// makes container_temp_dir end with a slash.
func Normalize(job *models.ExportJob) {
	job.Tables = cleanList(job.Tables)
	job.HDFS.NameNodes = cleanList(job.HDFS.NameNodes)
	if job.ContainerTempDir != "" {
		job.ContainerTempDir = models.NormalizeTempDir(job.ContainerTempDir)
	}
}

func cleanList(items []string) []string {
	return lo.Compact(lo.Map(items, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
