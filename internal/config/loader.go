package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/BartekS5/pghdfs/pkg/models"
)

// envBindings maps config keys to the environment variables that feed them.
var envBindings = map[string]string{
	"pg_config.host":     "PG_HOST",
	"pg_config.port":     "PG_PORT",
	"pg_config.dbname":   "PG_DBNAME",
	"pg_config.user":     "PG_USER",
	"pg_config.password": "PG_PASSWORD",
	"pg_config.sslmode":  "PG_SSLMODE",
	"pg_config.driver":   "PG_DRIVER",
	"hdfs_path":          "HDFS_PATH",
	"tables":             "TABLES",
	"hdfs_container":     "HDFS_CONTAINER",
	"container_temp_dir": "CONTAINER_TEMP_DIR",
	"host_staging_dir":   "HOST_STAGING_DIR",
	"batch_size":         "BATCH_SIZE",
	"null_string":        "NULL_STRING",
	"command_timeout":    "COMMAND_TIMEOUT",
	"query_timeout":      "QUERY_TIMEOUT",
	"connection_mode":    "CONNECTION_MODE",
	"relay_binary":       "RELAY_BINARY",
	"hdfs.namenodes":     "HDFS_NAMENODES",
	"hdfs.user":          "HDFS_USER",
	"report.mongo_uri":   "MONGO_CONNECTION_STRING",
	"report.database":    "MONGO_DATABASE",
	"report.collection":  "MONGO_COLLECTION",
	"metrics.textfile":   "METRICS_FILE",
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		// BindEnv only fails without arguments.
		_ = v.BindEnv(key, env)
	}
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pg_config.host", "localhost")
	v.SetDefault("pg_config.port", 5432)
	v.SetDefault("pg_config.driver", models.DriverPgx)
	v.SetDefault("host_staging_dir", models.DefaultHostStagingDir)
	v.SetDefault("batch_size", models.DefaultBatchSize)
	v.SetDefault("connection_mode", models.ModePerCall)
	v.SetDefault("relay_binary", models.DefaultRelayBinary)
	v.SetDefault("command_timeout", "0s")
	v.SetDefault("query_timeout", "0s")
	v.SetDefault("report.database", "pghdfs")
	v.SetDefault("report.collection", "export_runs")
}

// readJobFile loads a yaml, json or toml job file; the format follows the
// file extension.
func readJobFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read job file '%s': %w", path, err)
	}
	return nil
}
