package models

import (
	"strings"
	"time"
)

const (
	ModePerCall = "per-call"
	ModePool    = "pool"

	DriverPgx       = "pgx"
	DriverPostgres  = "postgres"
	DriverSQLServer = "sqlserver"
	DriverMySQL     = "mysql"

	DefaultBatchSize      = 1000
	DefaultHostStagingDir = "/tmp/csv_staging"
	DefaultRelayBinary    = "docker"
)

// ExportJob represents the root of the job configuration. It is built once
// and treated as read-only for the duration of a run.
type ExportJob struct {
	PG               PGConfig      `mapstructure:"pg_config"`
	HDFSPath         string        `mapstructure:"hdfs_path" validate:"required"`
	Tables           []string      `mapstructure:"tables" validate:"min=1,dive,required"`
	HDFSContainer    string        `mapstructure:"hdfs_container" validate:"required"`
	ContainerTempDir string        `mapstructure:"container_temp_dir" validate:"required"`
	HostStagingDir   string        `mapstructure:"host_staging_dir" validate:"required"`
	BatchSize        int           `mapstructure:"batch_size" validate:"gte=1"`
	NullString       string        `mapstructure:"null_string"`
	CommandTimeout   time.Duration `mapstructure:"command_timeout" validate:"gte=0"`
	QueryTimeout     time.Duration `mapstructure:"query_timeout" validate:"gte=0"`
	ConnectionMode   string        `mapstructure:"connection_mode" validate:"oneof=per-call pool"`
	RelayBinary      string        `mapstructure:"relay_binary" validate:"required"`

	HDFS    HDFSConfig    `mapstructure:"hdfs"`
	Report  ReportConfig  `mapstructure:"report"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type PGConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	DBName   string `mapstructure:"dbname" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	Driver   string `mapstructure:"driver" validate:"oneof=pgx postgres sqlserver mysql"`
}

// HDFSConfig is only needed by the status command, which talks to the
// NameNode directly instead of going through the container.
type HDFSConfig struct {
	NameNodes []string `mapstructure:"namenodes"`
	User      string   `mapstructure:"user"`
}

type ReportConfig struct {
	MongoConnString string `mapstructure:"mongo_uri"`
	Database        string `mapstructure:"database"`
	Collection      string `mapstructure:"collection"`
}

type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile"`
}

// NormalizeTempDir appends a trailing slash to dir when it is missing.
func NormalizeTempDir(dir string) string {
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

// ContainerCSVPath is where the relayed CSV of table lives inside the
// hosting container.
func (j *ExportJob) ContainerCSVPath(table string) string {
	return NormalizeTempDir(j.ContainerTempDir) + table + ".csv"
}

// RunReport is the document stored for every export run.
type RunReport struct {
	RunID      string        `bson:"run_id" json:"run_id"`
	StartedAt  time.Time     `bson:"started_at" json:"started_at"`
	FinishedAt time.Time     `bson:"finished_at" json:"finished_at"`
	HDFSPath   string        `bson:"hdfs_path" json:"hdfs_path"`
	Container  string        `bson:"container" json:"container"`
	Tables     []TableReport `bson:"tables" json:"tables"`
}

type TableReport struct {
	Table    string        `bson:"table" json:"table"`
	Status   string        `bson:"status" json:"status"`
	Rows     int64         `bson:"rows" json:"rows"`
	Bytes    int64         `bson:"bytes" json:"bytes"`
	Duration time.Duration `bson:"duration" json:"duration"`
}
