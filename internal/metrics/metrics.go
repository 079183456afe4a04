// Package metrics collects per-run export statistics. A batch job has no
// scrape endpoint, so the registry is written out as a node-exporter
// textfile at the end of the run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	registry    *prometheus.Registry
	tables      *prometheus.CounterVec
	rows        prometheus.Counter
	bytesStaged prometheus.Counter
	duration    prometheus.Histogram
	lastRun     prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		tables: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pghdfs_tables_total",
			Help: "Tables processed, by outcome.",
		}, []string{"status"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pghdfs_rows_exported_total",
			Help: "Data rows written to staged CSV files.",
		}),
		bytesStaged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pghdfs_staged_bytes_total",
			Help: "Bytes of CSV relayed into the HDFS container.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pghdfs_table_duration_seconds",
			Help:    "Wall time spent on one table, export and load.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pghdfs_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}
	c.registry.MustRegister(c.tables, c.rows, c.bytesStaged, c.duration, c.lastRun)
	return c
}

// TableDone records the outcome of one table. status is "success" or "failed".
func (c *Collector) TableDone(status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.tables.WithLabelValues(status).Inc()
	c.duration.Observe(elapsed.Seconds())
}

func (c *Collector) Staged(rows int64, bytes int) {
	if c == nil {
		return
	}
	c.rows.Add(float64(rows))
	c.bytesStaged.Add(float64(bytes))
}

func (c *Collector) RunFinished(at time.Time) {
	if c == nil {
		return
	}
	c.lastRun.Set(float64(at.Unix()))
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile atomically writes the registry in text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
