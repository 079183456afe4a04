package etl

import (
	"fmt"
	"strings"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// FailedWith is the status recorded when a table failed with an error.
func FailedWith(err error) string {
	return fmt.Sprintf("%s: %v", StatusFailed, err)
}

// ExportResult maps table name to status, keeping the order in which tables
// were first recorded.
type ExportResult struct {
	order  []string
	status map[string]string
}

func NewExportResult() *ExportResult {
	return &ExportResult{status: make(map[string]string)}
}

// Set records status for table. Recording a table again replaces its status
// but keeps its position.
func (r *ExportResult) Set(table, status string) {
	if _, seen := r.status[table]; !seen {
		r.order = append(r.order, table)
	}
	r.status[table] = status
}

func (r *ExportResult) Get(table string) (string, bool) {
	s, ok := r.status[table]
	return s, ok
}

func (r *ExportResult) Tables() []string {
	return append([]string(nil), r.order...)
}

func (r *ExportResult) Len() int {
	return len(r.order)
}

// Map returns a copy of the mapping.
func (r *ExportResult) Map() map[string]string {
	m := make(map[string]string, len(r.status))
	for k, v := range r.status {
		m[k] = v
	}
	return m
}

func (r *ExportResult) Failed() []string {
	var failed []string
	for _, t := range r.order {
		if r.status[t] != StatusSuccess {
			failed = append(failed, t)
		}
	}
	return failed
}

func (r *ExportResult) String() string {
	parts := make([]string, 0, len(r.order))
	for _, t := range r.order {
		parts = append(parts, fmt.Sprintf("%s: %s", t, r.status[t]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
