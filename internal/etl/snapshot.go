package etl

import (
	"bytes"
	"fmt"
	"strings"
)

// TableSnapshot is the CSV rendering of one table at query time: a header
// with the column names in result order, then one record per row.
type TableSnapshot struct {
	Table   string
	Columns []string
	Rows    int64
	Batches int
	Data    []byte
}

// snapshotWriter writes minimally quoted CSV: a field is quoted only when it
// holds the delimiter, a quote or a line break. Leading whitespace and `\.`
// stay bare, unlike encoding/csv. Records end with LF.
type snapshotWriter struct {
	buf bytes.Buffer
}

func newSnapshotWriter() *snapshotWriter {
	return &snapshotWriter{}
}

// write emits one record. A record holding a single empty field would be a
// blank line, which readers skip, so that case is quoted to keep the row.
func (sw *snapshotWriter) write(record []string) {
	if len(record) == 1 && record[0] == "" {
		sw.buf.WriteString("\"\"\n")
		return
	}
	for i, field := range record {
		if i > 0 {
			sw.buf.WriteByte(',')
		}
		if !strings.ContainsAny(field, ",\"\r\n") {
			sw.buf.WriteString(field)
			continue
		}
		sw.buf.WriteByte('"')
		sw.buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		sw.buf.WriteByte('"')
	}
	sw.buf.WriteByte('\n')
}

func (sw *snapshotWriter) bytes() []byte {
	return sw.buf.Bytes()
}

// BuildSnapshot drains rows into CSV, pulling batchSize rows at a time.
// Only one batch of rows is held besides the CSV text itself.
func BuildSnapshot(table string, rows Rows, batchSize int, t *Transformer) (*TableSnapshot, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	cols := rows.Columns()
	snap := &TableSnapshot{Table: table, Columns: cols}
	sw := newSnapshotWriter()
	sw.write(cols)

	for {
		batch, err := fetchBatch(rows, batchSize, t, len(cols))
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		snap.Batches++
		for _, record := range batch {
			sw.write(record)
			snap.Rows++
		}
	}

	snap.Data = sw.bytes()
	return snap, nil
}

func fetchBatch(rows Rows, size int, t *Transformer, width int) ([][]string, error) {
	batch := make([][]string, 0, size)
	for len(batch) < size && rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		record, err := t.TransformRow(values, width)
		if err != nil {
			return nil, err
		}
		batch = append(batch, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch rows: %w", err)
	}
	return batch, nil
}
