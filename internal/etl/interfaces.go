package etl

import "context"

// Rows is a forward-only cursor over a full table read.
type Rows interface {
	Columns() []string
	Next() bool
	// Values returns the current row. Elements are whatever the source hands
	// out (text bytes, sql.NullString, driver values); nil means NULL.
	Values() ([]interface{}, error)
	Err() error
	Close()
}

// Conn is a scoped database connection. Close releases it back to wherever
// it came from (closes it, or returns it to a pool).
type Conn interface {
	QueryTable(ctx context.Context, table string) (Rows, error)
	Close(ctx context.Context) error
}

// ConnProvider hands out connections. Per-call providers dial a fresh
// connection on every Acquire.
type ConnProvider interface {
	Acquire(ctx context.Context) (Conn, error)
	Close() error
}

// Relay reaches the environment hosting the HDFS client tools.
// Exec must report a non-zero exit as *relay.CommandError.
type Relay interface {
	CopyFile(ctx context.Context, localPath, remotePath string) error
	Exec(ctx context.Context, args ...string) error
}
