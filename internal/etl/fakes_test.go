package etl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

type fakeRows struct {
	columns []string
	data    [][]interface{}
	pos     int
	err     error
	closed  bool
}

func (r *fakeRows) Columns() []string { return r.columns }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]interface{}, error) {
	return r.data[r.pos-1], nil
}

func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) Close()     { r.closed = true }

type fakeTable struct {
	columns  []string
	data     [][]interface{}
	queryErr error
}

type fakeConn struct {
	p *fakeProvider
}

func (c *fakeConn) QueryTable(ctx context.Context, table string) (Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := c.p.tables[table]
	if !ok {
		return nil, fmt.Errorf("relation %q does not exist", table)
	}
	if t.queryErr != nil {
		return nil, t.queryErr
	}
	rows := &fakeRows{columns: t.columns, data: t.data}
	c.p.rows = append(c.p.rows, rows)
	return rows, nil
}

func (c *fakeConn) Close(context.Context) error {
	c.p.released++
	return nil
}

type fakeProvider struct {
	tables   map[string]*fakeTable
	acquired int
	released int
	rows     []*fakeRows
}

func (p *fakeProvider) Acquire(ctx context.Context) (Conn, error) {
	p.acquired++
	return &fakeConn{p: p}, nil
}

func (p *fakeProvider) Close() error { return nil }

// fakeRelay keeps what was copied into the "container" and every command
// that was run there.
type fakeRelay struct {
	mu      sync.Mutex
	copied  map[string][]byte
	calls   []string
	copyErr error
	// execErr decides the outcome of an Exec call.
	execErr func(args []string) error
}

func newFakeRelay() *fakeRelay {
	return &fakeRelay{copied: make(map[string][]byte)}
}

func (r *fakeRelay) CopyFile(ctx context.Context, localPath, remotePath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "cp "+localPath+" "+remotePath)
	if r.copyErr != nil {
		return r.copyErr
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	r.copied[remotePath] = data
	return nil
}

func (r *fakeRelay) Exec(ctx context.Context, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, strings.Join(args, " "))
	if r.execErr != nil {
		return r.execErr(args)
	}
	return nil
}

func (r *fakeRelay) called(prefix string) []string {
	var out []string
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
