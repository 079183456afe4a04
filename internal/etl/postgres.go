package etl

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BartekS5/pghdfs/pkg/database"
	"github.com/BartekS5/pghdfs/pkg/models"
)

// SelectAllSQL is the full-table read issued through pgx.
func SelectAllSQL(table string) string {
	return "SELECT * FROM " + pgx.Identifier{table}.Sanitize()
}

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type pgxConn struct {
	q       pgxQuerier
	release func(ctx context.Context) error
}

// QueryTable runs the read with the simple protocol so every column comes
// back in PostgreSQL's own text format.
func (c *pgxConn) QueryTable(ctx context.Context, table string) (Rows, error) {
	rows, err := c.q.Query(ctx, SelectAllSQL(table), pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, err
	}
	return newPgxRows(rows), nil
}

func (c *pgxConn) Close(ctx context.Context) error {
	return c.release(ctx)
}

type pgxRows struct {
	rows    pgx.Rows
	columns []string
}

func newPgxRows(rows pgx.Rows) *pgxRows {
	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}
	return &pgxRows{rows: rows, columns: cols}
}

func (r *pgxRows) Columns() []string { return r.columns }
func (r *pgxRows) Next() bool        { return r.rows.Next() }
func (r *pgxRows) Err() error        { return r.rows.Err() }
func (r *pgxRows) Close()            { r.rows.Close() }

// Values copies the raw text of the current row; nil marks NULL.
func (r *pgxRows) Values() ([]interface{}, error) {
	raw := r.rows.RawValues()
	values := make([]interface{}, len(raw))
	for i, b := range raw {
		if b == nil {
			values[i] = nil
			continue
		}
		values[i] = append([]byte(nil), b...)
	}
	return values, nil
}

// PgxProvider dials a fresh connection on every Acquire and closes it on
// release.
type PgxProvider struct {
	cfg models.PGConfig
}

func NewPgxProvider(cfg models.PGConfig) *PgxProvider {
	return &PgxProvider{cfg: cfg}
}

func (p *PgxProvider) Acquire(ctx context.Context) (Conn, error) {
	conn, err := database.ConnectPostgres(ctx, p.cfg)
	if err != nil {
		return nil, err
	}
	return &pgxConn{q: conn, release: conn.Close}, nil
}

func (p *PgxProvider) Close() error { return nil }

// PgxPoolProvider shares a pgxpool across tables.
type PgxPoolProvider struct {
	pool *pgxpool.Pool
}

func NewPgxPoolProvider(ctx context.Context, cfg models.PGConfig) (*PgxPoolProvider, error) {
	pool, err := database.NewPostgresPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &PgxPoolProvider{pool: pool}, nil
}

func (p *PgxPoolProvider) Acquire(ctx context.Context) (Conn, error) {
	c, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxConn{q: c, release: func(context.Context) error {
		c.Release()
		return nil
	}}, nil
}

func (p *PgxPoolProvider) Close() error {
	p.pool.Close()
	return nil
}
