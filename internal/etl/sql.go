package etl

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/BartekS5/pghdfs/pkg/database"
	"github.com/BartekS5/pghdfs/pkg/models"
)

// QuoteIdentifier quotes table for the given database/sql driver.
func QuoteIdentifier(driver, table string) (string, error) {
	switch driver {
	case models.DriverPostgres:
		return pq.QuoteIdentifier(table), nil
	case models.DriverSQLServer:
		return "[" + strings.ReplaceAll(table, "]", "]]") + "]", nil
	case models.DriverMySQL:
		return "`" + strings.ReplaceAll(table, "`", "``") + "`", nil
	default:
		return "", fmt.Errorf("no identifier quoting for driver %q", driver)
	}
}

type sqlQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type sqlConn struct {
	driver  string
	q       sqlQuerier
	release func() error
}

func (c *sqlConn) QueryTable(ctx context.Context, table string) (Rows, error) {
	quoted, err := QuoteIdentifier(c.driver, table)
	if err != nil {
		return nil, err
	}
	rows, err := c.q.QueryContext(ctx, "SELECT * FROM "+quoted)
	if err != nil {
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	return &sqlRows{rows: rows, columns: cols}, nil
}

func (c *sqlConn) Close(context.Context) error {
	return c.release()
}

type sqlRows struct {
	rows    *sql.Rows
	columns []string
}

func (r *sqlRows) Columns() []string { return r.columns }
func (r *sqlRows) Next() bool        { return r.rows.Next() }
func (r *sqlRows) Err() error        { return r.rows.Err() }
func (r *sqlRows) Close()            { r.rows.Close() }

// Values scans into interface{} so each driver hands over its native Go
// types (time.Time, int64, bool, []byte); NULL arrives as nil.
func (r *sqlRows) Values() ([]interface{}, error) {
	values := make([]interface{}, len(r.columns))
	ptrs := make([]interface{}, len(r.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return values, nil
}

// SQLProvider serves the database/sql drivers (lib/pq, go-mssqldb,
// go-sql-driver/mysql). In per-call mode every Acquire opens and later
// closes its own *sql.DB; in pool mode one *sql.DB is shared.
type SQLProvider struct {
	driver     string
	driverName string
	dsn        string
	pooled     bool
	db         *sql.DB
}

func NewSQLProvider(cfg models.PGConfig, mode string) (*SQLProvider, error) {
	driverName, dsn, err := database.SQLDriverDSN(cfg)
	if err != nil {
		return nil, err
	}
	return &SQLProvider{
		driver:     cfg.Driver,
		driverName: driverName,
		dsn:        dsn,
		pooled:     mode == models.ModePool,
	}, nil
}

func newSQLProviderFromDB(db *sql.DB, driver string) *SQLProvider {
	return &SQLProvider{driver: driver, pooled: true, db: db}
}

func (p *SQLProvider) Acquire(ctx context.Context) (Conn, error) {
	if !p.pooled {
		db, err := database.ConnectSQL(p.driverName, p.dsn)
		if err != nil {
			return nil, err
		}
		return &sqlConn{driver: p.driver, q: db, release: db.Close}, nil
	}

	if p.db == nil {
		db, err := database.ConnectSQL(p.driverName, p.dsn)
		if err != nil {
			return nil, err
		}
		p.db = db
	}
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlConn{driver: p.driver, q: conn, release: conn.Close}, nil
}

func (p *SQLProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
