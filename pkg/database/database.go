package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/BartekS5/pghdfs/pkg/models"
)

// PostgresURL builds a postgres:// connection string. It is understood by
// both pgx and lib/pq.
func PostgresURL(cfg models.PGConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.DBName,
	}
	if cfg.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", cfg.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// SQLServerURL builds a sqlserver:// connection string for go-mssqldb.
func SQLServerURL(cfg models.PGConfig) string {
	q := url.Values{}
	q.Set("database", cfg.DBName)
	if cfg.SSLMode != "" {
		q.Set("encrypt", cfg.SSLMode)
	}
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// MySQLDSN builds a go-sql-driver/mysql DSN.
func MySQLDSN(cfg models.PGConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.DBName
	return mc.FormatDSN()
}

// SQLDriverDSN maps a configured driver to the database/sql driver name and
// its connection string.
func SQLDriverDSN(cfg models.PGConfig) (string, string, error) {
	switch cfg.Driver {
	case models.DriverPostgres:
		return "postgres", PostgresURL(cfg), nil
	case models.DriverSQLServer:
		return "sqlserver", SQLServerURL(cfg), nil
	case models.DriverMySQL:
		return "mysql", MySQLDSN(cfg), nil
	default:
		return "", "", fmt.Errorf("driver %q is not a database/sql driver", cfg.Driver)
	}
}

// ConnectPostgres opens a single pgx connection.
func ConnectPostgres(ctx context.Context, cfg models.PGConfig) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, PostgresURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("error connecting to PostgreSQL %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.DBName, err)
	}
	return conn, nil
}

// NewPostgresPool opens a pgx pool and checks it with a ping.
func NewPostgresPool(ctx context.Context, cfg models.PGConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, PostgresURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating PostgreSQL pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error connecting to PostgreSQL (ping failed): %w", err)
	}
	return pool, nil
}

func ConnectSQL(driverName, connString string) (*sql.DB, error) {
	db, err := sql.Open(driverName, connString)
	if err != nil {
		return nil, fmt.Errorf("error opening SQL database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to SQL database (ping failed): %w", err)
	}

	return db, nil
}

func ConnectMongo(connString string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connString))
	if err != nil {
		return nil, fmt.Errorf("error creating MongoDB client: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)

		return nil, fmt.Errorf("error connecting to MongoDB (ping failed): %w", err)
	}

	return client, nil
}
