package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/traits-rail/traits-core/internal/config"
)

// DB is the relational access surface every repository depends on. Two
// role-bound instances are constructed at startup (admin and base),
// matching the two Postgres roles granted in schema.go.
type DB interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Beginx() (*sqlx.Tx, error)
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	Ping() error
	Close() error
}

// PostgresDB implements DB using sqlx.
type PostgresDB struct {
	*sqlx.DB
}

// Execer is the minimal query surface a repository method needs. Both DB
// and *sqlx.Tx satisfy it, so the same repository functions can run either
// against a plain connection or inside an open transaction (used by the
// Schedule Materialiser and Booking Engine, which must commit multiple
// inserts atomically).
type Execer interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

var maskPasswordRe = regexp.MustCompile(`(postgres(?:ql)?://[^:]+:)([^@]+)(@.+)`)

// maskPassword masks the password component of a database URL for safe
// logging.
func maskPassword(url string) string {
	return maskPasswordRe.ReplaceAllString(url, "${1}****${3}")
}

// NewConnection opens a connection pool against dsn and verifies it with a
// ping, logging the masked DSN the way the teacher's NewConnection does.
func NewConnection(dsn string, cfg config.DatabaseConfig, logLabel string) (DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is required for %s connection", logLabel)
	}

	fmt.Printf("INFO: connecting %s session to %s\n", logLabel, maskPassword(dsn))

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s session: %w", logLabel, err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s session: %w", logLabel, err)
	}

	return &PostgresDB{DB: db}, nil
}

// NewAdminConnection opens the privileged session bound to the
// traits_admin role (spec.md §5/§9's "admin handle").
func NewAdminConnection(cfg config.DatabaseConfig) (DB, error) {
	return NewConnection(cfg.AdminURL, cfg, "admin")
}

// NewBaseConnection opens the restricted session bound to the traits_base
// role (spec.md §5/§9's "base handle").
func NewBaseConnection(cfg config.DatabaseConfig) (DB, error) {
	return NewConnection(cfg.BaseURL, cfg, "base")
}

func (db *PostgresDB) Get(dest interface{}, query string, args ...interface{}) error {
	return db.DB.Get(dest, query, args...)
}

func (db *PostgresDB) Select(dest interface{}, query string, args ...interface{}) error {
	return db.DB.Select(dest, query, args...)
}

func (db *PostgresDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.DB.Exec(query, args...)
}

func (db *PostgresDB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(query, args...)
}

func (db *PostgresDB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.Query(query, args...)
}

func (db *PostgresDB) Beginx() (*sqlx.Tx, error) {
	return db.DB.Beginx()
}

func (db *PostgresDB) Ping() error {
	return db.DB.Ping()
}

func (db *PostgresDB) Close() error {
	return db.DB.Close()
}
