// Package executor runs synthesized queries against a live database so a
// dashboard can be filled with real values. Queries are read-only by
// construction; the executor enforces the row cap a second time at scan
// time and infers column semantics from the returned values.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/plotlinedb/plotline/internal/model"
)

// driverNames maps user-facing engine names to registered sql drivers.
var driverNames = map[string]string{
	"sqlite":    "sqlite",
	"sqlite3":   "sqlite",
	"postgres":  "pgx",
	"pgx":       "pgx",
	"mysql":     "mysql",
	"mariadb":   "mysql",
	"mssql":     "sqlserver",
	"sqlserver": "sqlserver",
}

// ConnectionConfig holds database connection parameters.
type ConnectionConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Result is one executed query's output, shaped for rendering.
type Result struct {
	Columns   []model.ColumnDescriptor `json:"columns"`
	Rows      [][]any                  `json:"rows"`
	Truncated bool                     `json:"truncated"`
}

// Executor owns a connection pool for one database.
type Executor struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database named by cfg. The engine name is
// normalized through driverNames; unknown engines fail before dialing.
func Open(cfg ConnectionConfig) (*Executor, error) {
	driver, ok := driverNames[strings.ToLower(cfg.Driver)]
	if !ok {
		return nil, fmt.Errorf("unsupported database engine %q", cfg.Driver)
	}

	db, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return &Executor{db: db, driver: driver}, nil
}

// NewWithDB wraps an existing connection, used by tests.
func NewWithDB(db *sql.DB, driver string) *Executor {
	return &Executor{db: sqlx.NewDb(db, driver), driver: driver}
}

// Close releases the connection pool.
func (e *Executor) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// Ping verifies the connection is alive.
func (e *Executor) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Run executes one query and scans at most maxRows rows. A maxRows of
// zero or less means no cap beyond the query's own LIMIT.
func (e *Executor) Run(ctx context.Context, query string, maxRows int) (*Result, error) {
	rows, err := e.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	res := &Result{
		Columns: make([]model.ColumnDescriptor, len(names)),
		Rows:    make([][]any, 0, 64),
	}
	for i, n := range names {
		res.Columns[i] = model.ColumnDescriptor{Name: n, Kind: model.KindCategorical}
	}

	for rows.Next() {
		if maxRows > 0 && len(res.Rows) >= maxRows {
			res.Truncated = true
			break
		}
		raw, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]any, len(raw))
		for i, v := range raw {
			row[i] = normalizeValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	inferSemantics(res)
	return res, nil
}

// normalizeValue makes driver-specific scan types JSON-friendly.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return v
	}
}

// inferSemantics refines column semantics from the first non-nil value
// in each column. Values already normalized by normalizeValue.
func inferSemantics(res *Result) {
	for ci := range res.Columns {
		for _, row := range res.Rows {
			v := row[ci]
			if v == nil {
				continue
			}
			switch x := v.(type) {
			case int64, int, uint64:
				res.Columns[ci].Kind = model.KindNumeric
			case float64, float32:
				res.Columns[ci].Kind = model.KindNumeric
			case string:
				if looksTemporal(x) {
					res.Columns[ci].Kind = model.KindTemporal
				}
			}
			break
		}
	}
}

var temporalLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func looksTemporal(s string) bool {
	for _, layout := range temporalLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
