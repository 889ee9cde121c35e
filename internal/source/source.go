package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/chartpick/internal/ir"
)

// ErrInvalidIdentifier is returned for table or column names that are not
// plain SQL identifiers.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// identPattern matches identifiers that are safe to quote into SQL.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Error describes a failed element query.
type Error struct {
	Op    string // "distinct", "histogram" or "infer"
	Table string
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("source %s %s.%s: %v", e.Op, e.Table, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// DB reads chart elements from a SQLite database.
type DB struct {
	db *sql.DB
}

// Open opens the SQLite database at path. ":memory:" opens a private
// in-memory database.
//
// The connection is configured with:
//   - a single connection, so an in-memory database survives between queries
//   - 5-second busy timeout for lock contention
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// SQL returns the underlying sql.DB, e.g. for loading fixtures.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// quoteIdent validates a name and returns it double-quoted.
func quoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return `"` + name + `"`, nil
}

func quoteColumn(table, field string) (string, string, error) {
	t, err := quoteIdent(table)
	if err != nil {
		return "", "", err
	}
	f, err := quoteIdent(field)
	if err != nil {
		return "", "", err
	}
	return t, f, nil
}

// InferType returns the field type matching the most common storage class of
// the column's non-NULL values. An empty column is unsupported.
func (d *DB) InferType(ctx context.Context, table, field string) (ir.FieldType, error) {
	t, f, err := quoteColumn(table, field)
	if err != nil {
		return ir.FieldUnsupported, &Error{Op: "infer", Table: table, Field: field, Err: err}
	}

	var class string
	err = d.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT typeof(%[2]s) AS class
		FROM %[1]s
		WHERE %[2]s IS NOT NULL
		GROUP BY class
		ORDER BY COUNT(*) DESC, class ASC
		LIMIT 1
	`, t, f)).Scan(&class)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.FieldUnsupported, nil
	}
	if err != nil {
		return ir.FieldUnsupported, &Error{Op: "infer", Table: table, Field: field, Err: err}
	}

	switch class {
	case "integer", "real":
		return ir.FieldNumber, nil
	case "text":
		return ir.FieldString, nil
	default:
		return ir.FieldUnsupported, nil
	}
}
