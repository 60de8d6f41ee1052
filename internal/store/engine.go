// ABOUTME: Storage engine adapter over an in-memory SQLite database
// ABOUTME: Exposes a single Execute contract and snapshots the whole file after every write

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	_ "modernc.org/sqlite"
)

// Row is a single result row, keyed by column name.
type Row map[string]any

// Result is the outcome of one Execute call. Rows is populated for
// reads; InsertID and RowsAffected for writes (InsertID is meaningful
// only after an INSERT).
type Result struct {
	Rows         []Row
	InsertID     int64
	RowsAffected int64
}

// Engine wraps the embedded database. The working state lives in memory
// and is persisted as a whole-file snapshot rewritten after every
// successful write. A single mutex serializes all statements; the
// engine is single-writer by construction.
type Engine struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open creates the engine, ensures the schema exists and loads the
// snapshot file at path if one is present. Schema failure is fatal and
// surfaced to the caller.
func Open(path string) (*Engine, error) {
	logger := slog.Default().With("component", "store")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// The in-memory database exists per connection; pin the pool to a
	// single long-lived connection so it survives between statements.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	e := &Engine{
		db:     db,
		path:   path,
		logger: logger,
	}

	if err := e.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := e.loadSnapshot(); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	logger.Info("store engine initialized", "snapshot", path)
	return e, nil
}

// Execute runs one parameterized statement. SELECT statements return
// ordered rows (an empty slice when nothing matches, not an error).
// Anything else is treated as a write: the result carries the last
// insert id and affected row count, and the entire database is
// synchronously rewritten to the snapshot file before Execute returns.
func (e *Engine) Execute(ctx context.Context, statement string, args ...any) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil, ErrNotInitialized
	}

	if isSelect(statement) {
		rows, err := e.queryRows(ctx, statement, args)
		if err != nil {
			e.logger.Error("query failed", "error", err)
			return nil, err
		}
		return &Result{Rows: rows}, nil
	}

	res, err := e.db.ExecContext(ctx, statement, args...)
	if err != nil {
		e.logger.Error("statement failed", "error", err)
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrConstraint, err)
		}
		return nil, err
	}

	insertID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}

	// In-memory state is already mutated at this point. A failed
	// snapshot leaves disk behind memory; the error is surfaced, not
	// masked, and the next successful write rewrites the full image.
	if err := e.saveSnapshot(); err != nil {
		e.logger.Error("snapshot write failed", "snapshot", e.path, "error", err)
		return nil, fmt.Errorf("persisting snapshot: %w", err)
	}

	return &Result{InsertID: insertID, RowsAffected: affected}, nil
}

// Close releases the database. The engine refuses further operations.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return ErrNotInitialized
	}

	e.logger.Info("closing store engine")
	err := e.db.Close()
	e.db = nil
	return err
}

// Path returns the snapshot file path.
func (e *Engine) Path() string {
	return e.path
}

func (e *Engine) queryRows(ctx context.Context, statement string, args []any) ([]Row, error) {
	rows, err := e.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	out := []Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// loadSnapshot copies every table of an existing snapshot file into the
// in-memory database, including the AUTOINCREMENT sequence values so
// restored databases keep assigning fresh identifiers.
func (e *Engine) loadSnapshot() error {
	if _, err := os.Stat(e.path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("checking snapshot file: %w", err)
	}

	if _, err := e.db.Exec("ATTACH DATABASE " + quoteLiteral(e.path) + " AS snapshot"); err != nil {
		return fmt.Errorf("attaching snapshot: %w", err)
	}

	rows, err := e.db.Query(`SELECT name FROM snapshot.sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return fmt.Errorf("listing snapshot tables: %w", err)
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating snapshot tables: %w", err)
	}

	// Chapters reference journeys, notes reference both; inserting in
	// schema order keeps foreign keys satisfied during the copy.
	for _, table := range tableNames {
		if !contains(tables, table) {
			continue
		}
		stmt := fmt.Sprintf("INSERT INTO main.%q SELECT * FROM snapshot.%q", table, table)
		if _, err := e.db.Exec(stmt); err != nil {
			return fmt.Errorf("restoring table %s: %w", table, err)
		}
	}

	var hasSeq int
	err = e.db.QueryRow(`SELECT 1 FROM snapshot.sqlite_master WHERE name = 'sqlite_sequence'`).Scan(&hasSeq)
	if err == nil {
		if _, err := e.db.Exec(`DELETE FROM main.sqlite_sequence`); err != nil {
			return fmt.Errorf("clearing sequence table: %w", err)
		}
		if _, err := e.db.Exec(`INSERT INTO main.sqlite_sequence SELECT name, seq FROM snapshot.sqlite_sequence`); err != nil {
			return fmt.Errorf("restoring sequence table: %w", err)
		}
	} else if err != sql.ErrNoRows {
		return fmt.Errorf("checking sequence table: %w", err)
	}

	if _, err := e.db.Exec("DETACH DATABASE snapshot"); err != nil {
		return fmt.Errorf("detaching snapshot: %w", err)
	}

	e.logger.Info("snapshot restored", "snapshot", e.path, "tables", len(tables))
	return nil
}

// saveSnapshot serializes the whole in-memory database to the snapshot
// file. VACUUM INTO refuses to overwrite, so the image is written to a
// temp file and swapped over the previous snapshot.
func (e *Engine) saveSnapshot() error {
	tmp := e.path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale temp snapshot: %w", err)
	}

	if _, err := e.db.Exec("VACUUM INTO " + quoteLiteral(tmp)); err != nil {
		return fmt.Errorf("serializing database: %w", err)
	}

	if err := atomic.ReplaceFile(tmp, e.path); err != nil {
		return fmt.Errorf("replacing snapshot file: %w", err)
	}
	return nil
}

// isSelect reports whether the statement is a read. Mirrors the
// execute contract: only SELECT skips the snapshot write.
func isSelect(statement string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(statement)), "SELECT")
}

// isConstraintViolation checks for SQLite constraint failures by error
// text, which is how the driver reports them.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "constraint failed")
}

// quoteLiteral quotes a string as a SQL literal for statements that do
// not accept bound parameters (ATTACH, VACUUM INTO).
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
