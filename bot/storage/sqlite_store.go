package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory journal
const MemoryPath = ":memory:"

// Execution outcomes
const (
	OutcomeCompleted   = "completed"
	OutcomeUnknown     = "unknown"
	OutcomeFailed      = "failed"
	OutcomeInterrupted = "interrupted"
)

// Store is the bot's local SQLite execution journal
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store
func NewStore(dbPath string) (*Store, error) {
	dsn := dbPath
	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations runs SQL migrations
func (s *Store) runMigrations() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS command_executions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bot_id TEXT NOT NULL,
			command TEXT NOT NULL,
			params TEXT,
			queued_at DATETIME NOT NULL,
			outcome TEXT NOT NULL CHECK (outcome IN ('completed','unknown','failed','interrupted')),
			output TEXT NOT NULL DEFAULT '',
			executed_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exec_executed_at ON command_executions(executed_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Execution is one journaled command run
type Execution struct {
	ID         int64
	BotID      string
	Command    string
	Params     map[string]interface{}
	QueuedAt   time.Time
	Outcome    string
	Output     string
	ExecutedAt time.Time
}

// RecordExecution appends an execution to the journal
func (s *Store) RecordExecution(ctx context.Context, exec *Execution) error {
	var params sql.NullString
	if len(exec.Params) > 0 {
		data, err := json.Marshal(exec.Params)
		if err != nil {
			return fmt.Errorf("failed to marshal params: %w", err)
		}
		params = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO command_executions (bot_id, command, params, queued_at, outcome, output, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		exec.BotID, exec.Command, params, exec.QueuedAt.UTC(), exec.Outcome, exec.Output, exec.ExecutedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record execution: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		exec.ID = id
	}
	return nil
}

// ListExecutions returns the most recent executions, newest first
func (s *Store) ListExecutions(ctx context.Context, limit int) ([]Execution, error) {
	query := `
		SELECT id, bot_id, command, params, queued_at, outcome, output, executed_at
		FROM command_executions
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var executions []Execution
	for rows.Next() {
		var (
			exec   Execution
			params sql.NullString
		)
		if err := rows.Scan(
			&exec.ID, &exec.BotID, &exec.Command, &params, &exec.QueuedAt,
			&exec.Outcome, &exec.Output, &exec.ExecutedAt,
		); err != nil {
			return nil, err
		}
		if params.Valid {
			if err := json.Unmarshal([]byte(params.String), &exec.Params); err != nil {
				return nil, fmt.Errorf("failed to unmarshal params: %w", err)
			}
		}
		executions = append(executions, exec)
	}

	return executions, rows.Err()
}

// CleanupExecutions deletes executions older than the retention window and returns the count removed
func (s *Store) CleanupExecutions(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC()
	result, err := s.db.ExecContext(ctx, `DELETE FROM command_executions WHERE executed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup executions: %w", err)
	}
	return result.RowsAffected()
}
