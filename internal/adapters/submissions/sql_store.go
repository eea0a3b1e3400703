package submissions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/formkeeper/spam-blocker/internal/core"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	insertSubmissionQuery = "INSERT INTO submissions (form_id, created_at) VALUES (?, ?)"
	insertValueQuery      = "INSERT INTO submission_values (submission_id, field_key, value) VALUES (?, ?, ?)"
	insertActionLogQuery  = "INSERT INTO submission_actions_log (submission_id, action_name, log) VALUES (?, ?, ?)"
	updateActionLogQuery  = "UPDATE submission_actions_log SET log = ? WHERE submission_id = ? AND action_name = ?"
	latestSubmissionQuery = "SELECT id FROM submissions ORDER BY id DESC LIMIT 1"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		form_id TEXT,
		created_at TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS submission_values (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		submission_id INTEGER,
		field_key TEXT,
		value TEXT
	);
	CREATE TABLE IF NOT EXISTS submission_actions_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		submission_id INTEGER,
		action_name TEXT,
		log TEXT
	);
`

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		form_id VARCHAR(255),
		created_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS submission_values (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		submission_id BIGINT,
		field_key VARCHAR(255),
		value TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS submission_actions_log (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		submission_id BIGINT,
		action_name VARCHAR(64),
		log TEXT
	)`,
}

// Store persists submissions, their field values and the per-action log.
// It implements the core.SubmissionStore interface over database/sql, with
// the driver (sqlite3 or mysql) chosen by configuration.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore opens the database and creates the schema if needed
func NewStore(driver, dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open submissions database: %w", err)
	}

	switch driver {
	case "sqlite3":
		if _, err := db.Exec(sqliteSchema); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	case "mysql":
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to submissions database: %w", err)
		}
		for _, stmt := range mysqlSchema {
			if _, err := db.Exec(stmt); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to create schema: %w", err)
			}
		}
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported submissions driver: %s", driver)
	}

	return &Store{db: db, logger: logger}, nil
}

// CreateSubmission stores a submission and its field values, returning the
// new submission id
func (s *Store) CreateSubmission(ctx context.Context, formID string, record *core.SubmissionRecord) (int64, error) {
	result, err := s.db.ExecContext(ctx, insertSubmissionQuery, formID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read submission id: %w", err)
	}

	for _, field := range record.Fields {
		if _, err := s.db.ExecContext(ctx, insertValueQuery, id, field.Key, field.Value); err != nil {
			return id, fmt.Errorf("failed to insert field value: %w", err)
		}
	}

	s.logger.Debug("Submission stored",
		zap.Int64("submission_id", id),
		zap.String("form_id", formID),
		zap.Int("fields", len(record.Fields)))
	return id, nil
}

// LatestSubmissionID returns the id of the most recently created submission
func (s *Store) LatestSubmissionID(ctx context.Context) (int64, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx, latestSubmissionQuery).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to query latest submission: %w", err)
	}
	return id, nil
}

// AppendValue adds a field value row to an existing submission
func (s *Store) AppendValue(ctx context.Context, submissionID int64, key, value string) error {
	if _, err := s.db.ExecContext(ctx, insertValueQuery, submissionID, key, value); err != nil {
		return fmt.Errorf("failed to append field value: %w", err)
	}
	return nil
}

// WriteActionLog records a log entry for an action of a submission
func (s *Store) WriteActionLog(ctx context.Context, submissionID int64, actionName, log string) error {
	if _, err := s.db.ExecContext(ctx, insertActionLogQuery, submissionID, actionName, log); err != nil {
		return fmt.Errorf("failed to write action log: %w", err)
	}
	return nil
}

// UpdateActionLog rewrites the log of an existing action entry
func (s *Store) UpdateActionLog(ctx context.Context, submissionID int64, actionName, log string) error {
	if _, err := s.db.ExecContext(ctx, updateActionLogQuery, log, submissionID, actionName); err != nil {
		return fmt.Errorf("failed to update action log: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
