package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the FlagStore interface, for
// deployments where multiple workers share one database
type MySQLStore struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLStore creates a new MySQL flag store
func NewMySQLStore(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS spam_flags (
			request_id VARCHAR(64) PRIMARY KEY,
			expires_at TIMESTAMP,
			INDEX idx_spam_flags_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	store := &MySQLStore{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go store.startCleanupTask()

	return store, nil
}

// Set stores the flag for a request id with an absolute TTL
func (s *MySQLStore) Set(ctx context.Context, requestID string, ttl time.Duration) error {
	expiresAt := time.Now().UTC().Add(ttl)

	_, err := s.db.ExecContext(ctx, `
		REPLACE INTO spam_flags (request_id, expires_at)
		VALUES (?, ?)
	`, requestID, expiresAt)

	if err != nil {
		return fmt.Errorf("failed to insert flag entry: %w", err)
	}

	return nil
}

// Get reports whether an unexpired flag exists for the request id
func (s *MySQLStore) Get(ctx context.Context, requestID string) (bool, error) {
	var found int

	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM spam_flags
		WHERE request_id = ? AND expires_at > ?
	`, requestID, time.Now().UTC()).Scan(&found)

	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to query flag entry: %w", err)
	}

	return true, nil
}

// Clear removes the flag for a request id
func (s *MySQLStore) Clear(ctx context.Context, requestID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM spam_flags
		WHERE request_id = ?
	`, requestID)

	if err != nil {
		return fmt.Errorf("failed to delete flag entry: %w", err)
	}

	return nil
}

// Cleanup removes expired entries
func (s *MySQLStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM spam_flags
		WHERE expires_at <= ?
	`, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up expired flag entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (s *MySQLStore) startCleanupTask() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to clean up flag store", zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (s *MySQLStore) Stop() {
	close(s.stopCh)
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
