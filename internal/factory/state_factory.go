package factory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/formkeeper/spam-blocker/internal/adapters/state"
	"github.com/formkeeper/spam-blocker/internal/config"
	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

// StateFactory creates flag stores based on configuration
type StateFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStateFactory creates a new state factory
func NewStateFactory(cfg *config.Config, logger *zap.Logger) *StateFactory {
	return &StateFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFlagStore creates a flag store based on the configuration
func (f *StateFactory) CreateFlagStore() (core.FlagStore, error) {
	stateCfg := f.cfg.GetState()
	cleanupFreq, err := f.cfg.GetDuration("state.cleanup_frequency")
	if err != nil {
		return nil, fmt.Errorf("invalid state cleanup frequency: %w", err)
	}

	switch stateCfg.Store {
	case "memory":
		return state.NewMemoryStore(f.logger, cleanupFreq), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(stateCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return state.NewSQLiteStore(stateCfg.SQLitePath, f.logger, cleanupFreq)
	case "mysql":
		return state.NewMySQLStore(stateCfg.MySQLDSN, f.logger, cleanupFreq)
	default:
		return nil, fmt.Errorf("unsupported state store: %s", stateCfg.Store)
	}
}

// GetStateTTL returns the configured absolute TTL for flag entries
func (f *StateFactory) GetStateTTL() (time.Duration, error) {
	return f.cfg.GetDuration("state.ttl")
}
