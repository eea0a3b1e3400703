package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/formkeeper/spam-blocker/internal/adapters/submissions"
	"github.com/formkeeper/spam-blocker/internal/config"
	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

// SubmissionsFactory creates submission stores based on configuration
type SubmissionsFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSubmissionsFactory creates a new submissions factory
func NewSubmissionsFactory(cfg *config.Config, logger *zap.Logger) *SubmissionsFactory {
	return &SubmissionsFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSubmissionStore creates a submission store based on the configuration
func (f *SubmissionsFactory) CreateSubmissionStore() (core.SubmissionStore, error) {
	subCfg := f.cfg.GetSubmissions()

	switch subCfg.Driver {
	case "sqlite3":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(subCfg.DSN), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return submissions.NewStore(subCfg.Driver, subCfg.DSN, f.logger)
	case "mysql":
		return submissions.NewStore(subCfg.Driver, subCfg.DSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported submissions driver: %s", subCfg.Driver)
	}
}
