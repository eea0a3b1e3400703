package settings

import (
	"context"

	"github.com/formkeeper/spam-blocker/internal/config"
	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

// ViperSource implements core.SettingsSource over the viper-backed
// configuration. Every Load reads the current values, so edits picked up by
// the config watcher apply to the next classification without a restart.
// Malformed or missing values degrade to safe defaults and never error: an
// empty keyword list simply never matches, and an unknown mode falls back
// to reject.
type ViperSource struct {
	cfg    *config.Config
	logger *zap.Logger
}

// New creates a new viper-backed settings source
func New(cfg *config.Config, logger *zap.Logger) *ViperSource {
	return &ViperSource{
		cfg:    cfg,
		logger: logger,
	}
}

// Load returns the current blocklist settings snapshot
func (s *ViperSource) Load(ctx context.Context) core.Settings {
	blocklist := s.cfg.GetBlocklist()

	loaded := core.Settings{
		Keywords:      blocklist.Keywords,
		Mode:          core.ParseMode(blocklist.Mode),
		FieldsToScan:  blocklist.FieldsToScan,
		RejectMessage: blocklist.RejectMessage,
	}
	if loaded.RejectMessage == "" {
		loaded.RejectMessage = core.DefaultRejectMessage
	}

	s.logger.Debug("Loaded blocklist settings",
		zap.Int("keywords", len(loaded.Keywords)),
		zap.String("mode", loaded.Mode.String()))
	return loaded
}
