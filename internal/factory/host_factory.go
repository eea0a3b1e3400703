package factory

import (
	"github.com/formkeeper/spam-blocker/internal/adapters/host"
	"github.com/formkeeper/spam-blocker/internal/config"
	"github.com/formkeeper/spam-blocker/internal/pipeline"
	"github.com/formkeeper/spam-blocker/internal/ports"
	"go.uber.org/zap"
)

// HostFactory creates form hosts based on configuration
type HostFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
}

// NewHostFactory creates a new host factory
func NewHostFactory(cfg *config.Config, logger *zap.Logger, p *pipeline.Pipeline) *HostFactory {
	return &HostFactory{
		cfg:      cfg,
		logger:   logger,
		pipeline: p,
	}
}

// CreateFormHost creates the HTTP form host
func (f *HostFactory) CreateFormHost() (ports.FormHost, error) {
	return host.NewHTTPHost(
		f.pipeline,
		f.logger,
		f.cfg.GetServer().ListenAddress,
		f.cfg.GetMail().NotifyTo,
	), nil
}
