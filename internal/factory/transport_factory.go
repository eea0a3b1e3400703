package factory

import (
	"fmt"

	"github.com/formkeeper/spam-blocker/internal/adapters/mail"
	"github.com/formkeeper/spam-blocker/internal/config"
	"github.com/formkeeper/spam-blocker/internal/core"
	"go.uber.org/zap"
)

// TransportFactory creates mail transports based on configuration
type TransportFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTransportFactory creates a new transport factory
func NewTransportFactory(cfg *config.Config, logger *zap.Logger) *TransportFactory {
	return &TransportFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailTransport creates a mail transport based on the configuration
func (f *TransportFactory) CreateMailTransport() (core.MailTransport, error) {
	mailCfg := f.cfg.GetMail()

	switch mailCfg.Transport {
	case "smtp":
		return mail.NewSMTPTransport(
			mailCfg.SMTP.Addr,
			mailCfg.SMTP.From,
			mailCfg.SMTP.Username,
			mailCfg.SMTP.Password,
			f.logger,
		), nil
	case "log":
		return mail.NewLogTransport(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported mail transport: %s", mailCfg.Transport)
	}
}
