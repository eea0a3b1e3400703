package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/formkeeper/spam-blocker/internal/adapters/mail"
	"github.com/formkeeper/spam-blocker/internal/adapters/settings"
	"github.com/formkeeper/spam-blocker/internal/config"
	"github.com/formkeeper/spam-blocker/internal/core"
	"github.com/formkeeper/spam-blocker/internal/factory"
	"github.com/formkeeper/spam-blocker/internal/logging"
	"github.com/formkeeper/spam-blocker/internal/pipeline"
	"github.com/formkeeper/spam-blocker/internal/ports"
	"github.com/formkeeper/spam-blocker/internal/state"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStateFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSubmissionsFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTransportFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewHostFactory); err != nil {
		return nil, err
	}

	// Register flag store and TTL
	if err := container.Provide(func(f *factory.StateFactory) (core.FlagStore, error) {
		return f.CreateFlagStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.StateFactory) (time.Duration, error) {
		return f.GetStateTTL()
	}); err != nil {
		return nil, err
	}

	// Register spam tracker
	if err := container.Provide(func(store core.FlagStore, ttl time.Duration, logger *zap.Logger) core.SpamTracker {
		return state.NewTracker(store, ttl, logger)
	}); err != nil {
		return nil, err
	}

	// Register settings source
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.SettingsSource {
		return settings.New(cfg, logger)
	}); err != nil {
		return nil, err
	}

	// Register submission store
	if err := container.Provide(func(f *factory.SubmissionsFactory) (core.SubmissionStore, error) {
		return f.CreateSubmissionStore()
	}); err != nil {
		return nil, err
	}

	// Register annotator and enforcement policy
	if err := container.Provide(core.NewAnnotator); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewEnforcementPolicy); err != nil {
		return nil, err
	}

	// Register mail transport, suppressor and mailer
	if err := container.Provide(func(f *factory.TransportFactory) (core.MailTransport, error) {
		return f.CreateMailTransport()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(mail.NewSuppressor); err != nil {
		return nil, err
	}
	if err := container.Provide(func(transport core.MailTransport, suppressor *mail.Suppressor, logger *zap.Logger) pipeline.Mailer {
		return mail.NewMailer(transport, suppressor, logger)
	}); err != nil {
		return nil, err
	}

	// Register pipeline
	if err := container.Provide(pipeline.New); err != nil {
		return nil, err
	}

	// Register form host
	if err := container.Provide(func(f *factory.HostFactory) (ports.FormHost, error) {
		return f.CreateFormHost()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
