package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-checkout-service/internal/config"
	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/pushinpay"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/utmify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Dependencies struct {
	Config   *config.CheckoutConfig
	Logger   *logrus.Logger
	DB       *gorm.DB
	Ledger   *domain.Ledger
	Gateway  domain.PaymentGateway
	Tracking domain.TrackingClient
	Registry *prometheus.Registry
	Metrics  *metrics.CheckoutMetrics

	// Publisher and Subscriber stay nil when kafka is disabled.
	Publisher  domain.EventPublisher
	Subscriber domain.SubscriberPort

	kafkaPublisher *kafka.DefaultKafkaPublisher
}

func InitializeDependencies(cfg *config.CheckoutConfig, logger *logrus.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Gateway:  pushinpay.NewClient(cfg.PushInPay.BaseURL, cfg.PushInPay.Timeout),
		Tracking: utmify.NewClient(cfg.Utmify.BaseURL, cfg.Utmify.Timeout),
	}

	switch cfg.CheckoutDB.Driver {
	case DriverMemory:
		logger.Warn("using in-memory ledger, data will not survive a restart")
		deps.Ledger = memory.NewStore().Ledger()
	case DriverPostgres, "":
		db, err := postgres.InitDB(cfg.CheckoutDB)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		deps.DB = db
		deps.Ledger = repository.NewLedger(db)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.CheckoutDB.Driver)
	}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewCheckoutMetrics(deps.Registry)

	if cfg.KafkaService.Enabled {
		brokers := cfg.KafkaService.Brokers()
		deps.kafkaPublisher = kafka.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.EventsTopic)
		deps.Publisher = deps.kafkaPublisher
		deps.Subscriber = kafka.NewDefaultKafkaSubscriber(brokers)
		logger.WithField("brokers", brokers).Info("kafka enabled")
	}

	return deps, nil
}

func (d *Dependencies) Close() {
	if d.kafkaPublisher != nil {
		if err := d.kafkaPublisher.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close kafka publisher")
		}
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
