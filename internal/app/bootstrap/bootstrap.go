package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	proposalengine "san2stic/contexts/community-governance/proposal-engine"
	postgresadapter "san2stic/contexts/community-governance/proposal-engine/adapters/postgres"
	"san2stic/contexts/community-governance/proposal-engine/application/workers"
	"san2stic/contexts/community-governance/proposal-engine/domain/services"
	"san2stic/internal/platform/config"
	"san2stic/internal/platform/db"
	"san2stic/internal/platform/httpserver"
	"san2stic/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	resolver     workers.ExpiryResolver
	outboxRelay  workers.OutboxRelay
	runResolver  bool
	runRelay     bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := proposalengine.NewModule(proposalengine.Dependencies{
		Proposals:   repo,
		Users:       repo,
		Outbox:      repo,
		Clock:       postgresadapter.SystemClock{},
		IDGenerator: postgresadapter.UUIDGenerator{},
		Gate: services.ReputationGate{
			MinReputation:  cfg.GovernanceMinReputation,
			CreationWindow: time.Duration(cfg.GovernanceCreationWindowDays) * 24 * time.Hour,
		},
		ResolveBatchSize: cfg.GovernanceResolveBatchSize,
		Logger:           logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := proposalengine.NewModule(proposalengine.Dependencies{
		Proposals:   repo,
		Users:       repo,
		Outbox:      repo,
		Clock:       postgresadapter.SystemClock{},
		IDGenerator: postgresadapter.UUIDGenerator{},
		Gate: services.ReputationGate{
			MinReputation:  cfg.GovernanceMinReputation,
			CreationWindow: time.Duration(cfg.GovernanceCreationWindowDays) * 24 * time.Hour,
		},
		ResolveBatchSize: cfg.GovernanceResolveBatchSize,
		Logger:           logger,
	})

	return &WorkerApp{
		postgres: pg,
		resolver: module.Resolver,
		outboxRelay: workers.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			Topic:     "governance.events",
			BatchSize: cfg.GovernanceOutboxBatchSize,
			Logger:    logger,
		},
		runResolver:  cfg.EnableGovernanceExpiryResolver,
		runRelay:     cfg.EnableGovernanceOutboxRelay,
		pollInterval: cfg.GovernanceResolveInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"expiry_resolver", w.runResolver,
		"outbox_relay", w.runRelay,
	)

	for {
		if w.runResolver {
			if _, err := w.resolver.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.runRelay {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
