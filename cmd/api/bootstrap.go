package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"complyhub/internal/config"
	"complyhub/internal/database"
	"complyhub/internal/extract"
	"complyhub/internal/logger"
	"complyhub/internal/matcher"
	"complyhub/internal/notify"
	"complyhub/internal/ratelimit"
	"complyhub/internal/repository/postgres"
	"complyhub/internal/service"
	"complyhub/internal/storage"
	"complyhub/internal/syncclient"
)

const (
	maxExtractBytes = 10 << 20
	rateLimitPrefix = "complyhub:ratelimit:"
	uploadBodyLimit = 50 << 20
)

// app holds the wired process components.
type app struct {
	cfg     *config.AppConfig
	log     *logrus.Logger
	db      *sql.DB
	redis   *redis.Client
	limiter ratelimit.WindowLimiter

	documents service.DocumentService
	links     service.LinkerService
	evidence  service.EvidenceService
	mappings  service.MappingService
	sync      service.SyncService
	scheduler service.SchedulerService
	reindex   service.ReindexService
}

func loadConfig() (*config.AppConfig, *logrus.Logger, error) {
	cfg := config.Load()
	log := logger.New(cfg, os.Stdout)
	if err := cfg.Validate(); err != nil {
		return nil, log, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, log, nil
}

// bootstrap connects infrastructure and builds every service.
func bootstrap(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) (*app, error) {
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a := &app{cfg: cfg, log: log, db: db}

	store, err := storage.NewMinIO(ctx, cfg.MinIO, log)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	if cfg.Redis.URL != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		a.limiter = ratelimit.NewRedisWindow(client, rateLimitPrefix)
	} else {
		log.Info("REDIS_URL not set, using in-process rate limits")
		a.limiter = ratelimit.NewMemoryWindow()
	}

	var uploader service.Uploader
	if cfg.Sync.BaseURL != "" {
		metrics, err := syncclient.NewMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			a.close()
			return nil, err
		}
		client, err := syncclient.New(syncclient.FromAppConfig(cfg),
			syncclient.WithMetrics(metrics),
			syncclient.WithLogger(log),
		)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("init sync client: %w", err)
		}
		uploader = client
	} else {
		log.Info("SYNC_BASE_URL not set, evidence sync disabled")
	}

	docRepo := postgres.NewDocumentPostgres(db)
	linkRepo := postgres.NewLinkPostgres(db)
	evidenceRepo := postgres.NewEvidencePostgres(db)
	mappingRepo := postgres.NewMappingPostgres(db)
	distRepo := postgres.NewDistributionPostgres(db)

	extractor := extract.NewStorageExtractor(store, maxExtractBytes)

	a.links = service.NewLinkerService(docRepo, linkRepo, matcher.NewClassifier(matcher.DefaultRules), log)
	a.documents = service.NewDocumentService(docRepo, store, extractor, a.links, log)
	a.evidence = service.NewEvidenceService(evidenceRepo, service.ThresholdsFrom(cfg.Scoring), log)
	a.mappings = service.NewMappingService(mappingRepo, log)
	a.sync = service.NewSyncService(mappingRepo, a.evidence, uploader, log)
	a.scheduler = service.NewSchedulerService(docRepo, distRepo, notify.NewLogNotifier(log), cfg.Scheduler.ReminderGap, log)
	a.reindex = service.NewReindexService(docRepo, extractor, a.links, a.sync, a.limiter, cfg.RateLimit.ReindexPerHour, log)
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("close redis")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("close database")
		}
	}
}
