package app

import (
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/oakhurst-cc/playcricket-stats/external/playcricket"
	"github.com/oakhurst-cc/playcricket-stats/internal/config"
	"github.com/oakhurst-cc/playcricket-stats/internal/infrastructure/repository/postgres"
	"github.com/oakhurst-cc/playcricket-stats/internal/interfaces/httpapi"
	"github.com/oakhurst-cc/playcricket-stats/internal/platform/cache"
	"github.com/oakhurst-cc/playcricket-stats/internal/platform/logging"
	"github.com/oakhurst-cc/playcricket-stats/internal/platform/resilience"
	"github.com/oakhurst-cc/playcricket-stats/internal/usecase"
)

// NewHTTPServer wires repositories, services and the HTTP router. The
// returned cleanup closes the database pool and must run after Shutdown.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	perfRepo := postgres.NewPerformanceRepository(db)
	cacheRepo := postgres.NewMatchCacheRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	rosterRepo := postgres.NewRosterRepository(db)
	logRepo := postgres.NewSyncLogRepository(db)

	var provider usecase.MatchDataProvider
	if cfg.PlayCricketEnabled {
		provider = playcricket.NewClient(playcricket.ClientConfig{
			BaseURL:    cfg.PlayCricketBaseURL,
			SiteID:     cfg.PlayCricketSiteID,
			Token:      cfg.PlayCricketToken,
			Timeout:    cfg.PlayCricketTimeout,
			MaxRetries: cfg.PlayCricketMaxRetries,
			Logger:     logging.Default(),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.PlayCricketCircuitEnabled,
				FailureThreshold: cfg.PlayCricketCircuitFailureCount,
				OpenTimeout:      cfg.PlayCricketCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.PlayCricketCircuitHalfOpenMaxReq,
			},
		})
	} else {
		logger.Warn("play-cricket client disabled, sync and league table endpoints will refuse work")
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	syncSvc := usecase.NewSyncService(provider, perfRepo, cacheRepo, teamRepo, logRepo, usecase.SyncConfig{
		ClubName:       cfg.ClubName,
		SiteID:         cfg.PlayCricketSiteID,
		ExtraSeasons:   cfg.SyncExtraSeasons,
		MaxConcurrency: cfg.SyncMaxConcurrency,
		RunDeadline:    cfg.SyncRunDeadline,
	}, logging.Default())
	leaderboardSvc := usecase.NewLeaderboardService(perfRepo, store)
	statsSvc := usecase.NewStatsService(perfRepo)
	linkSvc := usecase.NewLinkService(perfRepo, rosterRepo, 0)
	tableSvc := usecase.NewTableService(provider, store)

	handler := httpapi.NewHandler(
		syncSvc,
		leaderboardSvc,
		statsSvc,
		linkSvc,
		tableSvc,
		cfg.LeaderboardCacheControl(),
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}
