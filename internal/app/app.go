package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aquapolo/waterpolo-fantasy/external/identity"
	"github.com/aquapolo/waterpolo-fantasy/internal/config"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/gameweek"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/leaderboard"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/match"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/userteam"
	"github.com/aquapolo/waterpolo-fantasy/internal/infrastructure/repository/memory"
	"github.com/aquapolo/waterpolo-fantasy/internal/infrastructure/repository/postgres"
	"github.com/aquapolo/waterpolo-fantasy/internal/interfaces/httpapi"
	"github.com/aquapolo/waterpolo-fantasy/internal/observability"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/cache"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/id"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/resilience"
	"github.com/aquapolo/waterpolo-fantasy/internal/usecase"
)

// App bundles the HTTP server with the shutdown hooks of everything it owns.
type App struct {
	Server      *http.Server
	pprofServer *http.Server
	logger      *logging.Logger
	cleanups    []func(context.Context) error
}

// New wires configuration into a ready-to-serve application.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{logger: logger}

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	a.cleanups = append(a.cleanups, shutdownUptrace)

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	a.cleanups = append(a.cleanups, func(context.Context) error { return stopPyroscope() })

	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("start pprof server: %w", err)
	}
	a.pprofServer = pprofServer

	playerRepo, teamRepo, matchRepo, boardRepo, err := a.buildRepositories(ctx, cfg)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	schedule := gameweek.Generate(cfg.SeasonStart, cfg.GameweekCount, cfg.GameweekLength, cfg.DeadlineOffset)

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	identityClient := identity.NewClient(identity.ClientConfig{
		BaseURL:    cfg.IdentityBaseURL,
		APIKey:     cfg.IdentityAPIKey,
		Timeout:    cfg.IdentityTimeout,
		MaxRetries: cfg.IdentityMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.IdentityCircuitEnabled,
			FailureThreshold: cfg.IdentityCircuitFailureCount,
			OpenTimeout:      cfg.IdentityCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.IdentityCircuitHalfOpenMaxReq,
		},
	})

	scoringSvc := usecase.NewScoringService(playerRepo, matchRepo, logger)
	scoringSvc.SetRefreshPolicy(cfg.ScoringRefreshInterval, cfg.ScoringWorkerCount)

	teamSvc := usecase.NewTeamService(teamRepo, playerRepo, boardRepo, identityClient, schedule, logger)
	playerSvc := usecase.NewPlayerService(playerRepo, cacheStore, logger)
	matchSvc := usecase.NewMatchService(matchRepo, id.NewRandomGenerator(), scoringSvc, logger)
	boardSvc := usecase.NewLeaderboardService(teamRepo, playerRepo, boardRepo, schedule, cacheStore, logger)

	if subscriber, ok := matchRepo.(matchSubscriber); ok {
		cancel := subscriber.Subscribe(func([]match.Record) {
			if err := scoringSvc.ForceRefresh(context.Background()); err != nil {
				logger.Warn("scoring refresh after feed update failed", "error", err)
			}
		})
		a.cleanups = append(a.cleanups, func(context.Context) error {
			cancel()
			return nil
		})
	}

	handler := httpapi.NewHandler(teamSvc, playerSvc, matchSvc, scoringSvc, boardSvc, schedule, logger)
	router := httpapi.NewRouter(handler, identityClient, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if a.Server.Addr == "" {
		a.close(ctx)
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return a, nil
}

type matchSubscriber interface {
	Subscribe(fn func([]match.Record)) (cancel func())
}

func (a *App) buildRepositories(ctx context.Context, cfg config.Config) (player.Repository, userteam.Repository, match.Repository, leaderboard.Repository, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
		db, err := otelsqlx.Open("postgres", dbURL,
			otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
			otelsql.WithDBName(dbNameFromURL(dbURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("open database: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, nil, nil, nil, fmt.Errorf("ping database: %w", err)
		}

		a.cleanups = append(a.cleanups, func(context.Context) error { return db.Close() })
		a.logger.Info("storage ready", "driver", config.StoragePostgres, "database", dbNameFromURL(dbURL))

		return postgres.NewPlayerRepository(db),
			postgres.NewUserTeamRepository(db),
			postgres.NewMatchRepository(db),
			postgres.NewLeaderboardRepository(db),
			nil
	default:
		playerRepo := memory.NewPlayerRepository()
		teamRepo := memory.NewUserTeamRepository()
		matchRepo := memory.NewMatchRepository()
		boardRepo := memory.NewLeaderboardRepository()

		if cfg.SeedDemoData {
			if err := memory.SeedPlayers(ctx, playerRepo); err != nil {
				return nil, nil, nil, nil, fmt.Errorf("seed players: %w", err)
			}
			if err := memory.SeedMatches(ctx, matchRepo); err != nil {
				return nil, nil, nil, nil, fmt.Errorf("seed matches: %w", err)
			}
			a.logger.Info("demo data seeded")
		}
		a.logger.Info("storage ready", "driver", config.StorageMemory)

		return playerRepo, teamRepo, matchRepo, boardRepo, nil
	}
}

// Shutdown stops the HTTP server and releases everything New acquired.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if err := observability.StopPprofServer(a.pprofServer, a.logger, 5*time.Second); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (a *App) close(ctx context.Context) error {
	var firstErr error
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		if err := a.cleanups[i](ctx); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			a.logger.Warn("cleanup failed", "error", err)
		}
	}
	a.cleanups = nil
	return firstErr
}
