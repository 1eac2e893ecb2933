package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/bigkaa/filmorate/internal/api/handlers"
	"github.com/bigkaa/filmorate/internal/config"
	"github.com/bigkaa/filmorate/internal/database"
	"github.com/bigkaa/filmorate/internal/repository"
	"github.com/bigkaa/filmorate/internal/server"
	"github.com/bigkaa/filmorate/internal/service"
	"github.com/bigkaa/filmorate/internal/storage"
	"github.com/bigkaa/filmorate/internal/storage/memory"
)

func newServeCmd() *cobra.Command {
	var storageFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(storageFlag)
			if err != nil {
				return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&storageFlag, "storage", "", "бэкенд хранилища: memory или postgres (перекрывает FM_STORAGE)")
	return cmd
}

// backend — выбранное хранилище и связанные с ним проверки готовности.
type backend struct {
	store     storage.Store
	readiness handlers.ReadinessChecker
	deps      handlers.DependencyHealth
	cleanup   func()
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Filmorate запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("storage", cfg.Storage),
	)

	var (
		b   *backend
		err error
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		b, err = openPostgres(ctx, cfg, logger)
	default:
		b = openMemory(logger)
	}
	if err != nil {
		return err
	}
	defer b.cleanup()

	// Справочники редко меняются — читаются через LRU-кэш
	catalogs := service.NewCatalogService(
		service.NewCatalogCache("genres", b.store.Genres(), cfg.CatalogCacheSize, cfg.CatalogCacheTTL),
		service.NewCatalogCache("mpa", b.store.Ratings(), cfg.CatalogCacheSize, cfg.CatalogCacheTTL),
		logger,
	)
	films := service.NewFilmService(b.store, catalogs, logger)
	users := service.NewUserService(b.store, logger)

	apiHandler := handlers.NewAPIHandler(
		handlers.NewHealthHandler(b.readiness, b.deps),
		films,
		users,
		catalogs,
		cfg.PopularDefaultCount,
		logger,
	)

	srv := server.New(cfg, logger, apiHandler)
	if err := srv.Run(ctx); err != nil {
		return err
	}

	logger.Info("Filmorate остановлен")
	return nil
}

func openMemory(logger *slog.Logger) *backend {
	logger.Warn("Используется in-memory хранилище, данные не сохраняются между рестартами")
	store := memory.New()
	return &backend{
		store:     store,
		readiness: database.MemoryReadiness{},
		cleanup:   store.Close,
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	if os.Getenv("FM_DEPHEALTH_GROUP") == "" {
		logger.Warn("FM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		return nil, fmt.Errorf("ошибка миграций БД: %w", err)
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к PostgreSQL: %w", err)
	}
	store := repository.NewStore(pool)

	// Адаптер pgxpool → *sql.DB: проверки topologymetrics идут через общий пул
	pgDB := stdlib.OpenDBFromPool(pool)

	b := &backend{
		store:     store,
		readiness: database.NewReadinessChecker(pool),
	}

	dephealthSvc, err := service.NewDephealthService(
		"filmorate",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		dephealthSvc = nil
	} else {
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
		b.deps = dephealthSvc
	}

	b.cleanup = func() {
		if dephealthSvc != nil {
			dephealthSvc.Stop()
		}
		_ = pgDB.Close()
		store.Close()
	}
	return b, nil
}
