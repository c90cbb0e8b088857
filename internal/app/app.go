package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"physevents/internal/adapter/enrich"
	"physevents/internal/adapter/fetcher"
	"physevents/internal/adapter/parser"
	"physevents/internal/config"
	"physevents/internal/logger"
	"physevents/internal/migrations"
	"physevents/internal/sink"
	"physevents/internal/usecase"
	"physevents/internal/worker"
	"physevents/storage"
)

// App представляет приложение скрейпера событий.
// Координирует хранилище seen-состояния, воркер опроса лент, приемники
// вывода и систему логирования. Обеспечивает graceful startup и shutdown.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	store    storage.SeenStore
	scraper  *usecase.ScrapeUseCase
	sinks    []sink.Sink
	worker   *worker.Worker
	urls     []string
	stopChan chan os.Signal
}

// New создает и инициализирует приложение: логгер, хранилище по выбранному
// драйверу, адаптеры, UseCase скрейпинга, приемники вывода и воркер.
// Возвращает ошибку при сбое любой из инициализационных процедур.
func New(cfg *config.Config) (*App, error) {
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)

	store, err := newSeenStore(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	feedNames := make(map[string]string)
	urls := make([]string, 0, len(cfg.App.Feeds))
	for _, feed := range cfg.App.Feeds {
		feedNames[feed.URL] = feed.Name
		urls = append(urls, feed.URL)
	}

	fetchTimeout, err := time.ParseDuration(cfg.App.FetchTimeout)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("bad app.fetch_timeout: %w", err)
	}
	windowStart, windowEnd, err := cfg.App.ParseWindow()
	if err != nil {
		store.Close()
		return nil, err
	}

	httpFetcher := fetcher.NewHTTPFetcher(fetchTimeout, appLogger)
	feedParser := parser.NewFeedParser(appLogger)
	var enricher usecase.EventEnricher
	if cfg.App.EnrichDetails {
		enricher = enrich.NewDetailScraper(fetchTimeout, appLogger)
	}
	scraper := usecase.NewScrapeUseCase(
		httpFetcher,
		feedParser,
		enricher,
		appLogger,
		feedNames,
		usecase.Window{Start: windowStart, End: windowEnd},
		fetchTimeout,
	)

	sinks, err := newSinks(cfg, appLogger)
	if err != nil {
		store.Close()
		return nil, err
	}

	pollInterval, err := time.ParseDuration(cfg.App.PollInterval)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("bad app.poll_interval: %w", err)
	}

	a := &App{
		config:   cfg,
		logger:   appLogger,
		store:    store,
		scraper:  scraper,
		sinks:    sinks,
		urls:     urls,
		stopChan: make(chan os.Signal, 1),
	}
	a.worker = worker.New(a, pollInterval, appLogger)
	return a, nil
}

// newSeenStore создает хранилище seen-состояния по выбранному драйверу.
func newSeenStore(cfg *config.Config, log *slog.Logger) (storage.SeenStore, error) {
	switch cfg.Storage.Driver {
	case "file":
		return storage.NewFileSeenStore(cfg.Storage.File.Path, log), nil
	case "postgres":
		pool, err := pgxpool.New(context.Background(), cfg.Storage.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(context.Background()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		if err := migrations.Apply(context.Background(), log, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		return storage.NewPostgresSeenStore(pool, log), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return storage.NewRedisSeenStore(client, cfg.Storage.Redis.Key, log), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

// newSinks создает приемники вывода по списку из конфигурации.
func newSinks(cfg *config.Config, log *slog.Logger) ([]sink.Sink, error) {
	sinks := make([]sink.Sink, 0, len(cfg.Output.Sinks))
	for _, name := range cfg.Output.Sinks {
		switch name {
		case "console":
			sinks = append(sinks, sink.NewConsoleSink(os.Stdout, log))
		case "html":
			sinks = append(sinks, sink.NewHTMLDigestSink(cfg.Output.Dir, log))
		case "csv":
			sinks = append(sinks, sink.NewCalendarCSVSink(cfg.Output.Dir, log))
		default:
			return nil, fmt.Errorf("unknown sink: %s", name)
		}
	}
	return sinks, nil
}

// Run запускает приложение. В режиме run_once выполняет один цикл и
// завершается; иначе запускает воркер и блокируется до сигнала завершения.
func (a *App) Run() error {
	a.logger.Info("Starting physics events scraper",
		slog.String("component", "app"),
		slog.Int("feed_count", len(a.urls)),
		slog.String("poll_interval", a.worker.GetInterval().String()),
		slog.String("storage_driver", a.config.Storage.Driver),
		slog.Bool("run_once", a.config.App.RunOnce),
	)
	if a.config.App.RunOnce {
		err := a.RunCycle(context.Background())
		a.store.Close()
		if err != nil {
			return err
		}
		a.logger.Info("Single run completed", slog.String("component", "app"))
		return nil
	}
	a.worker.Start()
	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-a.stopChan
	a.logger.Info("Shutdown signal received",
		slog.String("component", "app"),
		slog.String("signal", sig.String()),
	)
	return a.Shutdown()
}

// RunCycle выполняет один полный цикл: загрузка seen-состояния, проход по
// лентам, вывод новых событий и сохранение объединенного множества.
// Ошибка хранилища фатальна для цикла и не оставляет частичной записи;
// ошибка приемника только логируется.
func (a *App) RunCycle(ctx context.Context) error {
	seen, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("seen state load failed: %w", err)
	}
	result := a.scraper.Run(ctx, a.urls, seen)
	for _, s := range a.sinks {
		if err := s.Emit(ctx, result.NewEvents); err != nil {
			a.logger.Error("Sink emit failed",
				slog.String("component", "app"),
				slog.String("sink", s.Name()),
				slog.Any("error", err),
			)
		}
	}
	if result.Added == 0 {
		return nil
	}
	if err := a.store.Save(ctx, result.Seen); err != nil {
		return fmt.Errorf("seen state save failed: %w", err)
	}
	return nil
}

// Shutdown выполняет graceful shutdown: останавливает воркер,
// закрывает хранилище.
func (a *App) Shutdown() error {
	a.logger.Info("Starting graceful shutdown")
	if a.worker != nil {
		a.worker.Stop()
	}
	if a.store != nil {
		a.store.Close()
	}
	a.logger.Info("Application stopped gracefully")
	return nil
}
