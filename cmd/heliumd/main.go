// Command heliumd is the helium API server: substructure search and the
// molecule registry over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heliumchem/helium/internal/application/registry"
	appsearch "github.com/heliumchem/helium/internal/application/search"
	"github.com/heliumchem/helium/internal/config"
	"github.com/heliumchem/helium/internal/infrastructure/postgres"
	"github.com/heliumchem/helium/internal/infrastructure/redis"
	httpserver "github.com/heliumchem/helium/internal/interfaces/http"
	"github.com/heliumchem/helium/internal/interfaces/http/handlers"
	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/internal/observability/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "heliumd:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	logger.Info("starting heliumd", logging.String("addr", cfg.Server.Addr))

	if configPath != "" {
		config.Watch(configPath, func(*config.Config) {
			logger.Warn("configuration file changed; restart to apply")
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(cfg.Metrics.Namespace, cfg.Metrics.RuntimeCollectors)

	db, err := postgres.New(ctx, cfg.Database, logger.Named("postgres"))
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(db.SQL(), cfg.Database.MigrationsPath, logger.Named("migrate")); err != nil {
			return err
		}
	}

	checks := map[string]handlers.HealthCheck{
		"database": db.HealthCheck,
	}

	var resultCache appsearch.ResultCache
	if cfg.Redis.Enabled {
		cache, err := redis.New(ctx, cfg.Redis, logger.Named("redis"))
		if err != nil {
			return err
		}
		defer cache.Close()
		resultCache = cache
		checks["redis"] = cache.Ping
	}

	searchService := appsearch.NewService(cfg.Search, resultCache, m, logger.Named("search"))
	registryService := registry.NewService(
		postgres.NewMoleculeRepository(db.SQL(), logger.Named("repository")).
			WithQueryDuration(m.DBQueryDuration),
		searchService,
		m,
		logger.Named("registry"),
	)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		SearchHandler:   handlers.NewSearchHandler(searchService),
		MoleculeHandler: handlers.NewMoleculeHandler(registryService),
		HealthHandler:   handlers.NewHealthHandler(checks),
		Logger:          logger.Named("http"),
		Metrics:         m,
	})
	server := httpserver.NewServer(cfg.Server, router, logger.Named("http"))

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	return server.Stop(context.Background())
}
