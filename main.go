package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	allocation "stall-allocation/internal/allocationService"
	"stall-allocation/internal/catalog"
	"stall-allocation/internal/config"
	"stall-allocation/internal/notify"
	"stall-allocation/internal/repository"
	"stall-allocation/internal/repository/postgres"
	"stall-allocation/internal/server"
	"stall-allocation/internal/server/ws"
	"stall-allocation/utils"

	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (defaults to $ALLOC_CONFIG_FILE)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.Fatal("failed to load config", map[string]any{"error": err.Error()})
	}
	if err := cfg.Validate(); err != nil {
		utils.Fatal("invalid config", map[string]any{"error": err.Error()})
	}
	if err := utils.ConfigureLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		utils.Fatal("failed to configure logger", map[string]any{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		utils.Fatal("allocation server stopped with error", map[string]any{"error": err.Error()})
	}
	utils.Info("allocation server stopped", nil)
}

func run(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	hub := ws.NewHub()
	senders := notify.Multi{notify.LogNotifier{}, hub}
	if cfg.Redis.Enabled {
		rdb, err := notify.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		senders = append(senders, notify.NewRedisPublisher(rdb, cfg.Redis.ChannelPrefix))
		utils.Info("redis event publisher enabled", map[string]any{"addr": cfg.Redis.Addr})
	}
	notifier := notify.NewAsync(senders, cfg.Engine.NotifyQueueSize)

	svc := allocation.NewAllocationService(store, allocation.Dependencies{
		Notifier: notifier,
		Catalog:  catalog.NewMemoryCatalog(),
		Settings: engineSettings(cfg.Engine),
	})

	if _, err := svc.RestoreCatalog(ctx); err != nil {
		return err
	}

	router := server.SetupRouter(svc, hub, cfg.Server.OperatorKey)
	if cfg.Server.OperatorKey == "" {
		utils.Warn("no operator key configured, privileged endpoints are disabled", nil)
	}
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(ctx)
	})
	g.Go(func() error {
		return notifier.Run(ctx)
	})
	g.Go(func() error {
		return svc.Scheduler().Run(ctx)
	})
	g.Go(func() error {
		utils.Info("starting allocation server", map[string]any{
			"addr":    srv.Addr,
			"backend": cfg.Store.Backend,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore returns the configured allocation store and its cleanup func
func openStore(ctx context.Context, cfg config.StoreConfig) (repository.AllocationStore, func(), error) {
	if cfg.Backend != "postgres" {
		return repository.NewMemoryRepo(repository.WithLockTimeout(cfg.LockTimeout.Duration)), func() {}, nil
	}

	client, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.PostgresDSN,
		MaxConns: int(cfg.MaxConns),
		MinConns: int(cfg.MinConns),
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.RunMigrations {
		if err := client.RunMigrations(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
	}
	utils.Info("postgres store ready", map[string]any{"max_conns": cfg.MaxConns})
	return postgres.NewStore(client.Pool(), cfg.LockTimeout.Duration), client.Close, nil
}

func engineSettings(e config.EngineConfig) allocation.Settings {
	retries := e.AdmissionRetries
	if retries == 0 {
		// zero means "use the default" inside the engine
		retries = -1
	}
	return allocation.Settings{
		AuctionDuration:   e.AuctionDuration.Duration,
		RaffleDuration:    e.RaffleDuration.Duration,
		BranchCap:         e.BranchCap,
		MaxTotalExtension: e.MaxTotalExtension.Duration,
		AdmissionRetries:  retries,
		RetryBackoff:      e.RetryBackoff.Duration,
		SweepInterval:     e.SweepInterval.Duration,
	}
}
