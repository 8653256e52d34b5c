package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HerbHall/comparenet/internal/advisor"
	"github.com/HerbHall/comparenet/internal/catalog"
	"github.com/HerbHall/comparenet/internal/compare"
	"github.com/HerbHall/comparenet/internal/config"
	"github.com/HerbHall/comparenet/internal/leads"
	"github.com/HerbHall/comparenet/internal/metrics"
	"github.com/HerbHall/comparenet/internal/reviews"
	"github.com/HerbHall/comparenet/internal/server"
	"github.com/HerbHall/comparenet/internal/services"
	"github.com/HerbHall/comparenet/internal/store"
	"github.com/HerbHall/comparenet/internal/version"
	pkgcatalog "github.com/HerbHall/comparenet/pkg/catalog"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg, a.logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("comparenet starting", version.Current().LogFields()...)

	cat := pkgcatalog.NewCatalog()
	plans, err := cat.Plans()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.Int("plans", len(plans)))

	repo, closeState, err := openState(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeState()

	m := metrics.New()
	ttl := cfg.GetDuration("storage.session_ttl")
	svc := leads.NewService(leads.Options{
		SubmitDelay:  cfg.GetDuration("leads.submit_delay"),
		DismissAfter: cfg.GetDuration("leads.dismiss_after"),
	}, m, logger.Named("leads"))

	srv := server.New(cfg.Addr(), server.Options{
		ReadTimeout:  cfg.GetDuration("server.read_timeout"),
		WriteTimeout: cfg.GetDuration("server.write_timeout"),
	}, logger, m,
		catalog.NewHandler(catalog.NewEngine(cat), cfg.GetInt("catalog.page_size"), m, logger.Named("catalog")),
		reviews.NewHandler(cat, logger.Named("reviews")),
		advisor.NewHandler(),
		compare.NewHandler(cat, repo, compare.Options{
			StorageKey:   cfg.GetString("compare.storage_key"),
			CookieName:   cfg.GetString("compare.cookie_name"),
			CookieMaxAge: ttl,
		}, m, logger.Named("compare")),
		leads.NewHandler(svc,
			server.NewClientLimiter(cfg.GetInt("leads.rate_per_minute"), cfg.GetInt("leads.rate_burst")),
			logger.Named("leads")),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return purgeSessions(gctx, repo, ttl, cfg.GetDuration("storage.purge_interval"), logger)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("comparenet stopped")
	return nil
}

// openState opens the compare set storage selected by storage.driver.
func openState(ctx context.Context, cfg *config.Config, logger *zap.Logger) (services.StateRepository, func(), error) {
	switch driver := cfg.GetString("storage.driver"); driver {
	case config.DriverMemory:
		logger.Warn("using in-memory session storage; compare sets are lost on restart")
		return services.NewMemoryStateRepository(), func() {}, nil

	case config.DriverPostgres:
		s, err := store.NewPostgres(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo, err := services.NewPostgresStateRepository(ctx, s)
		if err != nil {
			s.Close()
			return nil, nil, err
		}
		logger.Info("session storage ready", zap.String("driver", driver))
		return repo, func() { s.Close() }, nil

	default:
		path := cfg.GetString("storage.path")
		s, err := store.New(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		repo, err := services.NewSQLiteStateRepository(ctx, s)
		if err != nil {
			s.Close()
			return nil, nil, err
		}
		logger.Info("session storage ready", zap.String("driver", driver), zap.String("path", path))
		return repo, func() { s.Close() }, nil
	}
}

// purgeSessions deletes session state older than ttl every interval until
// ctx is done. A non-positive ttl or interval disables purging.
func purgeSessions(ctx context.Context, repo services.StateRepository, ttl, interval time.Duration, logger *zap.Logger) error {
	if ttl <= 0 || interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n, err := repo.Purge(ctx, now.Add(-ttl))
			if err != nil {
				logger.Warn("session purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("purged stale sessions", zap.Int64("entries", n))
			}
		}
	}
}
