package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	domrepo "PriceTrack/internal/domain/repository"
	"PriceTrack/internal/usecase"
	"PriceTrack/pkg/cache"
	"PriceTrack/pkg/config"
	xhttp "PriceTrack/pkg/http"
	applogger "PriceTrack/pkg/logger"
	pkgmongo "PriceTrack/pkg/mongo"
)

// App encapsulates the application lifecycle. It runs either as a
// one-shot import (refresh then exit) or as a long-lived server with
// the read API and a scheduled refresh.
type App struct {
	cfg      *config.Config
	importer *usecase.Importer
	recalc   *usecase.Recalculator
	handler  xhttp.Handler
	mongo    *pkgmongo.Client
	pub      domrepo.Publisher
	cache    cache.Service
	l        *applogger.Logger

	httpServer *xhttp.Server
	scheduler  *cron.Cron
}

// New creates an App instance with all dependencies.
func New(
	cfg *config.Config,
	importer *usecase.Importer,
	recalc *usecase.Recalculator,
	handler xhttp.Handler,
	mongoClient *pkgmongo.Client,
	pub domrepo.Publisher,
	cacheSvc cache.Service,
	l *applogger.Logger,
) *App {
	return &App{
		cfg:      cfg,
		importer: importer,
		recalc:   recalc,
		handler:  handler,
		mongo:    mongoClient,
		pub:      pub,
		cache:    cacheSvc,
		l:        l,
	}
}

// RunImport performs one refresh and exits.
func (a *App) RunImport(ctx context.Context) error {
	defer a.closeResources()
	return a.refresh(ctx)
}

// Run starts the server and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer a.closeResources()

	// aggregate repeated error logs onto the event topic's log sibling
	if p, ok := a.pub.(applogger.Publisher); ok && p != nil {
		a.l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.Topic + ".logs",
			Publisher:      p,
		})
		defer a.l.RemoveCollector()
	}

	if a.cfg.Refresh.OnStart {
		go func() {
			if err := a.refresh(ctx); err != nil {
				a.l.Error("startup refresh failed", applogger.Error(err))
			}
		}()
	}

	if a.cfg.Refresh.Schedule != "" {
		a.scheduler = cron.New()
		_, err := a.scheduler.AddFunc(a.cfg.Refresh.Schedule, func() {
			if err := a.refresh(ctx); err != nil {
				a.l.Error("scheduled refresh failed", applogger.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", a.cfg.Refresh.Schedule, err)
		}
		a.scheduler.Start()
		a.l.Info("refresh scheduled", applogger.String("schedule", a.cfg.Refresh.Schedule))
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("http server start: %w", err)
	}
	a.l.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// refresh runs one import followed by a full recalculation.
func (a *App) refresh(ctx context.Context) error {
	stats, err := a.importer.Run(ctx)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	sum, err := a.recalc.Run(ctx)
	if err != nil {
		return fmt.Errorf("recalculate: %w", err)
	}

	a.l.Info("refresh finished",
		applogger.Int("records_read", stats.Read),
		applogger.Int("records_upserted", stats.Upserted),
		applogger.Int("pairs_processed", sum.PairsProcessed),
		applogger.Int("pairs_failed", sum.PairsFailed),
	)
	return nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.scheduler != nil {
		// waits for an in-flight refresh to finish
		<-a.scheduler.Stop().Done()
	}

	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.l.Error("http shutdown error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}

func (a *App) closeResources() {
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Close(); err != nil {
			a.l.Warn("mongo close error", applogger.Error(err))
		}
	}
}
