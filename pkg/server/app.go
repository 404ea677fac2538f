package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Avina20/ForexVision/internal/handler/api"
	icache "github.com/Avina20/ForexVision/internal/service/cache"
	"github.com/Avina20/ForexVision/internal/usecase"
	pkgch "github.com/Avina20/ForexVision/pkg/clickhouse"
	"github.com/Avina20/ForexVision/pkg/config"
	xhttp "github.com/Avina20/ForexVision/pkg/http"
	pkgkafka "github.com/Avina20/ForexVision/pkg/kafka"
	applogger "github.com/Avina20/ForexVision/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.RateCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	eval        *usecase.Evaluator
	hist        *usecase.HistoryUseCase
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	RateProc    *usecase.RateProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.RateCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	eval *usecase.Evaluator,
	hist *usecase.HistoryUseCase,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		eval:      eval,
		hist:      hist,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	if a.eval != nil {
		a.eval.SetLogger(l)
	}

	// Setup Echo HTTP server using pkg/http and register routes via handler
	var httpHandler xhttp.Handler
	if a.httpHandler != nil {
		httpHandler = a.httpHandler
	} else if a.eval != nil {
		h := api.NewDecisionsEchoHandler(l, a.eval, a.hist, a.cfg.Analysis.CacheTTL)
		if a.cfg.Analysis.Redis.Enabled {
			h.SetCache(icache.NewRedisCache(icache.RedisConfig{
				Addr:     a.cfg.Analysis.Redis.Addr,
				Password: a.cfg.Analysis.Redis.Password,
				DB:       a.cfg.Analysis.Redis.DB,
			}))
		} else {
			h.SetCache(icache.NewTTLCache())
		}
		httpHandler = h
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("collector error", applogger.Error(err))
		}
	}()
	l.Info("collector started", applogger.Strings("pairs", a.cfg.Feed.Pairs))

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Periodic evaluation cycles
	if a.eval != nil && a.cfg.Analysis.EvalInterval > 0 {
		go a.evaluateLoop(ctx, l)
		l.Info("evaluation loop started", applogger.Duration("interval", a.cfg.Analysis.EvalInterval))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// evaluateLoop runs the decision cycle on a fixed interval.
func (a *App) evaluateLoop(ctx context.Context, l *applogger.Logger) {
	ticker := time.NewTicker(a.cfg.Analysis.EvalInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := a.eval.EvaluateCycle(ctx, usecase.EvaluateParams{N: a.cfg.Analysis.Window})
			if err != nil {
				l.Error("evaluation cycle error", applogger.Error(err))
				continue
			}
			l.Info("evaluation cycle done",
				applogger.Int("results", len(report.Results)),
				applogger.Int("failures", len(report.Failures)),
			)
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close processor resources (publisher/storage)
	if a.RateProc != nil {
		a.RateProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
