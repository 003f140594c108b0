package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jask/jaskwallet/internal/cache"
	"github.com/jask/jaskwallet/internal/config"
	"github.com/jask/jaskwallet/internal/database"
	"github.com/jask/jaskwallet/internal/database/repository"
	"github.com/jask/jaskwallet/internal/logger"
	"github.com/jask/jaskwallet/internal/metrics"
	"github.com/jask/jaskwallet/internal/service"
	"github.com/jask/jaskwallet/internal/source/local"
	"github.com/jask/jaskwallet/internal/source/remote"
	"github.com/jask/jaskwallet/internal/testdata"
	"github.com/jask/jaskwallet/internal/tui"
)

func main() {
	var resetLocal, seed bool
	flag.BoolVar(&resetLocal, "reset-local", false, "wipe the local record store and exit")
	flag.BoolVar(&seed, "seed", false, "fill an empty local store with sample prices")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logs, err := logger.New().FromPath(cfg.Log.Path).Level(cfg.Log.Level).Make()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logs.Close()
	lg := logs.Logger

	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if resetLocal {
		maintenance := &service.MaintenanceService{DB: db}
		n, err := maintenance.Reset(ctx)
		if err != nil {
			log.Fatalf("reset local: %v", err)
		}
		fmt.Printf("removed %d local records\n", n)
		return
	}

	if seed {
		if err := testdata.Seed(ctx, repository.NewRecordRepo(db)); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	client, err := remote.NewClient(remote.Config{
		BaseURL:    cfg.Remote.BaseURL,
		PricesPath: cfg.Remote.PricesPath,
		Timeout:    cfg.Remote.Timeout,
		Latency:    cfg.Remote.Latency,
		Debug:      cfg.Remote.Debug,
	}, lg.With().Str("component", "remote").Logger())
	if err != nil {
		log.Fatalf("remote client: %v", err)
	}

	var recorder metrics.Recorder = metrics.Nop{}
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom, err := metrics.NewPrometheus(reg)
		if err != nil {
			log.Fatalf("metrics: %v", err)
		}
		recorder = prom
		srv := serveMetrics(cfg.Metrics.Addr, reg, lg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	repo := service.NewRepository(
		remote.New(client, lg.With().Str("component", "remote").Logger()),
		local.New(db, lg.With().Str("component", "local").Logger()),
		cache.New(),
		service.WithLogger(lg.With().Str("component", "repository").Logger()),
		service.WithMetrics(recorder),
	)

	saveFilter := func(counter string) error {
		cfg.UI.Filter = counter
		return config.Save(cfg)
	}

	lg.Info().Str("remote", client.URL()).Str("db", cfg.Database.Path).Msg("starting")

	p := tea.NewProgram(tui.New(ctx, repo, strings.ToUpper(cfg.UI.Filter), saveFilter, lg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, lg zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	return srv
}
