package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-dali/dalidrv/pkg/adapter"
	"github.com/go-dali/dalidrv/pkg/adapter/vendorhid"
	"github.com/go-dali/dalidrv/pkg/bus"
	"github.com/go-dali/dalidrv/pkg/cmdutil"
	"github.com/go-dali/dalidrv/pkg/config"
	"github.com/go-dali/dalidrv/pkg/gear"
	"github.com/go-dali/dalidrv/pkg/metrics"
	"github.com/go-dali/dalidrv/pkg/productinfo"
)

const (
	programName = "dalid"
	programDesc = "Long-running DALI bus driver with a Prometheus metrics endpoint"
)

var cli struct {
	Config       string        `flag:"" type:"accessiblefile" optional:"" short:"c" help:"Path to YAML config file"`
	RescanPeriod time.Duration `flag:"" default:"30s" help:"How often to rescan the bus for gear/group state"`
}

func main() {
	kong.Parse(&cli,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.NamedMapper("accessiblefile", cmdutil.AccessibleFileMapper()),
	)

	cfg := config.Default()
	if cli.Config != "" {
		var err error
		cfg, err = config.Load(cli.Config)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	logger := log.New(os.Stderr)
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	reg := adapter.NewRegistry()
	reg.Register(cfg.Adapter.VendorID, cfg.Adapter.ProductID, vendorhid.Discover, vendorhid.Open)

	delta, _, err := reg.Enumerate(nil)
	if err != nil {
		logger.Fatal("discovering adapters", "error", err)
	}
	if len(delta.Added) == 0 {
		logger.Fatal("no DALI USB bridge found", "vendor", cfg.Adapter.VendorID, "product", cfg.Adapter.ProductID)
	}
	dev, err := reg.Open(delta.Added[0])
	if err != nil {
		logger.Fatal("opening adapter", "error", err)
	}

	t := bus.Open(dev, logger)
	defer t.Close()

	var pi *productinfo.Cache
	if cfg.ProductInfo.Enabled {
		pi = productinfo.NewCache(&productinfo.HTTPFetcher{BaseURL: cfg.ProductInfo.BaseURL})
	}
	model := gear.NewModel(t, pi)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := model.Scan(ctx); err != nil {
		logger.Error("initial scan failed", "error", err)
	}

	go rescanLoop(ctx, model, cli.RescanPeriod, logger)

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(metrics.NewCollector(t.UniqueID(), model, nil))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}

		go func() {
			logger.Info("serving metrics", "addr", cfg.Metrics.ListenAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
		return
	}

	<-ctx.Done()
}

func rescanLoop(ctx context.Context, model *gear.Model, period time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := model.Scan(ctx); err != nil {
				logger.Warn("periodic scan failed", "error", err)
			}
		}
	}
}
