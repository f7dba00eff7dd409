package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mrincompetent/wireguard-exporter/pkg/config"
	"github.com/mrincompetent/wireguard-exporter/pkg/exporter"
	customlog "github.com/mrincompetent/wireguard-exporter/pkg/log"
	"github.com/mrincompetent/wireguard-exporter/pkg/telemetry"
	"github.com/mrincompetent/wireguard-exporter/pkg/wireguard/cli"
	"github.com/mrincompetent/wireguard-exporter/pkg/wireguard/peernames"
)

var (
	configPath    = flag.String("config", "", "Path to the exporter config file")
	listenAddress = flag.String("listen-address", "", "Listen address for the metrics http server")
	wgPath        = flag.String("wg-path", "", "Path to the wg binary")
	wgConfigPath  = flag.String("wg-config", "", "Path to the WireGuard interface config used to resolve friendly peer names")
	scrapeTimeout = flag.Int("scrape-timeout", 0, "Timeout for a single wg invocation in seconds")
	logLevel      = flag.String("log-level", "", "Log level")
	logEncoding   = customlog.EncodingFlag("log-encoding", customlog.EncodingJSON, "Log encoding. Supported: "+customlog.SupportedEncodings.String())
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Flags that were set explicitly win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen-address":
			cfg.ListenAddress = *listenAddress
		case "wg-path":
			cfg.WireGuard.BinaryPath = *wgPath
		case "wg-config":
			cfg.WireGuard.ConfigPath = *wgConfigPath
		case "scrape-timeout":
			cfg.WireGuard.ScrapeTimeoutSeconds = *scrapeTimeout
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-encoding":
			cfg.LogEncoding = logEncoding.String()
		}
	})

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := customlog.New(level, customlog.Encoding(cfg.LogEncoding))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	wgClient := cli.New(cfg.WireGuard.BinaryPath, cfg.WireGuard.Timeout(), log)

	var names exporter.NameSource
	if cfg.WireGuard.ConfigPath != "" {
		names = peernames.New(cfg.WireGuard.ConfigPath, log)
	}

	exp, err := exporter.New(wgClient, names, log, registry)
	if err != nil {
		log.Panic("Unable to create the exporter", zap.Error(err))
	}

	readinessChecks := map[string]healthcheck.Check{
		"wg-binary": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.WireGuard.Timeout())
			defer cancel()

			_, err := wgClient.Version(ctx)
			return err
		},
	}

	server := telemetry.New(log, cfg.ListenAddress, registry, exp, readinessChecks)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting the exporter",
		zap.String("listen_address", cfg.ListenAddress),
		zap.String("wg_path", cfg.WireGuard.BinaryPath),
	)

	if err := server.Run(ctx); err != nil {
		log.Panic("Problem running the telemetry server", zap.Error(err))
	}
}
