package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/wgps/internal/logger"
	"github.com/marmos91/wgps/internal/scheme/builtin"
	"github.com/marmos91/wgps/internal/session"
	"github.com/marmos91/wgps/internal/sessionstore"
	"github.com/marmos91/wgps/internal/telemetry"
	"github.com/marmos91/wgps/pkg/config"
	"github.com/marmos91/wgps/pkg/controlplane/api"
	"github.com/marmos91/wgps/pkg/controlplane/store"
	"github.com/marmos91/wgps/pkg/metrics"
	promMetrics "github.com/marmos91/wgps/pkg/metrics/prometheus"
	"github.com/marmos91/wgps/pkg/transport/tcp"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the wgpsd daemon",
	Long: `Start the wgpsd daemon: the TCP listener that accepts sync
connections, the engine session loop that runs over each one, and the
control-plane REST API that manages the known-peer/authorised-area
registry.`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	if configFile == "" {
		if !config.DefaultConfigExists() {
			return fmt.Errorf("no configuration file found at default location: %s\nrun \"wgpsd init\" first, or specify --config", config.GetDefaultConfigPath())
		}
	} else if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return fmt.Errorf("configuration file not found: %s", configFile)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "wgpsd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "wgpsd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	logger.Info("wgpsd starting", "version", Version, "commit", Commit)

	cpStore, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open control plane database: %w", err)
	}
	defer cpStore.Close()

	apiServer, err := api.NewServer(cfg.ControlPlane, cpStore)
	if err != nil {
		return fmt.Errorf("failed to create control plane API server: %w", err)
	}

	apiDone := make(chan error, 1)
	go func() {
		apiDone <- apiServer.Start(ctx)
	}()

	var sessionMetrics session.Metrics
	metricsDone := make(chan error, 1)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		sessionMetrics = session.Metrics{
			Channel: promMetrics.NewChannelMetrics(),
			Handle:  promMetrics.NewHandleMetrics(),
			Pai:     promMetrics.NewPAIMetrics(),
			Wire:    promMetrics.NewWireMetrics(),
		}

		metricsServer := promMetrics.NewServer(cfg.Metrics.Port)
		go func() {
			metricsDone <- metricsServer.Start(ctx)
		}()
		logger.Info("metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("metrics disabled")
	}

	var resumeStore *sessionstore.Store
	if cfg.Session.Resume.Enabled {
		resumeStore, err = sessionstore.Open(cfg.Session.Resume.Path)
		if err != nil {
			return fmt.Errorf("failed to open session checkpoint store: %w", err)
		}
		defer resumeStore.Close()
		logger.Info("session resume enabled", "path", cfg.Session.Resume.Path)
	}

	schemes := builtin.Bundle()

	listener, err := tcp.Listen(cfg.Transport.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}
	defer listener.Close()

	logger.Info("listening for sync connections", "addr", listener.Addr().String())

	handleConn := func(t *tcp.Transport) {
		defer t.Close()

		peerID := t.RemoteAddr().String()
		sessCfg := session.Config{
			Transport: t,
			Schemes:   schemes,
			Role:      t.Role(),
			Metrics:   sessionMetrics,
		}
		if resumeStore != nil {
			sessCfg.Resume = session.Resume{Store: resumeStore, PeerID: peerID}
		}

		sess := session.New(sessCfg)
		if err := sess.Run(ctx); err != nil {
			logger.Warn("session ended with error", "peer", peerID, logger.Err(err))
			return
		}
		logger.Info("session ended", "peer", peerID)
	}

	listenerDone := make(chan error, 1)
	go func() {
		listenerDone <- listener.Serve(ctx, handleConn)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("wgpsd is running, press Ctrl+C to stop")

	var listenerExited, apiExited bool
	select {
	case <-sigChan:
		logger.Info("shutdown signal received, initiating graceful shutdown")
	case err := <-apiDone:
		apiExited = true
		if err != nil {
			logger.Error("control plane API failed", logger.Err(err))
		}
	case err := <-listenerDone:
		listenerExited = true
		if err != nil {
			logger.Error("listener failed", logger.Err(err))
		}
	}
	signal.Stop(sigChan)
	cancel()

	if !listenerExited {
		<-listenerDone
	}
	if !apiExited {
		if err := <-apiDone; err != nil {
			logger.Warn("control plane API shutdown error", logger.Err(err))
		}
	}

	logger.Info("wgpsd stopped")
	return nil
}
