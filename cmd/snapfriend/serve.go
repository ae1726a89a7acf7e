package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/snapfriend/snapfriend/pkg/config"
	"github.com/snapfriend/snapfriend/pkg/daemon"
	"github.com/snapfriend/snapfriend/pkg/ledger"
	"github.com/snapfriend/snapfriend/pkg/log"
	"github.com/snapfriend/snapfriend/pkg/lvm"
	"github.com/snapfriend/snapfriend/pkg/metrics"
	"github.com/snapfriend/snapfriend/pkg/mounter"
	"github.com/snapfriend/snapfriend/pkg/runner"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the snapshot mount broker daemon",
	Long: `Run the snapfriend daemon.

The daemon resolves the default volume at startup (the most recent logical
volume carrying the default tag) and refuses to start without one. It then
serves mount requests one connection at a time until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("config", "", "path to YAML config file")
	serveCmd.Flags().String("socket", config.DefaultSocketPath, "unix socket to listen on; the parent directory must exist")
	serveCmd.Flags().String("default-tag", config.DefaultDefaultTag, "tag of the default logical volume to snapshot from")
	serveCmd.Flags().String("tag-prefix", config.DefaultTagPrefix, "tag prefix used when searching or adding tags, for namespacing")
	serveCmd.Flags().String("snapshot-tag", config.DefaultSnapshotTag, "bonus tag added to created snapshots (no tag-prefix applied)")
	serveCmd.Flags().String("name-prefix", config.DefaultNamePrefix, "snapshots are named with this prefix")
	serveCmd.Flags().Duration("timeout", config.DefaultTimeout, "per-connection idle timeout")
	serveCmd.Flags().String("mount-options", config.DefaultMountOptions, "passed to mount -o when mounting the snapshot")
	serveCmd.Flags().String("data-dir", "", "directory for the snapshot ledger database (empty disables it)")
	serveCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (empty disables it)")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	serveCmd.Flags().Bool("log-json", false, "log in JSON format")
}

// loadServeConfig resolves defaults, config file and flags, in that order.
func loadServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("socket") {
		cfg.SocketPath, _ = flags.GetString("socket")
	}
	if flags.Changed("default-tag") {
		tag, _ := flags.GetString("default-tag")
		cfg.DefaultTag = lvm.CleanTag(tag)
	}
	if flags.Changed("tag-prefix") {
		prefix, _ := flags.GetString("tag-prefix")
		cfg.TagPrefix = lvm.CleanTag(prefix)
	}
	if flags.Changed("snapshot-tag") {
		tag, _ := flags.GetString("snapshot-tag")
		cfg.SnapshotTag = lvm.CleanTag(tag)
	}
	if flags.Changed("name-prefix") {
		cfg.NamePrefix, _ = flags.GetString("name-prefix")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("mount-options") {
		cfg.MountOptions, _ = flags.GetString("mount-options")
	}
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	log.Init(log.Config{
		Level:      log.Level(cfg.LogLevel),
		JSONOutput: cfg.LogJSON,
	})

	ctx := context.Background()
	run := runner.NewExecRunner()

	catalog := lvm.NewLVMCatalog(run)
	creator := lvm.NewLVMCreator(run)
	controller := mounter.NewExecController(run)

	// Staging mount points live next to the socket.
	staging, err := mounter.NewStaging(filepath.Dir(cfg.SocketPath))
	if err != nil {
		return err
	}
	staging.CleanStale(ctx, controller)

	orchestrator := mounter.NewOrchestrator(creator, controller, staging, mounter.Config{
		TagPrefix:    cfg.TagPrefix,
		SnapshotTag:  cfg.SnapshotTag,
		NamePrefix:   cfg.NamePrefix,
		MountOptions: cfg.MountOptions,
	})

	var snapLedger *ledger.Ledger
	if cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
		snapLedger, err = ledger.Open(cfg.DataDir)
		if err != nil {
			return err
		}
	}

	d := daemon.New(cfg, catalog, orchestrator, snapLedger)
	if err := d.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Errorf("metrics server error", err)
			}
		}()
		metricsLogger := log.WithComponent("metrics")
		metricsLogger.Info().Str("address", cfg.MetricsAddr).Msg("serving metrics")
	}

	// Serve in the background and wait for an interrupt or a serve error.
	errCh := make(chan error, 1)
	go func() { errCh <- d.Serve(ctx) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
		d.Stop()
		// let the in-flight connection drain before exiting
		select {
		case <-errCh:
		case <-time.After(5 * time.Second):
			log.Warn("timed out waiting for active connection")
		}
		return nil
	case err := <-errCh:
		return err
	}
}
