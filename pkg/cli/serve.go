/*
Copyright © 2025 the Resticmon authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/resticmon/resticmon/pkg/config"
	"github.com/resticmon/resticmon/pkg/exporter"
	"github.com/resticmon/resticmon/pkg/restic"
	"github.com/resticmon/resticmon/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the metrics exporter daemon",
		Description: `Serve Prometheus metrics for a restic repository.

The daemon periodically queries the repository through the restic binary
and exposes backup freshness, volume, change activity, repository health,
and retention compliance metrics on /metrics.

Repository location and credentials come from the standard restic
environment variables: RESTIC_REPOSITORY plus one of RESTIC_PASSWORD,
RESTIC_PASSWORD_FILE, or RESTIC_PASSWORD_COMMAND.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Usage:   "Listen address for the metrics server",
				Sources: cli.EnvVars(config.EnvListenAddress),
				Value:   "0.0.0.0",
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Listen port for the metrics server",
				Sources: cli.EnvVars(config.EnvListenPort),
				Value:   8001,
			},
			&cli.IntFlag{
				Name:    "refresh-interval",
				Usage:   "Seconds between collection passes",
				Sources: cli.EnvVars(config.EnvRefreshInterval),
				Value:   60,
			},
			&cli.BoolFlag{
				Name:    "exit-on-error",
				Usage:   "Exit on the first collection failure instead of retrying",
				Sources: cli.EnvVars(config.EnvExitOnError),
			},
			&cli.BoolFlag{
				Name:    "no-check",
				Usage:   "Skip repository integrity checking",
				Sources: cli.EnvVars(config.EnvNoCheck),
			},
			&cli.BoolFlag{
				Name:    "no-global-stats",
				Usage:   "Skip repository-wide statistics collection",
				Sources: cli.EnvVars(config.EnvNoGlobalStats),
			},
			&cli.BoolFlag{
				Name:    "no-legacy-stats",
				Usage:   "Skip per-snapshot stats lookups for pre-0.17 snapshots",
				Sources: cli.EnvVars(config.EnvNoLegacyStats),
			},
			&cli.BoolFlag{
				Name:    "no-locks",
				Usage:   "Skip repository lock counting",
				Sources: cli.EnvVars(config.EnvNoLocks),
			},
			&cli.BoolFlag{
				Name:    "include-paths",
				Usage:   "Include backed-up paths as a metric label",
				Sources: cli.EnvVars(config.EnvIncludePaths),
			},
			&cli.BoolFlag{
				Name:    "insecure-tls",
				Usage:   "Skip TLS verification on repository access",
				Sources: cli.EnvVars(config.EnvInsecureTLS),
			},
			&cli.StringFlag{
				Name:    "retention-policy",
				Usage:   "Path to a YAML retention policy document",
				Sources: cli.EnvVars(config.EnvRetentionPolicy),
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	if err := config.Validate(); err != nil {
		return err
	}

	// The environment is the source of truth; explicitly set flags
	// overlay it so both readers can never disagree.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyServeFlags(cfg, cmd)

	if path := cmd.String("retention-policy"); cmd.IsSet("retention-policy") && path != cfg.RetentionPolicyFile {
		policy, err := config.LoadRetentionPolicy(path)
		if err != nil {
			return err
		}
		cfg.RetentionPolicyFile = path
		cfg.Retention = policy
	}

	repo := &restic.CLI{InsecureTLS: cfg.InsecureTLS}
	exp := exporter.New(repo, cfg)
	prometheus.MustRegister(exporter.NewCollector(exp))

	srvCfg := server.NewConfig()
	srvCfg.Version = version
	srvCfg.Address = cfg.ListenAddress
	srvCfg.Port = cfg.ListenPort

	srv := server.NewServer(srvCfg, prometheus.DefaultGatherer, func() bool {
		return exp.Current() != nil
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return exp.Run(gctx) })
	g.Go(func() error { return srv.Start(gctx) })
	return g.Wait()
}

// applyServeFlags overlays set flag values onto the loaded configuration.
func applyServeFlags(cfg *config.Config, cmd *cli.Command) {
	if cmd.IsSet("address") {
		cfg.ListenAddress = cmd.String("address")
	}
	if cmd.IsSet("port") {
		cfg.ListenPort = int(cmd.Int("port"))
	}
	if cmd.IsSet("refresh-interval") {
		cfg.RefreshInterval = time.Duration(cmd.Int("refresh-interval")) * time.Second
	}
	if cmd.IsSet("exit-on-error") {
		cfg.ExitOnError = cmd.Bool("exit-on-error")
	}
	if cmd.IsSet("no-check") {
		cfg.NoCheck = cmd.Bool("no-check")
	}
	if cmd.IsSet("no-global-stats") {
		cfg.NoGlobalStats = cmd.Bool("no-global-stats")
	}
	if cmd.IsSet("no-legacy-stats") {
		cfg.NoLegacyStats = cmd.Bool("no-legacy-stats")
	}
	if cmd.IsSet("no-locks") {
		cfg.NoLocks = cmd.Bool("no-locks")
	}
	if cmd.IsSet("include-paths") {
		cfg.IncludePaths = cmd.Bool("include-paths")
	}
	if cmd.IsSet("insecure-tls") {
		cfg.InsecureTLS = cmd.Bool("insecure-tls")
	}
}
