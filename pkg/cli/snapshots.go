/*
Copyright © 2025 the Resticmon authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/resticmon/resticmon/pkg/config"
	"github.com/resticmon/resticmon/pkg/defaults"
	"github.com/resticmon/resticmon/pkg/exporter"
	"github.com/resticmon/resticmon/pkg/restic"
)

func snapshotsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshots",
		EnableShellCompletion: true,
		Usage:                 "List the latest snapshot per backup client",
		Description: `Query the repository once and print the latest snapshot of each
logical backup client (host identity plus path set), including volume and
change-activity statistics, in JSON, YAML, or table format.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "include-paths",
				Usage:   "Include backed-up paths in the report",
				Sources: cli.EnvVars(config.EnvIncludePaths),
			},
			&cli.BoolFlag{
				Name:    "insecure-tls",
				Usage:   "Skip TLS verification on repository access",
				Sources: cli.EnvVars(config.EnvInsecureTLS),
			},
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := config.Validate(); err != nil {
				return err
			}

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg := config.New()
			cfg.IncludePaths = cmd.Bool("include-paths")
			cfg.InsecureTLS = cmd.Bool("insecure-tls")
			// A one-off listing has no use for the slow repository-wide
			// signals.
			cfg.NoCheck = true
			cfg.NoLocks = true
			cfg.NoGlobalStats = true

			opCtx, cancel := context.WithTimeout(ctx, defaults.OneShotTimeout)
			defer cancel()

			repo := &restic.CLI{InsecureTLS: cfg.InsecureTLS}
			m, err := exporter.New(repo, cfg).BuildMetrics(opCtx)
			if err != nil {
				return err
			}

			return newStdoutWriter(outFormat).Serialize(m.Clients)
		},
	}
}
