/*
Copyright © 2025 the Resticmon authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/resticmon/resticmon/pkg/config"
	"github.com/resticmon/resticmon/pkg/defaults"
	"github.com/resticmon/resticmon/pkg/normalize"
	"github.com/resticmon/resticmon/pkg/restic"
	"github.com/resticmon/resticmon/pkg/retention"
)

func retentionCmd() *cli.Command {
	return &cli.Command{
		Name:                  "retention",
		EnableShellCompletion: true,
		Usage:                 "Report retention compliance for the repository",
		Description: `Query the full snapshot history once and evaluate it against the
retention policy, printing one compliance bucket per category (manual,
update, hourly, daily, weekly, monthly, yearly).`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "retention-policy",
				Usage:   "Path to a YAML retention policy document",
				Sources: cli.EnvVars(config.EnvRetentionPolicy),
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

			policy := retention.DefaultPolicy()
			if path := cmd.String("retention-policy"); path != "" {
				if policy, err = config.LoadRetentionPolicy(path); err != nil {
					return err
				}
			}

			opCtx, cancel := context.WithTimeout(ctx, defaults.OneShotTimeout)
			defer cancel()

			repo := &restic.CLI{InsecureTLS: cmd.Bool("insecure-tls")}
			raw, err := repo.ListSnapshots(opCtx, false)
			if err != nil {
				return err
			}
			history, err := normalize.Snapshots(raw)
			if err != nil {
				return err
			}

			buckets := retention.Evaluate(history, policy, time.Now())
			return newStdoutWriter(outFormat).Serialize(buckets)
		},
	}
}
