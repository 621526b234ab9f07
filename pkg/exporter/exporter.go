// Copyright (c) 2025, the Resticmon authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/resticmon/resticmon/pkg/config"
	"github.com/resticmon/resticmon/pkg/dedupe"
	"github.com/resticmon/resticmon/pkg/model"
	"github.com/resticmon/resticmon/pkg/normalize"
	"github.com/resticmon/resticmon/pkg/restic"
	"github.com/resticmon/resticmon/pkg/retention"
	"github.com/resticmon/resticmon/pkg/stats"
)

// Repository is the slice of the restic collaborator the exporter needs.
// *restic.CLI satisfies it.
type Repository interface {
	ListSnapshots(ctx context.Context, onlyLatest bool) ([]restic.RawSnapshot, error)
	Stats(ctx context.Context, snapshotID string) (restic.RawStats, error)
	GlobalStats(ctx context.Context) (restic.RawGlobalStats, error)
	Check(ctx context.Context) bool
	Locks(ctx context.Context) (int, error)
}

// Exporter periodically assembles a MetricsSnapshot from the repository
// and publishes it for the Prometheus collector.
//
// All collaborator calls within a pass are strictly sequential:
// concurrent restic invocations can corrupt the repository's locking
// state, so a pass never fans out.
type Exporter struct {
	repo     Repository
	resolver *stats.Resolver
	cfg      *config.Config
	current  atomic.Pointer[model.MetricsSnapshot]
}

// New creates an Exporter over the given repository.
func New(repo Repository, cfg *config.Config) *Exporter {
	return &Exporter{
		repo:     repo,
		resolver: stats.NewResolver(repo, cfg.NoLegacyStats),
		cfg:      cfg,
	}
}

// Current returns the last successfully published snapshot, or nil before
// the first successful refresh.
func (e *Exporter) Current() *model.MetricsSnapshot {
	return e.current.Load()
}

// Refresh runs one collection pass and publishes the result. On failure
// the previously published snapshot stays authoritative.
func (e *Exporter) Refresh(ctx context.Context) error {
	m, err := e.BuildMetrics(ctx)
	if err != nil {
		return err
	}
	e.current.Store(m)
	return nil
}

// BuildMetrics runs one sequential collection pass: full history, latest
// snapshots, normalization, deduplication, per-client statistics,
// retention evaluation, then the repository-level signals.
func (e *Exporter) BuildMetrics(ctx context.Context) (*model.MetricsSnapshot, error) {
	start := time.Now()

	rawHistory, err := e.repo.ListSnapshots(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot history: %w", err)
	}
	history, err := normalize.Snapshots(rawHistory)
	if err != nil {
		return nil, fmt.Errorf("normalizing snapshot history: %w", err)
	}

	rawLatest, err := e.repo.ListSnapshots(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("listing latest snapshots: %w", err)
	}
	latestSnaps, err := normalize.Snapshots(rawLatest)
	if err != nil {
		return nil, fmt.Errorf("normalizing latest snapshots: %w", err)
	}

	counts := dedupe.CountByHash(history)
	latest := dedupe.LatestByHash(latestSnaps)

	clients := make([]model.ClientProfile, 0, len(latest))
	for _, hash := range slices.Sorted(maps.Keys(latest)) {
		snap := latest[hash]
		st, err := e.resolver.Resolve(ctx, snap)
		if err != nil {
			return nil, fmt.Errorf("resolving stats for snapshot %s: %w", snap.ShortID, err)
		}
		clients = append(clients, e.profile(snap, counts[hash], st))
	}

	m := &model.MetricsSnapshot{
		Clients:          clients,
		SnapshotsTotal:   len(history),
		RetentionBuckets: retention.Evaluate(history, e.cfg.Retention, start),
	}

	if e.cfg.NoCheck {
		m.CheckSuccess = model.CheckNotEvaluated
	} else if e.repo.Check(ctx) {
		m.CheckSuccess = 1
	}

	if !e.cfg.NoLocks {
		locks, err := e.repo.Locks(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting repository locks: %w", err)
		}
		m.LocksTotal = int64(locks)
	}

	m.GlobalStats = model.UnavailableGlobalStats()
	if !e.cfg.NoGlobalStats {
		raw, err := e.repo.GlobalStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("collecting repository stats: %w", err)
		}
		m.GlobalStats = model.GlobalStats{
			TotalSize:             raw.TotalSize,
			TotalUncompressedSize: raw.TotalUncompressedSize,
			CompressionRatio:      raw.CompressionRatio,
			TotalBlobCount:        raw.TotalBlobCount,
			TotalSnapshotsCount:   raw.SnapshotsCount,
		}
	}

	m.Duration = time.Since(start).Seconds()
	return m, nil
}

// Run refreshes immediately and then on every tick of the configured
// interval until the context is canceled. With ExitOnError any failed
// pass is fatal; otherwise failures are logged and the next tick retries.
//
// A pass carries no deadline of its own. Repository checks on large
// remote repositories can run for a long time and must be allowed to
// finish; a slow pass delays the next tick instead of being canceled.
func (e *Exporter) Run(ctx context.Context) error {
	if err := e.Refresh(ctx); err != nil {
		if e.cfg.ExitOnError {
			return err
		}
		slog.Error("metrics refresh failed", "error", err)
	}
	notify(daemon.SdNotifyReady)

	ticker := time.NewTicker(e.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := e.Refresh(ctx); err != nil {
				if e.cfg.ExitOnError {
					return err
				}
				slog.Error("metrics refresh failed", "error", err)
				continue
			}
			notify(daemon.SdNotifyWatchdog)
		}
	}
}

// profile builds the per-client view from a latest snapshot.
func (e *Exporter) profile(snap model.Snapshot, total int, st model.Stats) model.ClientProfile {
	p := model.ClientProfile{
		Hostname:       snap.Hostname,
		Username:       snap.Username,
		Version:        snap.ProgramVersion,
		Hash:           snap.Hash,
		Tags:           strings.Join(snap.Tags, ","),
		Timestamp:      snap.Timestamp,
		SnapshotsTotal: total,
		Stats:          st,
	}
	if len(snap.Tags) > 0 {
		p.Tag = snap.Tags[0]
	}
	if e.cfg.IncludePaths {
		p.Paths = strings.Join(snap.Paths, ",")
	}
	return p
}

// notify reports daemon state to systemd. A no-op outside systemd units;
// notification failures are only worth a debug line.
func notify(state string) {
	if _, err := daemon.SdNotify(false, state); err != nil {
		slog.Debug("systemd notification failed", "state", state, "error", err)
	}
}
