package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/resticmon/resticmon/pkg/model"
	"github.com/resticmon/resticmon/pkg/restic"
	"github.com/resticmon/resticmon/pkg/version"
)

// Provider is the slice of the restic collaborator the resolver needs.
type Provider interface {
	Stats(ctx context.Context, snapshotID string) (restic.RawStats, error)
}

// Resolver resolves per-snapshot statistics. Snapshots from restic >= 0.17
// carry an embedded summary and never hit the collaborator; legacy
// snapshots trigger one `restic stats` call each, memoized for the process
// lifetime.
//
// The cache is keyed by snapshot id and never evicts. Snapshot ids are
// immutable, so entries never go stale; the cache grows by one entry per
// legacy snapshot ever seen, which is an accepted tradeoff (the stats call
// costs seconds per snapshot, the entry costs bytes).
type Resolver struct {
	provider Provider
	disabled bool
	cache    map[string]model.Stats
}

// NewResolver creates a Resolver backed by the given provider. With
// disabled set, legacy snapshots resolve to all-sentinel Stats without any
// collaborator call.
func NewResolver(provider Provider, disabled bool) *Resolver {
	return &Resolver{
		provider: provider,
		disabled: disabled,
		cache:    make(map[string]model.Stats),
	}
}

// Resolve returns statistics for the given snapshot: the embedded summary
// when present, otherwise the memoized legacy lookup.
func (r *Resolver) Resolve(ctx context.Context, snap model.Snapshot) (model.Stats, error) {
	if snap.Stats != nil {
		return *snap.Stats, nil
	}
	if version.HasEmbeddedSummary(snap.ProgramVersion) {
		// The client should have embedded a summary but did not, which
		// points at a truncated or hand-edited snapshot record.
		slog.Warn("snapshot lacks expected summary, falling back to stats lookup",
			"snapshotID", snap.ShortID, "programVersion", snap.ProgramVersion)
	}
	return r.legacy(ctx, snap.ID)
}

// legacy performs the memoized `restic stats` lookup for snapshots that
// predate embedded summaries.
func (r *Resolver) legacy(ctx context.Context, snapshotID string) (model.Stats, error) {
	if r.disabled {
		return model.UnavailableStats(), nil
	}

	if cached, ok := r.cache[snapshotID]; ok {
		return cached, nil
	}

	raw, err := r.provider.Stats(ctx, snapshotID)
	if err != nil {
		return model.Stats{}, err
	}

	resolved := model.UnavailableStats()
	resolved.TotalSize = raw.TotalSize
	resolved.TotalFileCount = raw.TotalFileCount

	r.cache[snapshotID] = resolved
	slog.Debug("cached legacy snapshot stats",
		"snapshotID", snapshotID, "cacheSize", len(r.cache))

	return resolved, nil
}

// CacheLen reports the number of memoized legacy entries.
func (r *Resolver) CacheLen() int {
	return len(r.cache)
}

// FromSummary derives Stats from the backup summary embedded in a raw
// snapshot record. Every count defaults independently to the sentinel when
// absent; the duration is the span between the summary's backup bounds, or
// the sentinel when either bound is missing or unparsable.
func FromSummary(s *restic.RawSummary) model.Stats {
	out := model.UnavailableStats()

	out.TotalSize = orUnavailable(s.TotalBytesProcessed)
	out.TotalFileCount = orUnavailable(s.TotalFilesProcessed)
	out.FilesNew = orUnavailable(s.FilesNew)
	out.FilesChanged = orUnavailable(s.FilesChanged)
	out.FilesUnmodified = orUnavailable(s.FilesUnmodified)
	out.DirsNew = orUnavailable(s.DirsNew)
	out.DirsChanged = orUnavailable(s.DirsChanged)
	out.DirsUnmodified = orUnavailable(s.DirsUnmodified)
	out.DataAdded = orUnavailable(s.DataAdded)

	if s.BackupStart != "" && s.BackupEnd != "" {
		start, startErr := time.Parse(time.RFC3339Nano, s.BackupStart)
		end, endErr := time.Parse(time.RFC3339Nano, s.BackupEnd)
		if startErr == nil && endErr == nil {
			out.Duration = end.Sub(start).Seconds()
		}
	}

	return out
}

func orUnavailable(v *int64) int64 {
	if v == nil {
		return model.Unavailable
	}
	return *v
}
