package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resticmon/resticmon/pkg/errors"
	"github.com/resticmon/resticmon/pkg/model"
	"github.com/resticmon/resticmon/pkg/restic"
)

type stubProvider struct {
	calls int
	stats restic.RawStats
	err   error
}

func (s *stubProvider) Stats(context.Context, string) (restic.RawStats, error) {
	s.calls++
	return s.stats, s.err
}

func TestResolveUsesEmbeddedSummary(t *testing.T) {
	provider := &stubProvider{}
	r := NewResolver(provider, false)

	embedded := model.Stats{TotalSize: 67558618674, TotalFileCount: 244610, Duration: 33.17}
	resolved, err := r.Resolve(context.Background(), model.Snapshot{ID: "abc", Stats: &embedded})
	require.NoError(t, err)
	assert.Equal(t, embedded, resolved)
	assert.Zero(t, provider.calls)
}

func TestResolveLegacyCachesForever(t *testing.T) {
	provider := &stubProvider{stats: restic.RawStats{TotalSize: 1073741824, TotalFileCount: 1000}}
	r := NewResolver(provider, false)

	snap := model.Snapshot{ID: "abc123"}
	first, err := r.Resolve(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, int64(1073741824), first.TotalSize)
	assert.Equal(t, int64(1000), first.TotalFileCount)
	assert.Equal(t, model.Unavailable, first.FilesNew)
	assert.Equal(t, float64(model.Unavailable), first.Duration)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 1, r.CacheLen())

	second, err := r.Resolve(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls)
}

func TestResolveDisabled(t *testing.T) {
	provider := &stubProvider{}
	r := NewResolver(provider, true)

	resolved, err := r.Resolve(context.Background(), model.Snapshot{ID: "xyz444"})
	require.NoError(t, err)
	assert.Equal(t, model.UnavailableStats(), resolved)
	assert.Zero(t, provider.calls)
	assert.Zero(t, r.CacheLen())
}

func TestResolveLegacyFailure(t *testing.T) {
	provider := &stubProvider{err: errors.NewCommandError("stats", 1, "Error: snapshot not found", nil)}
	r := NewResolver(provider, false)

	_, err := r.Resolve(context.Background(), model.Snapshot{ID: "xyz222"})
	require.Error(t, err)
	assert.True(t, errors.IsCommandError(err))
	assert.Zero(t, r.CacheLen())
}

func TestFromSummary(t *testing.T) {
	v := func(n int64) *int64 { return &n }
	summary := &restic.RawSummary{
		BackupStart:         "2025-12-08T07:12:00.913147689+01:00",
		BackupEnd:           "2025-12-08T07:12:04.006656036+01:00",
		FilesNew:            v(0),
		FilesChanged:        v(14),
		FilesUnmodified:     v(25889),
		DirsNew:             v(0),
		DirsChanged:         v(17),
		DirsUnmodified:      v(5475),
		DataAdded:           v(473450),
		TotalFilesProcessed: v(25903),
		TotalBytesProcessed: v(12382567073),
	}

	s := FromSummary(summary)
	assert.Equal(t, int64(12382567073), s.TotalSize)
	assert.Equal(t, int64(25903), s.TotalFileCount)
	assert.Equal(t, int64(0), s.FilesNew)
	assert.Equal(t, int64(14), s.FilesChanged)
	assert.Equal(t, int64(25889), s.FilesUnmodified)
	assert.Equal(t, int64(0), s.DirsNew)
	assert.Equal(t, int64(17), s.DirsChanged)
	assert.Equal(t, int64(5475), s.DirsUnmodified)
	assert.Equal(t, int64(473450), s.DataAdded)
	assert.InDelta(t, 3.093508, s.Duration, 0.001)
}

func TestFromSummaryMissingFields(t *testing.T) {
	s := FromSummary(&restic.RawSummary{})
	assert.Equal(t, model.UnavailableStats(), s)
}

func TestFromSummaryBadBounds(t *testing.T) {
	v := func(n int64) *int64 { return &n }
	s := FromSummary(&restic.RawSummary{
		BackupStart:         "garbage",
		BackupEnd:           "2025-12-08T07:12:04.006656036+01:00",
		TotalBytesProcessed: v(10),
	})
	assert.Equal(t, float64(model.Unavailable), s.Duration)
	assert.Equal(t, int64(10), s.TotalSize)
}
