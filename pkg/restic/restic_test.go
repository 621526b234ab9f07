package restic

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resticmon/resticmon/pkg/errors"
)

// stubRunner records invocations and plays back canned process results.
type stubRunner struct {
	calls    [][]string
	stdout   []byte
	stderr   []byte
	exitCode int
	err      error
}

func (s *stubRunner) run(_ context.Context, args ...string) ([]byte, []byte, int, error) {
	s.calls = append(s.calls, args)
	return s.stdout, s.stderr, s.exitCode, s.err
}

func snapshotsJSON(t *testing.T) []byte {
	t.Helper()
	records := []map[string]any{
		{
			"time":     "2023-01-12T06:59:33.1576588+01:00",
			"hostname": "server1",
			"username": "root",
			"paths":    []string{"/home", "/etc"},
			"id":       "abc123b",
			"short_id": "abc123",
			"tags":     []string{"daily", "automated"},
		},
	}
	out, err := json.Marshal(records)
	require.NoError(t, err)
	return out
}

func TestListSnapshots(t *testing.T) {
	stub := &stubRunner{stdout: snapshotsJSON(t)}
	cli := &CLI{Runner: stub.run}

	records, err := cli.ListSnapshots(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "server1", records[0].Hostname)
	assert.Equal(t, []string{"/home", "/etc"}, records[0].Paths)
	assert.Nil(t, records[0].Summary)
	assert.Equal(t, [][]string{{"--no-lock", "snapshots", "--json"}}, stub.calls)
}

func TestListSnapshotsOnlyLatest(t *testing.T) {
	stub := &stubRunner{stdout: []byte("[]")}
	cli := &CLI{Runner: stub.run}

	_, err := cli.ListSnapshots(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"--no-lock", "snapshots", "--json", "--latest", "1"}, stub.calls[0])
}

func TestListSnapshotsInsecureTLS(t *testing.T) {
	stub := &stubRunner{stdout: []byte("[]")}
	cli := &CLI{Runner: stub.run, InsecureTLS: true}

	_, err := cli.ListSnapshots(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"--no-lock", "snapshots", "--json", "--insecure-tls"}, stub.calls[0])
}

func TestListSnapshotsCommandFailure(t *testing.T) {
	stub := &stubRunner{exitCode: 1, stderr: []byte("Error: repository not found\n")}
	cli := &CLI{Runner: stub.run}

	_, err := cli.ListSnapshots(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errors.IsCommandError(err))
	assert.Contains(t, err.Error(), "error executing restic snapshot command")
	assert.Contains(t, err.Error(), "Exit code: 1")
}

func TestListSnapshotsBadJSON(t *testing.T) {
	stub := &stubRunner{stdout: []byte("not json")}
	cli := &CLI{Runner: stub.run}

	_, err := cli.ListSnapshots(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errors.IsCommandError(err))
}

func TestStats(t *testing.T) {
	stub := &stubRunner{stdout: []byte(`{"total_size":1073741824,"total_file_count":1000}`)}
	cli := &CLI{Runner: stub.run}

	stats, err := cli.Stats(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, RawStats{TotalSize: 1073741824, TotalFileCount: 1000}, stats)
	assert.Equal(t, []string{"--no-lock", "stats", "--json", "abc123"}, stub.calls[0])
}

func TestStatsInsecureTLSPrecedesID(t *testing.T) {
	stub := &stubRunner{stdout: []byte(`{}`)}
	cli := &CLI{Runner: stub.run, InsecureTLS: true}

	_, err := cli.Stats(context.Background(), "xyz333")
	require.NoError(t, err)
	assert.Equal(t, []string{"--no-lock", "stats", "--json", "--insecure-tls", "xyz333"}, stub.calls[0])
}

func TestGlobalStats(t *testing.T) {
	stub := &stubRunner{stdout: []byte(`{
		"total_size": 385734388076,
		"total_uncompressed_size": 440775833765,
		"compression_ratio": 1.1426926076348562,
		"total_blob_count": 1522470,
		"snapshots_count": 1893
	}`)}
	cli := &CLI{Runner: stub.run}

	stats, err := cli.GlobalStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RawGlobalStats{
		TotalSize:             385734388076,
		TotalUncompressedSize: 440775833765,
		CompressionRatio:      1.1426926076348562,
		TotalBlobCount:        1522470,
		SnapshotsCount:        1893,
	}, stats)
	assert.Equal(t, []string{"--no-lock", "stats", "--json", "--mode", "raw-data"}, stub.calls[0])
}

func TestCheck(t *testing.T) {
	stub := &stubRunner{}
	cli := &CLI{Runner: stub.run}
	assert.True(t, cli.Check(context.Background()))
	assert.Equal(t, []string{"--no-lock", "check"}, stub.calls[0])

	stub = &stubRunner{exitCode: 1, stderr: []byte("Error: repository corrupted")}
	cli = &CLI{Runner: stub.run}
	assert.False(t, cli.Check(context.Background()))
}

func TestLocks(t *testing.T) {
	tests := []struct {
		name     string
		stdout   string
		expected int
	}{
		{"three ids with noise", "abc123def456\nghi789jkl012\nbad line\nmno345pqr678\n", 3},
		{"empty", "\n", 0},
		{"single", "abc123\n", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubRunner{stdout: []byte(tc.stdout)}
			cli := &CLI{Runner: stub.run}

			count, err := cli.Locks(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, count)
			assert.Equal(t, []string{"--no-lock", "list", "locks"}, stub.calls[0])
		})
	}
}

func TestLocksCommandFailure(t *testing.T) {
	stub := &stubRunner{exitCode: 1, stderr: []byte("Error: cannot list locks")}
	cli := &CLI{Runner: stub.run}

	_, err := cli.Locks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error executing restic list locks command")
}
