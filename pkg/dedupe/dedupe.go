package dedupe

import "github.com/resticmon/resticmon/pkg/model"

// CountByHash tallies the full snapshot history per content fingerprint.
// The sum of all counts equals the history length.
func CountByHash(history []model.Snapshot) map[string]int {
	counts := make(map[string]int, len(history))
	for _, snap := range history {
		counts[snap.Hash]++
	}
	return counts
}

// LatestByHash reduces a snapshot list to one snapshot per content
// fingerprint, keeping the greatest timestamp. On equal timestamps the
// first-encountered snapshot wins; the comparison is strictly greater,
// which keeps the selection deterministic for any input order.
func LatestByHash(snapshots []model.Snapshot) map[string]model.Snapshot {
	latest := make(map[string]model.Snapshot, len(snapshots))
	for _, snap := range snapshots {
		prev, ok := latest[snap.Hash]
		if !ok || snap.Timestamp > prev.Timestamp {
			latest[snap.Hash] = snap
		}
	}
	return latest
}
