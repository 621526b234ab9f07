package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/resticmon/resticmon/pkg/errors"
	"github.com/resticmon/resticmon/pkg/model"
	"github.com/resticmon/resticmon/pkg/restic"
	"github.com/resticmon/resticmon/pkg/stats"
)

// Snapshot converts one raw restic record into a canonical Snapshot.
// The required fields hostname, paths, and time must be present; username,
// tags, and program_version default to empty. Embedded backup summaries
// are converted to Stats here so downstream consumers never touch raw
// records.
func Snapshot(raw restic.RawSnapshot) (model.Snapshot, error) {
	if raw.Hostname == "" {
		return model.Snapshot{}, errors.NewMalformedDataError("hostname")
	}
	if raw.Paths == nil {
		return model.Snapshot{}, errors.NewMalformedDataError("paths")
	}
	if raw.Time == "" {
		return model.Snapshot{}, errors.NewMalformedDataError("time")
	}

	ts, err := ParseTimestamp(raw.Time)
	if err != nil {
		return model.Snapshot{}, err
	}

	snap := model.Snapshot{
		ID:             raw.ID,
		ShortID:        raw.ShortID,
		Hostname:       raw.Hostname,
		Username:       raw.Username,
		Paths:          raw.Paths,
		Tags:           raw.Tags,
		ProgramVersion: raw.ProgramVersion,
		Time:           raw.Time,
		Hash:           Hash(raw.Hostname, raw.Username, raw.Paths),
		Timestamp:      ts.Unix(),
	}

	if raw.Summary != nil {
		s := stats.FromSummary(raw.Summary)
		snap.Stats = &s
	}

	return snap, nil
}

// Snapshots normalizes a list of raw records, failing on the first
// malformed record. A single bad record aborts the whole pass.
func Snapshots(raw []restic.RawSnapshot) ([]model.Snapshot, error) {
	snaps := make([]model.Snapshot, 0, len(raw))
	for _, r := range raw {
		snap, err := Snapshot(r)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// Hash computes the content fingerprint grouping snapshots of the same
// logical backup target: the SHA-256 hex digest over hostname, username,
// and the comma-joined ordered path list. Path order is significant and
// no canonicalization is performed; callers must pre-normalize paths.
func Hash(hostname, username string, paths []string) string {
	text := hostname + username + strings.Join(paths, ",")
	digest := sha256.Sum256([]byte(text))
	return hex.EncodeToString(digest[:])
}
