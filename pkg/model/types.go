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

package model

// Unavailable is the sentinel for statistics fields that could not be
// collected, either because the feature is disabled or because the restic
// client that produced the snapshot did not report them.
const Unavailable int64 = -1

// CheckNotEvaluated is the check_success value reported when repository
// integrity checking is disabled.
const CheckNotEvaluated int64 = 2

// Snapshot is one completed backup operation, normalized from the raw
// restic record. The Hash groups snapshots of the same logical backup
// target (host identity plus ordered path set) across time.
type Snapshot struct {
	ID             string   `json:"id" yaml:"id"`
	ShortID        string   `json:"shortId" yaml:"shortId"`
	Hostname       string   `json:"hostname" yaml:"hostname"`
	Username       string   `json:"username" yaml:"username"`
	Paths          []string `json:"paths" yaml:"paths"`
	Tags           []string `json:"tags" yaml:"tags"`
	ProgramVersion string   `json:"programVersion" yaml:"programVersion"`

	// Time is the raw ISO8601 timestamp as reported by restic.
	Time string `json:"time" yaml:"time"`

	// Hash is the SHA-256 hex digest over hostname, username, and the
	// comma-joined ordered path list.
	Hash string `json:"hash" yaml:"hash"`

	// Timestamp is Time parsed to epoch seconds.
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`

	// Stats holds summary-derived statistics when the restic client
	// embedded them (restic >= 0.17); nil for legacy clients.
	Stats *Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Stats holds per-backup volume and change-activity statistics. Any field
// may be Unavailable (-1).
type Stats struct {
	TotalSize       int64 `json:"totalSize" yaml:"totalSize"`
	TotalFileCount  int64 `json:"totalFileCount" yaml:"totalFileCount"`
	FilesNew        int64 `json:"filesNew" yaml:"filesNew"`
	FilesChanged    int64 `json:"filesChanged" yaml:"filesChanged"`
	FilesUnmodified int64 `json:"filesUnmodified" yaml:"filesUnmodified"`
	DirsNew         int64 `json:"dirsNew" yaml:"dirsNew"`
	DirsChanged     int64 `json:"dirsChanged" yaml:"dirsChanged"`
	DirsUnmodified  int64 `json:"dirsUnmodified" yaml:"dirsUnmodified"`
	DataAdded       int64 `json:"dataAdded" yaml:"dataAdded"`

	// Duration is the backup wall time in seconds, or Unavailable.
	Duration float64 `json:"duration" yaml:"duration"`
}

// UnavailableStats returns Stats with every field set to the sentinel.
func UnavailableStats() Stats {
	return Stats{
		TotalSize:       Unavailable,
		TotalFileCount:  Unavailable,
		FilesNew:        Unavailable,
		FilesChanged:    Unavailable,
		FilesUnmodified: Unavailable,
		DirsNew:         Unavailable,
		DirsChanged:     Unavailable,
		DirsUnmodified:  Unavailable,
		DataAdded:       Unavailable,
		Duration:        float64(Unavailable),
	}
}

// GlobalStats holds repository-wide statistics from restic stats in
// raw-data mode.
type GlobalStats struct {
	TotalSize             int64   `json:"totalSize" yaml:"totalSize"`
	TotalUncompressedSize int64   `json:"totalUncompressedSize" yaml:"totalUncompressedSize"`
	CompressionRatio      float64 `json:"compressionRatio" yaml:"compressionRatio"`
	TotalBlobCount        int64   `json:"totalBlobCount" yaml:"totalBlobCount"`
	TotalSnapshotsCount   int64   `json:"totalSnapshotsCount" yaml:"totalSnapshotsCount"`
}

// UnavailableGlobalStats returns GlobalStats with every field set to the
// sentinel, reported when global statistics collection is disabled.
func UnavailableGlobalStats() GlobalStats {
	return GlobalStats{
		TotalSize:             Unavailable,
		TotalUncompressedSize: Unavailable,
		CompressionRatio:      float64(Unavailable),
		TotalBlobCount:        Unavailable,
		TotalSnapshotsCount:   Unavailable,
	}
}

// RetentionBucket is the compliance result for one retention category.
type RetentionBucket struct {
	Category      string `json:"category" yaml:"category"`
	PolicyLimit   int    `json:"policyLimit" yaml:"policyLimit"`
	ExpectedCount int    `json:"expectedCount" yaml:"expectedCount"`
	FoundCount    int    `json:"foundCount" yaml:"foundCount"`
	Satisfied     bool   `json:"satisfied" yaml:"satisfied"`
}

// ClientProfile is the per-client (per-hash) view derived from the latest
// snapshot of each logical backup target.
type ClientProfile struct {
	Hostname       string `json:"hostname" yaml:"hostname"`
	Username       string `json:"username" yaml:"username"`
	Version        string `json:"version" yaml:"version"`
	Hash           string `json:"hash" yaml:"hash"`
	Tag            string `json:"tag" yaml:"tag"`
	Tags           string `json:"tags" yaml:"tags"`
	Paths          string `json:"paths" yaml:"paths"`
	Timestamp      int64  `json:"timestamp" yaml:"timestamp"`
	SnapshotsTotal int    `json:"snapshotsTotal" yaml:"snapshotsTotal"`
	Stats          Stats  `json:"stats" yaml:"stats"`
}

// MetricsSnapshot is the fully assembled metrics model for one refresh
// pass. It is immutable once built; each refresh builds a fresh value and
// publishes it wholesale.
type MetricsSnapshot struct {
	CheckSuccess     int64             `json:"checkSuccess" yaml:"checkSuccess"`
	LocksTotal       int64             `json:"locksTotal" yaml:"locksTotal"`
	Clients          []ClientProfile   `json:"clients" yaml:"clients"`
	SnapshotsTotal   int               `json:"snapshotsTotal" yaml:"snapshotsTotal"`
	GlobalStats      GlobalStats       `json:"globalStats" yaml:"globalStats"`
	RetentionBuckets []RetentionBucket `json:"retentionBuckets" yaml:"retentionBuckets"`

	// Duration is the wall time of the refresh pass in seconds.
	Duration float64 `json:"duration" yaml:"duration"`
}
