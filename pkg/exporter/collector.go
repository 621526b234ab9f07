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
	"github.com/prometheus/client_golang/prometheus"
)

// clientLabels identify one logical backup target via its latest snapshot.
var clientLabels = []string{
	"client_hostname",
	"client_username",
	"client_version",
	"snapshot_hash",
	"snapshot_tag",
	"snapshot_tags",
	"snapshot_paths",
}

var (
	checkSuccessDesc = prometheus.NewDesc("restic_check_success",
		"Result of restic check operation in the repository", nil, nil)
	locksTotalDesc = prometheus.NewDesc("restic_locks_total",
		"Total number of locks in the repository", nil, nil)
	snapshotsTotalDesc = prometheus.NewDesc("restic_snapshots_total",
		"Total number of snapshots in the repository", nil, nil)
	sizeTotalDesc = prometheus.NewDesc("restic_size_total",
		"Total size of the repository in bytes", nil, nil)
	uncompressedSizeTotalDesc = prometheus.NewDesc("restic_uncompressed_size_total",
		"Total uncompressed size of the repository in bytes", nil, nil)
	compressionRatioDesc = prometheus.NewDesc("restic_compression_ratio",
		"Compression ratio of the repository", nil, nil)
	blobCountTotalDesc = prometheus.NewDesc("restic_blob_count_total",
		"Total number of blobs in the repository", nil, nil)
	scrapeDurationDesc = prometheus.NewDesc("restic_scrape_duration_seconds",
		"Duration of the last metrics collection pass in seconds", nil, nil)

	backupTimestampDesc = prometheus.NewDesc("restic_backup_timestamp",
		"Timestamp of the last backup", clientLabels, nil)
	backupSnapshotsTotalDesc = prometheus.NewDesc("restic_backup_snapshots_total",
		"Total number of snapshots of the client", clientLabels, nil)
	backupFilesTotalDesc = prometheus.NewDesc("restic_backup_files_total",
		"Number of files in the last backup", clientLabels, nil)
	backupSizeTotalDesc = prometheus.NewDesc("restic_backup_size_total",
		"Total size of the last backup in bytes", clientLabels, nil)
	backupFilesNewDesc = prometheus.NewDesc("restic_backup_files_new",
		"Number of new files in the last backup", clientLabels, nil)
	backupFilesChangedDesc = prometheus.NewDesc("restic_backup_files_changed",
		"Number of changed files in the last backup", clientLabels, nil)
	backupFilesUnmodifiedDesc = prometheus.NewDesc("restic_backup_files_unmodified",
		"Number of unmodified files in the last backup", clientLabels, nil)
	backupDirsNewDesc = prometheus.NewDesc("restic_backup_dirs_new",
		"Number of new directories in the last backup", clientLabels, nil)
	backupDirsChangedDesc = prometheus.NewDesc("restic_backup_dirs_changed",
		"Number of changed directories in the last backup", clientLabels, nil)
	backupDirsUnmodifiedDesc = prometheus.NewDesc("restic_backup_dirs_unmodified",
		"Number of unmodified directories in the last backup", clientLabels, nil)
	backupDataAddedDesc = prometheus.NewDesc("restic_backup_data_added_bytes",
		"Amount of data added by the last backup in bytes", clientLabels, nil)
	backupDurationDesc = prometheus.NewDesc("restic_backup_duration_seconds",
		"Duration of the last backup in seconds", clientLabels, nil)

	retentionExpectedDesc = prometheus.NewDesc("restic_retention_expected",
		"Number of backups the retention policy expects for the category",
		[]string{"category"}, nil)
	retentionFoundDesc = prometheus.NewDesc("restic_retention_found",
		"Number of backups found for the retention category",
		[]string{"category"}, nil)
	retentionSatisfiedDesc = prometheus.NewDesc("restic_retention_satisfied",
		"Whether the retention category is satisfied (1) or violated (0)",
		[]string{"category"}, nil)
)

// Collector exposes the last published MetricsSnapshot as const metrics.
// Before the first successful refresh it yields nothing, so the
// exposition shows only process and HTTP metrics until data exists.
type Collector struct {
	exporter *Exporter
}

// NewCollector creates a Collector over the exporter's published state.
func NewCollector(e *Exporter) *Collector {
	return &Collector{exporter: e}
}

// Describe is intentionally empty: the collector is unchecked because
// the per-client series set varies between refreshes.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {}

// Collect emits the published snapshot.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.exporter.Current()
	if m == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(checkSuccessDesc, prometheus.GaugeValue, float64(m.CheckSuccess))
	ch <- prometheus.MustNewConstMetric(locksTotalDesc, prometheus.CounterValue, float64(m.LocksTotal))
	ch <- prometheus.MustNewConstMetric(snapshotsTotalDesc, prometheus.CounterValue, float64(m.SnapshotsTotal))
	ch <- prometheus.MustNewConstMetric(sizeTotalDesc, prometheus.GaugeValue, float64(m.GlobalStats.TotalSize))
	ch <- prometheus.MustNewConstMetric(uncompressedSizeTotalDesc, prometheus.GaugeValue, float64(m.GlobalStats.TotalUncompressedSize))
	ch <- prometheus.MustNewConstMetric(compressionRatioDesc, prometheus.GaugeValue, m.GlobalStats.CompressionRatio)
	ch <- prometheus.MustNewConstMetric(blobCountTotalDesc, prometheus.GaugeValue, float64(m.GlobalStats.TotalBlobCount))
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, m.Duration)

	for _, client := range m.Clients {
		labels := []string{
			client.Hostname,
			client.Username,
			client.Version,
			client.Hash,
			client.Tag,
			client.Tags,
			client.Paths,
		}
		// Gauge, not counter: pruning can drop a client's latest snapshot
		// and move its timestamp backwards.
		ch <- prometheus.MustNewConstMetric(backupTimestampDesc, prometheus.GaugeValue, float64(client.Timestamp), labels...)
		ch <- prometheus.MustNewConstMetric(backupSnapshotsTotalDesc, prometheus.CounterValue, float64(client.SnapshotsTotal), labels...)
		ch <- prometheus.MustNewConstMetric(backupFilesTotalDesc, prometheus.CounterValue, float64(client.Stats.TotalFileCount), labels...)
		ch <- prometheus.MustNewConstMetric(backupSizeTotalDesc, prometheus.CounterValue, float64(client.Stats.TotalSize), labels...)
		ch <- prometheus.MustNewConstMetric(backupFilesNewDesc, prometheus.GaugeValue, float64(client.Stats.FilesNew), labels...)
		ch <- prometheus.MustNewConstMetric(backupFilesChangedDesc, prometheus.GaugeValue, float64(client.Stats.FilesChanged), labels...)
		ch <- prometheus.MustNewConstMetric(backupFilesUnmodifiedDesc, prometheus.GaugeValue, float64(client.Stats.FilesUnmodified), labels...)
		ch <- prometheus.MustNewConstMetric(backupDirsNewDesc, prometheus.GaugeValue, float64(client.Stats.DirsNew), labels...)
		ch <- prometheus.MustNewConstMetric(backupDirsChangedDesc, prometheus.GaugeValue, float64(client.Stats.DirsChanged), labels...)
		ch <- prometheus.MustNewConstMetric(backupDirsUnmodifiedDesc, prometheus.GaugeValue, float64(client.Stats.DirsUnmodified), labels...)
		ch <- prometheus.MustNewConstMetric(backupDataAddedDesc, prometheus.GaugeValue, float64(client.Stats.DataAdded), labels...)
		ch <- prometheus.MustNewConstMetric(backupDurationDesc, prometheus.GaugeValue, client.Stats.Duration, labels...)
	}

	for _, bucket := range m.RetentionBuckets {
		satisfied := 0.0
		if bucket.Satisfied {
			satisfied = 1.0
		}
		ch <- prometheus.MustNewConstMetric(retentionExpectedDesc, prometheus.GaugeValue, float64(bucket.ExpectedCount), bucket.Category)
		ch <- prometheus.MustNewConstMetric(retentionFoundDesc, prometheus.GaugeValue, float64(bucket.FoundCount), bucket.Category)
		ch <- prometheus.MustNewConstMetric(retentionSatisfiedDesc, prometheus.GaugeValue, satisfied, bucket.Category)
	}
}
