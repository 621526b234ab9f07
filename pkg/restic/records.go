package restic

// RawSnapshot is one record from `restic snapshots --json`, decoded as-is.
// Field presence varies across restic versions; normalization applies the
// documented defaults.
type RawSnapshot struct {
	Time           string      `json:"time"`
	Hostname       string      `json:"hostname"`
	Username       string      `json:"username"`
	Paths          []string    `json:"paths"`
	ID             string      `json:"id"`
	ShortID        string      `json:"short_id"`
	Tags           []string    `json:"tags"`
	ProgramVersion string      `json:"program_version"`
	Summary        *RawSummary `json:"summary,omitempty"`
}

// RawSummary is the per-snapshot backup summary embedded by restic >= 0.17.
// Counts are pointers so that a missing field is distinguishable from zero.
type RawSummary struct {
	BackupStart         string `json:"backup_start"`
	BackupEnd           string `json:"backup_end"`
	FilesNew            *int64 `json:"files_new"`
	FilesChanged        *int64 `json:"files_changed"`
	FilesUnmodified     *int64 `json:"files_unmodified"`
	DirsNew             *int64 `json:"dirs_new"`
	DirsChanged         *int64 `json:"dirs_changed"`
	DirsUnmodified      *int64 `json:"dirs_unmodified"`
	DataAdded           *int64 `json:"data_added"`
	TotalFilesProcessed *int64 `json:"total_files_processed"`
	TotalBytesProcessed *int64 `json:"total_bytes_processed"`
}

// RawStats is the output of `restic stats --json` for a single snapshot.
type RawStats struct {
	TotalSize      int64 `json:"total_size"`
	TotalFileCount int64 `json:"total_file_count"`
}

// RawGlobalStats is the output of `restic stats --json --mode raw-data`
// for the whole repository.
type RawGlobalStats struct {
	TotalSize             int64   `json:"total_size"`
	TotalUncompressedSize int64   `json:"total_uncompressed_size"`
	CompressionRatio      float64 `json:"compression_ratio"`
	TotalBlobCount        int64   `json:"total_blob_count"`
	SnapshotsCount        int64   `json:"snapshots_count"`
}
