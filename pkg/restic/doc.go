// Package restic wraps the restic command line tool as the single
// external collaborator of the exporter. It builds the argument lists,
// executes the binary, and decodes the JSON output into raw record types;
// all interpretation of those records happens downstream.
package restic
