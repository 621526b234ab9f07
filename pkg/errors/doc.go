// Package errors provides the typed error taxonomy used by the refresh
// pipeline: command execution failures, malformed collaborator records,
// and unparsable timestamps. Callers branch on these types with errors.As;
// any of them aborts the in-flight refresh pass without publishing a
// partial metrics snapshot.
package errors
