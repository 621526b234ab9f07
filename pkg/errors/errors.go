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

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// CommandError reports a restic invocation that exited non-zero or
// produced output that could not be decoded. It aborts the refresh pass
// that issued the command.
type CommandError struct {
	// Command is the restic subcommand that failed (e.g. "snapshots").
	Command string
	// ExitCode is the process exit code, or -1 when the process could
	// not be started or its output could not be decoded.
	ExitCode int
	// Stderr is the captured standard error, newlines flattened.
	Stderr string
	// Cause is the underlying execution or decode error, if any.
	Cause error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("error executing restic %s command: %s Exit code: %d",
		e.Command, strings.ReplaceAll(e.Stderr, "\n", " "), e.ExitCode)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// NewCommandError creates a CommandError for the given restic subcommand.
func NewCommandError(command string, exitCode int, stderr string, cause error) *CommandError {
	return &CommandError{
		Command:  command,
		ExitCode: exitCode,
		Stderr:   stderr,
		Cause:    cause,
	}
}

// MalformedDataError reports a raw snapshot record missing a required
// field. It aborts the refresh pass; partial records are never published.
type MalformedDataError struct {
	// Field is the missing required field name.
	Field string
}

// Error implements the error interface.
func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed snapshot record: required field %q is missing", e.Field)
}

// NewMalformedDataError creates a MalformedDataError for the given field.
func NewMalformedDataError(field string) *MalformedDataError {
	return &MalformedDataError{Field: field}
}

// TimestampParseError reports a snapshot timestamp that no parser
// strategy accepted. The last strategy's error is surfaced verbatim.
type TimestampParseError struct {
	// Value is the timestamp string that failed to parse.
	Value string
	// Cause is the error returned by the last parser strategy.
	Cause error
}

// Error implements the error interface.
func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("unable to parse snapshot timestamp %q: %v", e.Value, e.Cause)
}

// Unwrap returns the last strategy's error for errors.Is and errors.As
// support.
func (e *TimestampParseError) Unwrap() error {
	return e.Cause
}

// NewTimestampParseError creates a TimestampParseError for the given value.
func NewTimestampParseError(value string, cause error) *TimestampParseError {
	return &TimestampParseError{Value: value, Cause: cause}
}

// IsCommandError reports whether err is (or wraps) a CommandError.
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}
