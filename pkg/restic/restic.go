package restic

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/resticmon/resticmon/pkg/errors"
)

// lockLine matches one lock id per line in `restic list locks` output.
var lockLine = regexp.MustCompile(`^[a-z0-9]+$`)

// Runner executes the restic binary with the given arguments and returns
// its stdout, stderr, and exit code. A non-nil error means the process
// could not be run at all; a non-zero exit is not an error at this level.
type Runner func(ctx context.Context, args ...string) (stdout, stderr []byte, exitCode int, err error)

// CLI issues queries against a restic repository through the restic
// binary. Repository location and credentials come from the standard
// restic environment variables (RESTIC_REPOSITORY, RESTIC_PASSWORD, ...).
//
// Every invocation passes --no-lock. Calls must not run concurrently
// against the same repository: restic's server-side locking state can be
// corrupted by overlapping check/stats/snapshots invocations, so callers
// are expected to serialize.
type CLI struct {
	// Runner executes the restic process. If nil, the real binary is
	// resolved from PATH and executed.
	Runner Runner

	// InsecureTLS appends --insecure-tls to every invocation.
	InsecureTLS bool
}

// ListSnapshots returns the decoded records from `restic snapshots --json`.
// With onlyLatest, restic is asked for the newest snapshot per host/path
// group (--latest 1).
func (c *CLI) ListSnapshots(ctx context.Context, onlyLatest bool) ([]RawSnapshot, error) {
	args := []string{"--no-lock", "snapshots", "--json"}
	if onlyLatest {
		args = append(args, "--latest", "1")
	}
	if c.InsecureTLS {
		args = append(args, "--insecure-tls")
	}

	out, err := c.run(ctx, "snapshot", args)
	if err != nil {
		return nil, err
	}

	var records []RawSnapshot
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, errors.NewCommandError("snapshot", -1, "", err)
	}

	slog.Debug("listed snapshots", "count", len(records), "onlyLatest", onlyLatest)
	return records, nil
}

// Stats returns per-snapshot statistics from `restic stats --json <id>`.
// This call is expensive (seconds per snapshot); callers memoize.
func (c *CLI) Stats(ctx context.Context, snapshotID string) (RawStats, error) {
	args := []string{"--no-lock", "stats", "--json"}
	if c.InsecureTLS {
		args = append(args, "--insecure-tls")
	}
	args = append(args, snapshotID)

	out, err := c.run(ctx, "stats", args)
	if err != nil {
		return RawStats{}, err
	}

	var stats RawStats
	if err := json.Unmarshal(out, &stats); err != nil {
		return RawStats{}, errors.NewCommandError("stats", -1, "", err)
	}
	return stats, nil
}

// GlobalStats returns repository-wide statistics from
// `restic stats --json --mode raw-data`.
func (c *CLI) GlobalStats(ctx context.Context) (RawGlobalStats, error) {
	args := []string{"--no-lock", "stats", "--json", "--mode", "raw-data"}
	if c.InsecureTLS {
		args = append(args, "--insecure-tls")
	}

	out, err := c.run(ctx, "stats", args)
	if err != nil {
		return RawGlobalStats{}, err
	}

	var stats RawGlobalStats
	if err := json.Unmarshal(out, &stats); err != nil {
		return RawGlobalStats{}, errors.NewCommandError("stats", -1, "", err)
	}
	return stats, nil
}

// Check runs `restic check` and reports whether the repository passed.
// A failed check is logged and reported as false, never as an error:
// repository corruption is a metric, not a reason to stop exporting.
func (c *CLI) Check(ctx context.Context) bool {
	args := []string{"--no-lock", "check"}
	if c.InsecureTLS {
		args = append(args, "--insecure-tls")
	}

	_, stderr, code, err := c.exec(ctx, args)
	if err != nil {
		slog.Warn("error checking the repository health", "error", err)
		return false
	}
	if code != 0 {
		slog.Warn("error checking the repository health",
			"stderr", flatten(stderr), "exitCode", code)
		return false
	}
	return true
}

// Locks counts the locks currently held on the repository. Only stdout
// lines that look like lock ids are counted; anything else restic prints
// is ignored.
func (c *CLI) Locks(ctx context.Context) (int, error) {
	args := []string{"--no-lock", "list", "locks"}
	if c.InsecureTLS {
		args = append(args, "--insecure-tls")
	}

	out, err := c.run(ctx, "list locks", args)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, line := range strings.Split(string(out), "\n") {
		if lockLine.MatchString(line) {
			count++
		}
	}
	return count, nil
}

// run executes restic and returns stdout, converting any failure into a
// CommandError tagged with the given subcommand name.
func (c *CLI) run(ctx context.Context, command string, args []string) ([]byte, error) {
	stdout, stderr, code, err := c.exec(ctx, args)
	if err != nil {
		return nil, errors.NewCommandError(command, -1, "", err)
	}
	if code != 0 {
		return nil, errors.NewCommandError(command, code, string(stderr), nil)
	}
	return stdout, nil
}

func (c *CLI) exec(ctx context.Context, args []string) (stdout, stderr []byte, exitCode int, err error) {
	if c.Runner != nil {
		return c.Runner(ctx, args...)
	}
	return runResticBinary(ctx, args...)
}

// runResticBinary is the production Runner: it resolves restic from PATH
// and executes it, capturing stdout and stderr separately.
func runResticBinary(ctx context.Context, args ...string) ([]byte, []byte, int, error) {
	path, err := exec.LookPath("restic")
	if err != nil {
		return nil, nil, -1, err
	}

	var outBuf, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			return outBuf.Bytes(), errBuf.Bytes(), exitErr.ExitCode(), nil
		}
		return nil, nil, -1, runErr
	}
	return outBuf.Bytes(), errBuf.Bytes(), 0, nil
}

func flatten(b []byte) string {
	return strings.ReplaceAll(strings.TrimSpace(string(b)), "\n", " ")
}
