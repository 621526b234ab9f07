/*
Copyright © 2025 the Resticmon authors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the resticmond command tree: the serve daemon
// plus one-off snapshots, retention, and version commands.
package cli
