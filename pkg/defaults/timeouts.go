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

// Package defaults provides centralized timeout constants. Keeping them in
// one place makes tuning easier and avoids magic durations at call sites.
package defaults

import "time"

// HTTP server timeouts.
const (
	// ServerReadTimeout is the maximum duration for reading a request.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// Scrapes of large repositories can emit many series, so this is
	// generous relative to the read timeout.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the keep-alive idle limit.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout bounds graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Collection timeouts. The daemon's refresh loop deliberately has none:
// repository checks on large remote repositories can run for hours and
// a canceled pass would never publish anything.
const (
	// OneShotTimeout bounds single-command CLI invocations that query
	// the repository once and exit.
	OneShotTimeout = 10 * time.Minute
)
