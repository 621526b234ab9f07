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

// Package server implements the HTTP surface of the exporter.
//
// # Endpoints
//
// GET /metrics - Prometheus exposition of the backup metrics plus the
// server's own request metrics.
//
// GET /health - Liveness probe, always 200 once the process serves.
//
// GET /ready - Readiness probe. Returns 503 until the first successful
// metrics refresh has been published, so scrapers and orchestrators do
// not route to an exporter that has nothing to report yet.
//
// GET / - Service index with name, version, and routes.
//
// # Middleware
//
// The exposition endpoint is wrapped with request ID tracking (uuid),
// panic recovery, token bucket rate limiting (golang.org/x/time/rate),
// request logging, and RED metrics instrumentation.
package server
