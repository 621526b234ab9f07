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

// Package exporter assembles backup metrics from a restic repository and
// exposes them as Prometheus const metrics.
//
// The Exporter runs sequential collection passes against the repository
// and publishes each completed pass with an atomic pointer swap; readers
// always see either the previous complete snapshot or the new one, never
// a partial state. The Collector reads whatever snapshot is published at
// scrape time.
package exporter
