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

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/resticmon/resticmon/pkg/retention"
)

// Environment variable names understood by Load and Validate.
const (
	EnvListenAddress   = "LISTEN_ADDRESS"
	EnvListenPort      = "LISTEN_PORT"
	EnvRefreshInterval = "REFRESH_INTERVAL"
	EnvExitOnError     = "EXIT_ON_ERROR"
	EnvNoCheck         = "NO_CHECK"
	EnvNoGlobalStats   = "NO_GLOBAL_STATS"
	EnvNoLegacyStats   = "NO_LEGACY_STATS"
	EnvNoLocks         = "NO_LOCKS"
	EnvIncludePaths    = "INCLUDE_PATHS"
	EnvInsecureTLS     = "INSECURE_TLS"
	EnvLogLevel        = "LOG_LEVEL"
	EnvRetentionPolicy = "RETENTION_POLICY_FILE"

	EnvRepository      = "RESTIC_REPOSITORY"
	EnvPassword        = "RESTIC_PASSWORD"
	EnvPasswordFile    = "RESTIC_PASSWORD_FILE"
	EnvPasswordCommand = "RESTIC_PASSWORD_COMMAND"

	// envNoStats is the removed name of envNoLegacyStats. It is rejected
	// outright so a stale deployment fails loudly instead of silently
	// collecting per-snapshot stats again.
	envNoStats = "NO_STATS"
)

// Config holds exporter configuration.
type Config struct {
	// Listen address and port for the metrics server.
	ListenAddress string
	ListenPort    int

	// RefreshInterval is the pause between collection passes.
	RefreshInterval time.Duration

	// ExitOnError terminates the process on the first collection
	// failure instead of retrying on the next tick.
	ExitOnError bool

	// Collection toggles. Each disables one repository query.
	NoCheck       bool
	NoGlobalStats bool
	NoLegacyStats bool
	NoLocks       bool

	// IncludePaths adds the backed-up paths as a metric label.
	IncludePaths bool

	// InsecureTLS skips TLS verification on repository access.
	InsecureTLS bool

	// LogLevel is the minimum level emitted (debug, info, warn, error).
	LogLevel string

	// RetentionPolicyFile optionally points at a YAML policy document.
	RetentionPolicyFile string

	// Retention is the compliance policy, loaded from
	// RetentionPolicyFile when set and defaulted otherwise.
	Retention retention.Policy
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		ListenAddress:   "0.0.0.0",
		ListenPort:      8001,
		RefreshInterval: 60 * time.Second,
		LogLevel:        "info",
		Retention:       retention.DefaultPolicy(),
	}
}

// Load builds a Config from defaults overlaid with environment
// variables, then loads the retention policy file when one is named.
func Load() (*Config, error) {
	cfg := New()

	if v := os.Getenv(EnvListenAddress); v != "" {
		cfg.ListenAddress = v
	}
	if v := os.Getenv(EnvListenPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s value %q", EnvListenPort, v)
		}
		cfg.ListenPort = port
	}
	if v := os.Getenv(EnvRefreshInterval); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds < 1 {
			return nil, fmt.Errorf("invalid %s value %q", EnvRefreshInterval, v)
		}
		cfg.RefreshInterval = time.Duration(seconds) * time.Second
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	cfg.RetentionPolicyFile = os.Getenv(EnvRetentionPolicy)

	var err error
	if cfg.ExitOnError, err = boolEnv(EnvExitOnError); err != nil {
		return nil, err
	}
	if cfg.NoCheck, err = boolEnv(EnvNoCheck); err != nil {
		return nil, err
	}
	if cfg.NoGlobalStats, err = boolEnv(EnvNoGlobalStats); err != nil {
		return nil, err
	}
	if cfg.NoLegacyStats, err = boolEnv(EnvNoLegacyStats); err != nil {
		return nil, err
	}
	if cfg.NoLocks, err = boolEnv(EnvNoLocks); err != nil {
		return nil, err
	}
	if cfg.IncludePaths, err = boolEnv(EnvIncludePaths); err != nil {
		return nil, err
	}
	if cfg.InsecureTLS, err = boolEnv(EnvInsecureTLS); err != nil {
		return nil, err
	}

	if cfg.RetentionPolicyFile != "" {
		policy, err := LoadRetentionPolicy(cfg.RetentionPolicyFile)
		if err != nil {
			return nil, err
		}
		cfg.Retention = policy
	}

	return cfg, nil
}

// Validate checks the repository access environment. The repository
// location and exactly one password source must be present before any
// collection can work, so this fails fast at startup.
func Validate() error {
	if _, set := os.LookupEnv(envNoStats); set {
		return fmt.Errorf("%s was removed, use %s instead", envNoStats, EnvNoLegacyStats)
	}
	if os.Getenv(EnvRepository) == "" {
		return fmt.Errorf("%s is required", EnvRepository)
	}
	if os.Getenv(EnvPassword) == "" &&
		os.Getenv(EnvPasswordFile) == "" &&
		os.Getenv(EnvPasswordCommand) == "" {
		return fmt.Errorf("one of %s, %s or %s is required",
			EnvPassword, EnvPasswordFile, EnvPasswordCommand)
	}
	return nil
}

// LoadRetentionPolicy reads a YAML policy document. Fields absent from
// the document keep their defaults.
func LoadRetentionPolicy(path string) (retention.Policy, error) {
	policy := retention.DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("reading retention policy %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("parsing retention policy %s: %w", path, err)
	}
	return policy, nil
}

// boolEnv interprets an environment variable as a toggle. Unset and
// empty mean false. Values use strconv.ParseBool syntax, the same
// parsing the flag layer applies, so the two never disagree.
func boolEnv(name string) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q", name, v)
	}
	return b, nil
}
