package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.ListenAddress)
	assert.Equal(t, 8001, cfg.ListenPort)
	assert.Equal(t, 60*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.NoCheck)
	assert.False(t, cfg.ExitOnError)
	assert.Equal(t, "SLA", cfg.Retention.SLATag)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvListenAddress, "127.0.0.1")
	t.Setenv(EnvListenPort, "9100")
	t.Setenv(EnvRefreshInterval, "300")
	t.Setenv(EnvNoCheck, "1")
	t.Setenv(EnvNoLegacyStats, "true")
	t.Setenv(EnvIncludePaths, "1")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.ListenAddress)
	assert.Equal(t, 9100, cfg.ListenPort)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.True(t, cfg.NoCheck)
	assert.True(t, cfg.NoLegacyStats)
	assert.True(t, cfg.IncludePaths)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"port not a number", EnvListenPort, "http"},
		{"port out of range", EnvListenPort, "70000"},
		{"interval zero", EnvRefreshInterval, "0"},
		{"interval negative", EnvRefreshInterval, "-5"},
		{"bool garbage", EnvNoCheck, "maybe"},
		{"bool bare integer", EnvNoCheck, "2"},
		{"bool yes", EnvIncludePaths, "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	clearRepoEnv(t)

	err := Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvRepository)

	t.Setenv(EnvRepository, "/backups/repo")
	err = Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvPassword)

	t.Setenv(EnvPasswordFile, "/etc/restic/password")
	assert.NoError(t, Validate())
}

func TestValidateRejectsRemovedName(t *testing.T) {
	clearRepoEnv(t)
	t.Setenv(EnvRepository, "/backups/repo")
	t.Setenv(EnvPassword, "secret")
	t.Setenv(envNoStats, "1")

	err := Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvNoLegacyStats)
}

func TestLoadRetentionPolicy(t *testing.T) {
	doc := `
limits:
  daily: 7
  weekly: 4
expectedHours: [0, 6, 12, 18]
slaTag: sla-prod
`
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	policy, err := LoadRetentionPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, 7, policy.Limits["daily"])
	assert.Equal(t, 4, policy.Limits["weekly"])
	assert.Equal(t, []int{0, 6, 12, 18}, policy.ExpectedHours)
	assert.Equal(t, "sla-prod", policy.SLATag)
	// Absent fields keep their defaults.
	assert.Equal(t, []string{"manual", "pre-restore"}, policy.ManualTags)
}

func TestLoadRetentionPolicyErrors(t *testing.T) {
	_, err := LoadRetentionPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits: [not, a, map]"), 0o600))
	_, err = LoadRetentionPolicy(path)
	assert.Error(t, err)
}

func clearRepoEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvRepository, EnvPassword, EnvPasswordFile, EnvPasswordCommand, envNoStats} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}
