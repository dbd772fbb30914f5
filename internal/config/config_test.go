package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Environment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AXIOME_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("AXIOME_PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("AXIOME_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "SPY", cfg.Analytics.Benchmark)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "axiome.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analytics:
  benchmark: QQQ
  max_concurrent_fetches: 2
maintenance:
  price_retention_years: 10
  wal_checkpoint_schedule: ""
`), 0644))

	t.Setenv("AXIOME_DATA_DIR", dir)
	t.Setenv("AXIOME_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "QQQ", cfg.Analytics.Benchmark)
	assert.Equal(t, 2, cfg.Analytics.MaxConcurrentFetches)
	assert.Equal(t, 10_000.0, cfg.Analytics.InitialCapital, "unset keys keep defaults")
	assert.Equal(t, 10, cfg.Maintenance.PriceRetentionYears)
	assert.Empty(t, cfg.Maintenance.WALCheckpointSchedule)
	assert.Equal(t, "0 3 * * 0", cfg.Maintenance.PriceRetentionSchedule)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("AXIOME_DATA_DIR", t.TempDir())
	t.Setenv("AXIOME_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Port = 0 }, true},
		{"bad driver", func(c *Config) { c.DBDriver = "postgres" }, true},
		{"empty benchmark", func(c *Config) { c.Analytics.Benchmark = "" }, true},
		{"zero capital", func(c *Config) { c.Analytics.InitialCapital = 0 }, true},
		{"zero concurrency", func(c *Config) { c.Analytics.MaxConcurrentFetches = 0 }, true},
		{"negative retention", func(c *Config) { c.Maintenance.PriceRetentionYears = -1 }, true},
		{"bad cron", func(c *Config) { c.Maintenance.WALCheckpointSchedule = "every minute" }, true},
		{"disabled job", func(c *Config) { c.Maintenance.PriceRetentionSchedule = "" }, false},
		{"bad backup cron", func(c *Config) { c.Backup.Schedule = "nightly" }, true},
		{"negative backup retention", func(c *Config) { c.Backup.RetentionDays = -1 }, true},
		{"half credentials", func(c *Config) {
			c.Backup.Bucket = "axiome-backups"
			c.Backup.AccessKeyID = "key"
		}, true},
		{"ambient credentials", func(c *Config) { c.Backup.Bucket = "axiome-backups" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyYAML_Invalid(t *testing.T) {
	cfg := Defaults()
	assert.Error(t, cfg.ApplyYAML([]byte("analytics: [unterminated")))
}

func TestLoad_Backup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "axiome.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backup:
  bucket: axiome-backups
  prefix: prod/
  retention_days: 7
`), 0644))

	t.Setenv("AXIOME_DATA_DIR", dir)
	t.Setenv("AXIOME_CONFIG", path)
	t.Setenv("AXIOME_BACKUP_ENDPOINT", "https://example.r2.cloudflarestorage.com")
	t.Setenv("AXIOME_BACKUP_ACCESS_KEY_ID", "key")
	t.Setenv("AXIOME_BACKUP_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Backup.Enabled())
	assert.Equal(t, "axiome-backups", cfg.Backup.Bucket)
	assert.Equal(t, "prod/", cfg.Backup.Prefix)
	assert.Equal(t, 7, cfg.Backup.RetentionDays)
	assert.Equal(t, "auto", cfg.Backup.Region)
	assert.Equal(t, "0 2 * * *", cfg.Backup.Schedule)
	assert.Equal(t, "https://example.r2.cloudflarestorage.com", cfg.Backup.Endpoint)
	assert.Equal(t, "secret", cfg.Backup.SecretAccessKey)
}

func TestDefaults_BackupDisabled(t *testing.T) {
	assert.False(t, Defaults().Backup.Enabled())
}
