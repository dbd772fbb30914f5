// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DataDir   string // Base directory for all databases (always absolute)
	Port      int
	LogLevel  string
	LogPretty bool
	DevMode   bool
	DBDriver  string // "sqlite" (modernc, default) or "sqlite3" (mattn)

	Analytics   AnalyticsConfig   `yaml:"analytics"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Backup      BackupConfig      `yaml:"backup"`
}

// AnalyticsConfig holds defaults applied to requests that leave them out
type AnalyticsConfig struct {
	Benchmark            string  `yaml:"benchmark"`
	InitialCapital       float64 `yaml:"initial_capital"`
	MaxConcurrentFetches int     `yaml:"max_concurrent_fetches"`
}

// MaintenanceConfig holds the background job schedules (standard 5-field cron)
type MaintenanceConfig struct {
	WALCheckpointSchedule  string `yaml:"wal_checkpoint_schedule"`
	PriceRetentionSchedule string `yaml:"price_retention_schedule"`
	PriceRetentionYears    int    `yaml:"price_retention_years"` // 0 keeps everything
}

// BackupConfig configures archive uploads of market.db to an S3-compatible bucket.
// Backups are off unless a bucket is set.
type BackupConfig struct {
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"` // 0 keeps every archive
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	Endpoint      string `yaml:"endpoint"` // custom endpoint for R2, MinIO and friends
	Region        string `yaml:"region"`

	// Credentials come from the environment only
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// Enabled reports whether a destination bucket is configured
func (b BackupConfig) Enabled() bool {
	return b.Bucket != ""
}

// overlay is the YAML file layout; only these sections may be overridden
type overlay struct {
	Analytics   *AnalyticsConfig   `yaml:"analytics"`
	Maintenance *MaintenanceConfig `yaml:"maintenance"`
	Backup      *BackupConfig      `yaml:"backup"`
}

// Defaults returns the configuration used when nothing is overridden
func Defaults() *Config {
	return &Config{
		DataDir:  "./data",
		Port:     8010,
		LogLevel: "info",
		DBDriver: "sqlite",
		Analytics: AnalyticsConfig{
			Benchmark:            "SPY",
			InitialCapital:       10_000,
			MaxConcurrentFetches: 8,
		},
		Maintenance: MaintenanceConfig{
			WALCheckpointSchedule:  "*/30 * * * *",
			PriceRetentionSchedule: "0 3 * * 0",
			PriceRetentionYears:    25,
		},
		Backup: BackupConfig{
			Schedule:      "0 2 * * *",
			RetentionDays: 30,
			Region:        "auto",
		},
	}
}

// Load reads configuration from .env, environment variables and the optional
// YAML file named by AXIOME_CONFIG, in that order of increasing precedence for
// the analytics, maintenance and backup sections.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Defaults()
	cfg.DataDir = getEnv("AXIOME_DATA_DIR", cfg.DataDir)
	cfg.Port = getEnvAsInt("AXIOME_PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = getEnvAsBool("LOG_PRETTY", cfg.LogPretty)
	cfg.DevMode = getEnvAsBool("DEV_MODE", cfg.DevMode)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)

	cfg.Backup.Bucket = getEnv("AXIOME_BACKUP_BUCKET", cfg.Backup.Bucket)
	cfg.Backup.Endpoint = getEnv("AXIOME_BACKUP_ENDPOINT", cfg.Backup.Endpoint)
	cfg.Backup.Region = getEnv("AXIOME_BACKUP_REGION", cfg.Backup.Region)
	cfg.Backup.AccessKeyID = getEnv("AXIOME_BACKUP_ACCESS_KEY_ID", cfg.Backup.AccessKeyID)
	cfg.Backup.SecretAccessKey = getEnv("AXIOME_BACKUP_SECRET_ACCESS_KEY", cfg.Backup.SecretAccessKey)

	if path := getEnv("AXIOME_CONFIG", ""); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
	}

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	cfg.DataDir = absDataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// ApplyFile overlays the analytics, maintenance and backup sections of a YAML file.
// Keys missing from the file keep their current values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return c.ApplyYAML(data)
}

// ApplyYAML overlays YAML content onto c
func (c *Config) ApplyYAML(data []byte) error {
	o := overlay{Analytics: &c.Analytics, Maintenance: &c.Maintenance, Backup: &c.Backup}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.DBDriver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or sqlite3)", c.DBDriver)
	}
	if c.Analytics.Benchmark == "" {
		return fmt.Errorf("analytics.benchmark must not be empty")
	}
	if c.Analytics.InitialCapital <= 0 {
		return fmt.Errorf("analytics.initial_capital must be positive, got %v", c.Analytics.InitialCapital)
	}
	if c.Analytics.MaxConcurrentFetches < 1 {
		return fmt.Errorf("analytics.max_concurrent_fetches must be at least 1, got %d", c.Analytics.MaxConcurrentFetches)
	}
	if c.Maintenance.PriceRetentionYears < 0 {
		return fmt.Errorf("maintenance.price_retention_years must not be negative")
	}
	if c.Backup.RetentionDays < 0 {
		return fmt.Errorf("backup.retention_days must not be negative")
	}
	if c.Backup.Enabled() && (c.Backup.AccessKeyID == "") != (c.Backup.SecretAccessKey == "") {
		return fmt.Errorf("backup credentials need both AXIOME_BACKUP_ACCESS_KEY_ID and AXIOME_BACKUP_SECRET_ACCESS_KEY")
	}

	for name, spec := range map[string]string{
		"wal_checkpoint_schedule":  c.Maintenance.WALCheckpointSchedule,
		"price_retention_schedule": c.Maintenance.PriceRetentionSchedule,
	} {
		if spec == "" {
			continue // disabled
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("maintenance.%s: %w", name, err)
		}
	}
	if c.Backup.Schedule != "" {
		if _, err := cron.ParseStandard(c.Backup.Schedule); err != nil {
			return fmt.Errorf("backup.schedule: %w", err)
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
