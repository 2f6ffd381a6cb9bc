package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/celiapp/catalog/internal/domain"
	"github.com/celiapp/catalog/internal/usecase"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Matching  MatchingConfig
	Pipeline  PipelineConfig
	Sheet     SheetConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MatchingConfig holds the entity-resolution thresholds and policies
type MatchingConfig struct {
	DuplicateMode           string   `mapstructure:"duplicate_mode"` // "exact" or "fuzzy"
	ClusterPolicy           string   `mapstructure:"cluster_policy"` // "star" or "transitive"
	FuzzyDuplicateThreshold float64  `mapstructure:"fuzzy_duplicate_threshold"`
	BackupThreshold         float64  `mapstructure:"backup_threshold"`
	ReconciliationFields    []string `mapstructure:"reconciliation_fields"`
	PrimarySource           string   `mapstructure:"primary_source"`
}

// PipelineConfig toggles the optional pipeline stages
type PipelineConfig struct {
	FillProductNames  bool `mapstructure:"fill_product_names"`
	ConsolidateBrands bool `mapstructure:"consolidate_brands"`
	RemoveDuplicates  bool `mapstructure:"remove_duplicates"`
	RestoreFromBackup bool `mapstructure:"restore_from_backup"`
}

// SheetConfig locates the catalog and backup worksheets
type SheetConfig struct {
	Path         string `mapstructure:"path"`
	Name         string `mapstructure:"name"`
	BackupPath   string `mapstructure:"backup_path"`
	BackupName   string `mapstructure:"backup_name"`
	SnapshotName string `mapstructure:"snapshot_name"`
}

// StoreConfig holds run-report store configuration
type StoreConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "bolt"
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LogConfig holds logging configuration
type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration like Load, reading the given config file
// instead of searching the default paths when path is not empty
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		// An explicitly requested file must exist
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		// Set config name and paths
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/catalog/")
	}

	// Environment variable settings
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Matching defaults
	v.SetDefault("matching.duplicate_mode", "exact")
	v.SetDefault("matching.cluster_policy", "star")
	v.SetDefault("matching.fuzzy_duplicate_threshold", 0.9)
	v.SetDefault("matching.backup_threshold", 0.85)
	v.SetDefault("matching.reconciliation_fields", []string{"brand_name", "product_name"})
	v.SetDefault("matching.primary_source", "LCBO")

	// Pipeline defaults
	v.SetDefault("pipeline.fill_product_names", false)
	v.SetDefault("pipeline.consolidate_brands", false)
	v.SetDefault("pipeline.remove_duplicates", true)
	v.SetDefault("pipeline.restore_from_backup", true)

	// Sheet defaults
	v.SetDefault("sheet.path", "")
	v.SetDefault("sheet.name", "")
	v.SetDefault("sheet.backup_path", "")
	v.SetDefault("sheet.backup_name", "")
	v.SetDefault("sheet.snapshot_name", "")

	// Store defaults
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.path", "")
	v.SetDefault("store.ttl", "720h") // 30 days

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("log.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	switch usecase.DuplicateMode(config.Matching.DuplicateMode) {
	case usecase.DuplicateModeExact, usecase.DuplicateModeFuzzy:
	default:
		return fmt.Errorf("duplicate mode must be 'exact' or 'fuzzy', got: %s", config.Matching.DuplicateMode)
	}

	switch usecase.ClusterPolicy(config.Matching.ClusterPolicy) {
	case usecase.ClusterPolicyStar, usecase.ClusterPolicyTransitive:
	default:
		return fmt.Errorf("cluster policy must be 'star' or 'transitive', got: %s", config.Matching.ClusterPolicy)
	}

	if t := config.Matching.FuzzyDuplicateThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("fuzzy duplicate threshold must be in (0, 1], got: %v", t)
	}
	if t := config.Matching.BackupThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("backup threshold must be in (0, 1], got: %v", t)
	}

	if len(config.Matching.ReconciliationFields) == 0 {
		return fmt.Errorf("at least one reconciliation field is required")
	}
	for _, name := range config.Matching.ReconciliationFields {
		if _, ok := domain.ParseField(name); !ok {
			return fmt.Errorf("unknown reconciliation field: %s", name)
		}
	}

	if config.Store.Type != "memory" && config.Store.Type != "bolt" {
		return fmt.Errorf("store type must be 'memory' or 'bolt', got: %s", config.Store.Type)
	}

	if config.Store.Type == "bolt" && config.Store.Path == "" {
		return fmt.Errorf("store path is required when store type is 'bolt'")
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// Engine returns the matching configuration for the catalog engine
func (c *Config) Engine() usecase.EngineConfig {
	fields := make([]domain.Field, 0, len(c.Matching.ReconciliationFields))
	for _, name := range c.Matching.ReconciliationFields {
		if f, ok := domain.ParseField(name); ok {
			fields = append(fields, f)
		}
	}

	return usecase.EngineConfig{
		DuplicateMode:           usecase.DuplicateMode(c.Matching.DuplicateMode),
		ClusterPolicy:           usecase.ClusterPolicy(c.Matching.ClusterPolicy),
		FuzzyDuplicateThreshold: c.Matching.FuzzyDuplicateThreshold,
		BackupThreshold:         c.Matching.BackupThreshold,
		ReconciliationFields:    fields,
		PrimarySource:           c.Matching.PrimarySource,
	}
}

// PipelineOptions returns the configured pipeline stages
func (c *Config) PipelineOptions() usecase.PipelineOptions {
	return usecase.PipelineOptions{
		FillProductNames:  c.Pipeline.FillProductNames,
		ConsolidateBrands: c.Pipeline.ConsolidateBrands,
		RemoveDuplicates:  c.Pipeline.RemoveDuplicates,
		RestoreFromBackup: c.Pipeline.RestoreFromBackup,
	}
}

// CatalogService returns the catalog service configuration
func (c *Config) CatalogService() usecase.CatalogServiceConfig {
	return usecase.CatalogServiceConfig{
		Engine:             c.Engine(),
		Pipeline:           c.PipelineOptions(),
		EnableDebugLogging: c.Log.Debug,
	}
}
