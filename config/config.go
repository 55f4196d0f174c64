// Package config loads the Cx gateway's configuration (§6) from defaults, a
// YAML file, and environment variables, in that order of increasing
// precedence (defaults only fill fields left unset), following the viper + mapstructure pattern used elsewhere in
// the retrieved corpus for config-struct-of-substructs loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the root configuration struct. Each field group corresponds to
// one subsystem; mapstructure/yaml tags drive both file and env binding.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	HSS       HSSConfig       `mapstructure:"hss" yaml:"hss"`
	Router    RouterConfig    `mapstructure:"router" yaml:"router"`
}

// ServerConfig is the HTTP listen address the router-facing surface binds.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// LoggingConfig controls the zap logger built in cmd/server.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // json, console
}

// MetricsConfig controls the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" yaml:"port"`
}

// TelemetryConfig controls OpenTelemetry trace export (§9's "trace IDs
// double as the SAS trail" note).
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	Exporter    string `mapstructure:"exporter" yaml:"exporter"` // stdout, otlp
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint"` // otlp collector address
}

// CacheConfig selects and configures C1's backend (§4.1, §6).
type CacheConfig struct {
	// Backend is "redis" or "badger". Empty defaults to badger; any other
	// value is rejected by Validate.
	Backend     string        `mapstructure:"backend" yaml:"backend"`
	WorkerCount int           `mapstructure:"worker_count" yaml:"worker_count"`
	QueueDepth  int           `mapstructure:"queue_depth" yaml:"queue_depth"`
	RecordTTL   time.Duration `mapstructure:"record_ttl" yaml:"record_ttl"`

	Redis  RedisConfig  `mapstructure:"redis" yaml:"redis"`
	Badger BadgerConfig `mapstructure:"badger" yaml:"badger"`
}

// RedisConfig configures cache/redisbackend.
type RedisConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr"`
	Password  string `mapstructure:"password" yaml:"password"`
	DB        int    `mapstructure:"db" yaml:"db"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
}

// BadgerConfig configures cache/badgerbackend.
type BadgerConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// HSSConfig is §6's hss_configured block and the rest of the HSS-facing
// configuration it gates.
type HSSConfig struct {
	// Configured selects the live Diameter connection (internal/hss) when
	// true, or the Postgres provisioning-store fallback (internal/hss/fallback,
	// OQ-4) when false.
	Configured            bool          `mapstructure:"hss_configured" yaml:"hss_configured"`
	DiameterTimeout       time.Duration `mapstructure:"diameter_timeout" yaml:"diameter_timeout"`
	Realm                 string        `mapstructure:"realm" yaml:"realm"`
	HSSReregistrationTime time.Duration `mapstructure:"hss_reregistration_time" yaml:"hss_reregistration_time"`
	SupportSharedIFCs     bool          `mapstructure:"support_shared_ifcs" yaml:"support_shared_ifcs"`

	Schemes  SchemesConfig  `mapstructure:"schemes" yaml:"schemes"`
	Fallback FallbackConfig `mapstructure:"fallback" yaml:"fallback"`
}

// SchemesConfig is §6's scheme_digest/scheme_akav1/scheme_akav2/scheme_unknown.
type SchemesConfig struct {
	Digest  string `mapstructure:"digest" yaml:"digest"`
	AKAv1   string `mapstructure:"akav1" yaml:"akav1"`
	AKAv2   string `mapstructure:"akav2" yaml:"akav2"`
	Unknown string `mapstructure:"unknown" yaml:"unknown"`
}

// FallbackConfig configures hss/fallback's Postgres provisioning store.
type FallbackConfig struct {
	DSN        string `mapstructure:"dsn" yaml:"dsn"`
	ServerName string `mapstructure:"server_name" yaml:"server_name"`
}

// RouterConfig configures C5's outbound client (§4.5).
type RouterConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Load reads configuration from configPath (if non-empty and present), then
// CX_-prefixed environment variables, then defaults for anything left
// unset. A missing config file is not an error: defaults and env vars are
// enough to run.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations ApplyDefaults cannot repair on its own.
func Validate(cfg *Config) error {
	switch cfg.Cache.Backend {
	case "redis", "badger":
	default:
		return fmt.Errorf("config: cache.backend must be %q or %q, got %q", "redis", "badger", cfg.Cache.Backend)
	}
	if !cfg.HSS.Configured && cfg.HSS.Fallback.DSN == "" {
		return errors.New("config: hss.fallback.dsn is required when hss.hss_configured is false")
	}
	return nil
}

// MustLoad is Load, panicking on error. cmd/server uses this during
// bootstrap, where a config error is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("CX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/cx-gateway")
}

func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || os.IsNotExist(err) {
		return nil
	}
	return err
}

// ServerAddr returns the HTTP listen address in host:port form.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
