package config

import "time"

// ApplyDefaults fills every field Load left at its zero value with the
// stock §6 value. Explicit file/env values are always preserved.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyCacheDefaults(&cfg.Cache)
	applyHSSDefaults(&cfg.HSS)
	applyRouterDefaults(&cfg.Router)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 7700
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cx-gateway"
	}
	if cfg.Exporter == "" {
		cfg.Exporter = "stdout"
	}
}

// applyCacheDefaults mirrors internal/cache.DefaultProcessorConfig,
// internal/cache/redisbackend.DefaultConfig, and §6's record_ttl.
func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Backend == "" {
		cfg.Backend = "badger"
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 8
	}
	if cfg.QueueDepth == 0 {
		cfg.QueueDepth = 256
	}
	if cfg.RecordTTL == 0 {
		cfg.RecordTTL = time.Hour
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "cx:"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Badger.Dir == "" {
		cfg.Badger.Dir = "./data/badger"
	}
}

// applyHSSDefaults mirrors internal/hss.DefaultSchemes and §6's
// hss_reregistration_time / diameter_timeout_ms.
func applyHSSDefaults(cfg *HSSConfig) {
	if cfg.DiameterTimeout == 0 {
		cfg.DiameterTimeout = 500 * time.Millisecond
	}
	if cfg.Realm == "" {
		cfg.Realm = "example.com"
	}
	if cfg.HSSReregistrationTime == 0 {
		cfg.HSSReregistrationTime = 30 * time.Minute
	}
	if cfg.Schemes.Digest == "" {
		cfg.Schemes.Digest = "SIP Digest"
	}
	if cfg.Schemes.AKAv1 == "" {
		cfg.Schemes.AKAv1 = "Digest-AKAv1-MD5"
	}
	if cfg.Schemes.AKAv2 == "" {
		cfg.Schemes.AKAv2 = "Digest-AKAv2-SHA-256"
	}
	if cfg.Schemes.Unknown == "" {
		cfg.Schemes.Unknown = "Unknown"
	}
	if cfg.Fallback.ServerName == "" {
		cfg.Fallback.ServerName = "sip:scscf.example.com"
	}
}

func applyRouterDefaults(cfg *RouterConfig) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:9888"
	}
}
