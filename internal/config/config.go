package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Cache backends accepted by CACHE_BACKEND.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// NOAA gridpoint API.
	NOAABaseURL   string
	NOAAUserAgent string
	NOAATimeout   time.Duration

	// Gridpoint cache.
	CacheBackend    string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheMemorySize int

	// Forecast output.
	MaxPoints  int
	FutureOnly bool

	// Classification thresholds.
	RainAlertMinProbability   float64
	RainAlertMinPrecip        float64
	WarningMinProbability     float64
	WarningMinPrecip          float64
	WindAlertMph              float64
	BluebirdPrecipNoiseInches float64

	// Optional report sink; empty brokers disables publishing.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	noaaTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NOAA_TIMEOUT", "10s"))
	if err != nil || noaaTimeout <= 0 {
		return nil, errors.New("invalid NOAA_TIMEOUT")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	defaultBackend := CacheNone
	if redisAddr != "" {
		defaultBackend = CacheRedis
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NOAABaseURL:   strings.TrimRight(sharedcfg.EnvOrDefault("NOAA_BASE_URL", "https://api.weather.gov"), "/"),
		NOAAUserAgent: sharedcfg.EnvOrDefault("NOAA_USER_AGENT", "(snow-forecast-service, ops@snowforecast.dev)"),
		NOAATimeout:   noaaTimeout,

		CacheBackend:  strings.ToLower(sharedcfg.EnvOrDefault("CACHE_BACKEND", defaultBackend)),
		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaTopic: sharedcfg.EnvOrDefault("KAFKA_TOPIC", "snow-forecast-reports"),
	}
	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if cfg.RedisDB, err = parseNonNegativeInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CacheMemorySize, err = parsePositiveInt("CACHE_MEMORY_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.MaxPoints, err = parsePositiveInt("FORECAST_MAX_POINTS", 22); err != nil {
		return nil, err
	}
	if cfg.FutureOnly, err = parseBool("FORECAST_FUTURE_ONLY", true); err != nil {
		return nil, err
	}

	thresholds := []struct {
		key  string
		def  float64
		dest *float64
	}{
		{"RAIN_ALERT_MIN_PROBABILITY", 15, &cfg.RainAlertMinProbability},
		{"RAIN_ALERT_MIN_PRECIP_INCHES", 0, &cfg.RainAlertMinPrecip},
		{"WARNING_MIN_RAIN_PROBABILITY", 10, &cfg.WarningMinProbability},
		{"WARNING_MIN_PRECIP_INCHES", 0.02, &cfg.WarningMinPrecip},
		{"WIND_ALERT_MPH", 20, &cfg.WindAlertMph},
		{"BLUEBIRD_PRECIP_NOISE_INCHES", 0, &cfg.BluebirdPrecipNoiseInches},
	}
	for _, th := range thresholds {
		if *th.dest, err = parseNonNegativeFloat(th.key, th.def); err != nil {
			return nil, err
		}
	}

	switch cfg.CacheBackend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if cfg.RedisAddr == "" {
			return nil, errors.New("CACHE_BACKEND is redis but REDIS_ADDR is not set")
		}
	default:
		return nil, errors.New("invalid CACHE_BACKEND")
	}
	if cfg.NOAAUserAgent == "" {
		return nil, errors.New("NOAA_USER_AGENT is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// PublishEnabled reports whether forecast reports are written to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseNonNegativeFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + key)
	}
	return v, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New("invalid " + key)
	}
	return v, nil
}
