package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/bankadmin/internal/platform/envutil"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Environment string        `yaml:"environment"`
	Version     string        `yaml:"-"`
	HTTP        HTTPConfig    `yaml:"http"`
	BankAPI     BankAPIConfig `yaml:"bank_api"`
	Session     SessionConfig `yaml:"session"`
	Redis       RedisConfig   `yaml:"redis"`
	Log         LogConfig     `yaml:"log"`
	Metrics     MetricsConfig `yaml:"metrics"`
	OTel        OTelConfig    `yaml:"otel"`
}

type HTTPConfig struct {
	Addr               string   `yaml:"addr"`
	CORSOrigins        []string `yaml:"cors_origins"`
	LoginRatePerMinute int      `yaml:"login_rate_per_minute"`
	LoginBurst         int      `yaml:"login_burst"`
}

type BankAPIConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Secret       string        `yaml:"secret"`
	TTL          time.Duration `yaml:"ttl"`
	CookieName   string        `yaml:"cookie_name"`
	CookieSecure bool          `yaml:"cookie_secure"`
	Store        string        `yaml:"store"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LogConfig struct {
	Mode      string `yaml:"mode"`
	Level     string `yaml:"level"`
	Redaction bool   `yaml:"redaction"`
	HashSalt  string `yaml:"hash_salt"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type OTelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

func DefaultConfig() Config {
	return Config{
		Environment: "development",
		HTTP: HTTPConfig{
			Addr:               ":8080",
			LoginRatePerMinute: 10,
			LoginBurst:         5,
		},
		BankAPI: BankAPIConfig{
			URL:     "http://localhost:8000/api/v1/",
			Timeout: 15 * time.Second,
		},
		Session: SessionConfig{
			TTL:        8 * time.Hour,
			CookieName: "bankadmin_session",
			Store:      SessionStoreMemory,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "bankadmin:session",
		},
		Log: LogConfig{
			Mode:      "development",
			Redaction: true,
		},
		Metrics: MetricsConfig{Enabled: true},
		OTel: OTelConfig{
			ServiceName: "bankadmin",
			SampleRatio: 1,
		},
	}
}

// LoadConfig layers defaults, the optional YAML file and the environment.
// An empty path falls back to BANKADMIN_CONFIG.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = envutil.String("BANKADMIN_CONFIG", "")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decodeYAML(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Environment = envutil.String("ENVIRONMENT", cfg.Environment)
	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	cfg.HTTP.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.HTTP.CORSOrigins)
	cfg.HTTP.LoginRatePerMinute = envutil.Int("LOGIN_RATE_PER_MINUTE", cfg.HTTP.LoginRatePerMinute)
	cfg.HTTP.LoginBurst = envutil.Int("LOGIN_BURST", cfg.HTTP.LoginBurst)

	cfg.BankAPI.URL = envutil.String("BANK_API_URL", cfg.BankAPI.URL)
	cfg.BankAPI.Timeout = envutil.Duration("BANK_API_TIMEOUT", cfg.BankAPI.Timeout)

	cfg.Session.Secret = envutil.String("SESSION_SECRET", cfg.Session.Secret)
	cfg.Session.TTL = envutil.Duration("SESSION_TTL", cfg.Session.TTL)
	cfg.Session.CookieName = envutil.String("SESSION_COOKIE_NAME", cfg.Session.CookieName)
	cfg.Session.CookieSecure = envutil.Bool("SESSION_COOKIE_SECURE", cfg.Session.CookieSecure)
	cfg.Session.Store = strings.ToLower(envutil.String("SESSION_STORE", cfg.Session.Store))

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Prefix = envutil.String("REDIS_PREFIX", cfg.Redis.Prefix)

	cfg.Log.Mode = envutil.String("LOG_MODE", cfg.Log.Mode)
	cfg.Log.Level = envutil.String("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Redaction = envutil.Bool("LOG_REDACTION_ENABLED", cfg.Log.Redaction)
	cfg.Log.HashSalt = envutil.String("LOG_HASH_SALT", cfg.Log.HashSalt)

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)

	cfg.OTel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.OTel.Enabled)
	cfg.OTel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.OTel.ServiceName)
	cfg.OTel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTel.Endpoint)
	cfg.OTel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.OTel.Headers)
	cfg.OTel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.OTel.Insecure)
	if ratio := envutil.String("OTEL_TRACES_SAMPLER_ARG", ""); ratio != "" {
		if v, err := strconv.ParseFloat(ratio, 64); err == nil {
			cfg.OTel.SampleRatio = v
		}
	}
}

func (c Config) Validate() error {
	var problems []string
	if len(c.Session.Secret) < 16 {
		problems = append(problems, "session secret must be at least 16 bytes (SESSION_SECRET)")
	}
	u, err := url.Parse(c.BankAPI.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("bank api url %q must be an absolute http(s) URL (BANK_API_URL)", c.BankAPI.URL))
	}
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			problems = append(problems, "redis session store requires REDIS_ADDR")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown session store %q (want memory or redis)", c.Session.Store))
	}
	if c.Session.TTL <= 0 {
		problems = append(problems, "session ttl must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
