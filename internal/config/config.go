package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	BackendRemote = "remote"
	BackendStub   = "stub"

	SessionDriverFile   = "file"
	SessionDriverRedis  = "redis"
	SessionDriverMemory = "memory"
)

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type BackendConfig struct {
	Mode string
}

type SessionConfig struct {
	Driver string
	Path   string
	Prefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type SecurityConfig struct {
	JWTAccessSecret string
	JWTAccessTTL    time.Duration
	JWTRefreshTTL   time.Duration
	MaxSessions     int
}

// StubConfig drives the in-memory backend used in place of the remote API.
type StubConfig struct {
	HTTP             HTTPConfig
	Security         SecurityConfig
	SeedPassword     string
	AllowCORSOrigins []string
	// AutoLogin signs this seeded account in when the stub runs in-process,
	// whose state lasts one invocation.
	AutoLogin string
}

type LoggingConfig struct {
	Level string
}

type WatchConfig struct {
	Schedule string
}

type AppConfig struct {
	Environment string
	API         APIConfig
	Backend     BackendConfig
	Session     SessionConfig
	Redis       RedisConfig
	Stub        StubConfig
	Logging     LoggingConfig
	Watch       WatchConfig
}

// Load reads pmadmin.yaml (or the file at path when non-empty), a .env file
// in the working directory and PMADMIN_* environment variables.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pmadmin")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".pmadmin"))
		}
	}

	v.SetEnvPrefix("PMADMIN")
	v.AutomaticEnv()
	if err := v.BindEnv("api.baseurl", "PMADMIN_API_BASEURL", "API_BASE_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Backend.Mode {
	case BackendRemote, BackendStub:
	default:
		return fmt.Errorf("backend.mode must be %q or %q, got %q", BackendRemote, BackendStub, c.Backend.Mode)
	}
	switch c.Session.Driver {
	case SessionDriverFile, SessionDriverRedis, SessionDriverMemory:
	default:
		return fmt.Errorf("session.driver must be file, redis or memory, got %q", c.Session.Driver)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("api.baseurl", "http://localhost:8080/api")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("backend.mode", BackendRemote)

	v.SetDefault("session.driver", SessionDriverFile)
	v.SetDefault("session.path", defaultSessionPath())
	v.SetDefault("session.prefix", "pmadmin:session:")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("stub.http.host", "0.0.0.0")
	v.SetDefault("stub.http.port", 8080)
	v.SetDefault("stub.http.readtimeout", "10s")
	v.SetDefault("stub.http.writetimeout", "15s")
	v.SetDefault("stub.http.idletimeout", "60s")
	v.SetDefault("stub.security.jwtaccesssecret", "pmadmin-stub-secret")
	v.SetDefault("stub.security.jwtaccessttl", "15m")
	v.SetDefault("stub.security.jwtrefreshttl", "720h") // 30 days
	v.SetDefault("stub.security.maxsessions", 10)
	v.SetDefault("stub.seedpassword", "admin123")

	v.SetDefault("logging.level", "info")

	v.SetDefault("watch.schedule", "@every 30s")
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pmadmin-session.json"
	}
	return filepath.Join(home, ".pmadmin", "session.json")
}
