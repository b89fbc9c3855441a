package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Secret holds the access-token signing key. It never renders its value.
type Secret []byte

// EnvDecode satisfies envconfig.Decoder.
func (s *Secret) EnvDecode(val string) error {
	*s = Secret(val)
	return nil
}

func (s Secret) String() string {
	if len(s) == 0 {
		return ""
	}
	return "[redacted]"
}

// Config is the api process configuration.
type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	AccessTokenSecret Secret        `env:"ACCESS_TOKEN_SECRET, required"`
	AccessTokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL,    default=1h"`

	Mongo MongoConfig
	Redis RedisConfig
}

// NotifierConfig is the notifier process configuration.
type NotifierConfig struct {
	Port          string `env:"NOTIFIER_PORT,    default=8090"`
	LogLevel      string `env:"LOG_LEVEL,        default=info"`
	LogPretty     bool   `env:"LOG_PRETTY,       default=false"`
	UserID        string `env:"PUSH_USER_ID,     required"`
	DashboardPath string `env:"DASHBOARD_PATH,   default=/dashboard"`
	// Deliveries are sharded by channel and the notifier subscribes to one,
	// so a single worker is active whatever this is set to.
	Workers       int    `env:"NOTIFIER_WORKERS, default=1"`

	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=todo_messages"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads the api configuration from the environment. A missing signing
// secret is a startup error.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadNotifier reads the notifier configuration from the environment.
func LoadNotifier(ctx context.Context) (*NotifierConfig, error) {
	return LoadNotifierFrom(ctx, envconfig.OsLookuper())
}

// LoadNotifierFrom is LoadNotifier with an explicit lookuper.
func LoadNotifierFrom(ctx context.Context, l envconfig.Lookuper) (*NotifierConfig, error) {
	var cfg NotifierConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
