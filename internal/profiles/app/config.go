package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/media"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store/drivers/mongo"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/jwtx"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

var ErrInvalidConfig = errors.New("app: invalid config")

type Config struct {
	AuthSecret   string        `env:"PROFILES_AUTH_SECRET"`                 // Required: HS256 key, at least 32 bytes
	Issuer       string        `env:"PROFILES_ISSUER" envDefault:"profiles"` // Issuer claim on session tokens
	SessionTTL   time.Duration `env:"PROFILES_SESSION_TTL" envDefault:"720h"`
	BaseURL      string        `env:"PROFILES_BASE_URL"` // Optional: public origin for callback URLs
	CookieSecure bool          `env:"PROFILES_COOKIE_SECURE"`

	StoreDriver  string `env:"STORE_DRIVER" envDefault:"sqlite"` // sqlite or mongo
	DatabaseFile string `env:"DATABASE_FILE" envDefault:"profiles.db"`
	Mongo        mongo.Config

	Media  media.Config
	Google service.GoogleConfig

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	StrictLimit   httpx.RateLimitConfig `envPrefix:"RATELIMIT_STRICT_"`
	ModerateLimit httpx.RateLimitConfig `envPrefix:"RATELIMIT_MODERATE_"`
	LenientLimit  httpx.RateLimitConfig `envPrefix:"RATELIMIT_LENIENT_"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("app: load .env: %w", err)
	}
	return parseConfig(env.Options{})
}

// LoadConfigFrom parses cfg from the given variables only.
func LoadConfigFrom(vars map[string]string) (Config, error) {
	return parseConfig(env.Options{Environment: vars})
}

func parseConfig(opts env.Options) (Config, error) {
	// Rate limits keep the httpx profiles unless overridden.
	cfg := Config{
		StrictLimit:   httpx.StrictLimit,
		ModerateLimit: httpx.ModerateLimit,
		LenientLimit:  httpx.LenientLimit,
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("app: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	switch {
	case c.AuthSecret == "":
		return fmt.Errorf("%w: PROFILES_AUTH_SECRET is required", ErrInvalidConfig)
	case len(c.AuthSecret) < jwtx.MinSecretLength:
		return fmt.Errorf("%w: PROFILES_AUTH_SECRET must be at least %d bytes", ErrInvalidConfig, jwtx.MinSecretLength)
	case c.SessionTTL <= 0:
		return fmt.Errorf("%w: PROFILES_SESSION_TTL must be positive", ErrInvalidConfig)
	case c.StoreDriver != DriverSQLite && c.StoreDriver != DriverMongo:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrInvalidConfig, c.StoreDriver)
	case c.StoreDriver == DriverMongo && c.Mongo.ConnectionURL == "":
		return fmt.Errorf("%w: MONGODB_URL is required for the mongo driver", ErrInvalidConfig)
	case !c.StrictLimit.Valid() || !c.ModerateLimit.Valid() || !c.LenientLimit.Valid():
		return fmt.Errorf("%w: RATELIMIT_* values must be positive", ErrInvalidConfig)
	}
	return nil
}
