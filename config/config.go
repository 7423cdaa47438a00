package config

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const minSecretKeyLength = 32

var databaseURLPrefixes = []string{"postgres://", "postgresql://"}

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8000"`
	AppMode string `env:"APP_MODE" envDefault:"debug"`

	SecretKey                string `env:"SECRET_KEY,required"`
	JWTAlgorithm             string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"60"`

	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieSameSite string `env:"COOKIE_SAMESITE" envDefault:"lax"`
	CookieDomain   string `env:"COOKIE_DOMAIN"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8000"`

	DatabaseURL       string        `env:"DATABASE_URL,required"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	AutoMigrate       bool          `env:"AUTO_MIGRATE" envDefault:"true"`

	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	NearbyCacheTTL time.Duration `env:"NEARBY_CACHE_TTL" envDefault:"5m"`

	GooglePlacesAPIKey string        `env:"GOOGLE_PLACES_API_KEY"`
	PlacesBaseURL      string        `env:"PLACES_BASE_URL" envDefault:"https://places.googleapis.com/v1"`
	PlacesTimeout      time.Duration `env:"PLACES_TIMEOUT" envDefault:"10s"`
	GeoapifyAPIKey     string        `env:"GEOAPIFY_API_KEY"`

	WalkInRequireAdmin bool `env:"WALKIN_REQUIRE_ADMIN" envDefault:"false"`

	Mail MailConfig
}

// MailConfig is parsed so deployments can share one .env with the mailer; the
// API itself sends no mail.
type MailConfig struct {
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	From     string `env:"MAIL_FROM"`
	FromName string `env:"MAIL_FROM_NAME"`
	Server   string `env:"MAIL_SERVER"`
	Port     int    `env:"MAIL_PORT" envDefault:"587"`
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return parse(env.Options{})
}

// LoadFromMap builds a Config from an explicit environment instead of the process one.
func LoadFromMap(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if len(c.SecretKey) < minSecretKeyLength {
		errs = append(errs, fmt.Errorf("SECRET_KEY must be >=%d characters", minSecretKeyLength))
	}
	if !hasAnyPrefix(c.DatabaseURL, databaseURLPrefixes) {
		errs = append(errs, errors.New("DATABASE_URL must start with postgres:// or postgresql://"))
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm))
	}
	if c.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if _, err := parseSameSite(c.CookieSameSite); err != nil {
		errs = append(errs, err)
	}
	if strings.EqualFold(c.CookieSameSite, "none") && !c.CookieSecure {
		errs = append(errs, errors.New("COOKIE_SAMESITE=none requires COOKIE_SECURE=true"))
	}

	return errors.Join(errs...)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) SameSite() http.SameSite {
	mode, _ := parseSameSite(c.CookieSameSite)
	return mode
}

func (c *Config) IsRelease() bool {
	return c.AppMode == "release"
}

func parseSameSite(value string) (http.SameSite, error) {
	switch strings.ToLower(value) {
	case "lax", "":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return http.SameSiteDefaultMode, fmt.Errorf("COOKIE_SAMESITE %q is not one of lax, strict, none", value)
	}
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}
