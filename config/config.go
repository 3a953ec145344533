package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr            string        `env:"HTTP_ADDR"             envDefault:":8080"`
	DatabaseURL         string        `env:"DATABASE_URL"`
	JWTSecret           string        `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer           string        `env:"JWT_ISSUER"            envDefault:"socialhub"`
	TokenTTL            time.Duration `env:"TOKEN_TTL"             envDefault:"2h"`
	TwoFactorIssuer     string        `env:"TWO_FACTOR_ISSUER"     envDefault:"SocialHub"`
	BcryptCost          int           `env:"BCRYPT_COST"           envDefault:"10"`
	SessionReapInterval time.Duration `env:"SESSION_REAP_INTERVAL" envDefault:"1h"`
	LogLevel            string        `env:"LOG_LEVEL"             envDefault:"info"`
	SeedRoles           bool          `env:"SEED_ROLES"            envDefault:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load(logger logrus.FieldLogger, files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
		logger.WithError(err).Debug("no .env file, using process environment")
	}
	return Parse()
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("parse env: TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.SessionReapInterval < 0 {
		return Config{}, fmt.Errorf("parse env: SESSION_REAP_INTERVAL must not be negative, got %s", cfg.SessionReapInterval)
	}
	return cfg, nil
}

// LogrusLevel falls back to info for unknown level names.
func (c Config) LogrusLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
