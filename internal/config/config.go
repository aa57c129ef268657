// Package config loads server settings from the environment and the
// optional house-rules file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/bigmonte/internal/game"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Env holds every environment-driven setting.
type Env struct {
	Port           string        `env:"PORT" envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabasePath   string        `env:"DATABASE_PATH" envDefault:"./data/bigmonte.db"`
	StoreDriver    string        `env:"STORE_DRIVER" envDefault:"sqlite"`
	RulesFile      string        `env:"RULES_FILE"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int           `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string        `env:"COOKIE_NAME" envDefault:"bigmonte_token"`
	AppEnv         string        `env:"APP_ENV" envDefault:"development"`
	DailySalt      string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Production reports whether cookies should be Secure/SameSite=None.
func (e Env) Production() bool { return e.AppEnv == "production" }

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Env and validates it.
func Load() (Env, error) {
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return Env{}, err
	}
	switch cfg.StoreDriver {
	case DriverMemory, DriverSQLite:
	default:
		return Env{}, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.JWTExpiresDays <= 0 {
		cfg.JWTExpiresDays = 14
	}
	return cfg, nil
}

// rulesFile mirrors game.Config in the YAML house-rules file.
type rulesFile struct {
	Rules game.Config `yaml:"rules"`
}

// LoadRules reads house rules from path. An empty path returns the default
// rules; fields missing from the file keep their defaults.
func LoadRules(path string) (game.Config, error) {
	cfg := game.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read rules %s: %w", path, err)
	}
	doc := rulesFile{Rules: cfg}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return cfg, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if err := validateRules(doc.Rules); err != nil {
		return cfg, err
	}
	return doc.Rules, nil
}

func validateRules(c game.Config) error {
	switch {
	case c.DiceCount < 1:
		return errors.New("rules: dice_count must be positive")
	case c.MaxRolls < 1:
		return errors.New("rules: max_rolls must be positive")
	case c.MaxRounds < 1:
		return errors.New("rules: max_rounds must be positive")
	case negative(c.UpperBonusThreshold) || negative(c.UpperBonusValue):
		return errors.New("rules: upper bonus values must not be negative")
	}
	return nil
}

func negative(v *int) bool { return v != nil && *v < 0 }
