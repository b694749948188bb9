package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config keeps runtime settings for the planner.
type Config struct {
	Env             string
	Debug           bool
	DatabaseURL     string
	HTTPAddr        string
	SecretKey       string
	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
	TelegramToken   string
	DigestAt        string
	Location        *time.Location
	RollbarToken    string
	Build           string
}

const devSecret = "dev-secret-change-me"

// Load reads configuration from the environment (prefix PLANNER_) with sane defaults.
// A .env file in the working directory is loaded first when present; PLANNER_ENV_FILE
// points to another one.
func Load() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv("PLANNER_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, errors.Wrapf(err, "load %s", envFile)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "stat %s", envFile)
	}

	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetEnvPrefix("planner")
	v.AutomaticEnv()

	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)
	v.SetDefault("database_url", "study_planner.db")
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("secret_key", devSecret)
	v.SetDefault("session_ttl", 7*24*time.Hour)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("telegram_token", "")
	v.SetDefault("digest_at", "07:30")
	v.SetDefault("timezone", "Local")
	v.SetDefault("rollbar_token", "")
	v.SetDefault("build", "dev")
	return v
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:             strings.ToLower(strings.TrimSpace(v.GetString("env"))),
		Debug:           v.GetBool("debug"),
		DatabaseURL:     strings.TrimSpace(v.GetString("database_url")),
		HTTPAddr:        strings.TrimSpace(v.GetString("http_addr")),
		SecretKey:       v.GetString("secret_key"),
		SessionTTL:      v.GetDuration("session_ttl"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		TelegramToken:   strings.TrimSpace(v.GetString("telegram_token")),
		DigestAt:        strings.TrimSpace(v.GetString("digest_at")),
		RollbarToken:    strings.TrimSpace(v.GetString("rollbar_token")),
		Build:           v.GetString("build"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "study_planner.db"
	}
	if cfg.SessionTTL <= 0 {
		return cfg, errors.New("PLANNER_SESSION_TTL must be positive")
	}

	loc, err := time.LoadLocation(strings.TrimSpace(v.GetString("timezone")))
	if err != nil {
		return cfg, errors.Wrap(err, "PLANNER_TIMEZONE")
	}
	cfg.Location = loc

	if cfg.Env == "prod" && cfg.SecretKey == devSecret {
		return cfg, errors.New("PLANNER_SECRET_KEY is required in prod")
	}

	return cfg, nil
}

// TelegramEnabled reports whether the daily digest can be delivered.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}
