// Package config resolves runtime settings from an optional YAML file, an
// optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/terraincognita07/lunalog/internal/i18n"
	"github.com/terraincognita07/lunalog/internal/services"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort     = "8080"
	defaultDBPath   = "data/lunalog.db"
	defaultStoreDir = "data/local"
	defaultLogLevel = "info"
)

const minSecretKeyLength = 32

var (
	ErrSecretKeyMissing  = errors.New("secret key is required")
	ErrSecretKeyInsecure = errors.New("secret key is a placeholder or shorter than 32 characters")
)

var placeholderSecretKeys = map[string]bool{
	"change_me_in_production":                    true,
	"replace_with_at_least_32_random_characters": true,
}

type Config struct {
	Port         string `yaml:"port"`
	DBPath       string `yaml:"db_path"`
	SecretKey    string `yaml:"secret_key"`
	Timezone     string `yaml:"timezone"`
	CookieSecure bool   `yaml:"cookie_secure"`

	StoreDir      string `yaml:"store_dir"`
	OverlapPolicy string `yaml:"overlap_policy"`

	Reminders Reminders `yaml:"reminders"`
	Log       Log       `yaml:"log"`

	location *time.Location
}

type Reminders struct {
	Enabled          bool   `yaml:"enabled"`
	Schedule         string `yaml:"schedule"`
	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   string `yaml:"telegram_chat_id"`
	Language         string `yaml:"language"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads path when it is non-empty, then .env from the working
// directory, then environment overrides, and normalizes the result.
func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func (cfg *Config) applyEnv(lookup lookupFunc) {
	setString := func(target *string, keys ...string) {
		for _, key := range keys {
			if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
				*target = strings.TrimSpace(value)
				return
			}
		}
	}
	setBool := func(target *bool, keys ...string) {
		for _, key := range keys {
			if value, ok := lookup(key); ok {
				if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
					*target = parsed
					return
				}
			}
		}
	}

	setString(&cfg.Port, "LUNALOG_PORT", "PORT")
	setString(&cfg.DBPath, "LUNALOG_DB_PATH", "DB_PATH")
	setString(&cfg.SecretKey, "LUNALOG_SECRET_KEY", "SECRET_KEY")
	setString(&cfg.Timezone, "LUNALOG_TZ", "TZ")
	setBool(&cfg.CookieSecure, "LUNALOG_COOKIE_SECURE", "COOKIE_SECURE")
	setString(&cfg.StoreDir, "LUNALOG_STORE_DIR")
	setString(&cfg.OverlapPolicy, "LUNALOG_OVERLAP_POLICY")
	setBool(&cfg.Reminders.Enabled, "LUNALOG_REMINDERS_ENABLED")
	setString(&cfg.Reminders.Schedule, "LUNALOG_REMINDER_SCHEDULE")
	setString(&cfg.Reminders.TelegramBotToken, "LUNALOG_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Reminders.TelegramChatID, "LUNALOG_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
	setString(&cfg.Reminders.Language, "LUNALOG_REMINDER_LANGUAGE")
	setString(&cfg.Log.Level, "LUNALOG_LOG_LEVEL")
	setBool(&cfg.Log.Development, "LUNALOG_LOG_DEVELOPMENT")
}

// Normalize fills defaults for every empty field.
func (cfg *Config) Normalize() {
	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = defaultPort
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultDBPath
	}
	if strings.TrimSpace(cfg.StoreDir) == "" {
		cfg.StoreDir = defaultStoreDir
	}
	cfg.OverlapPolicy = strings.ToLower(strings.TrimSpace(cfg.OverlapPolicy))
	if cfg.OverlapPolicy == "" {
		cfg.OverlapPolicy = string(services.OverlapAllow)
	}
	if strings.TrimSpace(cfg.Reminders.Schedule) == "" {
		cfg.Reminders.Schedule = services.DefaultReminderSchedule
	}
	cfg.Reminders.Language = i18n.Default().NormalizeLanguage(cfg.Reminders.Language)
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = defaultLogLevel
	}
}

// Validate checks values that would otherwise fail later at startup. It does
// not require a secret key; the serve command checks that separately.
func (cfg *Config) Validate() error {
	if _, err := services.ParseOverlapPolicy(cfg.OverlapPolicy); err != nil {
		return err
	}
	if _, err := cron.ParseStandard(cfg.Reminders.Schedule); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", cfg.Reminders.Schedule, err)
	}

	location := time.Local
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		loaded, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		location = loaded
	}
	cfg.location = location
	return nil
}

func (cfg Config) Location() *time.Location {
	if cfg.location == nil {
		return time.Local
	}
	return cfg.location
}

func (cfg Config) Overlap() services.OverlapPolicy {
	policy, err := services.ParseOverlapPolicy(cfg.OverlapPolicy)
	if err != nil {
		return services.OverlapAllow
	}
	return policy
}

// RequireSecretKey is checked by commands that issue auth tokens.
func (cfg Config) RequireSecretKey() error {
	secret := strings.TrimSpace(cfg.SecretKey)
	switch {
	case secret == "":
		return ErrSecretKeyMissing
	case placeholderSecretKeys[strings.ToLower(secret)], len(secret) < minSecretKeyLength:
		return ErrSecretKeyInsecure
	default:
		return nil
	}
}
