package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigPathEnv      = "CYCLETRACK_CONFIG"
	MinSecretKeyLength = 32
)

var (
	ErrSecretKeyMissing     = errors.New("SECRET_KEY is required")
	ErrSecretKeyPlaceholder = errors.New("SECRET_KEY uses a placeholder value")
	ErrSecretKeyTooShort    = fmt.Errorf("SECRET_KEY must be at least %d characters", MinSecretKeyLength)
	ErrInvalidPort          = errors.New("PORT must be a number between 1 and 65535")
)

var placeholderSecrets = map[string]bool{
	"change_me_in_production":                    true,
	"replace_with_at_least_32_random_characters": true,
}

type ReminderConfig struct {
	Schedule         string `yaml:"schedule"`
	PeriodDays       int    `yaml:"period_days"`
	Fertility        bool   `yaml:"fertility"`
	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   string `yaml:"telegram_chat_id"`
}

func (reminders ReminderConfig) Enabled() bool {
	return strings.TrimSpace(reminders.TelegramBotToken) != "" && strings.TrimSpace(reminders.TelegramChatID) != ""
}

type Config struct {
	Port            string         `yaml:"port"`
	DBPath          string         `yaml:"db_path"`
	DBLogLevel      string         `yaml:"db_log_level"`
	SecretKey       string         `yaml:"secret_key"`
	Timezone        string         `yaml:"timezone"`
	DefaultLanguage string         `yaml:"default_language"`
	Reminders       ReminderConfig `yaml:"reminders"`
}

func Default() Config {
	return Config{
		Port:            "8080",
		DBPath:          filepath.Join("data", "cycletrack.db"),
		DBLogLevel:      "warn",
		Timezone:        "UTC",
		DefaultLanguage: "en",
		Reminders: ReminderConfig{
			Schedule:   "0 9 * * *",
			PeriodDays: 2,
			Fertility:  true,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// (or $CYCLETRACK_CONFIG when path is empty) and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.DBLogLevel = getEnv("DB_LOG_LEVEL", cfg.DBLogLevel)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.Timezone = getEnv("TZ", cfg.Timezone)
	cfg.DefaultLanguage = getEnv("DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	cfg.Reminders.Schedule = getEnv("REMINDER_SCHEDULE", cfg.Reminders.Schedule)
	cfg.Reminders.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.Reminders.TelegramBotToken)
	cfg.Reminders.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", cfg.Reminders.TelegramChatID)

	if raw := os.Getenv("TELEGRAM_PERIOD_REMINDER_DAYS"); raw != "" {
		days, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || days < 0 {
			return fmt.Errorf("TELEGRAM_PERIOD_REMINDER_DAYS must be a non-negative number, got %q", raw)
		}
		cfg.Reminders.PeriodDays = days
	}
	if raw := os.Getenv("TELEGRAM_NOTIFY_FERTILITY"); raw != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("TELEGRAM_NOTIFY_FERTILITY must be a boolean, got %q", raw)
		}
		cfg.Reminders.Fertility = enabled
	}
	return nil
}

func (cfg *Config) normalize() {
	defaults := Default()
	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = defaults.Port
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaults.DBPath
	}
	if strings.TrimSpace(cfg.Timezone) == "" {
		cfg.Timezone = defaults.Timezone
	}
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		cfg.DefaultLanguage = defaults.DefaultLanguage
	}
	if strings.TrimSpace(cfg.Reminders.Schedule) == "" {
		cfg.Reminders.Schedule = defaults.Reminders.Schedule
	}
	if cfg.Reminders.PeriodDays < 0 {
		cfg.Reminders.PeriodDays = defaults.Reminders.PeriodDays
	}
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
}

// Validate checks the settings the HTTP server cannot run without.
func (cfg Config) Validate() error {
	if _, err := ResolvePort(cfg.Port); err != nil {
		return err
	}
	if _, err := ResolveSecretKey(cfg.SecretKey); err != nil {
		return err
	}
	return nil
}

func ResolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	switch {
	case secret == "":
		return "", ErrSecretKeyMissing
	case placeholderSecrets[strings.ToLower(secret)]:
		return "", ErrSecretKeyPlaceholder
	case len(secret) < MinSecretKeyLength:
		return "", ErrSecretKeyTooShort
	}
	return secret, nil
}

func ResolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPort, raw)
	}
	return port, nil
}

// Location resolves the configured IANA zone, falling back to UTC.
func (cfg Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", cfg.Timezone)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
