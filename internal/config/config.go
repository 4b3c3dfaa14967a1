// Package config loads runtime settings from the environment (optionally
// seeded from a .env file) and holds the application's fixed constants.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Remote backend names accepted in REMOTE_BACKEND.
const (
	RemoteNone     = "none"
	RemoteRedis    = "redis"
	RemotePostgres = "postgres"
)

// Config holds every setting read from the environment.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	DataFile string `envconfig:"DATA_FILE" default:"data/skillswap.json"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	RemoteConfig
	MailConfig
	TelegramConfig
	SessionConfig
	AppConfig

	LocaleDir  string `envconfig:"LOCALE_DIR"`
	NotifyLang string `envconfig:"NOTIFY_LANG" default:"en"`
}

// RemoteConfig selects and configures the remote mirror.
type RemoteConfig struct {
	Backend string `envconfig:"REMOTE_BACKEND" default:"none"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6380"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"skillswap:"`

	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"host=localhost user=user password=password dbname=skillswapdb port=5432 sslmode=disable"`

	ConnectTimeout time.Duration `envconfig:"REMOTE_CONNECT_TIMEOUT" default:"5s"`
}

// MailConfig configures the SMTP request notifier. An empty host disables it.
type MailConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	Sender   string `envconfig:"SMTP_SENDER" default:"skillswap@localhost"`
	To       string `envconfig:"NOTIFY_EMAIL_TO"`
	ReplyTo  string `envconfig:"NOTIFY_REPLY_TO" default:"noreply@skillswap.com"`
}

// Enabled reports whether enough is set to send mail.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.To != ""
}

// TelegramConfig configures the Telegram request notifier. An empty token disables it.
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

// Enabled reports whether the bot can post.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

// SessionConfig configures guest session tokens.
type SessionConfig struct {
	Secret string        `envconfig:"SESSION_SECRET" default:"change-me-session-secret"`
	TTL    time.Duration `envconfig:"SESSION_TTL" default:"72h"`
	Issuer string        `envconfig:"SESSION_ISSUER" default:"skillswap-service"`
}

// AppConfig holds behaviour switches and limits.
type AppConfig struct {
	AutoAcceptRequests        bool          `envconfig:"AUTO_ACCEPT_REQUESTS" default:"true"`
	MaxSkillTitleLength       int           `envconfig:"MAX_SKILL_TITLE_LENGTH" default:"100"`
	MaxSkillDescriptionLength int           `envconfig:"MAX_SKILL_DESCRIPTION_LENGTH" default:"500"`
	MaxMessageLength          int           `envconfig:"MAX_MESSAGE_LENGTH" default:"1000"`
	ToastDuration             time.Duration `envconfig:"TOAST_DURATION" default:"3s"`
	PollInterval              time.Duration `envconfig:"POLL_INTERVAL" default:"3s"`
	SeedSampleSkills          bool          `envconfig:"SEED_SAMPLE_SKILLS" default:"true"`
}

// DefaultAppConfig returns the limits and switches used when nothing is configured.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		AutoAcceptRequests:        true,
		MaxSkillTitleLength:       DefaultMaxSkillTitleLength,
		MaxSkillDescriptionLength: DefaultMaxSkillDescriptionLength,
		MaxMessageLength:          DefaultMaxMessageLength,
		ToastDuration:             DefaultToastDuration,
		PollInterval:              DefaultPollInterval,
		SeedSampleSkills:          true,
	}
}

// LoadDotEnv copies values from a .env file into the process environment.
// Callers usually only warn on error: the file is optional.
func LoadDotEnv(filenames ...string) error {
	return godotenv.Load(filenames...)
}

// Load reads the process environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.Backend {
	case RemoteNone, RemoteRedis, RemotePostgres:
	default:
		return fmt.Errorf("unknown REMOTE_BACKEND %q", c.Backend)
	}
	if c.MaxSkillTitleLength <= 0 || c.MaxSkillDescriptionLength <= 0 || c.MaxMessageLength <= 0 {
		return errors.New("field length limits must be positive")
	}
	if c.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL must be positive")
	}
	return nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
