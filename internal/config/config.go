package config

import (
	"fmt"
	"os"
	"time"

	"domain-panel/internal/logger"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config/config.yaml"

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Log           logger.Config       `yaml:"log"`
	Database      DatabaseConfig      `yaml:"database"`
	Whois         WhoisConfig         `yaml:"whois"`
	Reminder      ReminderConfig      `yaml:"reminder"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Backup        BackupConfig        `yaml:"backup"`
	Preferences   PreferencesConfig   `yaml:"preferences"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port      string `yaml:"port" env:"PORT"`
	Mode      string `yaml:"mode" env:"GIN_MODE"` // debug/release
	StaticDir string `yaml:"static_dir"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite
	Path string `yaml:"path" env:"DB_PATH"`
}

// WhoisConfig represents WHOIS API configuration
type WhoisConfig struct {
	APIURL  string `yaml:"api_url" env:"WHOIS_API_URL"`
	Timeout string `yaml:"timeout"`
}

// ReminderConfig controls the expiring-soon window and reminder schedules.
type ReminderConfig struct {
	WarningDays int    `yaml:"warning_days" env:"WARNING_DAYS"`
	DailySpec   string `yaml:"daily_spec"`
	WeeklySpec  string `yaml:"weekly_spec"`
}

// NotificationsConfig represents notification configuration
type NotificationsConfig struct {
	Timeout  string         `yaml:"timeout"`
	Telegram TelegramConfig `yaml:"telegram"`
	WeChat   WeChatConfig   `yaml:"wechat"`
	QQ       QQConfig       `yaml:"qq"`
	Email    EmailConfig    `yaml:"email"`
}

// TelegramConfig represents Telegram notification configuration
type TelegramConfig struct {
	BotToken string `yaml:"bot_token" env:"TG_BOT_TOKEN"`
	ChatID   string `yaml:"chat_id" env:"TG_USER_ID"`
	APIBase  string `yaml:"api_base"`
	Proxy    string `yaml:"proxy" env:"TG_PROXY"` // SOCKS5 host:port, empty for direct
}

// WeChatConfig represents ServerChan (WeChat) notification configuration
type WeChatConfig struct {
	SendKey string `yaml:"send_key" env:"WECHAT_SENDKEY"`
	APIBase string `yaml:"api_base"`
}

// QQConfig represents Qmsg (QQ) notification configuration
type QQConfig struct {
	Key     string `yaml:"key" env:"QMSG_KEY"`
	QQ      string `yaml:"qq" env:"QMSG_QQ"`
	APIBase string `yaml:"api_base"`
}

// EmailConfig represents email notification configuration
type EmailConfig struct {
	SMTPHost string   `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort int      `yaml:"smtp_port" env:"SMTP_PORT"`
	From     string   `yaml:"from" env:"SMTP_FROM"`
	Password string   `yaml:"password" env:"SMTP_PASSWORD"`
	To       []string `yaml:"to" env:"SMTP_TO"`
}

// BackupConfig represents WebDAV backup configuration
type BackupConfig struct {
	URL      string `yaml:"url" env:"WEBDAV_URL"`
	User     string `yaml:"user" env:"WEBDAV_USER"`
	Password string `yaml:"password" env:"WEBDAV_PASS"`
	Path     string `yaml:"path"`
	Schedule string `yaml:"schedule"` // Cron expression, empty disables scheduled backups
}

// PreferencesConfig selects the client preference store.
type PreferencesConfig struct {
	Store string      `yaml:"store" env:"PREFERENCES_STORE"` // database/redis
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig represents Redis connection configuration
type RedisConfig struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	Key      string `yaml:"key"`
}

// LoadConfig loads configuration from a YAML file, then applies .env files,
// environment overrides and defaults.
func LoadConfig(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&config)
	config.SetDefaults()
	return &config, nil
}

// Path returns the config path from CONFIG_PATH or DefaultPath.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// SetDefaults fills every unset value.
func (c *Config) SetDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "./web/dist"
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/domains.db"
	}
	if c.Whois.Timeout == "" {
		c.Whois.Timeout = "30s"
	}
	if c.Reminder.WarningDays <= 0 {
		c.Reminder.WarningDays = 15
	}
	if c.Reminder.DailySpec == "" {
		c.Reminder.DailySpec = "0 9 * * *"
	}
	if c.Reminder.WeeklySpec == "" {
		c.Reminder.WeeklySpec = "0 9 * * 1"
	}
	if c.Notifications.Timeout == "" {
		c.Notifications.Timeout = "30s"
	}
	if c.Notifications.Telegram.APIBase == "" {
		c.Notifications.Telegram.APIBase = "https://api.telegram.org"
	}
	if c.Notifications.WeChat.APIBase == "" {
		c.Notifications.WeChat.APIBase = "https://sctapi.ftqq.com"
	}
	if c.Notifications.QQ.APIBase == "" {
		c.Notifications.QQ.APIBase = "https://qmsg.zendee.cn"
	}
	if c.Notifications.Email.SMTPPort == 0 {
		c.Notifications.Email.SMTPPort = 587
	}
	if c.Backup.Path == "" {
		c.Backup.Path = "domain/domains-backup.json"
	}
	if c.Preferences.Store == "" {
		c.Preferences.Store = "database"
	}
	if c.Preferences.Redis.Key == "" {
		c.Preferences.Redis.Key = "domain-panel:prefs"
	}
}

// ParseDuration parses s, falling back to def when s is empty or invalid.
func ParseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
