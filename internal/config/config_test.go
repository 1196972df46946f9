package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := writeConfig(t, "server:\n  port: \"9000\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 15, cfg.Reminder.WarningDays)
	assert.Equal(t, "domain/domains-backup.json", cfg.Backup.Path)
	assert.Equal(t, "https://api.telegram.org", cfg.Notifications.Telegram.APIBase)
	assert.Equal(t, "database", cfg.Preferences.Store)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("TG_BOT_TOKEN", "token-from-env")
	t.Setenv("TG_USER_ID", "42")
	t.Setenv("WEBDAV_URL", "https://dav.example.com/")
	t.Setenv("SMTP_TO", "a@example.com, b@example.com")
	t.Setenv("WARNING_DAYS", "30")
	t.Setenv("LOG_LEVEL", "debug")

	path := writeConfig(t, `
notifications:
  telegram:
    bot_token: from-yaml
    chat_id: "1"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "token-from-env", cfg.Notifications.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Notifications.Telegram.ChatID)
	assert.Equal(t, "https://dav.example.com/", cfg.Backup.URL)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Notifications.Email.To)
	assert.Equal(t, 30, cfg.Reminder.WarningDays)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "panel.env")
	require.NoError(t, os.WriteFile(envFile, []byte("QMSG_KEY=qmsg-secret\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	t.Cleanup(func() { os.Unsetenv("QMSG_KEY") })

	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, "qmsg-secret", cfg.Notifications.QQ.Key)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplySettings(t *testing.T) {
	cfg := &Config{}
	cfg.Notifications.Telegram.BotToken = "keep-me"
	cfg.Notifications.Email.SMTPPort = 25

	ApplySettings(cfg, map[string]string{
		"telegram.bot_token": "",
		"telegram.chat_id":   "100",
		"wechat.send_key":    "SCT123",
		"email.smtp_port":    "465",
		"email.to":           "ops@example.com,dev@example.com",
		"webdav.user":        "backup",
	})

	assert.Equal(t, "keep-me", cfg.Notifications.Telegram.BotToken)
	assert.Equal(t, "100", cfg.Notifications.Telegram.ChatID)
	assert.Equal(t, "SCT123", cfg.Notifications.WeChat.SendKey)
	assert.Equal(t, 465, cfg.Notifications.Email.SMTPPort)
	assert.Equal(t, []string{"ops@example.com", "dev@example.com"}, cfg.Notifications.Email.To)
	assert.Equal(t, "backup", cfg.Backup.User)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}
