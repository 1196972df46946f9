package config

import (
	"slices"
	"strconv"
)

// SettingKeys are the settings rows read by ApplySettings.
var SettingKeys = []string{
	"telegram.bot_token", "telegram.chat_id", "telegram.proxy",
	"wechat.send_key", "qq.key", "qq.qq",
	"email.smtp_host", "email.smtp_port", "email.from", "email.password", "email.to",
	"webdav.url", "webdav.user", "webdav.password",
}

// IsSettingKey reports whether key is one of SettingKeys.
func IsSettingKey(key string) bool {
	return slices.Contains(SettingKeys, key)
}

// ApplySettings overrides channel secrets with values stored as settings
// rows. Empty values are ignored so a blank row never wipes a configured
// secret.
func ApplySettings(cfg *Config, settings map[string]string) {
	set := func(key string, dst *string) {
		if val, ok := settings[key]; ok && val != "" {
			*dst = val
		}
	}

	// Telegram
	set("telegram.bot_token", &cfg.Notifications.Telegram.BotToken)
	set("telegram.chat_id", &cfg.Notifications.Telegram.ChatID)
	set("telegram.proxy", &cfg.Notifications.Telegram.Proxy)

	// WeChat and QQ
	set("wechat.send_key", &cfg.Notifications.WeChat.SendKey)
	set("qq.key", &cfg.Notifications.QQ.Key)
	set("qq.qq", &cfg.Notifications.QQ.QQ)

	// Email
	set("email.smtp_host", &cfg.Notifications.Email.SMTPHost)
	if val, ok := settings["email.smtp_port"]; ok {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Notifications.Email.SMTPPort = port
		}
	}
	set("email.from", &cfg.Notifications.Email.From)
	set("email.password", &cfg.Notifications.Email.Password)
	if val, ok := settings["email.to"]; ok && val != "" {
		cfg.Notifications.Email.To = splitList(val)
	}

	// WebDAV
	set("webdav.url", &cfg.Backup.URL)
	set("webdav.user", &cfg.Backup.User)
	set("webdav.password", &cfg.Backup.Password)
}
