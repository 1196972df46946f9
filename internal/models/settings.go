package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// NotifyMethod is a notification channel.
type NotifyMethod string

const (
	MethodTelegram NotifyMethod = "telegram"
	MethodWeChat   NotifyMethod = "wechat"
	MethodQQ       NotifyMethod = "qq"
	MethodEmail    NotifyMethod = "email"
)

// Valid reports whether m is a supported channel.
func (m NotifyMethod) Valid() bool {
	switch m {
	case MethodTelegram, MethodWeChat, MethodQQ, MethodEmail:
		return true
	}
	return false
}

// Interval is how often reminders repeat.
type Interval string

const (
	IntervalDaily  Interval = "daily"
	IntervalWeekly Interval = "weekly"
	IntervalOnce   Interval = "once"
)

// Valid reports whether i is a supported interval.
func (i Interval) Valid() bool {
	return i == IntervalDaily || i == IntervalWeekly || i == IntervalOnce
}

// Methods is a set of channels, stored comma-joined in one column.
type Methods []NotifyMethod

// Normalize drops duplicates and keeps first-seen order.
func (ms Methods) Normalize() Methods {
	seen := make(map[NotifyMethod]bool, len(ms))
	out := make(Methods, 0, len(ms))
	for _, m := range ms {
		m = NotifyMethod(strings.ToLower(strings.TrimSpace(string(m))))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// Contains reports whether m is in the set.
func (ms Methods) Contains(m NotifyMethod) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (ms Methods) Value() (driver.Value, error) {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = string(m)
	}
	return strings.Join(parts, ","), nil
}

// Scan implements sql.Scanner.
func (ms *Methods) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*ms = Methods{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Methods", src)
	}
	out := Methods{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, NotifyMethod(p))
		}
	}
	*ms = out
	return nil
}

// NotificationSettings is the singleton reminder configuration.
type NotificationSettings struct {
	ID                   uint      `gorm:"primarykey" json:"-"`
	WarningDays          int       `json:"warningDays"`
	NotificationEnabled  bool      `json:"notificationEnabled"`
	NotificationInterval Interval  `gorm:"size:16" json:"notificationInterval"`
	NotificationMethod   Methods   `gorm:"type:text" json:"notificationMethod"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// SettingsRowID is the primary key of the singleton settings row.
const SettingsRowID = 1

// DefaultNotificationSettings is used until settings are first saved.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		WarningDays:          15,
		NotificationEnabled:  true,
		NotificationInterval: IntervalDaily,
		NotificationMethod:   Methods{MethodTelegram},
	}
}

// Validate checks ranges and enums.
func (s NotificationSettings) Validate() error {
	var errs []string
	if s.WarningDays < 1 || s.WarningDays > 365 {
		errs = append(errs, "warningDays 必须在 1 到 365 之间")
	}
	if !s.NotificationInterval.Valid() {
		errs = append(errs, "notificationInterval 必须是 daily、weekly 或 once")
	}
	for _, m := range s.NotificationMethod {
		if !m.Valid() {
			errs = append(errs, fmt.Sprintf("不支持的通知方式: %s", m))
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
