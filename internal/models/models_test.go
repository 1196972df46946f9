package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "正常", StatusActive.Label())
	assert.Equal(t, "已过期", StatusExpired.Label())
	assert.Equal(t, "待激活", StatusPending.Label())
	assert.Equal(t, "other", Status("other").Label())
}

func TestParseRecordID(t *testing.T) {
	id := ParseRecordID(" 42 ")
	n, ok := id.Int()
	assert.True(t, ok)
	assert.EqualValues(t, 42, n)
	assert.EqualValues(t, 42, id.Uint())

	id = ParseRecordID("abc-1")
	_, ok = id.Int()
	assert.False(t, ok)
	assert.Equal(t, "abc-1", id.String())
	assert.Zero(t, id.Uint())

	assert.True(t, ParseRecordID("").IsZero())
}

func TestRecordIDJSON(t *testing.T) {
	var ids []RecordID
	require.NoError(t, json.Unmarshal([]byte(`[7, "x7", null]`), &ids))
	require.Len(t, ids, 3)

	n, ok := ids[0].Int()
	assert.True(t, ok)
	assert.EqualValues(t, 7, n)
	assert.Equal(t, "x7", ids[1].String())
	assert.True(t, ids[2].IsZero())

	out, err := json.Marshal(ids)
	require.NoError(t, err)
	assert.JSONEq(t, `[7, "x7", null]`, string(out))
}

func TestMethodsScanValue(t *testing.T) {
	ms := Methods{MethodTelegram, MethodEmail}
	v, err := ms.Value()
	require.NoError(t, err)
	assert.Equal(t, "telegram,email", v)

	var back Methods
	require.NoError(t, back.Scan([]byte("telegram, email")))
	assert.Equal(t, ms, back)

	require.NoError(t, back.Scan(nil))
	assert.Empty(t, back)
}

func TestMethodsNormalize(t *testing.T) {
	got := Methods{"Telegram", "qq", "telegram", ""}.Normalize()
	assert.Equal(t, Methods{MethodTelegram, MethodQQ}, got)
	assert.True(t, got.Contains(MethodQQ))
	assert.False(t, got.Contains(MethodEmail))
}

func TestNotificationSettingsValidate(t *testing.T) {
	s := DefaultNotificationSettings()
	require.NoError(t, s.Validate())

	s.WarningDays = 0
	assert.Error(t, s.Validate())

	s = DefaultNotificationSettings()
	s.WarningDays = 366
	assert.Error(t, s.Validate())

	s = DefaultNotificationSettings()
	s.NotificationInterval = "hourly"
	assert.Error(t, s.Validate())

	s = DefaultNotificationSettings()
	s.NotificationMethod = Methods{"pager"}
	assert.Error(t, s.Validate())
}

func TestPreferencesRoundTrip(t *testing.T) {
	p := ClientPreferences{
		BackgroundImage:  "bg-3.jpg",
		CarouselInterval: 10,
		WarningDays:      20,
		DontRemindDate:   "2026-10-16",
		DarkMode:         true,
	}
	assert.Equal(t, p, PreferencesFromMap(p.ToMap()))

	defaults := PreferencesFromMap(map[string]string{PrefWarningDays: "x"})
	assert.Equal(t, DefaultPreferences(), defaults)
}

func TestDontRemindToday(t *testing.T) {
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	assert.True(t, ClientPreferences{DontRemindDate: "2026-10-16"}.DontRemindToday(now))
	assert.False(t, ClientPreferences{DontRemindDate: "2026-10-15"}.DontRemindToday(now))
	assert.False(t, ClientPreferences{}.DontRemindToday(now))
}
