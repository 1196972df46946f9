package models

import (
	"strconv"
	"time"
)

// Preference keys as stored by a PreferenceStore.
const (
	PrefBackgroundImage  = "pref.background_image"
	PrefCarouselInterval = "pref.carousel_interval"
	PrefWarningDays      = "pref.warning_days"
	PrefDontRemindDate   = "pref.dont_remind_date"
	PrefDarkMode         = "pref.dark_mode"
)

// PreferenceKeys lists every key of ClientPreferences.
var PreferenceKeys = []string{
	PrefBackgroundImage,
	PrefCarouselInterval,
	PrefWarningDays,
	PrefDontRemindDate,
	PrefDarkMode,
}

// ClientPreferences holds presentation preferences of the panel operator.
type ClientPreferences struct {
	BackgroundImage  string `json:"backgroundImage"`
	CarouselInterval int    `json:"carouselInterval"` // seconds
	WarningDays      int    `json:"warningDays"`
	DontRemindDate   string `json:"dontRemindDate"` // YYYY-MM-DD
	DarkMode         bool   `json:"darkMode"`
}

// DefaultPreferences returns the preferences of a fresh client.
func DefaultPreferences() ClientPreferences {
	return ClientPreferences{CarouselInterval: 30, WarningDays: 15}
}

// DontRemindToday reports whether reminders were muted for now's date.
func (p ClientPreferences) DontRemindToday(now time.Time) bool {
	return p.DontRemindDate != "" && p.DontRemindDate == now.Format(DateLayout)
}

// ToMap flattens the preferences into store keys.
func (p ClientPreferences) ToMap() map[string]string {
	return map[string]string{
		PrefBackgroundImage:  p.BackgroundImage,
		PrefCarouselInterval: strconv.Itoa(p.CarouselInterval),
		PrefWarningDays:      strconv.Itoa(p.WarningDays),
		PrefDontRemindDate:   p.DontRemindDate,
		PrefDarkMode:         strconv.FormatBool(p.DarkMode),
	}
}

// PreferencesFromMap reads preferences, keeping defaults for absent or
// malformed values.
func PreferencesFromMap(m map[string]string) ClientPreferences {
	p := DefaultPreferences()
	if v, ok := m[PrefBackgroundImage]; ok {
		p.BackgroundImage = v
	}
	if n, err := strconv.Atoi(m[PrefCarouselInterval]); err == nil && n > 0 {
		p.CarouselInterval = n
	}
	if n, err := strconv.Atoi(m[PrefWarningDays]); err == nil && n > 0 {
		p.WarningDays = n
	}
	if v, ok := m[PrefDontRemindDate]; ok {
		p.DontRemindDate = v
	}
	if b, err := strconv.ParseBool(m[PrefDarkMode]); err == nil {
		p.DarkMode = b
	}
	return p
}
