// Package view computes derived fields and filtered, sorted, paginated
// views over a domain collection. Every function is pure.
package view

import (
	"math"
	"time"

	"domain-panel/internal/models"
)

const day = 24 * time.Hour

// Severity classifies usage progress for display.
type Severity string

const (
	SeverityNormal  Severity = "normal"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// DaysLeft returns ceil((expire - now) / 1 day). Negative once expired.
func DaysLeft(expire, now time.Time) int {
	return int(math.Ceil(float64(expire.Sub(now)) / float64(day)))
}

// UsageProgress returns how much of the registration period has elapsed,
// as an integer percentage in [0, 100]. Bounds are checked before dividing,
// so register == expire never divides by zero.
func UsageProgress(register, expire, now time.Time) int {
	if !now.Before(expire) {
		return 100
	}
	if !now.After(register) {
		return 0
	}
	elapsed := float64(now.Sub(register))
	total := float64(expire.Sub(register))
	return int(math.Round(elapsed / total * 100))
}

// ProgressSeverity maps progress to a severity class.
func ProgressSeverity(progress int) Severity {
	switch {
	case progress >= 80:
		return SeverityDanger
	case progress >= 60:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// IsExpiringSoon reports 0 < daysLeft <= windowDays.
func IsExpiringSoon(expire time.Time, windowDays int, now time.Time) bool {
	left := DaysLeft(expire, now)
	return left > 0 && left <= windowDays
}

// Row is a record together with its derived fields.
type Row struct {
	models.DomainRecord
	Index       int      `json:"index"` // position in the source collection
	DaysLeft    int      `json:"daysLeft"`
	Progress    int      `json:"progress"`
	Severity    Severity `json:"severity"`
	StatusLabel string   `json:"statusLabel"`
}

// NewRow computes the derived fields of r at now.
func NewRow(r models.DomainRecord, index int, now time.Time) Row {
	expire := models.DateOrZero(r.ExpireDate)
	progress := UsageProgress(models.DateOrZero(r.RegisterDate), expire, now)
	return Row{
		DomainRecord: r,
		Index:        index,
		DaysLeft:     DaysLeft(expire, now),
		Progress:     progress,
		Severity:     ProgressSeverity(progress),
		StatusLabel:  r.Status.Label(),
	}
}

// ExpiringSoon returns the records whose expireDate falls within the window,
// in collection order. Records with an unparseable expireDate are skipped.
func ExpiringSoon(records []models.DomainRecord, windowDays int, now time.Time) []models.DomainRecord {
	var out []models.DomainRecord
	for _, r := range records {
		expire, err := models.ParseDate(r.ExpireDate)
		if err != nil {
			continue
		}
		if IsExpiringSoon(expire, windowDays, now) {
			out = append(out, r)
		}
	}
	return out
}

// Stats summarizes a collection for the panel header.
type Stats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Expired      int `json:"expired"`
	Pending      int `json:"pending"`
	ExpiringSoon int `json:"expiringSoon"`
	AvgProgress  int `json:"avgProgress"`
}

// Summarize counts records by status and averages usage progress.
func Summarize(records []models.DomainRecord, windowDays int, now time.Time) Stats {
	s := Stats{Total: len(records)}
	sum := 0
	for _, r := range records {
		switch r.Status {
		case models.StatusActive:
			s.Active++
		case models.StatusExpired:
			s.Expired++
		case models.StatusPending:
			s.Pending++
		}
		sum += UsageProgress(models.DateOrZero(r.RegisterDate), models.DateOrZero(r.ExpireDate), now)
	}
	s.ExpiringSoon = len(ExpiringSoon(records, windowDays, now))
	if s.Total > 0 {
		s.AvgProgress = int(math.Round(float64(sum) / float64(s.Total)))
	}
	return s
}
