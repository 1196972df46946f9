package view

import (
	"testing"
	"time"

	"domain-panel/internal/models"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysLeft(date("2026-10-17"), now))
	assert.Equal(t, 0, DaysLeft(date("2026-10-16"), now))
	assert.Equal(t, -1, DaysLeft(date("2026-10-15"), now))
	assert.Equal(t, 15, DaysLeft(date("2026-10-31"), now))
	assert.Equal(t, 0, DaysLeft(now, now))
}

func TestUsageProgressBounds(t *testing.T) {
	r, e := date("2024-01-01"), date("2025-01-01")

	assert.Equal(t, 0, UsageProgress(r, e, r.Add(-time.Hour)))
	assert.Equal(t, 0, UsageProgress(r, e, r))
	assert.Equal(t, 100, UsageProgress(r, e, e))
	assert.Equal(t, 100, UsageProgress(r, e, e.Add(48*time.Hour)))
	assert.Equal(t, 50, UsageProgress(r, e, r.Add(e.Sub(r)/2)))
}

func TestUsageProgressDegenerate(t *testing.T) {
	d := date("2024-06-01")
	assert.Equal(t, 100, UsageProgress(d, d, d))
	assert.Equal(t, 100, UsageProgress(d, d, d.Add(time.Minute)))
	assert.Equal(t, 0, UsageProgress(d, d, d.Add(-time.Minute)))
}

func TestUsageProgressMonotonic(t *testing.T) {
	r, e := date("2024-01-01"), date("2024-03-01")
	prev := -1
	for now := r; !now.After(e); now = now.Add(7 * time.Hour) {
		p := UsageProgress(r, e, now)
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
}

func TestProgressSeverity(t *testing.T) {
	assert.Equal(t, SeverityNormal, ProgressSeverity(0))
	assert.Equal(t, SeverityNormal, ProgressSeverity(59))
	assert.Equal(t, SeverityWarning, ProgressSeverity(60))
	assert.Equal(t, SeverityWarning, ProgressSeverity(79))
	assert.Equal(t, SeverityDanger, ProgressSeverity(80))
	assert.Equal(t, SeverityDanger, ProgressSeverity(100))
}

func TestIsExpiringSoon(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		expire string
		want   bool
	}{
		{"2026-10-16", false}, // daysLeft 0
		{"2026-10-10", false}, // past
		{"2026-10-17", true},  // 1
		{"2026-10-31", true},  // 15
		{"2026-11-01", false}, // 16
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsExpiringSoon(date(tt.expire), 15, now), tt.expire)
	}
}

func TestExpiringSoonSkipsBadDates(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	records := []models.DomainRecord{
		{Domain: "soon.com", ExpireDate: "2026-10-20"},
		{Domain: "bad.com", ExpireDate: "never"},
		{Domain: "later.com", ExpireDate: "2027-10-20"},
	}
	got := ExpiringSoon(records, 15, now)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "soon.com", got[0].Domain)
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	records := []models.DomainRecord{
		{Domain: "a.com", Status: models.StatusActive, RegisterDate: "2025-10-16", ExpireDate: "2026-10-20"},
		{Domain: "b.com", Status: models.StatusExpired, RegisterDate: "2020-01-01", ExpireDate: "2021-01-01"},
		{Domain: "c.com", Status: models.StatusPending, RegisterDate: "2027-01-01", ExpireDate: "2028-01-01"},
	}
	s := Summarize(records, 15, now)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Expired)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.ExpiringSoon)
	// 99 + 100 + 0
	assert.Equal(t, 66, s.AvgProgress)

	assert.Equal(t, Stats{}, Summarize(nil, 15, now))
}

func TestNewRow(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	row := NewRow(models.DomainRecord{
		Domain:       "a.com",
		Status:       models.StatusExpired,
		RegisterDate: "2026-01-01",
		ExpireDate:   "2026-10-26",
	}, 4, now)

	assert.Equal(t, 4, row.Index)
	assert.Equal(t, 10, row.DaysLeft)
	assert.Equal(t, SeverityDanger, row.Severity)
	assert.Equal(t, "已过期", row.StatusLabel)
}
