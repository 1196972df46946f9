package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"domain-panel/internal/logger"
	"domain-panel/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMonitor struct {
	mu       sync.Mutex
	triggers []string
	err      error
}

func (f *fakeMonitor) CheckAllDomains(_ context.Context, trigger string) (*services.CheckReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, trigger)
	return &services.CheckReport{Trigger: trigger}, f.err
}

func TestStartRegistersJobs(t *testing.T) {
	backup := func(context.Context) (string, error) { return "", nil }
	s := NewScheduler(&fakeMonitor{}, backup, logger.NewNop())

	require.NoError(t, s.Start(Specs{Daily: "0 9 * * *", Weekly: "0 9 * * 1", Backup: "@daily"}))
	defer s.Stop()
	assert.Equal(t, 3, s.Entries())
}

func TestStartSkipsEmptySpecs(t *testing.T) {
	s := NewScheduler(&fakeMonitor{}, nil, nil)
	require.NoError(t, s.Start(Specs{Daily: "0 9 * * *", Backup: "@daily"}))
	defer s.Stop()
	assert.Equal(t, 1, s.Entries())
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(&fakeMonitor{}, nil, nil)
	err := s.Start(Specs{Daily: "every morning"})
	assert.ErrorContains(t, err, "schedule daily job")
}

func TestRunJobs(t *testing.T) {
	m := &fakeMonitor{}
	var backups int
	s := NewScheduler(m, func(context.Context) (string, error) {
		backups++
		return "https://dav.example.com/domain/domains-backup.json", nil
	}, nil)

	s.RunReminder(services.TriggerDaily)
	s.RunReminder(services.TriggerWeekly)
	m.err = errors.New("db down")
	s.RunReminder(services.TriggerDaily)
	s.RunBackup()

	assert.Equal(t, []string{"daily", "weekly", "daily"}, m.triggers)
	assert.Equal(t, 1, backups)
}
