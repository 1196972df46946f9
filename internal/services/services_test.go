package services

import (
	"context"
	"sync"
	"time"

	"domain-panel/internal/models"
)

var now = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

func rec(domain, expire string) models.DomainRecord {
	return models.DomainRecord{
		Domain:       domain,
		Status:       models.StatusActive,
		Registrar:    "Namecheap",
		RegisterDate: "2024-10-20",
		ExpireDate:   expire,
	}
}

type memLog struct {
	mu      sync.Mutex
	entries []models.Notification
}

func (l *memLog) RecordNotification(_ context.Context, n *models.Notification) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, *n)
	return nil
}

type fakeNotifier struct {
	method models.NotifyMethod
	err    error

	mu   sync.Mutex
	sent []Message
}

func (f *fakeNotifier) Method() models.NotifyMethod { return f.method }

func (f *fakeNotifier) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeNotifier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type memPrefs map[string]string

func (m memPrefs) Get(_ context.Context, keys ...string) (map[string]string, error) {
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m memPrefs) Set(_ context.Context, values map[string]string) error {
	for k, v := range values {
		m[k] = v
	}
	return nil
}
