// Package panel keeps the working collection of domain records in sync
// with the remote store.
package panel

import (
	"context"
	"slices"
	"sync"
	"time"

	"domain-panel/internal/logger"
	"domain-panel/internal/metrics"
	"domain-panel/internal/models"
	"domain-panel/internal/services"
	"domain-panel/internal/store"
	"domain-panel/internal/view"
)

// State of the controller with respect to mutating actions.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// Notifier dispatches one reminder through the given methods.
type Notifier interface {
	Notify(ctx context.Context, records []models.DomainRecord, methods models.Methods) []services.MethodResult
}

// SettingsSource supplies the reminder settings.
type SettingsSource interface {
	EffectiveSettings(ctx context.Context) (models.NotificationSettings, error)
}

// Reminder is the outcome of the last expiry check.
type Reminder struct {
	Expiring   []models.DomainRecord   `json:"expiring"`
	WindowDays int                     `json:"windowDays"`
	Notified   bool                    `json:"notified"`
	Results    []services.MethodResult `json:"results,omitempty"`
	CheckedAt  time.Time               `json:"checkedAt"`
}

// Controller owns the working collection. Mutations are applied locally
// first, then the full collection is written to the remote store and
// reloaded. Concurrent actions are not serialized: the later response wins.
type Controller struct {
	remote   Remote
	notifier Notifier
	settings SettingsSource
	prefs    store.PreferenceStore
	metrics  *metrics.Metrics
	logger   logger.Logger
	now      func() time.Time

	mu       sync.RWMutex
	records  []models.DomainRecord
	reminder Reminder
	inflight int
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the reminder collaborator.
func WithNotifier(n Notifier) Option { return func(c *Controller) { c.notifier = n } }

// WithSettings sets the source of reminder settings.
func WithSettings(s SettingsSource) Option { return func(c *Controller) { c.settings = s } }

// WithPreferences sets the preference store consulted for the mute date.
func WithPreferences(p store.PreferenceStore) Option { return func(c *Controller) { c.prefs = p } }

// WithMetrics sets the collectors.
func WithMetrics(m *metrics.Metrics) Option { return func(c *Controller) { c.metrics = m } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// NewController creates a controller over remote with an empty collection.
func NewController(remote Remote, opts ...Option) *Controller {
	c := &Controller{
		remote:  remote,
		logger:  logger.NewNop(),
		now:     time.Now,
		records: []models.DomainRecord{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Records returns a copy of the working collection.
func (c *Controller) Records() []models.DomainRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

// State reports whether a mutating action is in flight.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.inflight > 0 {
		return StateSubmitting
	}
	return StateIdle
}

// Expiring returns the outcome of the last expiry check.
func (c *Controller) Expiring() Reminder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r := c.reminder
	r.Expiring = slices.Clone(r.Expiring)
	r.Results = slices.Clone(r.Results)
	return r
}

// View filters, sorts and paginates the working collection.
func (c *Controller) View(q view.Query, page, pageSize int) ([]view.Row, int) {
	rows := view.FilterAndSort(c.Records(), q, c.now())
	return view.Paginate(rows, page, pageSize), len(rows)
}

func (c *Controller) begin() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
}

func (c *Controller) end() {
	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()
}

func (c *Controller) setRecords(records []models.DomainRecord) {
	if records == nil {
		records = []models.DomainRecord{}
	}
	c.mu.Lock()
	c.records = records
	c.mu.Unlock()
	c.metrics.SetDomains(len(records))
}

// Load fetches the full collection and replaces the working one. On failure
// the working collection becomes empty. A successful load runs the expiry
// check.
func (c *Controller) Load(ctx context.Context) error {
	records, err := c.remote.ListAll(ctx)
	if err != nil {
		c.setRecords(nil)
		c.logger.Error("Failed to load domains", logger.Error(err))
		return &TransportError{Op: "load", Err: err}
	}
	c.setRecords(records)

	settings, err := c.loadSettings(ctx)
	c.metrics.ObserveReminderRun("load")
	c.checkExpiring(ctx, records, settings.WarningDays, settings, err == nil)
	return nil
}

// loadSettings reads the reminder settings once. On error the defaults are
// returned with the error.
func (c *Controller) loadSettings(ctx context.Context) (models.NotificationSettings, error) {
	if c.settings == nil {
		return models.DefaultNotificationSettings(), nil
	}
	s, err := c.settings.EffectiveSettings(ctx)
	if err != nil {
		c.logger.Warn("Failed to load notification settings", logger.Error(err))
		return models.DefaultNotificationSettings(), err
	}
	return s, nil
}

// Save replaces the working collection with records, then writes it to the
// remote store. A failed write keeps the local state.
func (c *Controller) Save(ctx context.Context, records []models.DomainRecord) error {
	c.begin()
	defer c.end()

	records = slices.Clone(records)
	c.setRecords(records)
	if err := c.remote.ReplaceAll(ctx, records); err != nil {
		c.logger.Error("Failed to save domains", logger.Int("count", len(records)), logger.Error(err))
		return &TransportError{Op: "save", Err: err}
	}
	return nil
}

func (c *Controller) saveAndReload(ctx context.Context, records []models.DomainRecord) error {
	if err := c.Save(ctx, records); err != nil {
		return err
	}
	return c.Load(ctx)
}

// Add validates r, appends it and saves the collection.
func (c *Controller) Add(ctx context.Context, r models.DomainRecord) error {
	if err := models.ValidateRecord(r); err != nil {
		return err
	}
	c.begin()
	defer c.end()

	next := append(c.Records(), r)
	return c.saveAndReload(ctx, next)
}

// Edit validates r and replaces the record at index with it.
func (c *Controller) Edit(ctx context.Context, index int, r models.DomainRecord) error {
	if err := models.ValidateRecord(r); err != nil {
		return err
	}
	c.begin()
	defer c.end()

	next := c.Records()
	if index < 0 || index >= len(next) {
		return &IndexError{Index: index, Len: len(next)}
	}
	next[index] = r
	return c.saveAndReload(ctx, next)
}

// Delete removes the identified record with a single-row remote delete,
// then reloads.
func (c *Controller) Delete(ctx context.Context, id Identifier) error {
	c.begin()
	defer c.end()

	if err := c.remote.DeleteOne(ctx, id); err != nil {
		c.logger.Error("Failed to delete domain", logger.String("identifier", id.String()), logger.Error(err))
		return &TransportError{Op: "delete", Err: err}
	}
	return c.Load(ctx)
}

// BatchDelete removes the records at indices. Out-of-range indices are
// ignored.
func (c *Controller) BatchDelete(ctx context.Context, indices []int) error {
	c.begin()
	defer c.end()

	selected := indexSet(indices)
	current := c.Records()
	next := make([]models.DomainRecord, 0, len(current))
	for i, r := range current {
		if !selected[i] {
			next = append(next, r)
		}
	}
	return c.saveAndReload(ctx, next)
}

// BatchSetStatus sets status on the records at indices. Out-of-range
// indices are ignored.
func (c *Controller) BatchSetStatus(ctx context.Context, indices []int, status models.Status) error {
	if !status.Valid() {
		return &models.ValidationError{Errors: []string{models.MsgStatusInvalid}}
	}
	c.begin()
	defer c.end()

	next := c.Records()
	for i := range indexSet(indices) {
		if i >= 0 && i < len(next) {
			next[i].Status = status
		}
	}
	return c.saveAndReload(ctx, next)
}

func indexSet(indices []int) map[int]bool {
	set := make(map[int]bool, len(indices))
	for _, i := range indices {
		set[i] = true
	}
	return set
}

// CheckExpiringAndNotify returns the records of collection expiring within
// windowDays and keeps them for display. When any match and reminders are
// enabled, not muted for today and have at least one method, the notifier
// is called once.
func (c *Controller) CheckExpiringAndNotify(ctx context.Context, collection []models.DomainRecord, windowDays int) []models.DomainRecord {
	settings, err := c.loadSettings(ctx)
	return c.checkExpiring(ctx, collection, windowDays, settings, err == nil)
}

// checkExpiring runs the expiry check with settings already read. A false
// settingsOK keeps the gate closed.
func (c *Controller) checkExpiring(ctx context.Context, collection []models.DomainRecord, windowDays int, settings models.NotificationSettings, settingsOK bool) []models.DomainRecord {
	now := c.now()
	expiring := view.ExpiringSoon(collection, windowDays, now)
	reminder := Reminder{Expiring: expiring, WindowDays: windowDays, CheckedAt: now}

	if len(expiring) > 0 && c.notifier != nil && settingsOK && c.gateOpen(ctx, settings, now) {
		reminder.Results = c.notifier.Notify(ctx, expiring, settings.NotificationMethod)
		reminder.Notified = true
	}

	c.mu.Lock()
	c.reminder = reminder
	c.mu.Unlock()
	return expiring
}

// gateOpen reports whether a reminder may be sent under settings.
func (c *Controller) gateOpen(ctx context.Context, settings models.NotificationSettings, now time.Time) bool {
	if !settings.NotificationEnabled || len(settings.NotificationMethod) == 0 {
		return false
	}
	if c.prefs != nil {
		prefs, err := store.LoadPreferences(ctx, c.prefs)
		if err != nil {
			c.logger.Warn("Failed to load preferences", logger.Error(err))
		} else if prefs.DontRemindToday(now) {
			return false
		}
	}
	return true
}
