package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
)

const (
	// Targets older than this are stale: no notification is owed.
	reminderStaleGrace = time.Minute
	// Timers are only armed inside this horizon; occurrences further
	// out get picked up by a later reconcile pass.
	reminderArmHorizon = 24 * time.Hour

	reminderRefreshInterval = 5 * time.Minute
	notifiedRetention       = 48 * time.Hour
)

// Notifier delivers one reminder. A nil notifier (or a delivery
// failure) is a silent no-op from the scheduler's point of view.
type Notifier interface {
	Notify(ctx context.Context, title string, body string) error
}

type ReminderScheduleReader interface {
	List() ([]models.Schedule, error)
}

type ReminderMedicationReader interface {
	FindByID(medicationID uuid.UUID) (models.Medication, bool, error)
}

type ReminderDoseReader interface {
	ListRange(from time.Time, to time.Time) ([]models.DoseLog, error)
	FindByOccurrence(medicationID uuid.UUID, plannedAt time.Time) (models.DoseLog, bool, error)
}

type ReminderSnoozeReader interface {
	List() ([]models.Snooze, error)
}

type ReminderSettingsReader interface {
	Load() (models.Settings, error)
}

type armedReminder struct {
	timer  *time.Timer
	target time.Time
	dose   PlannedDose
}

// ReminderScheduler owns every pending dose timer for the process.
// It keeps one timer per occurrence key, a notified set so a key never
// fires twice, and a single Reconcile method invoked on every relevant
// state change. Armed-timer state is process-local: after a restart it
// is rebuilt from persisted schedules, logs and snoozes.
type ReminderScheduler struct {
	schedules   ReminderScheduleReader
	medications ReminderMedicationReader
	doseLogs    ReminderDoseReader
	snoozes     ReminderSnoozeReader
	settings    ReminderSettingsReader
	notifier    Notifier
	location    *time.Location
	now         func() time.Time

	mu       sync.Mutex
	timers   map[string]*armedReminder
	notified map[string]time.Time
}

func NewReminderScheduler(
	schedules ReminderScheduleReader,
	medications ReminderMedicationReader,
	doseLogs ReminderDoseReader,
	snoozes ReminderSnoozeReader,
	settings ReminderSettingsReader,
	notifier Notifier,
	location *time.Location,
) *ReminderScheduler {
	if location == nil {
		location = time.Local
	}
	return &ReminderScheduler{
		schedules:   schedules,
		medications: medications,
		doseLogs:    doseLogs,
		snoozes:     snoozes,
		settings:    settings,
		notifier:    notifier,
		location:    location,
		now:         time.Now,
		timers:      make(map[string]*armedReminder),
		notified:    make(map[string]time.Time),
	}
}

// Start runs an initial reconcile and then refreshes periodically so
// occurrences crossing the arming horizon (or a date change) get
// picked up without a user action.
func (scheduler *ReminderScheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(reminderRefreshInterval)
	go func() {
		defer ticker.Stop()

		scheduler.reconcileLogged(ctx)
		for {
			select {
			case <-ctx.Done():
				scheduler.CancelAll()
				return
			case <-ticker.C:
				scheduler.reconcileLogged(ctx)
			}
		}
	}()
}

func (scheduler *ReminderScheduler) reconcileLogged(ctx context.Context) {
	if err := scheduler.Reconcile(ctx); err != nil {
		log.Printf("reminders: reconcile failed: %v", err)
	}
}

// Reconcile rebuilds the armed timer set from current state: it cancels
// timers for keys no longer due, re-arms keys whose target moved, and
// arms qualifying keys that are neither armed nor already notified.
func (scheduler *ReminderScheduler) Reconcile(ctx context.Context) error {
	settings, err := scheduler.settings.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !settings.NotificationsEnabled || scheduler.notifier == nil {
		scheduler.CancelAll()
		return nil
	}

	location := scheduler.resolveLocation(settings.Timezone)
	now := scheduler.now()

	schedules, err := scheduler.schedules.List()
	if err != nil {
		return fmt.Errorf("list schedules: %w", err)
	}
	occurrences := ExpandSchedules(schedules, now.In(location), location)

	dayStart := time.Date(now.In(location).Year(), now.In(location).Month(), now.In(location).Day(), 0, 0, 0, 0, location)
	logs, err := scheduler.doseLogs.ListRange(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("list dose logs: %w", err)
	}
	loggedKeys := make(map[string]struct{}, len(logs))
	for _, entry := range logs {
		loggedKeys[OccurrenceKey(entry.MedicationID, entry.PlannedAt)] = struct{}{}
	}

	snoozes, err := scheduler.snoozes.List()
	if err != nil {
		return fmt.Errorf("list snoozes: %w", err)
	}
	snoozeTargets := make(map[string]time.Time, len(snoozes))
	for _, snooze := range snoozes {
		snoozeTargets[OccurrenceKey(snooze.MedicationID, snooze.PlannedAt)] = snooze.Until
	}

	wanted := make(map[string]armedReminder, len(occurrences))
	for _, occurrence := range occurrences {
		key := occurrence.Key()
		if _, logged := loggedKeys[key]; logged {
			continue
		}
		target := occurrence.PlannedAt
		if until, snoozed := snoozeTargets[key]; snoozed {
			target = until
		}
		wanted[key] = armedReminder{target: target, dose: occurrence}
	}

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	scheduler.pruneNotifiedLocked(now)

	for key, armed := range scheduler.timers {
		pending, stillWanted := wanted[key]
		if stillWanted && pending.target.Equal(armed.target) {
			continue
		}
		armed.timer.Stop()
		delete(scheduler.timers, key)
	}

	for key, pending := range wanted {
		if _, alreadyArmed := scheduler.timers[key]; alreadyArmed {
			continue
		}
		if _, alreadyNotified := scheduler.notified[key]; alreadyNotified {
			continue
		}
		scheduler.armLocked(ctx, key, pending.dose, pending.target, now)
	}

	return nil
}

// Snooze overwrites the key's target and forces a re-arm against the
// new target, replacing any pending timer and clearing the notified
// mark so the snoozed reminder can fire.
func (scheduler *ReminderScheduler) Snooze(ctx context.Context, dose PlannedDose, until time.Time) {
	key := dose.Key()

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if armed, exists := scheduler.timers[key]; exists {
		armed.timer.Stop()
		delete(scheduler.timers, key)
	}
	delete(scheduler.notified, key)
	scheduler.armLocked(ctx, key, dose, until, scheduler.now())
}

// Cancel permanently drops the key: any pending timer stops and the key
// is marked so no later reconcile pass re-arms it. Used when a dose is
// taken or skipped.
func (scheduler *ReminderScheduler) Cancel(medicationID uuid.UUID, plannedAt time.Time) {
	key := OccurrenceKey(medicationID, plannedAt)

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if armed, exists := scheduler.timers[key]; exists {
		armed.timer.Stop()
		delete(scheduler.timers, key)
	}
	scheduler.notified[key] = plannedAt
}

func (scheduler *ReminderScheduler) CancelAll() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	for key, armed := range scheduler.timers {
		armed.timer.Stop()
		delete(scheduler.timers, key)
	}
}

// ArmedCount reports how many timers are currently pending.
func (scheduler *ReminderScheduler) ArmedCount() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return len(scheduler.timers)
}

func (scheduler *ReminderScheduler) armLocked(ctx context.Context, key string, dose PlannedDose, target time.Time, now time.Time) {
	if target.Before(now.Add(-reminderStaleGrace)) {
		return
	}
	if target.After(now.Add(reminderArmHorizon)) {
		return
	}

	delay := target.Sub(now)
	if delay < 0 {
		delay = 0
	}

	armed := &armedReminder{target: target, dose: dose}
	armed.timer = time.AfterFunc(delay, func() {
		scheduler.fire(ctx, key, dose, target)
	})
	scheduler.timers[key] = armed
}

// fire re-checks the log at delivery time: a dose taken or skipped
// after arming suppresses the notification.
func (scheduler *ReminderScheduler) fire(ctx context.Context, key string, dose PlannedDose, target time.Time) {
	scheduler.mu.Lock()
	if _, exists := scheduler.timers[key]; !exists {
		scheduler.mu.Unlock()
		return
	}
	delete(scheduler.timers, key)
	if _, alreadyNotified := scheduler.notified[key]; alreadyNotified {
		scheduler.mu.Unlock()
		return
	}
	scheduler.notified[key] = dose.PlannedAt
	scheduler.mu.Unlock()

	if _, logged, err := scheduler.doseLogs.FindByOccurrence(dose.MedicationID, dose.PlannedAt); err != nil {
		log.Printf("reminders: occurrence lookup failed: %v", err)
		return
	} else if logged {
		return
	}

	medication, found, err := scheduler.medications.FindByID(dose.MedicationID)
	if err != nil || !found {
		return
	}

	settings, err := scheduler.settings.Load()
	if err != nil {
		settings = models.DefaultSettings()
	}
	location := scheduler.resolveLocation(settings.Timezone)

	title := fmt.Sprintf("Time for %s", medication.Name)
	body := fmt.Sprintf("%s %s%s is due at %s.",
		medication.Name,
		medication.Dose,
		medication.Unit,
		formatClock(target.In(location), settings.Use24HourClock),
	)
	if err := scheduler.notifier.Notify(ctx, title, body); err != nil {
		log.Printf("reminders: delivery failed for %s: %v", medication.Name, err)
	}
}

func (scheduler *ReminderScheduler) pruneNotifiedLocked(now time.Time) {
	for key, plannedAt := range scheduler.notified {
		if now.Sub(plannedAt) > notifiedRetention {
			delete(scheduler.notified, key)
		}
	}
}

func (scheduler *ReminderScheduler) resolveLocation(timezone string) *time.Location {
	if timezone == "" {
		return scheduler.location
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return scheduler.location
	}
	return location
}

func formatClock(value time.Time, use24Hour bool) string {
	if use24Hour {
		return value.Format("15:04")
	}
	return value.Format("3:04 PM")
}
