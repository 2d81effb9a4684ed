package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medcompanion/medcompanion/internal/models"
)

type stubReminderSchedules struct {
	schedules []models.Schedule
}

func (stub *stubReminderSchedules) List() ([]models.Schedule, error) {
	return stub.schedules, nil
}

type stubReminderMedications struct {
	medication models.Medication
	found      bool
}

func (stub *stubReminderMedications) FindByID(uuid.UUID) (models.Medication, bool, error) {
	return stub.medication, stub.found, nil
}

type stubReminderDoses struct {
	logs         []models.DoseLog
	byOccurrence map[string]models.DoseLog
}

func (stub *stubReminderDoses) ListRange(time.Time, time.Time) ([]models.DoseLog, error) {
	return stub.logs, nil
}

func (stub *stubReminderDoses) FindByOccurrence(medicationID uuid.UUID, plannedAt time.Time) (models.DoseLog, bool, error) {
	entry, found := stub.byOccurrence[OccurrenceKey(medicationID, plannedAt)]
	return entry, found, nil
}

type stubReminderSnoozes struct {
	snoozes []models.Snooze
}

func (stub *stubReminderSnoozes) List() ([]models.Snooze, error) {
	return stub.snoozes, nil
}

type stubReminderSettings struct {
	settings models.Settings
}

func (stub *stubReminderSettings) Load() (models.Settings, error) {
	return stub.settings, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
	bodies []string
}

func (notifier *recordingNotifier) Notify(_ context.Context, title string, body string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.titles = append(notifier.titles, title)
	notifier.bodies = append(notifier.bodies, body)
	return nil
}

func (notifier *recordingNotifier) count() int {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return len(notifier.titles)
}

type reminderFixture struct {
	scheduler *ReminderScheduler
	notifier  *recordingNotifier
	doses     *stubReminderDoses
	dose      PlannedDose
	now       time.Time
}

// buildReminderFixture wires a scheduler around one daily medication
// with doses at 09:00 and 10:30, frozen at 10:00.
func buildReminderFixture(t *testing.T) *reminderFixture {
	t.Helper()

	medication := models.Medication{ID: uuid.New(), Name: "Aspirin", Dose: "100", Unit: "mg"}
	schedule := models.Schedule{
		ID:           uuid.New(),
		MedicationID: medication.ID,
		Times:        []string{"09:00", "10:30"},
		Recurrence:   models.RecurrenceDaily,
	}

	notifier := &recordingNotifier{}
	doses := &stubReminderDoses{byOccurrence: make(map[string]models.DoseLog)}
	settings := models.DefaultSettings()
	settings.NotificationsEnabled = true
	settings.Use24HourClock = true

	scheduler := NewReminderScheduler(
		&stubReminderSchedules{schedules: []models.Schedule{schedule}},
		&stubReminderMedications{medication: medication, found: true},
		doses,
		&stubReminderSnoozes{},
		&stubReminderSettings{settings: settings},
		notifier,
		time.UTC,
	)

	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	scheduler.now = func() time.Time { return now }
	t.Cleanup(scheduler.CancelAll)

	return &reminderFixture{
		scheduler: scheduler,
		notifier:  notifier,
		doses:     doses,
		dose: PlannedDose{
			MedicationID: medication.ID,
			ScheduleID:   schedule.ID,
			PlannedAt:    time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
		},
		now: now,
	}
}

func TestReconcileArmsOnlyUpcomingOccurrences(t *testing.T) {
	fixture := buildReminderFixture(t)

	if err := fixture.scheduler.Reconcile(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 09:00 is more than a minute past and owes no notification.
	if got := fixture.scheduler.ArmedCount(); got != 1 {
		t.Fatalf("expected 1 armed reminder, got %d", got)
	}
}

func TestReconcileSkipsLoggedOccurrences(t *testing.T) {
	fixture := buildReminderFixture(t)
	fixture.doses.logs = []models.DoseLog{{
		MedicationID: fixture.dose.MedicationID,
		PlannedAt:    fixture.dose.PlannedAt,
		Status:       models.DoseStatusTaken,
	}}

	if err := fixture.scheduler.Reconcile(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fixture.scheduler.ArmedCount(); got != 0 {
		t.Fatalf("expected no armed reminders for a logged dose, got %d", got)
	}
}

func TestReconcileDisabledCancelsEverything(t *testing.T) {
	fixture := buildReminderFixture(t)
	if err := fixture.scheduler.Reconcile(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fixture.scheduler.ArmedCount() != 1 {
		t.Fatalf("expected an armed reminder before disabling")
	}

	disabled := models.DefaultSettings()
	fixture.scheduler.settings = &stubReminderSettings{settings: disabled}
	if err := fixture.scheduler.Reconcile(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fixture.scheduler.ArmedCount(); got != 0 {
		t.Fatalf("expected all timers cancelled, got %d", got)
	}
}

func TestCancelSuppressesLaterReconcile(t *testing.T) {
	fixture := buildReminderFixture(t)
	if err := fixture.scheduler.Reconcile(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fixture.scheduler.Cancel(fixture.dose.MedicationID, fixture.dose.PlannedAt)
	if got := fixture.scheduler.ArmedCount(); got != 0 {
		t.Fatalf("expected timer dropped after cancel, got %d", got)
	}

	if err := fixture.scheduler.Reconcile(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fixture.scheduler.ArmedCount(); got != 0 {
		t.Fatalf("expected cancelled occurrence to stay unarmed, got %d", got)
	}
}

func TestSnoozeKeepsSingleTimer(t *testing.T) {
	fixture := buildReminderFixture(t)
	if err := fixture.scheduler.Reconcile(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fixture.scheduler.Snooze(context.Background(), fixture.dose, fixture.now.Add(10*time.Minute))
	fixture.scheduler.Snooze(context.Background(), fixture.dose, fixture.now.Add(20*time.Minute))

	if got := fixture.scheduler.ArmedCount(); got != 1 {
		t.Fatalf("expected exactly one timer after repeated snoozes, got %d", got)
	}
}

func TestSnoozeBeyondHorizonDoesNotArm(t *testing.T) {
	fixture := buildReminderFixture(t)

	fixture.scheduler.Snooze(context.Background(), fixture.dose, fixture.now.Add(reminderArmHorizon+time.Hour))
	if got := fixture.scheduler.ArmedCount(); got != 0 {
		t.Fatalf("expected no timer beyond the arming horizon, got %d", got)
	}
}

func TestSnoozeReArmsAfterNotification(t *testing.T) {
	fixture := buildReminderFixture(t)
	fixture.scheduler.Cancel(fixture.dose.MedicationID, fixture.dose.PlannedAt)

	// The notified mark alone blocks reconcile, but an explicit snooze
	// clears it so the delayed reminder can still fire.
	fixture.scheduler.Snooze(context.Background(), fixture.dose, fixture.now.Add(15*time.Minute))
	if got := fixture.scheduler.ArmedCount(); got != 1 {
		t.Fatalf("expected snooze to re-arm a notified occurrence, got %d", got)
	}
}

func TestFireDeliversNotification(t *testing.T) {
	fixture := buildReminderFixture(t)
	key := fixture.dose.Key()
	fixture.scheduler.timers[key] = &armedReminder{dose: fixture.dose, target: fixture.dose.PlannedAt}

	fixture.scheduler.fire(context.Background(), key, fixture.dose, fixture.dose.PlannedAt)

	if fixture.notifier.count() != 1 {
		t.Fatalf("expected one notification, got %d", fixture.notifier.count())
	}
	if fixture.notifier.titles[0] != "Time for Aspirin" {
		t.Fatalf("unexpected title %q", fixture.notifier.titles[0])
	}
	if !strings.Contains(fixture.notifier.bodies[0], "10:30") {
		t.Fatalf("expected due time in body, got %q", fixture.notifier.bodies[0])
	}
}

func TestFireSuppressedWhenDoseLoggedAfterArming(t *testing.T) {
	fixture := buildReminderFixture(t)
	key := fixture.dose.Key()
	fixture.scheduler.timers[key] = &armedReminder{dose: fixture.dose, target: fixture.dose.PlannedAt}
	fixture.doses.byOccurrence[key] = models.DoseLog{
		MedicationID: fixture.dose.MedicationID,
		PlannedAt:    fixture.dose.PlannedAt,
		Status:       models.DoseStatusTaken,
	}

	fixture.scheduler.fire(context.Background(), key, fixture.dose, fixture.dose.PlannedAt)

	if fixture.notifier.count() != 0 {
		t.Fatalf("expected notification suppressed, got %d", fixture.notifier.count())
	}
}

func TestFireNeverRepeatsForSameKey(t *testing.T) {
	fixture := buildReminderFixture(t)
	key := fixture.dose.Key()

	fixture.scheduler.timers[key] = &armedReminder{dose: fixture.dose, target: fixture.dose.PlannedAt}
	fixture.scheduler.fire(context.Background(), key, fixture.dose, fixture.dose.PlannedAt)

	fixture.scheduler.timers[key] = &armedReminder{dose: fixture.dose, target: fixture.dose.PlannedAt}
	fixture.scheduler.fire(context.Background(), key, fixture.dose, fixture.dose.PlannedAt)

	if fixture.notifier.count() != 1 {
		t.Fatalf("expected a key to notify at most once, got %d", fixture.notifier.count())
	}
}
