package api

import (
	"time"

	"github.com/medcompanion/medcompanion/internal/db"
	"github.com/medcompanion/medcompanion/internal/labels"
	"github.com/medcompanion/medcompanion/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	repositories      *db.Repositories
	medicationService *services.MedicationService
	doseService       *services.DoseService
	todayService      *services.TodayService
	symptomService    *services.SymptomService
	settingsService   *services.SettingsService
	labelService      *services.LabelService
	contextService    *services.ContextService
	chatService       *services.ChatService
	exportService     *services.ExportService
	reminders         *services.ReminderScheduler
	location          *time.Location
}

type Config struct {
	ChatEndpoint   string
	ChatAPIKey     string
	LabelBaseURL   string
	NotifyWebhook  string
	Location       *time.Location
}

func NewHandler(database *gorm.DB, config Config) *Handler {
	location := config.Location
	if location == nil {
		location = time.Local
	}

	repositories := db.NewRepositories(database)

	var notifier services.Notifier
	if config.NotifyWebhook != "" {
		notifier = services.NewWebhookNotifier(config.NotifyWebhook)
	} else {
		notifier = services.NewLogNotifier()
	}

	labelService := services.NewLabelService(labels.NewClient(config.LabelBaseURL), repositories.DrugLabels)

	handler := &Handler{
		repositories:      repositories,
		medicationService: services.NewMedicationService(repositories.Medications, repositories.Schedules),
		doseService:       services.NewDoseService(repositories.DoseLogs, repositories.Snoozes),
		todayService:      services.NewTodayService(repositories.Medications, repositories.Schedules, repositories.DoseLogs, repositories.Snoozes),
		symptomService:    services.NewSymptomService(repositories.SymptomLogs),
		settingsService:   services.NewSettingsService(repositories.Settings),
		labelService:      labelService,
		contextService: services.NewContextService(
			labelService,
			repositories.Medications,
			repositories.Schedules,
			repositories.DoseLogs,
			repositories.SymptomLogs,
			location,
		),
		chatService:   services.NewChatService(config.ChatEndpoint, config.ChatAPIKey),
		exportService: services.NewExportService(repositories.Medications, repositories.DoseLogs, repositories.SymptomLogs),
		reminders: services.NewReminderScheduler(
			repositories.Schedules,
			repositories.Medications,
			repositories.DoseLogs,
			repositories.Snoozes,
			repositories.Settings,
			notifier,
			location,
		),
		location: location,
	}
	return handler
}

// Reminders exposes the scheduler so main can run its lifecycle.
func (handler *Handler) Reminders() *services.ReminderScheduler {
	return handler.reminders
}
