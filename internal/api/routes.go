package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	medications := api.Group("/medications")
	medications.Get("/", handler.GetMedications)
	medications.Post("/", handler.CreateMedication)
	medications.Put("/:id", handler.UpdateMedication)
	medications.Delete("/:id", handler.DeleteMedication)

	schedules := api.Group("/schedules")
	schedules.Get("/", handler.GetSchedules)
	schedules.Post("/", handler.CreateSchedule)
	schedules.Put("/:id", handler.UpdateSchedule)
	schedules.Delete("/:id", handler.DeleteSchedule)

	api.Get("/today", handler.GetToday)

	doses := api.Group("/doses")
	doses.Get("/", handler.GetDoseLogs)
	doses.Post("/take", handler.TakeDose)
	doses.Post("/skip", handler.SkipDose)
	doses.Post("/snooze", handler.SnoozeDose)

	symptoms := api.Group("/symptoms")
	symptoms.Get("/", handler.GetSymptoms)
	symptoms.Post("/", handler.CreateSymptom)
	symptoms.Delete("/:id", handler.DeleteSymptom)

	api.Get("/labels/:name", handler.GetLabel)
	api.Post("/chat", handler.AskChat)

	export := api.Group("/export")
	export.Get("/doses.csv", handler.ExportDosesCSV)
	export.Get("/symptoms.csv", handler.ExportSymptomsCSV)
	export.Get("/summary", handler.ExportSummary)

	settings := api.Group("/settings")
	settings.Get("/", handler.GetSettings)
	settings.Put("/", handler.UpdateSettings)
}
