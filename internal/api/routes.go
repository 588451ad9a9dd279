package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/password", handler.AuthRequired, handler.ChangePassword)

	api.Post("/onboarding", handler.AuthRequired, handler.CompleteOnboarding)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("", handler.GetSettings)
	settings.Put("", handler.UpdateSettings)
	settings.Put("/telegram", handler.UpdateTelegramChat)

	periods := api.Group("/periods", handler.AuthRequired)
	periods.Get("", handler.ListPeriods)
	periods.Get("/current", handler.CurrentPeriod)
	periods.Post("", handler.CreatePeriod)
	periods.Delete("/:id", handler.DeletePeriod)

	api.Get("/cycle", handler.AuthRequired, handler.GetCycle)
	api.Get("/calendar.ics", handler.AuthRequired, handler.CalendarFeed)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}
