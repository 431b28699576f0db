package routes

import (
	"message-search-backend/messages/controllers"
	"message-search-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func MessageRouterInit(app *fiber.App, appCtx *middleware.AppContext) {
	searchController := controllers.NewSearchController(appCtx.Cache, appCtx.Logger)

	app.Get("/search",
		middleware.RateLimit(appCtx.Settings.RateLimitRPS, appCtx.Settings.RateLimitBurst),
		searchController.SearchMessagesController,
	)
	app.Get("/healthz", searchController.HealthController)
}
