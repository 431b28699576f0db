package bootstrap

import (
	"message-search-backend/messages/routes"
	"message-search-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

const AppName = "Message Search Service"

// NewApp builds the Fiber app with middleware and routes wired to appCtx.
func NewApp(appCtx *middleware.AppContext) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               AppName,
		ErrorHandler:          middleware.ErrorHandler(appCtx.Logger),
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestLogger(appCtx.Logger))
	middleware.InitCors(app, appCtx.Settings.CorsAllowOrigins)

	routes.MessageRouterInit(app, appCtx)
	return app
}
