package routes

import (
	"github.com/agrovest/agrovest-backend/app/controllers"
	"github.com/agrovest/agrovest-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin", middleware.JWTProtected(), middleware.AdminOnly())
	admin.Get("/offers", controllers.AdminGetOffers)
	admin.Post("/offers/resolve/:id", controllers.AdminResolveOffer)
	admin.Get("/dashboard", controllers.AdminDashboard)
}
