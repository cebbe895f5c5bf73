package routes

import (
	"github.com/agrovest/agrovest-backend/app/controllers"
	"github.com/agrovest/agrovest-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterProductRoutes(app *fiber.App) {
	app.Get("/products", controllers.GetProducts)
	app.Get("/products/:id", controllers.GetProduct)
	app.Post("/products", middleware.JWTProtected(), controllers.CreateProduct)
}
