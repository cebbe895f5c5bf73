package routes

import (
	"github.com/agrovest/agrovest-backend/app/controllers"
	"github.com/agrovest/agrovest-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterOfferRoutes(app *fiber.App) {
	offers := app.Group("/offers", middleware.JWTProtected())
	offers.Post("/", controllers.CreateOffer)
	offers.Get("/", controllers.GetOffers)
	offers.Get("/accept/:id", controllers.AcceptOffer)
	offers.Delete("/reject/:id", controllers.RejectOffer)
	offers.Post("/cancel/:id", controllers.CancelOffer)
	offers.Post("/dispute/:id", controllers.DisputeOffer)
	offers.Post("/pay/:id", controllers.PayOffer)
	offers.Get("/:id", controllers.GetOffer)
}
