package routes

import (
	"github.com/agrovest/agrovest-backend/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterPaymentRoutes(app *fiber.App) {
	// gateway webhook, authenticated by Midtrans server key on their side
	app.Post("/payments/notify", controllers.PaymentNotification)
}
