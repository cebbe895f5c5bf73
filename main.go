package main

import (
	"log"
	"os"

	"github.com/agrovest/agrovest-backend/pkg/database"
	"github.com/agrovest/agrovest-backend/pkg/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/agrovest/agrovest-backend/app/controllers"
)

func main() {
	_ = godotenv.Load()

	app := fiber.New()

	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("agrovest escrow api")
	})

	if _, err := database.InitDB(); err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	routes.RegisterUserRoutes(app)
	routes.RegisterProductRoutes(app)
	routes.RegisterOfferRoutes(app)
	routes.RegisterPaymentRoutes(app)
	routes.RegisterAdminRoutes(app)
	routes.RegisterWebsocketRoutes(app)

	controllers.StartAbandonSweeper()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Fatal(app.Listen(":" + port))
}
