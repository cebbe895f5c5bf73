package controllers

import (
	"errors"
	"time"

	"github.com/agrovest/agrovest-backend/app/escrow"
	"github.com/agrovest/agrovest-backend/app/models"
	"github.com/agrovest/agrovest-backend/app/queries"
	"github.com/agrovest/agrovest-backend/pkg/database"
	"github.com/agrovest/agrovest-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CreateProduct(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.CreateProductRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	product := &models.Product{
		ID:          uuid.New(),
		SellerID:    userID,
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Images:      req.Images,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	q := queries.ProductQueries{DB: database.DB}
	if err := q.CreateProduct(product); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create product"})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func GetProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	q := queries.ProductQueries{DB: database.DB}
	product, err := q.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, escrow.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load product"})
	}
	return c.Status(fiber.StatusOK).JSON(product)
}

func GetProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	q := queries.ProductQueries{DB: database.DB}
	result, err := q.ListProducts(page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list products"})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
