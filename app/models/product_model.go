package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SellerID    uuid.UUID `json:"seller_id" db:"seller_id"`
	Title       string    `json:"title" db:"title"`
	Price       int64     `json:"price" db:"price"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category,omitempty" db:"category"`
	Images      []string  `json:"images" db:"images"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required,lte=255"`
	Price       int64    `json:"price" validate:"required,gt=0"`
	Description string   `json:"description" validate:"omitempty,lte=5000"`
	Category    string   `json:"category" validate:"omitempty,lte=100"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

type ProductsPage struct {
	CurrentPage int       `json:"current_page"`
	Data        []Product `json:"data"`
	LastPage    int       `json:"last_page"`
	Total       int       `json:"total"`
}
