package queries

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrovest/agrovest-backend/app/escrow"
	"github.com/agrovest/agrovest-backend/app/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProductsPerPage is the fixed page size of the catalog listing.
const ProductsPerPage = 15

type ProductQueries struct {
	DB *sql.DB
}

func (q *ProductQueries) CreateProduct(p *models.Product) error {
	query := `INSERT INTO products (id, seller_id, title, price, description, category, images, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := q.DB.Exec(query, p.ID, p.SellerID, p.Title, p.Price, p.Description, p.Category, pq.Array(p.Images), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("unable to create product: %w", err)
	}
	return nil
}

func (q *ProductQueries) GetProductByID(id uuid.UUID) (models.Product, error) {
	p := models.Product{}
	var images pq.StringArray
	query := `SELECT id, seller_id, title, price, description, category, images, created_at, updated_at FROM products WHERE id = $1`
	err := q.DB.QueryRow(query, id).Scan(&p.ID, &p.SellerID, &p.Title, &p.Price, &p.Description, &p.Category, &images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, escrow.ErrNotFound
		}
		return p, fmt.Errorf("unable to get product: %w", err)
	}
	p.Images = images
	return p, nil
}

func (q *ProductQueries) ListProducts(page int) (models.ProductsPage, error) {
	if page < 1 {
		page = 1
	}
	result := models.ProductsPage{CurrentPage: page, Data: []models.Product{}}

	var total int
	if err := q.DB.QueryRow(`SELECT count(*) FROM products`).Scan(&total); err != nil {
		return result, fmt.Errorf("unable to count products: %w", err)
	}
	result.Total = total
	result.LastPage = (total + ProductsPerPage - 1) / ProductsPerPage
	if result.LastPage < 1 {
		result.LastPage = 1
	}

	query := `SELECT id, seller_id, title, price, description, category, images, created_at, updated_at
			  FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := q.DB.Query(query, ProductsPerPage, (page-1)*ProductsPerPage)
	if err != nil {
		return result, fmt.Errorf("unable to list products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		var images pq.StringArray
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Title, &p.Price, &p.Description, &p.Category, &images, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return result, fmt.Errorf("unable to scan product row: %w", err)
		}
		p.Images = images
		result.Data = append(result.Data, p)
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("unable to iterate product rows: %w", err)
	}
	return result, nil
}
