package repositories

import (
	"context"
	"errors"

	"productapi/internal/models"
)

var (
	// ErrProductNotFound is returned when no product has the requested ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateName is returned when a write would give two products the same name.
	ErrDuplicateName = errors.New("product name already exists")
)

// ProductRepository defines the interface for product data access.
// Every method runs as a single statement.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, name, description string, price float64, qty int) (*models.Product, error)
	Update(ctx context.Context, id uint, name, description string, price float64, qty int) (*models.Product, error)
	// Delete removes the product and returns it as it was before removal.
	Delete(ctx context.Context, id uint) (*models.Product, error)
}
