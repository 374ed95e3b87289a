package repositories

import (
	"context"
	"errors"
	"fmt"

	"productapi/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// The *gorm.DB must be opened with TranslateError enabled so unique
// violations surface as gorm.ErrDuplicatedKey.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products ordered by ID.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product; the database assigns the ID.
func (r *GORMProductRepository) Create(ctx context.Context, name, description string, price float64, qty int) (*models.Product, error) {
	product := models.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Qty:         qty,
	}
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("product %q: %w", name, ErrDuplicateName)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// Update overwrites all mutable fields with one UPDATE ... RETURNING.
func (r *GORMProductRepository) Update(ctx context.Context, id uint, name, description string, price float64, qty int) (*models.Product, error) {
	var product models.Product
	res := r.db.WithContext(ctx).
		Model(&product).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        name,
			"description": description,
			"price":       price,
			"qty":         qty,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("product %q: %w", name, ErrDuplicateName)
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// Delete removes a product with one DELETE ... RETURNING and returns the removed row.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&product)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return &product, nil
}
