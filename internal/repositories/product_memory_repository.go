package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"productapi/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products ordered by ID.
func (r *MemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, name, description string, price float64, qty int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(name, 0) {
		return nil, fmt.Errorf("product %q: %w", name, ErrDuplicateName)
	}
	product := models.Product{
		ID:          r.nextID,
		Name:        name,
		Description: description,
		Price:       price,
		Qty:         qty,
	}
	r.nextID++
	r.products[product.ID] = product
	return &product, nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, id uint, name, description string, price float64, qty int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	if r.nameTaken(name, id) {
		return nil, fmt.Errorf("product %q: %w", name, ErrDuplicateName)
	}
	product.Name = name
	product.Description = description
	product.Price = price
	product.Qty = qty
	r.products[id] = product
	return &product, nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id uint) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	delete(r.products, id)
	return &product, nil
}

// nameTaken reports whether a product other than except already uses name.
// Callers must hold mu.
func (r *MemoryProductRepository) nameTaken(name string, except uint) bool {
	for id, p := range r.products {
		if id != except && p.Name == name {
			return true
		}
	}
	return false
}
