package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"productapi/internal/models"
	"productapi/internal/repositories"
)

// EventPublisher delivers product change events to a broker.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher // optional, nil disables events
	now       func() time.Time
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product from a validated input.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	product, err := s.repo.Create(ctx, *in.Name, *in.Description, *in.Price, *in.Qty)
	if err != nil {
		return nil, err
	}
	s.publish(models.ProductCreated, product)
	return product, nil
}

// UpdateProduct overwrites every mutable field of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, in models.ProductInput) (*models.Product, error) {
	product, err := s.repo.Update(ctx, id, *in.Name, *in.Description, *in.Price, *in.Qty)
	if err != nil {
		return nil, err
	}
	s.publish(models.ProductUpdated, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID and returns the removed record.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(models.ProductDeleted, product)
	return product, nil
}

// publish is best-effort: a broker failure is logged and never fails the request.
func (s *ProductService) publish(eventType string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(models.ProductEvent{
		Type:       eventType,
		ProductID:  product.ID,
		Name:       product.Name,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for product %d: %v", eventType, product.ID, err)
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", eventType, product.ID, err)
	}
}
