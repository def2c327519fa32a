package services

import (
	"errors"

	"fleetshop/internal/models"
	"fleetshop/internal/repositories"

	log "github.com/sirupsen/logrus"
)

// ProductClient is the contract the gateway relies on for catalog access.
type ProductClient interface {
	// Get fails with *models.ProductNotFoundError when id is unknown.
	Get(id string) (*models.Product, error)
	// List returns only the products that exist among ids; callers must not
	// assume the result has the same length as ids.
	List(ids []string) ([]models.Product, error)
	Create(product *models.Product) (*models.Product, error)
	// Delete reports whether a product was removed.
	Delete(id string) (bool, error)
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	logger *log.Entry
}

var _ ProductClient = (*ProductService)(nil)

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, logger *log.Entry) *ProductService {
	if logger == nil {
		logger = log.WithField("component", "product-service")
	}
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

// Get retrieves a single product by its ID.
func (s *ProductService) Get(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.ProductNotFoundError{ID: id}
		}
		return nil, err
	}
	return product, nil
}

// List retrieves the known products among ids.
func (s *ProductService) List(ids []string) ([]models.Product, error) {
	return s.repo.GetByIDs(ids)
}

// Create stores a new product.
func (s *ProductService) Create(product *models.Product) (*models.Product, error) {
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	s.logger.WithField("product_id", product.ID).Info("product created")
	return product, nil
}

// Delete removes a product by its ID.
func (s *ProductService) Delete(id string) (bool, error) {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.WithField("product_id", id).Info("product deleted")
	}
	return deleted, nil
}
