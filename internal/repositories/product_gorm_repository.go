package repositories

import (
	"errors"

	"fleetshop/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.ProductNotFoundError{ID: id}
		}
		return nil, &models.StorageError{Op: "get product " + id, Err: err}
	}
	return &product, nil
}

// GetByIDs retrieves the products that exist among ids. Unknown ids are skipped.
func (r *GORMProductRepository) GetByIDs(ids []string) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&products).Error; err != nil {
		return nil, &models.StorageError{Op: "list products", Err: err}
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.NewValidationError("id", "product "+product.ID+" already exists")
		}
		return tx.Create(product).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return err
		}
		return &models.StorageError{Op: "create product", Err: err}
	}
	return nil
}

// Delete deletes a product by its ID and reports whether a row was removed.
func (r *GORMProductRepository) Delete(id string) (bool, error) {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, &models.StorageError{Op: "delete product", Err: res.Error}
	}
	return res.RowsAffected > 0, nil
}
