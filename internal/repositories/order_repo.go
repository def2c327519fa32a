package repositories

import (
	"fleetshop/internal/models"
)

const (
	// DefaultSkip and DefaultLimit apply when a caller does not page explicitly.
	DefaultSkip  = 0
	DefaultLimit = 50
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(details []models.OrderDetail) (*models.Order, error)
	GetByID(id uint) (*models.Order, error)
	List(skip, limit int) ([]models.Order, error)
	Count() (int64, error)
	Update(order *models.Order) (*models.Order, error)
	Delete(id uint) error
}

// normalizePage applies DefaultSkip and DefaultLimit to out-of-range values.
func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = DefaultSkip
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return skip, limit
}
