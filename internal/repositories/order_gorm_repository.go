package repositories

import (
	"errors"
	"time"

	"fleetshop/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func preloadDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("OrderDetails", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_details.id ASC")
	})
}

// Create inserts the order and all of its lines in a single transaction.
func (r *GORMOrderRepository) Create(details []models.OrderDetail) (*models.Order, error) {
	order := &models.Order{OrderDetails: make([]models.OrderDetail, len(details))}
	copy(order.OrderDetails, details)
	for i := range order.OrderDetails {
		order.OrderDetails[i].ID = 0
		order.OrderDetails[i].OrderID = 0
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, &models.StorageError{Op: "create order", Err: err}
	}
	return order, nil
}

// GetByID retrieves an order and its lines.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := preloadDetails(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.OrderNotFoundError{ID: id}
		}
		return nil, &models.StorageError{Op: "get order", Err: err}
	}
	return &order, nil
}

// List returns a page of orders in ascending id order.
func (r *GORMOrderRepository) List(skip, limit int) ([]models.Order, error) {
	skip, limit = normalizePage(skip, limit)

	var orders []models.Order
	err := preloadDetails(r.db).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, &models.StorageError{Op: "list orders", Err: err}
	}
	return orders, nil
}

// Count returns the total number of orders.
func (r *GORMOrderRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, &models.StorageError{Op: "count orders", Err: err}
	}
	return total, nil
}

// Update overwrites price and quantity of the order's existing lines. Lines that
// do not belong to the order are ignored.
func (r *GORMOrderRepository) Update(order *models.Order) (*models.Order, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &models.OrderNotFoundError{ID: order.ID}
		}

		for _, d := range order.OrderDetails {
			res := tx.Model(&models.OrderDetail{}).
				Where("id = ? AND order_id = ?", d.ID, order.ID).
				Updates(map[string]interface{}{
					"price":    d.Price,
					"quantity": d.Quantity,
				})
			if res.Error != nil {
				return res.Error
			}
		}
		return tx.Model(&models.Order{ID: order.ID}).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, &models.StorageError{Op: "update order", Err: err}
	}
	return r.GetByID(order.ID)
}

// Delete removes the order and its lines.
func (r *GORMOrderRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// SQLite does not enforce the cascade unless foreign keys are switched on.
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &models.OrderNotFoundError{ID: id}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return &models.StorageError{Op: "delete order", Err: err}
	}
	return nil
}
