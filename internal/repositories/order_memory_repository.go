package repositories

import (
	"sync"
	"time"

	"fleetshop/internal/models"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	mu           sync.RWMutex
	orders       map[uint]models.Order
	nextOrderID  uint
	nextDetailID uint
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders:       make(map[uint]models.Order),
		nextOrderID:  1,
		nextDetailID: 1,
	}
}

func cloneOrder(order models.Order) *models.Order {
	details := make([]models.OrderDetail, len(order.OrderDetails))
	copy(details, order.OrderDetails)
	order.OrderDetails = details
	return &order
}

// Create stores the order and its lines under freshly generated ids.
func (r *MemoryOrderRepository) Create(details []models.OrderDetail) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	order := models.Order{
		ID:           r.nextOrderID,
		OrderDetails: make([]models.OrderDetail, 0, len(details)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.nextOrderID++

	for _, d := range details {
		d.ID = r.nextDetailID
		d.OrderID = order.ID
		r.nextDetailID++
		order.OrderDetails = append(order.OrderDetails, d)
	}
	r.orders[order.ID] = order
	return cloneOrder(order), nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(id uint) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, &models.OrderNotFoundError{ID: id}
	}
	return cloneOrder(order), nil
}

// List returns a page of orders in ascending id order.
func (r *MemoryOrderRepository) List(skip, limit int) ([]models.Order, error) {
	skip, limit = normalizePage(skip, limit)

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Ids are handed out sequentially, so walking the id range keeps creation order.
	orders := make([]models.Order, 0, limit)
	seen := 0
	for id := uint(1); id < r.nextOrderID && len(orders) < limit; id++ {
		order, ok := r.orders[id]
		if !ok {
			continue
		}
		if seen < skip {
			seen++
			continue
		}
		orders = append(orders, *cloneOrder(order))
	}
	return orders, nil
}

// Count returns the total number of orders.
func (r *MemoryOrderRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.orders)), nil
}

// Update overwrites price and quantity of the order's existing lines.
func (r *MemoryOrderRepository) Update(order *models.Order) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return nil, &models.OrderNotFoundError{ID: order.ID}
	}
	stored = *cloneOrder(stored)

	updates := make(map[uint]models.OrderDetail, len(order.OrderDetails))
	for _, d := range order.OrderDetails {
		updates[d.ID] = d
	}
	for i, d := range stored.OrderDetails {
		u, ok := updates[d.ID]
		if !ok {
			continue
		}
		stored.OrderDetails[i].Price = u.Price
		stored.OrderDetails[i].Quantity = u.Quantity
	}
	stored.UpdatedAt = time.Now()
	r.orders[order.ID] = stored
	return cloneOrder(stored), nil
}

// Delete removes an order by its ID.
func (r *MemoryOrderRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return &models.OrderNotFoundError{ID: id}
	}
	delete(r.orders, id)
	return nil
}
