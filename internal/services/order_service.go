package services

import (
	"errors"

	"fleetshop/internal/metrics"
	"fleetshop/internal/models"
	"fleetshop/internal/repositories"

	log "github.com/sirupsen/logrus"
)

// EventPublisher dispatches a payload under topic. Delivery is not guaranteed.
type EventPublisher interface {
	Publish(topic string, payload interface{}) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *log.Entry
}

// NewOrderService creates a new OrderService. publisher and m may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher, m *metrics.Metrics, logger *log.Entry) *OrderService {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// CreateOrder persists an order with its lines and announces it with an
// order_created event. A failed publish never undoes the write.
func (s *OrderService) CreateOrder(details []models.OrderDetail) (*models.Order, error) {
	order, err := s.orderRepo.Create(details)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordOrderCreated()
	s.logger.WithFields(log.Fields{"order_id": order.ID, "lines": len(order.OrderDetails)}).Info("order created")

	s.publishOrderCreated(order)
	return order, nil
}

func (s *OrderService) publishOrderCreated(order *models.Order) {
	logger := s.logger.WithFields(log.Fields{"order_id": order.ID, "topic": models.OrderCreatedTopic})
	if s.publisher == nil {
		s.metrics.RecordEvent(models.OrderCreatedTopic, metrics.EventSkipped)
		logger.Debug("no event publisher configured, skipping event")
		return
	}

	event := models.OrderCreatedEvent{Order: *order}
	if err := s.publisher.Publish(models.OrderCreatedTopic, event); err != nil {
		s.metrics.RecordEvent(models.OrderCreatedTopic, metrics.EventFailed)
		logger.WithError(err).Warn("failed to publish order event")
		return
	}
	s.metrics.RecordEvent(models.OrderCreatedTopic, metrics.EventPublished)
	logger.Debug("order event published")
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.OrderNotFoundError{ID: id}
		}
		return nil, err
	}
	return order, nil
}

// UpdateOrder overwrites price and quantity of the order's existing lines.
func (s *OrderService) UpdateOrder(order *models.Order) (*models.Order, error) {
	updated, err := s.orderRepo.Update(order)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.OrderNotFoundError{ID: order.ID}
		}
		return nil, err
	}
	s.logger.WithField("order_id", order.ID).Info("order updated")
	return updated, nil
}

// DeleteOrder removes an order. Deleting an unknown order is not an error.
func (s *OrderService) DeleteOrder(id uint) error {
	if err := s.orderRepo.Delete(id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.WithField("order_id", id).Debug("order already absent")
			return nil
		}
		return err
	}
	s.logger.WithField("order_id", id).Info("order deleted")
	return nil
}

// ListOrders returns a page of orders in creation order.
func (s *OrderService) ListOrders(skip, limit int) ([]models.Order, error) {
	return s.orderRepo.List(skip, limit)
}

// CountOrders returns the total number of orders.
func (s *OrderService) CountOrders() (int64, error) {
	return s.orderRepo.Count()
}
