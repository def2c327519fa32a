package app

import (
	"encoding/json"

	"fleetshop/internal/models"

	log "github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// orderCreatedListener logs every order_created event seen on the exchange.
// Undecodable messages are logged and acked so they are not redelivered forever.
func orderCreatedListener(logger *log.Entry) func(amqp.Delivery) error {
	logger = logger.WithField("topic", models.OrderCreatedTopic)
	return func(msg amqp.Delivery) error {
		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			logger.WithError(err).WithField("message_id", msg.MessageId).Warn("discarding malformed order event")
			return nil
		}

		logger.WithFields(log.Fields{
			"message_id": msg.MessageId,
			"order_id":   event.Order.ID,
			"lines":      len(event.Order.OrderDetails),
		}).Info("order event received")
		return nil
	}
}
