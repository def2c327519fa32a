package models

// OrderCreatedTopic is the topic an order_created event is published under.
const OrderCreatedTopic = "order_created"

// OrderCreatedEvent is published once an order and its lines are persisted.
type OrderCreatedEvent struct {
	Order Order `json:"order"`
}
