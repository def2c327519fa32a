package models

import "time"

// OrderDetail represents a single product line within an order.
type OrderDetail struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	OrderID   uint   `json:"-" gorm:"not null;index"`
	ProductID string `json:"product_id" gorm:"type:varchar(64);not null"`
	Price     Price  `json:"price" gorm:"type:varchar(32);not null"` // Price at the time of order
	Quantity  int    `json:"quantity" gorm:"not null"`
}

// Order represents a customer order. Its JSON form is the wire schema shared by
// the order service responses and the order_created event.
type Order struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	OrderDetails []OrderDetail `json:"order_details" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time     `json:"-"`
	UpdatedAt    time.Time     `json:"-"`
}

// ProductIDs returns the product ids referenced by the order lines, in line order.
func (o *Order) ProductIDs() []string {
	ids := make([]string, 0, len(o.OrderDetails))
	for _, d := range o.OrderDetails {
		ids = append(ids, d.ProductID)
	}
	return ids
}
