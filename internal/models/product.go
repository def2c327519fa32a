package models

import "time"

// Product represents a ship in the product catalog.
type Product struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Title             string    `json:"title" gorm:"type:varchar(255);not null"`
	PassengerCapacity int       `json:"passenger_capacity"`
	MaximumSpeed      int       `json:"maximum_speed"`
	InStock           int       `json:"in_stock"`
	CreatedAt         time.Time `json:"-"`
	UpdatedAt         time.Time `json:"-"`
}
