package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeRequest parses body into dst. Malformed JSON yields a *BadRequestError,
// a value of the wrong JSON type a *ValidationError. Field rules are checked by
// the payload's Validate method, which the services call before acting on it.
func DecodeRequest(body []byte, dst interface{}) error {
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return NewValidationError(typeErr.Field, fmt.Sprintf("expected %s", typeErr.Type))
		}
		return &BadRequestError{Err: err}
	}
	return nil
}

// CreateOrderDetail is one line of an order submission.
type CreateOrderDetail struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Price     *Price `json:"price" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	OrderDetails []CreateOrderDetail `json:"order_details" validate:"required,min=1,dive"`
}

func (r *CreateOrderRequest) Validate() error {
	if err := structErrors(validate.Struct(r)); err != nil {
		return err
	}
	for i, d := range r.OrderDetails {
		if err := d.Price.CheckRange(); err != nil {
			return NewValidationError(fmt.Sprintf("order_details[%d].price", i), err.Error())
		}
	}
	return nil
}

// ProductIDs returns the submitted product ids in submission order.
func (r *CreateOrderRequest) ProductIDs() []string {
	ids := make([]string, 0, len(r.OrderDetails))
	for _, d := range r.OrderDetails {
		ids = append(ids, d.ProductID)
	}
	return ids
}

// Details converts the submission into canonical order lines with normalized prices.
func (r *CreateOrderRequest) Details() []OrderDetail {
	details := make([]OrderDetail, 0, len(r.OrderDetails))
	for _, d := range r.OrderDetails {
		details = append(details, OrderDetail{
			ProductID: d.ProductID,
			Price:     d.Price.Normalize(),
			Quantity:  d.Quantity,
		})
	}
	return details
}

// UpdateOrderDetail overwrites price and quantity of an existing line.
type UpdateOrderDetail struct {
	ID       uint   `json:"id" validate:"required"`
	Price    *Price `json:"price" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateOrderRequest is the body of PUT /orders/:id.
type UpdateOrderRequest struct {
	OrderDetails []UpdateOrderDetail `json:"order_details" validate:"required,min=1,dive"`
}

func (r *UpdateOrderRequest) Validate() error {
	if err := structErrors(validate.Struct(r)); err != nil {
		return err
	}
	for i, d := range r.OrderDetails {
		if err := d.Price.CheckRange(); err != nil {
			return NewValidationError(fmt.Sprintf("order_details[%d].price", i), err.Error())
		}
	}
	return nil
}

// Order builds the order update for the given order id.
func (r *UpdateOrderRequest) Order(id uint) Order {
	order := Order{ID: id, OrderDetails: make([]OrderDetail, 0, len(r.OrderDetails))}
	for _, d := range r.OrderDetails {
		order.OrderDetails = append(order.OrderDetails, OrderDetail{
			ID:       d.ID,
			OrderID:  id,
			Price:    d.Price.Normalize(),
			Quantity: d.Quantity,
		})
	}
	return order
}

// ProductRequest is the body of POST /products.
type ProductRequest struct {
	ID                string `json:"id" validate:"required,max=64"`
	Title             string `json:"title" validate:"required,max=255"`
	PassengerCapacity *int   `json:"passenger_capacity" validate:"required,gte=0"`
	MaximumSpeed      *int   `json:"maximum_speed" validate:"required,gte=0"`
	InStock           *int   `json:"in_stock" validate:"required,gte=0"`
}

func (r *ProductRequest) Validate() error {
	return structErrors(validate.Struct(r))
}

// Product converts the request into a catalog record.
func (r *ProductRequest) Product() Product {
	return Product{
		ID:                r.ID,
		Title:             r.Title,
		PassengerCapacity: *r.PassengerCapacity,
		MaximumSpeed:      *r.MaximumSpeed,
		InStock:           *r.InStock,
	}
}

// structErrors turns validator output into a *ValidationError.
func structErrors(err error) error {
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate payload: %w", err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Namespace()
		// Drop the root struct name.
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		fields[field] = fmt.Sprintf("failed on the '%s' tag", e.Tag())
	}
	return &ValidationError{Fields: fields}
}
