package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound matches any missing order or product.
	ErrNotFound = errors.New("not found")
	// ErrValidation matches payloads that parsed but failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrBadRequest matches payloads that could not be parsed at all.
	ErrBadRequest = errors.New("bad request")
	// ErrStorage matches persistence failures.
	ErrStorage = errors.New("storage failure")
)

// OrderNotFoundError is returned when no order exists for ID.
type OrderNotFoundError struct {
	ID uint
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("Order with id %d not found", e.ID)
}

func (e *OrderNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ProductNotFoundError is returned when no product exists for ID.
type ProductNotFoundError struct {
	ID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product Id %s", e.ID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError carries one message per offending field, keyed by its JSON path.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// BadRequestError wraps a body that is not valid JSON.
type BadRequestError struct {
	Err error
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("Invalid json: %v", e.Err)
}

func (e *BadRequestError) Unwrap() error { return e.Err }

func (e *BadRequestError) Is(target error) bool {
	return target == ErrBadRequest
}

// StorageError wraps a failed persistence operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
