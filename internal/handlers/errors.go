package handlers

import (
	"errors"

	"fleetshop/internal/models"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Error codes returned in the "error" field of failed responses.
const (
	codeValidation      = "VALIDATION_ERROR"
	codeBadRequest      = "BAD_REQUEST"
	codeOrderNotFound   = "ORDER_NOT_FOUND"
	codeProductNotFound = "PRODUCT_NOT_FOUND"
	codeNotFound        = "NOT_FOUND"
	codeUnexpected      = "UNEXPECTED_ERROR"
)

// respondError maps domain errors onto HTTP responses. Anything unrecognized
// becomes a 500 without internal detail.
func respondError(c *fiber.Ctx, logger *log.Entry, err error) error {
	var (
		validationErr   *models.ValidationError
		orderNotFound   *models.OrderNotFoundError
		productNotFound *models.ProductNotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   codeValidation,
			"message": validationErr.Error(),
			"errors":  validationErr.Fields,
		})
	case errors.Is(err, models.ErrBadRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   codeBadRequest,
			"message": err.Error(),
		})
	case errors.As(err, &orderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   codeOrderNotFound,
			"message": orderNotFound.Error(),
		})
	case errors.As(err, &productNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   codeProductNotFound,
			"message": productNotFound.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   codeNotFound,
			"message": err.Error(),
		})
	}

	logger.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("unexpected error handling request")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   codeUnexpected,
		"message": "Internal server error",
	})
}
