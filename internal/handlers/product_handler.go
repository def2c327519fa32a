package handlers

import (
	"fleetshop/internal/models"
	"fleetshop/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	gateway *services.GatewayService
	logger  *log.Entry
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(gateway *services.GatewayService) *ProductHandler {
	return &ProductHandler{
		gateway: gateway,
		logger:  log.WithField("component", "product-handler"),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProduct returns a single product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.gateway.GetProduct(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product and responds with its id.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := models.DecodeRequest(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err)
	}

	id, err := h.gateway.CreateProduct(&req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

// HandleDeleteProduct deletes a product, responding 404 when it does not exist.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	deleted, err := h.gateway.DeleteProduct(id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if !deleted {
		return respondError(c, h.logger, &models.ProductNotFoundError{ID: id})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
