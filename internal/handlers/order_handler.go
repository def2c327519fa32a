package handlers

import (
	"fmt"
	"strconv"

	"fleetshop/internal/models"
	"fleetshop/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	gateway *services.GatewayService
	logger  *log.Entry
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(gateway *services.GatewayService) *OrderHandler {
	return &OrderHandler{
		gateway: gateway,
		logger:  log.WithField("component", "order-handler"),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id<int>", h.HandleGetOrder)
	orderRoutes.Put("/:id<int>", h.HandleUpdateOrder)
	orderRoutes.Delete("/:id<int>", h.HandleDeleteOrder)
}

// orderID reads the :id route parameter.
func orderID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, fmt.Errorf("order %q: %w", c.Params("id"), models.ErrNotFound)
	}
	return uint(id), nil
}

// queryInt reads a positive integer query parameter, falling back to def when absent.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError(key, "must be an integer")
	}
	return value, nil
}

// HandleGetOrder returns an order enriched with its products.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	view, err := h.gateway.GetOrderView(id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(view)
}

// HandleListOrders returns one page of enriched orders.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", services.DefaultPage)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	limit, err := queryInt(c, "limit", services.DefaultLimit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	orders, err := h.gateway.ListOrderViews(page, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(orders)
}

// HandleCreateOrder creates an order from {"order_details": [...]} and
// responds with the new order id.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if err := models.DecodeRequest(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err)
	}

	id, err := h.gateway.CreateOrderView(&req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

// HandleUpdateOrder overwrites price and quantity of existing order lines.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req models.UpdateOrderRequest
	if err := models.DecodeRequest(c.Body(), &req); err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.gateway.UpdateOrderView(id, &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder removes an order. Unknown ids still yield 204.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	id, err := orderID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.gateway.DeleteOrderView(id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
