package services

import (
	"fmt"
	"strings"

	"fleetshop/internal/models"
	"fleetshop/internal/repositories"

	log "github.com/sirupsen/logrus"
)

// PlaceholderImage decorates list views; only the single-order view derives
// images from the product id.
const PlaceholderImage = "https://picsum.photos/300"

// DefaultPage and DefaultLimit are used when a list request omits them.
const (
	DefaultPage  = 1
	DefaultLimit = repositories.DefaultLimit
)

// OrderClient is the contract the gateway relies on for order access.
type OrderClient interface {
	// GetOrder fails with *models.OrderNotFoundError when id is unknown.
	GetOrder(id uint) (*models.Order, error)
	ListOrders(skip, limit int) ([]models.Order, error)
	CountOrders() (int64, error)
	CreateOrder(details []models.OrderDetail) (*models.Order, error)
	UpdateOrder(order *models.Order) (*models.Order, error)
	DeleteOrder(id uint) error
}

var _ OrderClient = (*OrderService)(nil)

// GatewayService composes order and product data into client-facing views.
// It keeps no state of its own between calls.
type GatewayService struct {
	orders    OrderClient
	products  ProductClient
	imageRoot string
	logger    *log.Entry
}

// NewGatewayService creates a new GatewayService. imageRoot is the base URL
// product images are served from.
func NewGatewayService(orders OrderClient, products ProductClient, imageRoot string, logger *log.Entry) *GatewayService {
	if logger == nil {
		logger = log.WithField("component", "gateway")
	}
	return &GatewayService{
		orders:    orders,
		products:  products,
		imageRoot: strings.TrimRight(imageRoot, "/"),
		logger:    logger,
	}
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// Skip returns the number of orders preceding the 1-indexed page.
func Skip(page, limit int) int {
	return (page - 1) * limit
}

// ImageURL returns the catalog image location of a product.
func (g *GatewayService) ImageURL(productID string) string {
	return fmt.Sprintf("%s/%s.jpg", g.imageRoot, productID)
}

// GetOrderView returns the order enriched with product details and image URLs.
// A missing product for any line fails the whole view.
func (g *GatewayService) GetOrderView(orderID uint) (*models.OrderView, error) {
	order, err := g.orders.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	view := models.NewOrderView(*order)
	for i := range view.OrderDetails {
		item := &view.OrderDetails[i]
		product, err := g.products.Get(item.ProductID)
		if err != nil {
			return nil, err
		}
		item.Product = product
		item.Image = g.ImageURL(item.ProductID)
	}
	return &view, nil
}

// ListOrderViews returns one page of enriched orders with pagination totals.
func (g *GatewayService) ListOrderViews(page, limit int) (*models.OrderPage, error) {
	if page < 1 {
		return nil, models.NewValidationError("page", "must be greater than or equal to 1")
	}
	if limit < 1 {
		return nil, models.NewValidationError("limit", "must be greater than or equal to 1")
	}

	orders, err := g.fetchOrders(Skip(page, limit), limit)
	if err != nil {
		return nil, err
	}

	total, err := g.orders.CountOrders()
	if err != nil {
		return nil, err
	}

	return &models.OrderPage{
		TotalOrders: total,
		TotalPages:  TotalPages(total, limit),
		Page:        page,
		Orders:      orders,
	}, nil
}

func (g *GatewayService) fetchOrders(skip, limit int) ([]models.OrderView, error) {
	orders, err := g.orders.ListOrders(skip, limit)
	if err != nil {
		return nil, err
	}

	var productIDs []string
	seen := make(map[string]bool)
	for _, order := range orders {
		for _, id := range order.ProductIDs() {
			if !seen[id] {
				seen[id] = true
				productIDs = append(productIDs, id)
			}
		}
	}

	// The batch result only checks the catalog is reachable for this page;
	// lines are still enriched one product at a time below.
	if len(productIDs) > 0 {
		known, err := g.products.List(productIDs)
		if err != nil {
			return nil, err
		}
		if len(known) < len(productIDs) {
			g.logger.WithFields(log.Fields{
				"requested": len(productIDs),
				"found":     len(known),
			}).Debug("page references products missing from the catalog")
		}
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, order := range orders {
		view := models.NewOrderView(order)
		for i := range view.OrderDetails {
			item := &view.OrderDetails[i]
			product, err := g.products.Get(item.ProductID)
			if err != nil {
				return nil, err
			}
			item.Product = product
			item.Image = PlaceholderImage
		}
		views = append(views, view)
	}
	return views, nil
}

// CreateOrderView checks every submitted product exists and then creates the
// order, returning its id. The first unknown product id, in submission order,
// is reported and nothing is persisted. req is validated here; handlers only
// decode it.
func (g *GatewayService) CreateOrderView(req *models.CreateOrderRequest) (uint, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	productIDs := req.ProductIDs()
	products, err := g.products.List(productIDs)
	if err != nil {
		return 0, err
	}

	valid := make(map[string]bool, len(products))
	for _, p := range products {
		valid[p.ID] = true
	}
	for _, id := range productIDs {
		if !valid[id] {
			return 0, &models.ProductNotFoundError{ID: id}
		}
	}

	order, err := g.orders.CreateOrder(req.Details())
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

// UpdateOrderView overwrites price and quantity of existing lines of an order.
func (g *GatewayService) UpdateOrderView(orderID uint, req *models.UpdateOrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	order := req.Order(orderID)
	return g.orders.UpdateOrder(&order)
}

// DeleteOrderView removes an order; unknown ids are ignored.
func (g *GatewayService) DeleteOrderView(orderID uint) error {
	return g.orders.DeleteOrder(orderID)
}

// GetProduct fetches a product from the catalog.
func (g *GatewayService) GetProduct(id string) (*models.Product, error) {
	return g.products.Get(id)
}

// CreateProduct stores a validated product and returns its id.
func (g *GatewayService) CreateProduct(req *models.ProductRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	product := req.Product()
	created, err := g.products.Create(&product)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// DeleteProduct removes a product and reports whether it existed.
func (g *GatewayService) DeleteProduct(id string) (bool, error) {
	return g.products.Delete(id)
}
