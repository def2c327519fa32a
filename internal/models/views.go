package models

// OrderDetailView is an order line enriched with its product and an image URL.
type OrderDetailView struct {
	ID        uint     `json:"id"`
	ProductID string   `json:"product_id"`
	Price     Price    `json:"price"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product"`
	Image     string   `json:"image"`
}

// OrderView is an order as returned by the gateway.
type OrderView struct {
	ID           uint              `json:"id"`
	OrderDetails []OrderDetailView `json:"order_details"`
}

// OrderPage is the paginated envelope of GET /orders.
type OrderPage struct {
	TotalOrders int64       `json:"total_orders"`
	TotalPages  int64       `json:"total_pages"`
	Page        int         `json:"page"`
	Orders      []OrderView `json:"orders"`
}

// NewOrderView copies an order into a view with empty enrichment fields.
func NewOrderView(order Order) OrderView {
	view := OrderView{
		ID:           order.ID,
		OrderDetails: make([]OrderDetailView, 0, len(order.OrderDetails)),
	}
	for _, d := range order.OrderDetails {
		view.OrderDetails = append(view.OrderDetails, OrderDetailView{
			ID:        d.ID,
			ProductID: d.ProductID,
			Price:     d.Price,
			Quantity:  d.Quantity,
		})
	}
	return view
}
