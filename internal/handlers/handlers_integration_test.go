package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"fleetshop/internal/handlers"
	"fleetshop/internal/models"
	"fleetshop/internal/repositories"
	"fleetshop/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageRoot = "https://images.example.com/products/"

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// setupApp wires handlers over in-memory repositories seeded with two products.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	productRepo := repositories.NewMemoryProductRepository()
	orderRepo := repositories.NewMemoryOrderRepository()
	seedProductsForTest(t, productRepo)

	productService := services.NewProductService(productRepo, nil)
	orderService := services.NewOrderService(orderRepo, nil, nil, nil)
	gateway := services.NewGatewayService(orderService, productService, imageRoot, nil)

	app := fiber.New()
	handlers.NewOrderHandler(gateway).RegisterRoutes(app)
	handlers.NewProductHandler(gateway).RegisterRoutes(app)
	return app
}

func seedProductsForTest(t *testing.T, repo repositories.ProductRepository) {
	t.Helper()
	for _, p := range []models.Product{
		{ID: "the_odyssey", Title: "The Odyssey", PassengerCapacity: 101, MaximumSpeed: 5, InStock: 10},
		{ID: "the_enigma", Title: "The Enigma", PassengerCapacity: 2, MaximumSpeed: 9, InStock: 3},
	} {
		product := p
		require.NoError(t, repo.Create(&product))
	}
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createOrder(t *testing.T, app *fiber.App) uint {
	t.Helper()
	resp, body := doRequest(t, app, http.MethodPost, "/orders", `{"order_details": [
		{"product_id": "the_odyssey", "price": "100000.99", "quantity": 1}
	]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	return created.ID
}

func TestOrderHandler_CreateAndGet(t *testing.T) {
	app := setupApp(t)

	id := createOrder(t, app)
	assert.Equal(t, uint(1), id)

	resp, body := doRequest(t, app, http.MethodGet, "/orders/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"id": 1,
		"order_details": [{
			"id": 1,
			"product_id": "the_odyssey",
			"price": "100000.99",
			"quantity": 1,
			"image": "https://images.example.com/products/the_odyssey.jpg",
			"product": {
				"id": "the_odyssey",
				"title": "The Odyssey",
				"passenger_capacity": 101,
				"maximum_speed": 5,
				"in_stock": 10
			}
		}]
	}`, string(body))
}

func TestOrderHandler_GetNotFound(t *testing.T) {
	app := setupApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/orders/42", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error": "ORDER_NOT_FOUND", "message": "Order with id 42 not found"}`, string(body))

	resp, _ = doRequest(t, app, http.MethodGet, "/orders/abc", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrderHandler_CreateUnknownProduct(t *testing.T) {
	app := setupApp(t)

	resp, body := doRequest(t, app, http.MethodPost, "/orders", `{"order_details": [
		{"product_id": "the_odyssey", "price": "10.00", "quantity": 1},
		{"product_id": "the_millennium_falcon", "price": "10.00", "quantity": 1}
	]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error": "PRODUCT_NOT_FOUND", "message": "Product Id the_millennium_falcon"}`, string(body))

	resp, body = doRequest(t, app, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page models.OrderPage
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, int64(0), page.TotalOrders)
}

func TestOrderHandler_CreateValidation(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed json", `{"order_details": [`, "BAD_REQUEST"},
		{"empty details", `{"order_details": []}`, "VALIDATION_ERROR"},
		{"missing details", `{}`, "VALIDATION_ERROR"},
		{"zero quantity", `{"order_details": [{"product_id": "the_odyssey", "price": "1.00", "quantity": 0}]}`, "VALIDATION_ERROR"},
		{"missing price", `{"order_details": [{"product_id": "the_odyssey", "quantity": 1}]}`, "VALIDATION_ERROR"},
		{"quantity as string", `{"order_details": [{"product_id": "the_odyssey", "price": "1.00", "quantity": "two"}]}`, "VALIDATION_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doRequest(t, app, http.MethodPost, "/orders", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, tc.wantCode, payload["error"])
			assert.NotEmpty(t, payload["message"])
			if tc.wantCode == "VALIDATION_ERROR" {
				assert.NotEmpty(t, payload["errors"])
			}
		})
	}
}

func TestOrderHandler_RejectsOversizedPrice(t *testing.T) {
	app := setupApp(t)

	for _, price := range []string{`"1e5000000"`, `"10000000000000000.00"`, `12345678901234567890`} {
		resp, body := doRequest(t, app, http.MethodPost, "/orders",
			`{"order_details": [{"product_id": "the_odyssey", "price": `+price+`, "quantity": 1}]}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, price)

		var payload struct {
			Error  string            `json:"error"`
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "VALIDATION_ERROR", payload.Error)
		assert.Contains(t, payload.Errors, "order_details[0].price")
	}

	createOrder(t, app)
	resp, body := doRequest(t, app, http.MethodPut, "/orders/1", `{"order_details": [{"id": 1, "price": "1e400", "quantity": 1}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "order_details[0].price")
}

func TestOrderHandler_List(t *testing.T) {
	app := setupApp(t)
	for i := 0; i < 6; i++ {
		createOrder(t, app)
	}

	resp, body := doRequest(t, app, http.MethodGet, "/orders?page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.OrderPage
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, int64(6), page.TotalOrders)
	assert.Equal(t, int64(2), page.TotalPages)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, uint(6), page.Orders[0].ID)
	require.Len(t, page.Orders[0].OrderDetails, 1)
	assert.Equal(t, services.PlaceholderImage, page.Orders[0].OrderDetails[0].Image)
	assert.Equal(t, "The Odyssey", page.Orders[0].OrderDetails[0].Product.Title)

	resp, body = doRequest(t, app, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(1), page.TotalPages)
	assert.Len(t, page.Orders, 6)
}

func TestOrderHandler_ListBadPaging(t *testing.T) {
	app := setupApp(t)

	for _, target := range []string{"/orders?page=0", "/orders?limit=0", "/orders?page=first", "/orders?limit=-3"} {
		resp, body := doRequest(t, app, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
		assert.Contains(t, string(body), "VALIDATION_ERROR", target)
	}
}

func TestOrderHandler_UpdateAndDelete(t *testing.T) {
	app := setupApp(t)
	id := createOrder(t, app)
	require.Equal(t, uint(1), id)

	resp, body := doRequest(t, app, http.MethodPut, "/orders/1", `{"order_details": [
		{"id": 1, "price": "12.50", "quantity": 3}
	]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"id": 1, "order_details": [
		{"id": 1, "product_id": "the_odyssey", "price": "12.50", "quantity": 3}
	]}`, string(body))

	resp, _ = doRequest(t, app, http.MethodPut, "/orders/7", `{"order_details": [{"id": 1, "price": "1.00", "quantity": 1}]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodDelete, "/orders/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, "/orders/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodDelete, "/orders/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestProductHandler(t *testing.T) {
	app := setupApp(t)

	resp, body := doRequest(t, app, http.MethodPost, "/products", map[string]interface{}{
		"id":                 "the_serenity",
		"title":              "The Serenity",
		"passenger_capacity": 9,
		"maximum_speed":      7,
		"in_stock":           0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"id": "the_serenity"}`, string(body))

	resp, body = doRequest(t, app, http.MethodGet, "/products/the_serenity", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id": "the_serenity", "title": "The Serenity", "passenger_capacity": 9, "maximum_speed": 7, "in_stock": 0}`, string(body))

	resp, _ = doRequest(t, app, http.MethodPost, "/products", `{"id": "the_serenity", "title": "Again", "passenger_capacity": 1, "maximum_speed": 1, "in_stock": 1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doRequest(t, app, http.MethodPost, "/products", `{"id": "no_title"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION_ERROR")

	resp, _ = doRequest(t, app, http.MethodDelete, "/products/the_serenity", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = doRequest(t, app, http.MethodDelete, "/products/the_serenity", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error": "PRODUCT_NOT_FOUND", "message": "Product Id the_serenity"}`, string(body))

	resp, body = doRequest(t, app, http.MethodGet, "/products/the_serenity", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "PRODUCT_NOT_FOUND")
}

func TestHealthHandler(t *testing.T) {
	healthy := fiber.New()
	handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"database": func() error { return nil },
	}).RegisterRoutes(healthy)

	resp, body := doRequest(t, healthy, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)
	assert.Contains(t, string(body), `"database":"ok"`)

	unhealthy := fiber.New()
	handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"database": func() error { return errors.New("connection refused") },
	}).RegisterRoutes(unhealthy)

	resp, body = doRequest(t, unhealthy, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), `"database":"connection refused"`)
}
