package app

import (
	"context"
	"errors"
	"fmt"

	"fleetshop/internal/config"
	"fleetshop/internal/handlers"
	"fleetshop/internal/metrics"
	"fleetshop/internal/middleware"
	"fleetshop/internal/models"
	"fleetshop/internal/repositories"
	"fleetshop/internal/services"
	"fleetshop/pkg/kafka"
	"fleetshop/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// OrderCreatedQueue is the queue the in-process order_created listener consumes.
const OrderCreatedQueue = "order_created_listener"

// App is the wired gateway: storage, event broker, services and HTTP server.
type App struct {
	Fiber   *fiber.App
	Gateway *services.GatewayService

	cfg     config.Config
	checks  map[string]handlers.HealthCheck
	closers []func() error
	logger  *log.Entry
}

// New builds the application from cfg. Collectors are registered with
// registry, or with the default registry when it is nil.
func New(cfg config.Config, registry *prometheus.Registry) (*App, error) {
	a := &App{
		cfg:    cfg,
		checks: make(map[string]handlers.HealthCheck),
		logger: log.WithField("component", "app"),
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if registry != nil {
		registerer, gatherer = registry, registry
	}
	m := metrics.NewWithRegisterer(registerer)

	orderRepo, productRepo, err := a.openStorage()
	if err != nil {
		return nil, err
	}

	publisher, err := a.openBroker()
	if err != nil {
		a.Close()
		return nil, err
	}

	productService := services.NewProductService(productRepo, nil)
	orderService := services.NewOrderService(orderRepo, publisher, m, nil)
	a.Gateway = services.NewGatewayService(orderService, productService, cfg.ProductImageRoot, nil)

	a.Fiber = fiber.New(fiber.Config{
		AppName:      "fleetshop",
		ErrorHandler: errorHandler,
	})
	a.Fiber.Use(recover.New())
	a.Fiber.Use(requestid.New())
	a.Fiber.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: log.StandardLogger().Out,
	}))
	a.Fiber.Use(middleware.RequestMetrics(m))

	handlers.NewHealthHandler(a.checks).RegisterRoutes(a.Fiber)
	a.Fiber.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	handlers.NewOrderHandler(a.Gateway).RegisterRoutes(a.Fiber)
	handlers.NewProductHandler(a.Gateway).RegisterRoutes(a.Fiber)

	return a, nil
}

func (a *App) openStorage() (repositories.OrderRepository, repositories.ProductRepository, error) {
	if a.cfg.DatabaseDriver == repositories.DriverMemory {
		a.logger.Warn("using in-memory storage, data will not survive a restart")
		return repositories.NewMemoryOrderRepository(), repositories.NewMemoryProductRepository(), nil
	}

	db, err := repositories.OpenDatabase(a.cfg.DatabaseDriver, a.cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	a.checks["storage"] = func() error { return repositories.Ping(db) }
	a.closers = append(a.closers, func() error { return repositories.Close(db) })
	a.logger.WithField("driver", a.cfg.DatabaseDriver).Info("database connected")

	return repositories.NewGORMOrderRepository(db), repositories.NewGORMProductRepository(db), nil
}

// openBroker returns the configured event publisher, or nil when events are disabled.
func (a *App) openBroker() (services.EventPublisher, error) {
	switch a.cfg.EventBroker {
	case config.BrokerAMQP:
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: a.cfg.RabbitMQURL, Exchange: a.cfg.RabbitMQExchange})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.checks["broker"] = client.Ping

		if err := client.Consume(OrderCreatedQueue, models.OrderCreatedTopic, orderCreatedListener(a.logger)); err != nil {
			return nil, fmt.Errorf("failed to start order_created listener: %w", err)
		}
		return client, nil

	case config.BrokerKafka:
		producer, err := kafka.NewProducer(a.cfg.KafkaBrokers)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, producer.Close)
		return producer, nil
	}

	a.logger.Info("event broker disabled, order events will be skipped")
	return nil, nil
}

// Listen serves HTTP on the configured port until Shutdown is called.
func (a *App) Listen() error {
	a.logger.WithField("port", a.cfg.AppPort).Info("starting server")
	return a.Fiber.Listen(a.cfg.AppPort)
}

// Shutdown stops the HTTP server and then releases broker and database resources.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Fiber != nil {
		if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down server: %w", err))
		}
	}
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// errorHandler renders errors that escaped the handlers, such as unmatched
// routes, in the same shape as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		code := "BAD_REQUEST"
		if fiberErr.Code == fiber.StatusNotFound {
			code = "NOT_FOUND"
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error":   code,
			"message": fiberErr.Message,
		})
	}

	log.WithField("component", "app").WithError(err).Error("unhandled request error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "UNEXPECTED_ERROR",
		"message": "Internal server error",
	})
}
