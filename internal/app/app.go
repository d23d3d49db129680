package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/e2ecommerce/server/internal/module/address"
	"github.com/e2ecommerce/server/internal/module/cart"
	"github.com/e2ecommerce/server/internal/module/catalog"
	"github.com/e2ecommerce/server/internal/module/logistics"
	"github.com/e2ecommerce/server/internal/module/order"
	"github.com/e2ecommerce/server/internal/module/payment"
	"github.com/e2ecommerce/server/internal/module/payment/gateway"
	"github.com/e2ecommerce/server/internal/module/user"
	sharedcache "github.com/e2ecommerce/server/internal/shared/cache"
	"github.com/e2ecommerce/server/internal/shared/config"
	"github.com/e2ecommerce/server/internal/shared/database"
	"github.com/e2ecommerce/server/internal/shared/events"
	"github.com/e2ecommerce/server/internal/shared/logger"
	"github.com/e2ecommerce/server/internal/utils/metrics"
	"github.com/e2ecommerce/server/internal/utils/middleware"
)

// LoadConfig loads the application configuration.
func LoadConfig() (*config.Config, error) {
	return config.Load()
}

// App wires the modules together and owns the shared infrastructure.
type App struct {
	config  *config.Config
	db      *gorm.DB
	redis   redis.UniversalClient
	router  *gin.Engine
	logger  *zap.Logger
	bus     *events.Bus
	metrics *metrics.Metrics

	userHandler      *user.Handler
	catalogHandler   *catalog.Handler
	addressHandler   *address.Handler
	cartHandler      *cart.Handler
	orderHandler     *order.Handler
	paymentHandler   *payment.Handler
	logisticsHandler *logistics.Handler

	tokens *user.JWTManager
}

// New builds the application from config.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &App{
		config:  cfg,
		logger:  log,
		bus:     events.NewBus(log),
		metrics: metrics.New("e2ecommerce"),
		tokens:  user.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry),
	}

	memoryMode := cfg.Database.Driver == "memory"

	var (
		userRepo      user.Repository
		catalogRepo   catalog.Repository
		addressRepo   address.Repository
		orderRepo     order.Repository
		paymentRepo   payment.Repository
		logisticsRepo logistics.Repository
		cartStore     cart.Store
	)

	if memoryMode {
		log.Info("using in-memory stores")
		catalogMem := catalog.NewMemoryRepository()
		userRepo = user.NewMemoryRepository()
		catalogRepo = catalogMem
		addressRepo = address.NewMemoryRepository()
		orderRepo = order.NewMemoryRepository(catalogMem)
		paymentRepo = payment.NewMemoryRepository()
		logisticsRepo = logistics.NewMemoryRepository()
		cartStore = cart.NewMemoryStore()
	} else {
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		a.db = db

		redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = redisClient

		userRepo = user.NewRepository(db)
		catalogRepo = catalog.NewRepository(db)
		addressRepo = address.NewRepository(db)
		orderRepo = order.NewRepository(db)
		paymentRepo = payment.NewRepository(db)
		logisticsRepo = logistics.NewRepository(db)
		cartStore = cart.NewRedisStore(redisClient, cfg.Redis.CartTTL)
	}

	freight := logistics.FeePolicy{
		FreeThreshold: cfg.Shipping.FreeThreshold,
		FlatFee:       cfg.Shipping.FlatFee,
	}

	var gw gateway.Gateway
	switch cfg.Payment.Gateway {
	case "stripe":
		gw = gateway.NewStripe(cfg.Payment.StripeAPIKey, log)
	default:
		gw = gateway.NewMock()
	}
	gw = gateway.NewWithBreaker(gw)

	// Services
	userService := user.NewService(userRepo, a.tokens, log)
	catalogService := catalog.NewService(catalogRepo, log)
	addressService := address.NewService(addressRepo, log)
	cartService := cart.NewService(cartStore, catalogRepo, freight, log)
	orderService := order.NewService(orderRepo, catalogRepo, addressRepo, freight, a.bus, a.metrics, log)
	logisticsService := logistics.NewService(logisticsRepo, freight, cfg.Shipping.TrackingPrefix, a.bus, a.metrics, log)
	paymentService := payment.NewService(paymentRepo, orderRepo, gw, payment.Config{
		PixKey:          cfg.Payment.PixKey,
		PixExpiry:       cfg.Payment.PixExpiry,
		MonthlyRate:     cfg.Payment.MonthlyInterestRate,
		MaxInstallments: cfg.Payment.MaxInstallments,
	}, a.bus, a.metrics, log)

	// Cross-module event wiring. Payment approval marks the order paid,
	// which in turn opens the shipment; shipment progress flows back into
	// the order; order cancellation voids pending payments.
	a.bus.Register(order.NewEventHandler(orderService))
	a.bus.Register(logistics.NewEventHandler(logisticsService))
	a.bus.Register(payment.NewEventHandler(paymentService))

	// Handlers
	a.userHandler = user.NewHandler(userService)
	a.catalogHandler = catalog.NewHandler(catalogService)
	a.addressHandler = address.NewHandler(addressService)
	a.cartHandler = cart.NewHandler(cartService)
	a.orderHandler = order.NewHandler(orderService)
	a.paymentHandler = payment.NewHandler(paymentService)
	a.logisticsHandler = logistics.NewHandler(logisticsService)

	a.setupRouter()
	return a, nil
}

// migrate creates or updates the schema.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&catalog.Product{},
		&address.Address{},
		&order.Order{},
		&order.Item{},
		&payment.Payment{},
		&logistics.Record{},
		&logistics.HistoryEntry{},
	)
}

// setupRouter builds the HTTP surface.
func (a *App) setupRouter() {
	if a.config.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logging(a.logger),
		middleware.Recovery(a.logger),
		middleware.Metrics(a.metrics),
		middleware.CORS(middleware.DefaultCORSConfig()),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		a.metrics.Registry,
		promhttp.HandlerOpts{},
	)))

	v1 := router.Group("/api/v1")

	// Public surface: auth and catalog browsing.
	a.userHandler.RegisterRoutes(v1)

	// Authenticated surface.
	authed := v1.Group("")
	authed.Use(middleware.RequireAuth(a.tokens))

	// Supplier surface.
	suppliers := v1.Group("")
	suppliers.Use(
		middleware.RequireAuth(a.tokens),
		middleware.RequireRoles(user.RoleSupplier, user.RoleOperator, user.RoleAdmin),
	)
	a.catalogHandler.RegisterRoutes(v1, suppliers)

	// Operator surface.
	ops := v1.Group("")
	ops.Use(
		middleware.RequireAuth(a.tokens),
		middleware.RequireRoles(user.RoleOperator, user.RoleAdmin),
	)

	a.addressHandler.RegisterRoutes(authed)
	a.cartHandler.RegisterRoutes(authed)
	a.orderHandler.RegisterRoutes(authed, ops)
	a.paymentHandler.RegisterRoutes(authed, ops)
	a.logisticsHandler.RegisterRoutes(authed, ops)

	a.router = router
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases the shared infrastructure.
func (a *App) Stop() {
	if a.redis != nil {
		if err := sharedcache.Close(a.redis); err != nil {
			a.logger.Error("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Error("close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
