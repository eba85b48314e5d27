package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/modumall/storefront-gateway/api/routes"
	"github.com/modumall/storefront-gateway/internal/cart"
	"github.com/modumall/storefront-gateway/internal/catalog"
	"github.com/modumall/storefront-gateway/internal/checkout"
	"github.com/modumall/storefront-gateway/internal/orders"
	"github.com/modumall/storefront-gateway/internal/payments"
	"github.com/modumall/storefront-gateway/pkg/backend"
	"github.com/modumall/storefront-gateway/pkg/config"
	"github.com/modumall/storefront-gateway/pkg/gateway"
	"github.com/modumall/storefront-gateway/pkg/logger"
	"github.com/modumall/storefront-gateway/pkg/metrics"
	"github.com/modumall/storefront-gateway/pkg/pricing"
	"github.com/modumall/storefront-gateway/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	backendClient, err := backend.NewClient(cfg.Backend)
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	gatewayClient, err := gateway.NewClient(cfg.Gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway client", err)
		os.Exit(1)
	}

	paymentMetrics := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)

	pricingRules := pricing.Rules{
		FreeShippingThreshold: cfg.Checkout.FreeShippingThreshold,
		StandardShippingFee:   cfg.Checkout.StandardShippingFee,
	}

	cartService, err := cart.NewService(backendClient, pricingRules)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(backendClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(backendClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	dispatcher, err := payments.NewDispatcher(backendClient, gatewayClient, logg, paymentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment dispatcher", err)
		os.Exit(1)
	}

	reconciler, err := payments.NewReconciler(backendClient, logg, paymentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment reconciler", err)
		os.Exit(1)
	}

	sessionStore, err := checkout.NewSessionStore(redisClient, cfg.Checkout.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:      cartService,
		Store:      sessionStore,
		Orders:     ordersService,
		Dispatcher: dispatcher,
		Reconciler: reconciler,
		Logger:     logg,
		SessionCfg: cfg.Session,
		AppBaseURL: cfg.App.BaseURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront gateway")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, gatewayClient, cartService, catalogService, checkoutService, ordersService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway server stopped unexpectedly", err)
		os.Exit(1)
	}
}
