package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modumall/storefront-gateway/api/controllers"
	"github.com/modumall/storefront-gateway/api/middleware"
	"github.com/modumall/storefront-gateway/internal/cart"
	catalogsvc "github.com/modumall/storefront-gateway/internal/catalog"
	checkoutsvc "github.com/modumall/storefront-gateway/internal/checkout"
	orderssvc "github.com/modumall/storefront-gateway/internal/orders"
	"github.com/modumall/storefront-gateway/pkg/config"
	"github.com/modumall/storefront-gateway/pkg/gateway"
	"github.com/modumall/storefront-gateway/pkg/logger"
	"github.com/modumall/storefront-gateway/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	gatewayClient *gateway.Client,
	cartService cart.Service,
	catalogService catalogsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService orderssvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Catalog browsing is public; the backend serves the same data to
	// anonymous shoppers.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(catalogService, logg))
		r.Get("/{productID}", controllers.GetProduct(catalogService, logg))
		r.Get("/{productID}/reviews", controllers.ListReviews(catalogService, logg))
	})

	// Gateway return routes authenticate with the signed session token in
	// the query, not a member credential: the redirect comes from the
	// shopper's browser after leaving the payment page.
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Get("/config", controllers.PaymentConfig(gatewayClient))
		r.Get("/success", controllers.PaymentSuccessReturn(checkoutService, logg))
		r.Get("/fail", controllers.PaymentFailReturn(checkoutService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.MemberAuth(logg))
		r.Use(middleware.Idempotency(redisClient, logg, cfg.Checkout.IdempotencyTTL))

		r.Get("/cart", controllers.ViewCart(cartService, logg))
		r.Get("/addresses", controllers.ListAddresses(cartService, logg))

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.ListWishlist(catalogService, logg))
			r.Post("/", controllers.AddWishlistItem(catalogService, logg))
			r.Delete("/{productID}", controllers.RemoveWishlistItem(catalogService, logg))
		})
		r.Post("/reviews", controllers.CreateReview(catalogService, logg))

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.StartCheckout(checkoutService, logg))
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", controllers.GetCheckout(checkoutService, logg))
				r.Put("/address", controllers.SelectAddress(checkoutService, logg))
				r.Put("/payment-type", controllers.SelectPaymentType(checkoutService, logg))
				r.Put("/payment-method", controllers.SelectPaymentMethod(checkoutService, logg))
				r.Put("/points", controllers.SetPoints(checkoutService, logg))
				r.Post("/submit", controllers.SubmitCheckout(checkoutService, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(ordersService, logg))
			r.Get("/{orderID}", controllers.GetOrder(ordersService, logg))
			r.Post("/{orderID}/cancel", controllers.CancelOrder(ordersService, logg))
			r.Post("/{orderID}/confirm", controllers.ConfirmOrder(ordersService, logg))
		})
	})

	return r
}
