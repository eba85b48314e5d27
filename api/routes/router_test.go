package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modumall/storefront-gateway/internal/cart"
	catalogsvc "github.com/modumall/storefront-gateway/internal/catalog"
	checkoutsvc "github.com/modumall/storefront-gateway/internal/checkout"
	orderssvc "github.com/modumall/storefront-gateway/internal/orders"
	"github.com/modumall/storefront-gateway/pkg/backend"
	"github.com/modumall/storefront-gateway/pkg/config"
	"github.com/modumall/storefront-gateway/pkg/gateway"
	"github.com/modumall/storefront-gateway/pkg/logger"
	"github.com/modumall/storefront-gateway/pkg/redis"
)

type stubCartService struct{}

func (stubCartService) Snapshot(ctx context.Context, memberToken string) (*cart.Snapshot, error) {
	panic("unimplemented")
}

func (stubCartService) View(ctx context.Context, memberToken string) (*cart.Snapshot, error) {
	return &cart.Snapshot{Items: []backend.CartEntry{}}, nil
}

func (stubCartService) Addresses(ctx context.Context, memberToken string) ([]backend.Address, error) {
	return []backend.Address{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListProducts(ctx context.Context, category string) ([]backend.Product, error) {
	return []backend.Product{{ProductID: 1, Name: "머그컵", Price: 15000}}, nil
}

func (stubCatalogService) GetProduct(ctx context.Context, productID int64) (*backend.Product, error) {
	panic("unimplemented")
}

func (stubCatalogService) Wishlist(ctx context.Context, memberToken string) ([]backend.Product, error) {
	panic("unimplemented")
}

func (stubCatalogService) AddToWishlist(ctx context.Context, memberToken string, productID int64) error {
	panic("unimplemented")
}

func (stubCatalogService) RemoveFromWishlist(ctx context.Context, memberToken string, productID int64) error {
	panic("unimplemented")
}

func (stubCatalogService) ListReviews(ctx context.Context, productID int64) ([]backend.Review, error) {
	panic("unimplemented")
}

func (stubCatalogService) SubmitReview(ctx context.Context, memberToken string, draft catalogsvc.ReviewDraft) (*backend.Review, error) {
	panic("unimplemented")
}

type stubCheckoutService struct{}

func (stubCheckoutService) Start(ctx context.Context, memberToken string) (*checkoutsvc.Session, error) {
	panic("unimplemented")
}

func (stubCheckoutService) Get(ctx context.Context, sessionID string) (*checkoutsvc.Session, error) {
	panic("unimplemented")
}

func (stubCheckoutService) SelectAddress(ctx context.Context, sessionID string, addressID int64) (*checkoutsvc.Session, error) {
	panic("unimplemented")
}

func (stubCheckoutService) SelectPaymentType(ctx context.Context, sessionID, paymentType string) (*checkoutsvc.Session, error) {
	panic("unimplemented")
}

func (stubCheckoutService) SelectPaymentMethod(ctx context.Context, sessionID string, methodID int64) (*checkoutsvc.Session, error) {
	panic("unimplemented")
}

func (stubCheckoutService) SetPoints(ctx context.Context, sessionID string, points int64) (*checkoutsvc.Session, error) {
	panic("unimplemented")
}

func (stubCheckoutService) Submit(ctx context.Context, sessionID string) (*checkoutsvc.SubmitResult, error) {
	panic("unimplemented")
}

func (stubCheckoutService) HandleSuccessReturn(ctx context.Context, token string, orderID int64, paymentKey string, amount int64) (*checkoutsvc.ReturnResult, error) {
	panic("unimplemented")
}

func (stubCheckoutService) HandleFailReturn(ctx context.Context, token, code, message string) (*checkoutsvc.ReturnResult, error) {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) Submit(ctx context.Context, memberToken string, draft orderssvc.Draft) (*backend.Order, error) {
	panic("unimplemented")
}

func (stubOrdersService) List(ctx context.Context, memberToken string) ([]backend.Order, error) {
	return []backend.Order{}, nil
}

func (stubOrdersService) Get(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error) {
	panic("unimplemented")
}

func (stubOrdersService) Cancel(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error) {
	panic("unimplemented")
}

func (stubOrdersService) ConfirmPurchase(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error) {
	panic("unimplemented")
}

// countingCheckoutService tracks submits so routing tests can assert whether
// the handler behind the idempotency layer was reached.
type countingCheckoutService struct {
	stubCheckoutService
	submits int
}

func (c *countingCheckoutService) Submit(ctx context.Context, sessionID string) (*checkoutsvc.SubmitResult, error) {
	c.submits++
	return &checkoutsvc.SubmitResult{}, nil
}

func testRouter(t *testing.T) http.Handler {
	return testRouterWith(t, stubCheckoutService{})
}

func testRouterWith(t *testing.T, checkoutService checkoutsvc.Service) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.BaseURL = "http://mall.test"

	gatewayClient, err := gateway.NewClient(config.GatewayConfig{
		BaseURL:   "http://pg.test",
		ClientKey: "ck-test",
		SecretKey: "sk-test",
	})
	if err != nil {
		t.Fatalf("gateway client: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		(*redis.Client)(nil),
		gatewayClient,
		stubCartService{},
		stubCatalogService{},
		checkoutService,
		stubOrdersService{},
	)
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Mall-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestRouterRequiresMemberAuth(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterAuthedCartRoute(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer member-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterPublicCatalogRoute(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []backend.Product `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Name != "머그컵" {
		t.Fatalf("unexpected products %+v", envelope.Data)
	}
}

func TestRouterPaymentConfigIsPublic(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/config", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["client_key"] != "ck-test" {
		t.Fatalf("unexpected config %+v", envelope.Data)
	}
}

func TestRouterSubmitRequiresIdempotencyKey(t *testing.T) {
	svc := &countingCheckoutService{}
	router := testRouterWith(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/sess-1/submit", nil)
	req.Header.Set("Authorization", "Bearer member-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.submits != 0 {
		t.Fatalf("submit reached the service without an idempotency key")
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
