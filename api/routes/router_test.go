package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	cartsvc "github.com/cartworks/storefront-backend/internal/cart"
	checkoutsvc "github.com/cartworks/storefront-backend/internal/checkout"
	ordersvc "github.com/cartworks/storefront-backend/internal/orders"
	productsvc "github.com/cartworks/storefront-backend/internal/products"
	pkgauth "github.com/cartworks/storefront-backend/pkg/auth"
	"github.com/cartworks/storefront-backend/pkg/config"
	"github.com/cartworks/storefront-backend/pkg/db/models"
	"github.com/cartworks/storefront-backend/pkg/logger"
	"github.com/cartworks/storefront-backend/pkg/pagination"
	"github.com/cartworks/storefront-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) ListProducts(ctx context.Context, query productsvc.ListQuery) (*productsvc.ProductList, error) {
	return &productsvc.ProductList{}, nil
}

func (stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return &models.Product{ID: id, Name: "Mug", IsActive: true}, nil
}

type stubCartService struct{}

func (stubCartService) AddItem(ctx context.Context, userID string, input cartsvc.AddItemInput) (*models.CartItem, error) {
	return &models.CartItem{ID: uuid.New(), UserID: userID, ProductID: input.ProductID, Quantity: input.Quantity}, nil
}

func (stubCartService) UpdateItem(ctx context.Context, userID string, lineID uuid.UUID, quantity int) (*models.CartItem, error) {
	return &models.CartItem{ID: lineID, UserID: userID, Quantity: quantity}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID string, lineID uuid.UUID) error {
	return nil
}

func (stubCartService) GetCart(ctx context.Context, userID string) (*cartsvc.CartView, error) {
	return &cartsvc.CartView{}, nil
}

func (stubCartService) CountItems(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) PlaceOrder(ctx context.Context, userID string, input checkoutsvc.PlaceOrderInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), UserID: userID}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: orderID, UserID: userID}, nil
}

func (stubOrdersService) ListOrders(ctx context.Context, userID string, params pagination.Params) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test", Port: "0"},
		JWT:     config.JWTConfig{Secret: "test-secret", Issuer: "identity.test"},
		Webhook: config.WebhookConfig{SigningSecret: "whsec_test"},
		RateLimit: config.RateLimitConfig{
			MutationWindow: time.Minute,
			MutationLimit:  60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       stubPinger{},
		Redis:    (*redis.Client)(nil),
		Products: stubProductService{},
		Cart:     stubCartService{},
		Checkout: stubCheckoutService{},
		Orders:   stubOrdersService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, subject string) string {
	t.Helper()
	token, err := pkgauth.MintToken(cfg.JWT, time.Now(), time.Hour, pkgauth.AccessTokenClaims{
		Email: "shopper@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestProductsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	list := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, list)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public product list got %d", resp.Code)
	}

	detail := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, detail)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public product detail got %d", resp.Code)
	}
}

func TestCartRequiresJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCartSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "auth0|shopper"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed cart got %d", resp.Code)
	}
}

func TestOrdersRequireJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "auth0|shopper"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}
}

func TestIdentityWebhookRejectsUnsignedDelivery(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/identity", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unsigned webhook got %d", resp.Code)
	}
}
