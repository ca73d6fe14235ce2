package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skillbridge/skillbridge-backend/api/controllers"
	"github.com/skillbridge/skillbridge-backend/internal/auth"
	"github.com/skillbridge/skillbridge-backend/internal/catalog"
	"github.com/skillbridge/skillbridge-backend/internal/notifications"
	"github.com/skillbridge/skillbridge-backend/internal/orders"
	"github.com/skillbridge/skillbridge-backend/internal/payments"
	"github.com/skillbridge/skillbridge-backend/internal/reviews"
	"github.com/skillbridge/skillbridge-backend/internal/users"
	pkgauth "github.com/skillbridge/skillbridge-backend/pkg/auth"
	"github.com/skillbridge/skillbridge-backend/pkg/config"
	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	"github.com/skillbridge/skillbridge-backend/pkg/enums"
	"github.com/skillbridge/skillbridge-backend/pkg/logger"
	"github.com/skillbridge/skillbridge-backend/pkg/pagination"
	"gorm.io/gorm"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListCategories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	return nil, nil
}

func (stubCatalogService) ListServices(ctx context.Context, input catalog.ListServicesInput) (*catalog.ServiceListResult, error) {
	return &catalog.ServiceListResult{}, nil
}

func (stubCatalogService) GetService(ctx context.Context, id uuid.UUID) (*catalog.ServiceDTO, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubCatalogService) ListMyServices(ctx context.Context, sellerID uuid.UUID) ([]catalog.ServiceDTO, error) {
	return nil, nil
}

func (stubCatalogService) CreateService(ctx context.Context, sellerID uuid.UUID, input catalog.CreateServiceInput) (*catalog.ServiceDTO, error) {
	return &catalog.ServiceDTO{}, nil
}

func (stubCatalogService) UpdateService(ctx context.Context, sellerID, serviceID uuid.UUID, input catalog.UpdateServiceInput) (*catalog.ServiceDTO, error) {
	return &catalog.ServiceDTO{}, nil
}

func (stubCatalogService) DeleteService(ctx context.Context, sellerID, serviceID uuid.UUID) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, buyerID, serviceID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) ListMine(ctx context.Context, actor orders.Actor, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (stubOrdersService) ListReceived(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (stubOrdersService) GetByUUID(ctx context.Context, actor orders.Actor, orderUUID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, sellerID, orderUUID uuid.UUID, status enums.OrderStatus) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) HasOrdered(ctx context.Context, buyerID, serviceID uuid.UUID) (bool, error) {
	return false, nil
}

type stubPaymentsService struct{}

func (stubPaymentsService) CreateCheckoutSession(ctx context.Context, buyerID, orderUUID uuid.UUID) (*payments.CheckoutSessionDTO, error) {
	return &payments.CheckoutSessionDTO{SessionURL: "https://checkout.example/session"}, nil
}

func (stubPaymentsService) ConfirmPayment(ctx context.Context, orderUUID uuid.UUID) (*payments.ConfirmPaymentResult, error) {
	return &payments.ConfirmPaymentResult{}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) NotifySeller(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, orderID int64, message string) error {
	return nil
}

func (stubNotificationsService) OrderPaid(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	panic("unimplemented")
}

func (stubNotificationsService) OrderCompleted(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	panic("unimplemented")
}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubReviewsService struct{}

func (stubReviewsService) Create(ctx context.Context, buyerID uuid.UUID, input reviews.CreateReviewInput) (*reviews.ReviewDTO, error) {
	return &reviews.ReviewDTO{}, nil
}

func (stubReviewsService) ListByService(ctx context.Context, serviceID uuid.UUID, params pagination.Params) (*reviews.ReviewList, error) {
	return &reviews.ReviewList{}, nil
}

func (stubReviewsService) MyReview(ctx context.Context, buyerID, serviceID uuid.UUID) (*reviews.ReviewDTO, error) {
	return &reviews.ReviewDTO{}, nil
}

func (stubReviewsService) ReviewedServices(ctx context.Context, buyerID uuid.UUID) ([]reviews.ReviewedServiceDTO, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
		Payments: config.PaymentsConfig{FrontendURL: "http://localhost:3000"},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config: cfg,
		Logger: logg,
		Pingers: map[string]controllers.Pinger{
			"db":    stubPinger{},
			"redis": stubPinger{},
		},
		AuthService:     stubAuthService{},
		RegisterService: stubRegisterService{},
		Catalog:         stubCatalogService{},
		Orders:          stubOrdersService{},
		Payments:        stubPaymentsService{},
		Notifications:   stubNotificationsService{},
		Reviews:         stubReviewsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, isStaff bool) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:  uuid.New(),
		Email:   "router@test.dev",
		IsStaff: isStaff,
		JTI:     uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCatalogListIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/services/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestOrdersRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/v1/orders/", "/api/v1/notifications/", "/api/v1/reviews/reviewed"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s got %d", path, resp.Code)
		}
	}
}

func TestOrdersAcceptValidJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminOrdersRequireStaff(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonStaff := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	nonStaff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonStaff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-staff got %d", resp.Code)
	}

	staff := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, true))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff got %d", resp.Code)
	}
}

func TestPaymentCancelIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"order_uuid":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/cancel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
