package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skillbridge/skillbridge-backend/api/controllers"
	"github.com/skillbridge/skillbridge-backend/api/middleware"
	"github.com/skillbridge/skillbridge-backend/internal/auth"
	"github.com/skillbridge/skillbridge-backend/internal/catalog"
	"github.com/skillbridge/skillbridge-backend/internal/notifications"
	"github.com/skillbridge/skillbridge-backend/internal/orders"
	"github.com/skillbridge/skillbridge-backend/internal/payments"
	"github.com/skillbridge/skillbridge-backend/internal/reviews"
	"github.com/skillbridge/skillbridge-backend/pkg/config"
	"github.com/skillbridge/skillbridge-backend/pkg/logger"
	"github.com/skillbridge/skillbridge-backend/pkg/metrics"
	"github.com/skillbridge/skillbridge-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	Redis   *redis.Client
	Pingers map[string]controllers.Pinger

	Metrics         *prometheus.Registry
	HTTPMetrics     *metrics.HTTPMetrics
	AuthService     auth.Service
	RegisterService auth.RegisterService
	Catalog         catalog.Service
	Orders          orders.Service
	Payments        payments.Service
	Notifications   notifications.Service
	Reviews         reviews.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.Payments.FrontendURL),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
	})

	// Public catalog and review reads.
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.ListCategories(deps.Catalog, logg))
	})
	r.Route("/api/v1/services", func(r chi.Router) {
		r.Get("/", controllers.ListServices(deps.Catalog, logg))
		r.Get("/{serviceId}", controllers.GetService(deps.Catalog, logg))
		r.Get("/{serviceId}/reviews", controllers.ListServiceReviews(deps.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/mine", controllers.MyServices(deps.Catalog, logg))
			r.Post("/", controllers.CreateService(deps.Catalog, logg))
			r.Patch("/{serviceId}", controllers.UpdateService(deps.Catalog, logg))
			r.Delete("/{serviceId}", controllers.DeleteService(deps.Catalog, logg))
			r.Post("/{serviceId}/images", controllers.AttachServiceImages(deps.Catalog, logg))
			r.Post("/{serviceId}/reviews", controllers.CreateReview(deps.Reviews, logg))
			r.Get("/{serviceId}/reviews/my-review", controllers.MyServiceReview(deps.Reviews, logg))
		})
	})

	// Payment callbacks are hit by the frontend after the hosted checkout
	// redirect, before any token refresh, so they stay public.
	r.Route("/api/v1/payment", func(r chi.Router) {
		r.Post("/success", controllers.PaymentSuccess(deps.Payments, logg))
		r.Post("/cancel", controllers.PaymentCanceled(logg))
		r.Post("/fail", controllers.PaymentFailed(logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/received", controllers.ListReceivedOrders(deps.Orders, logg))
			r.Get("/by-uuid/{orderUuid}", controllers.GetOrderByUUID(deps.Orders, logg))
			r.Patch("/{orderUuid}/update-status", controllers.UpdateOrderStatus(deps.Orders, logg))
			r.Get("/has-ordered/{serviceId}", controllers.HasOrderedService(deps.Orders, logg))
		})

		r.Post("/api/v1/create-checkout-session", controllers.CreateCheckoutSession(deps.Payments, logg))

		r.Route("/api/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})

		r.Get("/api/v1/reviews/reviewed", controllers.ReviewedServices(deps.Reviews, logg))

		r.Route("/api/v1/admin", func(r chi.Router) {
			r.Use(middleware.RequireStaff(logg))
			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
		})
	})

	return r
}
