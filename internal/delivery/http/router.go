package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// RouterConfig bundles the dependencies needed to build the HTTP handler.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	AllowedOrigins []string

	Auth          *controllers.AuthController
	Events        *controllers.EventController
	Registrations *controllers.RegistrationController
	Payments      *controllers.PaymentController
}

// NewRouter initializes the HTTP handler with all application routes and the
// middleware chain (request id, logging, CORS).
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	student := middleware.RequireRole(domain.RoleStudent)
	admin := middleware.RequireRole(domain.RoleAdmin)

	// Auth
	mux.HandleFunc("POST /auth/signup", cfg.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)

	// Event catalog
	mux.HandleFunc("GET /events", cfg.Events.ListPublished)
	mux.HandleFunc("GET /events/{eventID}", cfg.Events.GetEvent)
	mux.HandleFunc("POST /events", requireAuth(admin(cfg.Events.CreateEvent)))
	mux.HandleFunc("PUT /events/{eventID}", requireAuth(admin(cfg.Events.UpdateEvent)))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(admin(cfg.Events.DeleteEvent)))

	// Registrations
	mux.HandleFunc("POST /registrations", requireAuth(student(cfg.Registrations.Register)))
	mux.HandleFunc("GET /registrations", requireAuth(cfg.Registrations.List))
	mux.HandleFunc("PATCH /registrations/{registrationID}", requireAuth(admin(cfg.Registrations.UpdatePayment)))

	// Payments
	mux.HandleFunc("POST /payments/order", requireAuth(student(cfg.Payments.CreateOrder)))
	mux.HandleFunc("POST /payments/verify", requireAuth(student(cfg.Payments.Verify)))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	handler = middleware.RequestID(handler)
	return handler
}
