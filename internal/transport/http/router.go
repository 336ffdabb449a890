package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/petnfc-api/internal/config"
	"github.com/petnfc-api/internal/domain"
	"github.com/petnfc-api/internal/pkg/metrics"
	"github.com/petnfc-api/internal/transport/http/handler"
	appmiddleware "github.com/petnfc-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(appmiddleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.Tokens)
	wsAuthMw := appmiddleware.AuthQuery(deps.Tokens, "token")

	// 5 requests/second, burst of 10, for account endpoints.
	authRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	// OTP issuance sends mail or SMS on every call.
	otpRL := appmiddleware.NewRateLimiter(rate.Limit(0.2), 3)
	scanRL := appmiddleware.NewRateLimiter(rate.Limit(1), 5)

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(deps.Users)
	geoH := handler.NewGeoHandler(deps.Geo)
	otpH := handler.NewOTPHandler(deps.OTP)
	notifH := handler.NewNotificationHandler(deps.Notifications)
	petH := handler.NewPetHandler(deps.Scans)
	wsH := handler.NewWSHandler(deps.Hub, cfg.AllowedOrigins)

	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(authRL.Limit).Post("/auth/register", userH.Register)
		r.With(authRL.Limit).Post("/auth/login", userH.Login)

		r.Get("/country", geoH.Countries)
		r.Get("/country/search/{name}", geoH.SearchCountries)
		r.Get("/country/{id}", geoH.Country)
		r.Get("/country/{code}/states", geoH.CountryStates)
		r.Get("/country/{code}/city", geoH.CountryCities)
		r.Get("/state", geoH.States)
		r.Get("/state/search/{name}", geoH.SearchStates)
		r.Get("/state/{id}", geoH.State)
		r.Get("/state/{code}/cities", geoH.StateCities)
		r.Get("/city", geoH.Cities)
		r.Get("/city/search/{name}", geoH.SearchCities)
		r.Get("/city/{id}", geoH.City)

		r.Get("/pet/{id}/check", petH.Check)
		r.With(scanRL.Limit).Post("/pet/{id}/scan", petH.Scan)

		r.With(wsAuthMw).Get("/ws/notifications", wsH.Notifications)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users/me", userH.Me)

			r.With(otpRL.Limit).Post("/send_otp", otpH.Send)
			r.With(authRL.Limit).Post("/verify_otp", otpH.Verify)
			r.Get("/reset_otp", otpH.Reset)
			r.Get("/get_remaining_time", otpH.RemainingTime)

			r.Get("/notifications", notifH.List)
			r.Get("/notifications/unread", notifH.ListUnread)
			r.Get("/notifications/unread/count", notifH.UnreadCount)
			r.Put("/notifications/read", notifH.MarkAllRead)
			r.Get("/notifications/{id}", notifH.Get)
			r.Put("/notifications/{id}", notifH.MarkAsRead)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/scans", petH.History)
			})
		})
	})

	return r
}
