package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/store"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBooking registers the booking lifecycle endpoints under /v1. All of
// them require a valid access token; the rate limiter is applied on top so a
// single client cannot flood the sagas with bookings.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, c *handler.CancellationHandler, r *handler.ReallocationHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	g.POST("/bookings", b.CreateBooking)
	g.POST("/bookings/accept", b.AcceptBooking)
	g.POST("/bookings/:id/cancel", c.CancelBooking)

	// Reallocation normally runs in-process after a cancellation; the
	// endpoint lets operators and staff tooling re-trigger it for a slot.
	g.POST("/reallocations", r.Reallocate, middleware.RequireRole("OWNER", "STAFF"))
}

// RegisterStore registers the reservation record store under /api. These are
// the same routes the sagas call through the reservation gateway client, so
// the service can host its own record store or point at a remote one. GET
// responses are served through the Redis response cache when available.
func RegisterStore(e *echo.Echo, h *store.Handler, rdb *redis.Client) {
	g := e.Group("/api")
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	g.GET("/reservations/:id", h.GetReservation, cache)
	g.GET("/reservations/user/:user_id", h.ListUserReservations, cache)
	g.POST("/reservations", h.CreateReservation)
	g.PATCH("/reservations/cancel/:id", h.CancelReservation)
	g.PATCH("/reservations/reallocate/:id", h.AssignReservation)
	g.PATCH("/reservations/reallocate_confirm/:id", h.ConfirmReservation)
	g.DELETE("/reservations/:id", h.DeleteReservation)
}
