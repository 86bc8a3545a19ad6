// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Health       echo.HandlerFunc
	Settings     *handler.SettingsHandler
	Rooms        *handler.RoomHandler
	Reservations *handler.ReservationHandler
	Status       *handler.StatusHandler
}

// Options configures the protected groups.
type Options struct {
	JWTSecret string
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
}

// RegisterRoutes mounts the health check and every /v1 route.  Reads need
// the STAFF or MANAGER role; settings changes and room configuration need
// MANAGER.  Every mutating route goes through the rate limiter.
func RegisterRoutes(e *echo.Echo, h Handlers, opt Options) {
	e.GET("/healthz", h.Health)

	limit := middleware.RateLimit(opt.RateLimit, opt.Redis)
	v1 := e.Group("/v1", middleware.JWTAuth(opt.JWTSecret))
	staff := v1.Group("", middleware.Staff())
	manager := v1.Group("", middleware.Manager(), limit)

	staff.GET("/settings/availability", h.Settings.Get)
	manager.PATCH("/settings/availability", h.Settings.Patch)

	staff.GET("/rooms", h.Rooms.List)
	manager.POST("/rooms", h.Rooms.Create)
	staff.GET("/rooms/status", h.Status.All)
	staff.GET("/rooms/:id", h.Rooms.Get)
	manager.PATCH("/rooms/:id", h.Rooms.Patch)
	staff.PUT("/rooms/:id/operational-status", h.Rooms.SetOperationalStatus, limit)
	staff.GET("/rooms/:id/status", h.Status.Room)
	staff.GET("/rooms/:id/reservations", h.Reservations.ListByRoom)
	staff.GET("/rooms/:id/quote", h.Reservations.Quote)

	staff.POST("/reservations", h.Reservations.Create, limit)
	staff.GET("/reservations/:id", h.Reservations.Get)
	staff.PATCH("/reservations/:id", h.Reservations.Update, limit)
	staff.DELETE("/reservations/:id", h.Reservations.Cancel, limit)
}
