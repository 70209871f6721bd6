package router

import (
	"github.com/labstack/echo/v4"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/handler"
)

// RegisterPublic registers the visitor endpoints under /v1.  cache wraps
// the facility reads; limit wraps the reservation submit.  Availability
// is never cached so it always reflects committed reservations.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, r *handler.ReservationHandler, cache, limit echo.MiddlewareFunc) {
	g := e.Group("/v1")

	// ---- Facilities ----
	g.GET("/facilities", p.ListFacilities, cache)
	g.GET("/facilities/:id", p.GetFacility, cache)
	g.GET("/facilities/:id/availability", p.GetAvailability)

	// ---- Reservations ----
	g.POST("/facilities/:id/reservations", r.CreateReservation, limit)
	g.GET("/reservations/:id", r.GetReservation)
}
