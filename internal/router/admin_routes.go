package router

import (
	"github.com/labstack/echo/v4"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/handler"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/middleware"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

// RegisterAdmin registers admin endpoints under /v1/admin.  Login is
// open but rate limited; everything else requires a valid JWT with the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	e.POST("/v1/admin/login", a.Login, limit)

	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.POST("/facilities", a.CreateFacility)
	g.DELETE("/facilities/:id", a.DeleteFacility)
	g.GET("/facilities/:id/reservations", a.ListFacilityReservations)
}
