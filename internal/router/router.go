package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/handler"
)

// RegisterRoutes registers routes that do not belong to the versioned
// API.  Currently it exposes only a health check backed by db.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}
