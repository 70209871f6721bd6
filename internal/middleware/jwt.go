package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/utils"
)

// Context keys set by JWTAuth.
const (
    CtxAdminID = "admin_id"
    CtxRole    = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the admin ID and role claims into the request context.  The
// provided secret must match the one used when issuing tokens.  Handlers
// read the values via c.Get(CtxAdminID) (uint64) and c.Get(CtxRole).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token", "code": "unauthorized"})
            }
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token", "code": "unauthorized"})
            }
            id, err := claims.AdminID()
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims", "code": "unauthorized"})
            }

            c.Set(CtxAdminID, id)
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}
