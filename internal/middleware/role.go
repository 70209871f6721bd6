package middleware

import (
    "net/http"
    "slices"

    "github.com/labstack/echo/v4"
)

// RequireRole lets a request through only when the role stored by
// JWTAuth under CtxRole is one of roles.  Anything else gets 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, _ := c.Get(CtxRole).(string)
            if role == "" || !slices.Contains(roles, role) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "code": "forbidden"})
            }
            return next(c)
        }
    }
}
