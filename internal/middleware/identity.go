package middleware

// identity.go resolves who is calling, for rate limit keys.  Visitors
// are anonymous; only admins carry a token.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// callerID returns "admin-<id>" for an authenticated admin and "anon"
// otherwise.
func callerID(c echo.Context) string {
    if id, ok := c.Get(CtxAdminID).(uint64); ok && id > 0 {
        return "admin-" + strconv.FormatUint(id, 10)
    }
    return "anon"
}
