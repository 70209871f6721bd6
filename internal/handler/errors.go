package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/booking"
)

// errorCodes maps booking failures to HTTP status and a machine code.
// Order matters: the first match wins.
var errorCodes = []struct {
    err    error
    status int
    code   string
}{
    {booking.ErrStorage, http.StatusInternalServerError, "storage_error"},
    {booking.ErrNotFound, http.StatusNotFound, "not_found"},
    {booking.ErrSlotConflict, http.StatusConflict, "slot_conflict"},
    {booking.ErrDateNotReservable, http.StatusUnprocessableEntity, "date_not_reservable"},
    {booking.ErrNoSlotSelected, http.StatusBadRequest, "no_slot_selected"},
    {booking.ErrNonContiguousSlots, http.StatusBadRequest, "non_contiguous_slots"},
    {booking.ErrConsentRequired, http.StatusBadRequest, "consent_required"},
    {booking.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
}

// writeError renders err as {"error", "code"}.  Storage failures are
// logged and reported without driver details.
func writeError(c echo.Context, err error) error {
    for _, e := range errorCodes {
        if !errors.Is(err, e.err) {
            continue
        }
        msg := err.Error()
        if e.status >= http.StatusInternalServerError {
            c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
            msg = "storage error"
        }
        return c.JSON(e.status, echo.Map{"error": msg, "code": e.code})
    }
    c.Logger().Errorf("%s %s: unexpected error: %v", c.Request().Method, c.Path(), err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error", "code": "internal"})
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": "invalid_request"})
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}
