// Package handler exposes the HTTP handlers of the reservation API.
// This file serves the public facility listing and per-day
// availability.  No authentication is required.
package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/booking"
    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

// FacilityLister lists every facility.
type FacilityLister interface {
    List(ctx context.Context) ([]*model.Facility, error)
}

// PublicHandler serves read-only facility endpoints.
type PublicHandler struct {
    Facilities FacilityLister
    Booking    *booking.Service
}

// NewPublicHandler constructs a PublicHandler and panics if any dependency is nil.
func NewPublicHandler(facilities FacilityLister, svc *booking.Service) *PublicHandler {
    if facilities == nil || svc == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{Facilities: facilities, Booking: svc}
}

// availabilityResp is the body of GET /v1/facilities/:id/availability.
// Slots is keyed by hour; Items is the same data in display order.
type availabilityResp struct {
    FacilityID uint64                     `json:"facility_id"`
    Date       string                     `json:"date"`
    Reservable bool                       `json:"reservable"`
    Slots      map[int]booking.SlotStatus `json:"slots"`
    Items      []booking.Slot             `json:"items"`
}

// ListFacilities returns every facility under "items".
func (h *PublicHandler) ListFacilities(c echo.Context) error {
    items, err := h.Facilities.List(c.Request().Context())
    if err != nil {
        c.Logger().Errorf("list facilities: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error", "code": "storage_error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetFacility returns one facility.
func (h *PublicHandler) GetFacility(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid facility id")
    }
    f, err := h.Booking.Facility(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, f)
}

// GetAvailability returns the slot map of a facility for ?date=YYYY-MM-DD.
// Without a date the current day is shown, which is view only.
func (h *PublicHandler) GetAvailability(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid facility id")
    }
    date, err := dateQuery(c, h.Booking)
    if err != nil {
        return writeError(c, err)
    }
    a, err := h.Booking.Availability(c.Request().Context(), id, date)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, availabilityResp{
        FacilityID: a.FacilityID,
        Date:       a.Date.Format(booking.DateLayout),
        Reservable: a.Reservable,
        Slots:      a.Slots,
        Items:      a.Ordered(),
    })
}

// dateQuery reads ?date=, defaulting to today in the booking location.
func dateQuery(c echo.Context, svc *booking.Service) (time.Time, error) {
    raw := c.QueryParam("date")
    if raw == "" {
        return svc.Today(), nil
    }
    return svc.ParseDate(raw)
}
