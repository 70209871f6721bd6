package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"
    "unicode/utf8"

    "github.com/labstack/echo/v4"

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/booking"
    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/repository"
    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/utils"
)

// AdminFinder looks admins up for login.
type AdminFinder interface {
    GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

// FacilityManager creates and removes facilities.  Delete also removes
// the facility's reservations and reports how many went with it.
type FacilityManager interface {
    Create(ctx context.Context, f *model.Facility) error
    Delete(ctx context.Context, id uint64) (int64, error)
}

// AdminHandler bundles dependencies for the admin endpoints.
type AdminHandler struct {
    JWTSecret    string
    AccessTTLMin int
    Admins       AdminFinder
    Facilities   FacilityManager
    Booking      *booking.Service

    // FacilitiesChanged runs after a facility is created or deleted.
    FacilitiesChanged func(ctx context.Context)
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(jwtSecret string, accessTTLMin int, admins AdminFinder, facilities FacilityManager, svc *booking.Service) *AdminHandler {
    if admins == nil || facilities == nil || svc == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{
        JWTSecret:    jwtSecret,
        AccessTTLMin: accessTTLMin,
        Admins:       admins,
        Facilities:   facilities,
        Booking:      svc,
    }
}

// ----- DTOs -----

type loginReq struct {
    Username string `json:"username" form:"username"`
    Password string `json:"password" form:"password"`
}

type loginResp struct {
    AccessToken string    `json:"access_token"`
    TokenType   string    `json:"token_type"`
    ExpiresAt   time.Time `json:"expires_at"`
}

type createFacilityReq struct {
    Name        string  `json:"name"`
    Type        string  `json:"type"`
    Capacity    *uint32 `json:"capacity"`
    Description *string `json:"description"`
    ImageURL    *string `json:"image_url"`
}

// Login verifies admin credentials and returns an access token.
func (h *AdminHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return badRequest(c, "username/password required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    a, err := h.Admins.GetByUsername(ctx, req.Username)
    switch {
    case errors.Is(err, repository.ErrAdminNotFound):
        utils.RejectPassword(req.Password)
        return invalidCredentials(c)
    case err != nil:
        c.Logger().Errorf("admin login: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed", "code": "storage_error"})
    }
    if !utils.VerifyPassword(a.PasswordHash, req.Password) {
        return invalidCredentials(c)
    }

    access, err := utils.NewAccessToken(h.JWTSecret, a.ID, model.RoleAdmin, h.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed", "code": "internal"})
    }
    return c.JSON(http.StatusOK, loginResp{AccessToken: access.Token, TokenType: "Bearer", ExpiresAt: access.Exp})
}

func invalidCredentials(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials", "code": "unauthorized"})
}

// CreateFacility registers a new facility.
func (h *AdminHandler) CreateFacility(c echo.Context) error {
    var req createFacilityReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    f := model.Facility{
        Name:        strings.TrimSpace(req.Name),
        Type:        strings.TrimSpace(req.Type),
        Capacity:    req.Capacity,
        Description: trimmedOrNil(req.Description),
        ImageURL:    trimmedOrNil(req.ImageURL),
    }
    switch {
    case f.Name == "" || f.Type == "":
        return badRequest(c, "name and type are required")
    case utf8.RuneCountInString(f.Name) > 100:
        return badRequest(c, "name must be at most 100 characters")
    case utf8.RuneCountInString(f.Type) > 50:
        return badRequest(c, "type must be at most 50 characters")
    case f.ImageURL != nil && utf8.RuneCountInString(*f.ImageURL) > 255:
        return badRequest(c, "image_url must be at most 255 characters")
    }

    if err := h.Facilities.Create(c.Request().Context(), &f); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "facility name already exists", "code": "conflict"})
        }
        c.Logger().Errorf("create facility: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error", "code": "storage_error"})
    }
    h.facilitiesChanged(c)
    return c.JSON(http.StatusCreated, f)
}

// DeleteFacility removes a facility and every reservation it has.
func (h *AdminHandler) DeleteFacility(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid facility id")
    }
    removed, err := h.Facilities.Delete(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrFacilityNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found", "code": "not_found"})
        }
        c.Logger().Errorf("delete facility %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage error", "code": "storage_error"})
    }
    h.facilitiesChanged(c)
    return c.JSON(http.StatusOK, echo.Map{"deleted": id, "reservations_removed": removed})
}

// ListFacilityReservations lists one day of a facility's reservations
// with full contact details.
func (h *AdminHandler) ListFacilityReservations(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid facility id")
    }
    date, err := dateQuery(c, h.Booking)
    if err != nil {
        return writeError(c, err)
    }
    rs, err := h.Booking.DayReservations(c.Request().Context(), id, date)
    if err != nil {
        return writeError(c, err)
    }
    loc := h.Booking.Location()
    items := make([]reservationView, 0, len(rs))
    for _, r := range rs {
        items = append(items, newReservationView(r, loc, false))
    }
    return c.JSON(http.StatusOK, echo.Map{
        "facility_id": id,
        "date":        date.Format(booking.DateLayout),
        "items":       items,
    })
}

func (h *AdminHandler) facilitiesChanged(c echo.Context) {
    if h.FacilitiesChanged != nil {
        h.FacilitiesChanged(c.Request().Context())
    }
}

func trimmedOrNil(s *string) *string {
    if s == nil {
        return nil
    }
    v := strings.TrimSpace(*s)
    if v == "" {
        return nil
    }
    return &v
}
