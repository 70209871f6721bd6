package handler

import (
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/booking"
    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
)

// ReservationHandler accepts reservation forms and shows confirmations.
type ReservationHandler struct {
    Booking *booking.Service
}

// NewReservationHandler constructs a ReservationHandler and panics if svc is nil.
func NewReservationHandler(svc *booking.Service) *ReservationHandler {
    if svc == nil {
        panic("nil service passed to NewReservationHandler")
    }
    return &ReservationHandler{Booking: svc}
}

type createReservationResp struct {
    ReservationID uint64    `json:"reservation_id"`
    FacilityID    uint64    `json:"facility_id"`
    Status        string    `json:"status"`
    Date          string    `json:"date"`
    StartTime     time.Time `json:"start_time"`
    EndTime       time.Time `json:"end_time"`
}

// reservationView is a reservation rendered in the booking location.
type reservationView struct {
    ID                 uint64         `json:"id"`
    FacilityID         uint64         `json:"facility_id"`
    ApplicantName      string         `json:"applicant_name"`
    ApplicantContact   string         `json:"applicant_contact"`
    ApplicantSchool    *string        `json:"applicant_school,omitempty"`
    ApplicantClub      *string        `json:"applicant_club,omitempty"`
    ActivityDetails    *string        `json:"activity_details,omitempty"`
    Status             string         `json:"status"`
    Date               string         `json:"date"`
    StartTime          time.Time      `json:"start_time"`
    EndTime            time.Time      `json:"end_time"`
    Slots              []string       `json:"slots"`
    ParticipantInfo    map[string]int `json:"participant_info"`
    RequestedEquipment []string       `json:"requested_equipment"`
    CreatedAt          time.Time      `json:"created_at"`
}

func newReservationView(r model.Reservation, loc *time.Location, maskContact bool) reservationView {
    start, end := r.StartTime.In(loc), r.EndTime.In(loc)
    slots := make([]string, 0, end.Hour()-start.Hour())
    for h := start.Hour(); h < end.Hour(); h++ {
        slots = append(slots, booking.SlotLabel(h))
    }
    contact := r.ApplicantContact
    if maskContact {
        contact = mask(contact)
    }
    return reservationView{
        ID:                 r.ID,
        FacilityID:         r.FacilityID,
        ApplicantName:      r.ApplicantName,
        ApplicantContact:   contact,
        ApplicantSchool:    r.ApplicantSchool,
        ApplicantClub:      r.ApplicantClub,
        ActivityDetails:    r.ActivityDetails,
        Status:             r.Status,
        Date:               start.Format(booking.DateLayout),
        StartTime:          start,
        EndTime:            end,
        Slots:              slots,
        ParticipantInfo:    r.ParticipantInfo,
        RequestedEquipment: r.RequestedEquipment,
        CreatedAt:          r.CreatedAt.In(loc),
    }
}

// mask keeps the last four characters of a contact.
func mask(s string) string {
    rs := []rune(s)
    if len(rs) <= 4 {
        return strings.Repeat("*", len(rs))
    }
    return strings.Repeat("*", len(rs)-4) + string(rs[len(rs)-4:])
}

// CreateReservation validates and commits a reservation for the facility
// in the path.  The body is JSON or an HTML form.  Form clients send
// repeated "slots" and "requested_equipment" values and participant
// counts as "participant_info[label]" or "participant_info.label".
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid facility id")
    }
    var req booking.Request
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    req.FacilityID = id
    if isForm(c) {
        counts, err := formParticipants(c)
        if err != nil {
            return badRequest(c, err.Error())
        }
        if len(counts) > 0 {
            req.ParticipantInfo = counts
        }
    }

    res, err := h.Booking.Reserve(c.Request().Context(), req)
    if err != nil {
        return writeError(c, err)
    }
    loc := h.Booking.Location()
    return c.JSON(http.StatusCreated, createReservationResp{
        ReservationID: res.ID,
        FacilityID:    res.FacilityID,
        Status:        res.Status,
        Date:          res.StartTime.In(loc).Format(booking.DateLayout),
        StartTime:     res.StartTime.In(loc),
        EndTime:       res.EndTime.In(loc),
    })
}

// GetReservation shows a committed reservation for confirmation.  The
// applicant's contact is masked.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid reservation id")
    }
    r, err := h.Booking.Reservation(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, newReservationView(*r, h.Booking.Location(), true))
}

func isForm(c echo.Context) bool {
    ct := c.Request().Header.Get(echo.HeaderContentType)
    return strings.HasPrefix(ct, echo.MIMEApplicationForm) || strings.HasPrefix(ct, echo.MIMEMultipartForm)
}

// formParticipants collects participant_info[label]=n and
// participant_info.label=n form fields.  Empty values are skipped.
func formParticipants(c echo.Context) (map[string]int, error) {
    params, err := c.FormParams()
    if err != nil {
        return nil, err
    }
    out := map[string]int{}
    for key, vals := range params {
        label, ok := participantLabel(key)
        if !ok || len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
            continue
        }
        n, err := strconv.Atoi(strings.TrimSpace(vals[0]))
        if err != nil {
            return nil, fmt.Errorf("participant count for %q must be a number", label)
        }
        out[label] += n
    }
    return out, nil
}

func participantLabel(key string) (string, bool) {
    const prefix = "participant_info"
    if !strings.HasPrefix(key, prefix) {
        return "", false
    }
    rest := key[len(prefix):]
    switch {
    case strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]"):
        rest = rest[1 : len(rest)-1]
    case strings.HasPrefix(rest, "."):
        rest = rest[1:]
    default:
        return "", false
    }
    return rest, rest != ""
}
