package store

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Handler exposes the Reservation Store over HTTP with the
// {code, message, data} envelope the collaborator gateway consumes.
type Handler struct {
	Repo *ReservationRepo
}

// NewHandler constructs a Handler. The repository must be non-nil.
func NewHandler(repo *ReservationRepo) *Handler {
	if repo == nil {
		panic("nil repository passed to store.NewHandler")
	}
	return &Handler{Repo: repo}
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"code": status, "data": data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"code": status, "message": msg})
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// GetReservation handles GET /api/reservations/:id.
func (h *Handler) GetReservation(c echo.Context) error {
	id, okID := pathID(c)
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid reservation id")
	}
	slot, err := h.Repo.Get(c.Request().Context(), id)
	if err == ErrSlotNotFound {
		return fail(c, http.StatusNotFound, "Reservation not found.")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return ok(c, http.StatusOK, slot)
}

// ListUserReservations handles GET /api/reservations/user/:user_id.
func (h *Handler) ListUserReservations(c echo.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	slots, err := h.Repo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	if len(slots) == 0 {
		return fail(c, http.StatusNotFound, "No reservations found.")
	}
	return ok(c, http.StatusOK, echo.Map{"reservations": slots})
}

// CreateReservation handles POST /api/reservations. The store picks a
// random free table unless table_no is pre-assigned.
func (h *Handler) CreateReservation(c echo.Context) error {
	var body struct {
		RestaurantID int64   `json:"restaurant_id"`
		UserID       string  `json:"user_id"`
		Count        int64   `json:"count"`
		Price        float64 `json:"price"`
		Time         string  `json:"time"`
		OrderID      *int64  `json:"order_id"`
		PaymentID    *string `json:"payment_id"`
		TableNo      *int64  `json:"table_no"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if body.RestaurantID == 0 {
		return fail(c, http.StatusBadRequest, "Missing required field: restaurant_id")
	}
	if body.UserID == "" {
		return fail(c, http.StatusBadRequest, "Missing required field: user_id")
	}
	if body.Count <= 0 {
		return fail(c, http.StatusBadRequest, "Missing required field: count")
	}

	bookedAt := time.Now().UTC()
	if body.Time != "" {
		t, err := time.Parse(time.RFC3339, body.Time)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid time, want RFC3339")
		}
		bookedAt = t.UTC()
	}

	slot, err := h.Repo.Create(c.Request().Context(), CreateParams{
		RestaurantID: body.RestaurantID,
		UserID:       body.UserID,
		Count:        body.Count,
		Price:        body.Price,
		Time:         bookedAt,
		OrderID:      body.OrderID,
		PaymentID:    body.PaymentID,
		TableNo:      body.TableNo,
	})
	if err == ErrNoFreeTable {
		return fail(c, http.StatusConflict, "no free table at this restaurant")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return ok(c, http.StatusCreated, slot)
}

// CancelReservation handles PATCH /api/reservations/cancel/:id. The
// response body is the pre-cancellation occupancy snapshot.
func (h *Handler) CancelReservation(c echo.Context) error {
	id, okID := pathID(c)
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid reservation id")
	}
	pre, err := h.Repo.Cancel(c.Request().Context(), id)
	if err == ErrSlotNotFound {
		return fail(c, http.StatusNotFound, "Reservation not found.")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return ok(c, http.StatusOK, pre)
}

// AssignReservation handles PATCH /api/reservations/reallocate/:id.
func (h *Handler) AssignReservation(c echo.Context) error {
	id, okID := pathID(c)
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid reservation id")
	}
	var body struct {
		UserID    string  `json:"user_id"`
		Status    string  `json:"status"`
		OrderID   *int64  `json:"order_id"`
		PaymentID *string `json:"payment_id"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if body.UserID == "" {
		return fail(c, http.StatusBadRequest, "Missing required field: user_id")
	}
	if body.Status != "" && body.Status != model.StatusPending {
		return fail(c, http.StatusBadRequest, "reallocate only assigns PENDING")
	}
	slot, err := h.Repo.Assign(c.Request().Context(), id, body.UserID, body.OrderID, body.PaymentID)
	if err == ErrSlotNotFound {
		return fail(c, http.StatusNotFound, "Reservation not found.")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return ok(c, http.StatusOK, slot)
}

// ConfirmReservation handles PATCH /api/reservations/reallocate_confirm/:id,
// finalising a PENDING slot as BOOKED under a new reservation id.
func (h *Handler) ConfirmReservation(c echo.Context) error {
	id, okID := pathID(c)
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid reservation id")
	}
	var body struct {
		NewReservationID int64   `json:"new_reservation_id"`
		Count            int64   `json:"count"`
		Price            float64 `json:"price"`
		OrderID          *int64  `json:"order_id"`
		PaymentID        *string `json:"payment_id"`
		BookingTime      *string `json:"booking_time"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if body.NewReservationID == 0 {
		return fail(c, http.StatusBadRequest, "Missing required field: new_reservation_id")
	}

	var bookedAt *time.Time
	if body.BookingTime != nil && *body.BookingTime != "" {
		t, err := time.Parse(time.RFC3339, *body.BookingTime)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid booking_time, want RFC3339")
		}
		u := t.UTC()
		bookedAt = &u
	}

	slot, err := h.Repo.Confirm(c.Request().Context(), id, ConfirmParams{
		NewReservationID: body.NewReservationID,
		Count:            body.Count,
		Price:            body.Price,
		OrderID:          body.OrderID,
		PaymentID:        body.PaymentID,
		BookingTime:      bookedAt,
	})
	if err == ErrSlotNotFound {
		return fail(c, http.StatusNotFound, "Reservation not found.")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return ok(c, http.StatusOK, slot)
}

// DeleteReservation handles DELETE /api/reservations/:id.
func (h *Handler) DeleteReservation(c echo.Context) error {
	id, okID := pathID(c)
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid reservation id")
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if err == ErrSlotNotFound {
			return fail(c, http.StatusNotFound, "Reservation not found.")
		}
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return c.NoContent(http.StatusNoContent)
}
